package store

// Profile is a client/billing entity. It owns projects, time entries,
// attached services and todos.
type Profile struct {
	ID            int64
	Name          string
	Color         string
	Archived      bool
	TargetSeconds *int64
	Company       string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Notes         string
}

// Project is a bounded unit of work under a profile, optionally linked to a
// service from the catalog.
type Project struct {
	ID               int64
	ProfileID        int64
	Name             string
	EstimatedSeconds *int64
	ServiceID        *int64
	DeadlineTS       *int64
	StartTS          *int64
	InvoiceSent      bool
	InvoicePaid      bool
	Notes            string
}

// Service is a catalog entry for a billable unit of work. Rates are integer
// cents, never floating point.
type Service struct {
	ID               int64
	Name             string
	RateCents        int64
	EstimatedSeconds *int64
}

// ProfileService is an instance of a catalog service attached to a profile.
type ProfileService struct {
	ID        int64
	ProfileID int64
	ServiceID int64
	Notes     string
	CreatedTS int64
}

// ProfileServiceDetail joins a ProfileService with its catalog definition.
type ProfileServiceDetail struct {
	ProfileService
	ServiceName      string
	RateCents        int64
	EstimatedSeconds *int64
}

// TimeEntry is one tracked interval. EndTS == nil marks the entry as open;
// at most one open entry exists store-wide.
type TimeEntry struct {
	ID        int64
	ProfileID int64
	ProjectID *int64
	StartTS   int64
	EndTS     *int64
	Note      string
	Tags      string
}

// Open reports whether the entry is still being tracked.
func (e *TimeEntry) Open() bool { return e.EndTS == nil }

// DurationSeconds returns the tracked duration, using now for open entries.
func (e *TimeEntry) DurationSeconds(now int64) int64 {
	end := now
	if e.EndTS != nil {
		end = *e.EndTS
	}
	d := end - e.StartTS
	if d < 0 {
		return 0
	}
	return d
}

// EntryRow is a TimeEntry joined with its profile and project names, as
// returned by ListEntries and consumed by the exporter.
type EntryRow struct {
	TimeEntry
	ProfileName string
	ProjectName string
}

// Todo is a checklist item owned by a profile, a project, or a profile
// service instance.
type Todo struct {
	ID        int64
	ParentID  int64
	Text      string
	Completed bool
	CreatedTS int64
}

// TodoKind selects which of the three todo tables an operation targets.
type TodoKind string

const (
	TodoProfile        TodoKind = "profile"
	TodoProject        TodoKind = "project"
	TodoProfileService TodoKind = "profile_service"
)

// table returns the backing table and parent column for the kind.
func (k TodoKind) table() (table, parentCol string, ok bool) {
	switch k {
	case TodoProfile:
		return "profile_todos", "profile_id", true
	case TodoProject:
		return "project_todos", "project_id", true
	case TodoProfileService:
		return "profile_service_todos", "profile_service_id", true
	}
	return "", "", false
}

// EntryFilter narrows ListEntries. Nil fields match everything. From and To
// bound the entry start timestamp, inclusive.
type EntryFilter struct {
	ProfileID *int64
	ProjectID *int64
	From      *int64
	To        *int64
}
