package state

import "git.home.luguber.info/inful/solia/internal/store"

// EventKind names one of the notification channels exposed to observers.
type EventKind string

const (
	// EventProfileChanged fires when the current profile selection actually
	// changes. Payload: the new profile id, or nil.
	EventProfileChanged EventKind = "ProfileChanged"
	// EventActiveEntryChanged fires when the cached active entry actually
	// changes. Payload: the entry, or nil when the timer went idle.
	EventActiveEntryChanged EventKind = "ActiveEntryChanged"
	// EventElapsedTick fires once per tick interval while the timer runs.
	// Payload: elapsed whole seconds.
	EventElapsedTick EventKind = "ElapsedTick"
	// EventEntriesUpdated, EventProfilesUpdated and EventServicesUpdated are
	// coarse re-query signals with no payload: something in that collection
	// changed, observers should reload what they display.
	EventEntriesUpdated  EventKind = "EntriesUpdated"
	EventProfilesUpdated EventKind = "ProfilesUpdated"
	EventServicesUpdated EventKind = "ServicesUpdated"
)

// Event is what subscribers receive. Exactly one payload field is meaningful
// per kind, the rest stay zero.
type Event struct {
	Kind        EventKind
	ProfileID   *int64           // EventProfileChanged
	ActiveEntry *store.TimeEntry // EventActiveEntryChanged
	ElapsedSec  int64            // EventElapsedTick
}
