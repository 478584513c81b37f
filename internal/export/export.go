// Package export renders read-only snapshots of time entries as CSV or
// JSON. It never touches the store or the state core; callers hand it the
// joined rows they want written.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
	"git.home.luguber.info/inful/solia/internal/store"
)

// Option configures an export run.
type Option func(*exporter)

// WithNow overrides the clock used for the duration of still-open entries.
func WithNow(now func() time.Time) Option {
	return func(e *exporter) { e.now = now }
}

type exporter struct {
	now func() time.Time
}

func newExporter(opts []Option) *exporter {
	e := &exporter{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// jsonEntry is the wire shape of one exported entry.
type jsonEntry struct {
	ID          int64  `json:"id"`
	ProfileID   int64  `json:"profile_id"`
	Profile     string `json:"profile"`
	ProjectID   *int64 `json:"project_id"`
	Project     *string `json:"project"`
	StartTS     int64  `json:"start_ts"`
	EndTS       *int64 `json:"end_ts"`
	DurationSec int64  `json:"duration_sec"`
	Note        string `json:"note"`
	Tags        string `json:"tags"`
}

// WriteCSV writes rows with the header
// profile,project,start,end,duration,note,tags. Timestamps render as
// "[dd.mm.yy] - HH:MM" in local time, durations as HH:MM:SS; entries
// without a project show an em dash.
func WriteCSV(w io.Writer, rows []store.EntryRow, opts ...Option) error {
	e := newExporter(opts)
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"profile", "project", "start", "end", "duration", "note", "tags"}); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "write csv header").Build()
	}

	now := e.now().Unix()
	for _, r := range rows {
		project := r.ProjectName
		if project == "" {
			project = "—"
		}
		end := ""
		if r.EndTS != nil {
			end = formatStamp(*r.EndTS)
		}
		record := []string{
			r.ProfileName,
			project,
			formatStamp(r.StartTS),
			end,
			FormatDuration(r.DurationSeconds(now)),
			r.Note,
			r.Tags,
		}
		if err := cw.Write(record); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "write csv row").Build()
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "flush csv").Build()
	}
	return nil
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []store.EntryRow, opts ...Option) error {
	e := newExporter(opts)
	now := e.now().Unix()

	payload := make([]jsonEntry, 0, len(rows))
	for _, r := range rows {
		var project *string
		if r.ProjectName != "" {
			name := r.ProjectName
			project = &name
		}
		payload = append(payload, jsonEntry{
			ID:          r.ID,
			ProfileID:   r.ProfileID,
			Profile:     r.ProfileName,
			ProjectID:   r.ProjectID,
			Project:     project,
			StartTS:     r.StartTS,
			EndTS:       r.EndTS,
			DurationSec: r.DurationSeconds(now),
			Note:        r.Note,
			Tags:        r.Tags,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "encode json").Build()
	}
	return nil
}

// formatStamp renders an epoch second as "[dd.mm.yy] - HH:MM" local time.
func formatStamp(ts int64) string {
	t := time.Unix(ts, 0)
	return fmt.Sprintf("[%s] - %s", t.Format("02.01.06"), t.Format("15:04"))
}

// FormatDuration renders whole seconds as HH:MM:SS. Negative input clamps
// to zero.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
