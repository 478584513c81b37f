package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
	"git.home.luguber.info/inful/solia/internal/export"
	"git.home.luguber.info/inful/solia/internal/store"
)

// ExportCmd writes time entries as CSV or JSON.
type ExportCmd struct {
	Format  string `short:"f" enum:"csv,json" default:"csv" help:"Output format"`
	Output  string `short:"o" help:"Output file; stdout when omitted" type:"path"`
	Profile string `help:"Limit to one profile (name or id)"`
	Project *int64 `help:"Limit to one project id"`
	From    string `help:"Earliest entry start, YYYY-MM-DD inclusive"`
	To      string `help:"Latest entry start, YYYY-MM-DD inclusive"`
}

func (c *ExportCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	filter, err := c.buildFilter(ctx, app)
	if err != nil {
		return err
	}

	rows, err := app.Store.ListEntries(ctx, filter)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryStorage, "create export file").
				WithContext("path", c.Output).Build()
		}
		defer f.Close()
		out = f
	}

	switch c.Format {
	case "json":
		err = export.WriteJSON(out, rows)
	default:
		err = export.WriteCSV(out, rows)
	}
	if err != nil {
		return err
	}

	if c.Output != "" {
		fmt.Printf("exported %d entries to %s\n", len(rows), c.Output)
	}
	return nil
}

func (c *ExportCmd) buildFilter(ctx context.Context, app *App) (store.EntryFilter, error) {
	var filter store.EntryFilter

	if c.Profile != "" {
		profile, err := resolveProfile(ctx, app.Store, c.Profile)
		if err != nil {
			return filter, err
		}
		filter.ProfileID = &profile.ID
	}
	filter.ProjectID = c.Project

	if c.From != "" {
		ts, err := parseDay(c.From)
		if err != nil {
			return filter, err
		}
		filter.From = &ts
	}
	if c.To != "" {
		ts, err := parseDay(c.To)
		if err != nil {
			return filter, err
		}
		// Inclusive: cover the whole named day.
		end := ts + 24*3600 - 1
		filter.To = &end
	}
	return filter, nil
}

// parseDay converts YYYY-MM-DD to the epoch second of local midnight.
func parseDay(s string) (int64, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return 0, ferrors.ValidationError("dates must be YYYY-MM-DD").
			WithContext("value", s).Build()
	}
	return t.Unix(), nil
}
