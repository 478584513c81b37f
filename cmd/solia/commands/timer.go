package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"git.home.luguber.info/inful/solia/internal/export"
	"git.home.luguber.info/inful/solia/internal/timer"
)

// StartCmd starts tracking time for a profile.
type StartCmd struct {
	Profile string `arg:"" help:"Profile name or id"`
	Project *int64 `short:"p" help:"Project id to bill the entry against"`
	Note    string `short:"n" help:"Free-form note on the entry"`
	Tags    string `short:"t" help:"Comma-separated tags"`
}

func (c *StartCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	profile, err := resolveProfile(ctx, app.Store, c.Profile)
	if err != nil {
		return err
	}

	entry, err := app.Engine.Start(ctx, profile.ID, c.Project, c.Note, c.Tags)
	if err != nil {
		return err
	}

	// Remember the profile for the next session.
	if err := app.Core.SelectProfile(ctx, &profile.ID); err != nil {
		return err
	}

	fmt.Printf("started tracking for %s (entry %d)\n", profile.Name, entry.ID)
	return nil
}

// StopCmd stops the running timer.
type StopCmd struct{}

func (c *StopCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	entry, err := app.Engine.Stop(ctx)
	if err != nil {
		if timer.IsNoActiveEntry(err) {
			fmt.Println("no timer running")
			return nil
		}
		return err
	}

	duration := entry.DurationSeconds(time.Now().Unix())
	fmt.Printf("stopped entry %d after %s\n", entry.ID, export.FormatDuration(duration))
	return nil
}

// StatusCmd prints the current timer state.
type StatusCmd struct{}

func (c *StatusCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	entry := app.Core.ActiveEntry()
	if entry == nil {
		fmt.Println("idle")
		return nil
	}

	profile, err := app.Store.GetProfile(ctx, entry.ProfileID)
	if err != nil {
		return err
	}

	fmt.Printf("running: %s for %s", export.FormatDuration(app.Engine.ElapsedSeconds()), profile.Name)
	if entry.Note != "" {
		fmt.Printf(" (%s)", entry.Note)
	}
	fmt.Println()
	return nil
}

// ToggleCmd stops a running timer or starts one for the given profile.
type ToggleCmd struct {
	Profile string `arg:"" optional:"" help:"Profile name or id, required when starting"`
	Project *int64 `short:"p" help:"Project id to bill the entry against"`
	Note    string `short:"n" help:"Free-form note on the entry"`
	Tags    string `short:"t" help:"Comma-separated tags"`
}

func (c *ToggleCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	profileID, err := c.resolveStartProfile(ctx, app)
	if err != nil {
		return err
	}

	entry, started, err := app.Engine.Toggle(ctx, profileID, c.Project, c.Note, c.Tags)
	if err != nil {
		return err
	}

	if started {
		fmt.Printf("started entry %d\n", entry.ID)
	} else {
		duration := entry.DurationSeconds(time.Now().Unix())
		fmt.Printf("stopped entry %d after %s\n", entry.ID, export.FormatDuration(duration))
	}
	return nil
}

// resolveStartProfile picks the profile used if the toggle starts a timer:
// the explicit argument if given, otherwise the remembered selection.
func (c *ToggleCmd) resolveStartProfile(ctx context.Context, app *App) (int64, error) {
	if c.Profile != "" {
		profile, err := resolveProfile(ctx, app.Store, c.Profile)
		if err != nil {
			return 0, err
		}
		return profile.ID, nil
	}
	if id := app.Core.CurrentProfileID(); id != nil {
		return *id, nil
	}
	if app.Engine.Running() {
		// Stopping does not need a profile.
		return 0, nil
	}
	fmt.Fprintln(os.Stderr, "no profile selected; pass one to start a timer")
	return 0, errNoProfileSelected()
}
