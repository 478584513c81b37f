package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/solia/internal/store"
)

// ProfileCmd groups profile management subcommands.
type ProfileCmd struct {
	Add     ProfileAddCmd     `cmd:"" help:"Create a profile"`
	List    ProfileListCmd    `cmd:"" help:"List profiles"`
	Rename  ProfileRenameCmd  `cmd:"" help:"Rename a profile"`
	Archive ProfileArchiveCmd `cmd:"" help:"Archive or unarchive a profile"`
	Target  ProfileTargetCmd  `cmd:"" help:"Set or clear the weekly hour target"`
	Rm      ProfileRmCmd      `cmd:"" help:"Delete a profile and everything it owns"`
}

type ProfileAddCmd struct {
	Name  string `arg:"" help:"Profile name"`
	Color string `help:"Display color, e.g. #ff8800"`
}

func (c *ProfileAddCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	profile, err := app.Store.CreateProfile(ctx, store.Profile{Name: c.Name, Color: c.Color})
	if err != nil {
		return err
	}
	app.Core.NotifyProfilesUpdated()

	fmt.Printf("created profile %d (%s)\n", profile.ID, profile.Name)
	return nil
}

type ProfileListCmd struct {
	All bool `short:"a" help:"Include archived profiles"`
}

func (c *ProfileListCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	profiles, err := app.Store.ListProfiles(ctx, c.All)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tARCHIVED")
	for _, p := range profiles {
		archived := ""
		if p.Archived {
			archived = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, archived)
	}
	return w.Flush()
}

type ProfileRenameCmd struct {
	Profile string `arg:"" help:"Profile name or id"`
	Name    string `arg:"" help:"New name"`
}

func (c *ProfileRenameCmd) Run(_ *Global, root *CLI) error {
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
	if err := app.Store.RenameProfile(ctx, profile.ID, c.Name); err != nil {
		return err
	}
	app.Core.NotifyProfilesUpdated()

	fmt.Printf("renamed profile %d to %s\n", profile.ID, c.Name)
	return nil
}

type ProfileArchiveCmd struct {
	Profile string `arg:"" help:"Profile name or id"`
	Restore bool   `help:"Unarchive instead"`
}

func (c *ProfileArchiveCmd) Run(_ *Global, root *CLI) error {
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
	if err := app.Store.SetProfileArchived(ctx, profile.ID, !c.Restore); err != nil {
		return err
	}
	app.Core.NotifyProfilesUpdated()

	verb := "archived"
	if c.Restore {
		verb = "unarchived"
	}
	fmt.Printf("%s profile %s\n", verb, profile.Name)
	return nil
}

type ProfileTargetCmd struct {
	Profile string `arg:"" help:"Profile name or id"`
	Hours   *int64 `help:"Weekly target in hours; omit to clear"`
}

func (c *ProfileTargetCmd) Run(_ *Global, root *CLI) error {
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

	var target *int64
	if c.Hours != nil {
		seconds := *c.Hours * 3600
		target = &seconds
	}
	if err := app.Store.SetProfileTargetSeconds(ctx, profile.ID, target); err != nil {
		return err
	}

	if target == nil {
		fmt.Printf("cleared target for %s\n", profile.Name)
	} else {
		fmt.Printf("set target for %s to %dh/week\n", profile.Name, *c.Hours)
	}
	return nil
}

type ProfileRmCmd struct {
	Profile string `arg:"" help:"Profile name or id"`
	Yes     bool   `short:"y" help:"Skip the confirmation prompt"`
}

func (c *ProfileRmCmd) Run(_ *Global, root *CLI) error {
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

	if !c.Yes {
		fmt.Printf("delete profile %q and all its projects, entries and todos? [y/N] ", profile.Name)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := app.Store.DeleteProfile(ctx, profile.ID); err != nil {
		return err
	}

	// Drop a stale selection before notifying.
	if id := app.Core.CurrentProfileID(); id != nil && *id == profile.ID {
		if err := app.Core.SelectProfile(ctx, nil); err != nil {
			return err
		}
	}
	app.Core.NotifyProfilesUpdated()

	fmt.Printf("deleted profile %s\n", profile.Name)
	return nil
}
