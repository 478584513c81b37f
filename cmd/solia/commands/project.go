package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/solia/internal/store"
)

// ProjectCmd groups project management subcommands.
type ProjectCmd struct {
	Add     ProjectAddCmd     `cmd:"" help:"Create a project under a profile"`
	List    ProjectListCmd    `cmd:"" help:"List a profile's projects"`
	Invoice ProjectInvoiceCmd `cmd:"" help:"Mark a project's invoice as sent or paid"`
	Rm      ProjectRmCmd      `cmd:"" help:"Delete a project"`
}

type ProjectAddCmd struct {
	Profile  string `arg:"" help:"Profile name or id"`
	Name     string `arg:"" help:"Project name"`
	Service  *int64 `help:"Catalog service id to bill through"`
	Deadline string `help:"Deadline as YYYY-MM-DD"`
	Estimate *int64 `help:"Estimated effort in hours"`
	Notes    string `help:"Project notes"`
}

func (c *ProjectAddCmd) Run(_ *Global, root *CLI) error {
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

	var deadline *int64
	if c.Deadline != "" {
		ts, err := parseDay(c.Deadline)
		if err != nil {
			return err
		}
		deadline = &ts
	}
	var estimate *int64
	if c.Estimate != nil {
		seconds := *c.Estimate * 3600
		estimate = &seconds
	}

	project, err := app.Store.CreateProject(ctx, store.Project{
		ProfileID:        profile.ID,
		Name:             c.Name,
		ServiceID:        c.Service,
		DeadlineTS:       deadline,
		EstimatedSeconds: estimate,
		Notes:            c.Notes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created project %d (%s) under %s\n", project.ID, project.Name, profile.Name)
	return nil
}

type ProjectListCmd struct {
	Profile string `arg:"" help:"Profile name or id"`
}

func (c *ProjectListCmd) Run(_ *Global, root *CLI) error {
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
	projects, err := app.Store.ListProjects(ctx, profile.ID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDEADLINE\tINVOICE")
	for _, p := range projects {
		deadline := ""
		if p.DeadlineTS != nil {
			deadline = time.Unix(*p.DeadlineTS, 0).Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, deadline, invoiceState(p))
	}
	return w.Flush()
}

type ProjectInvoiceCmd struct {
	ID   int64 `arg:"" help:"Project id"`
	Paid bool  `help:"Mark as paid as well as sent"`
}

func (c *ProjectInvoiceCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.SetProjectInvoiceFlags(ctx, c.ID, true, c.Paid); err != nil {
		return err
	}

	state := "sent"
	if c.Paid {
		state = "paid"
	}
	fmt.Printf("marked invoice for project %d as %s\n", c.ID, state)
	return nil
}

type ProjectRmCmd struct {
	ID int64 `arg:"" help:"Project id"`
}

func (c *ProjectRmCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.DeleteProject(ctx, c.ID); err != nil {
		return err
	}
	app.Core.NotifyEntriesUpdated()

	fmt.Printf("deleted project %d\n", c.ID)
	return nil
}

func invoiceState(p store.Project) string {
	switch {
	case p.InvoicePaid:
		return "paid"
	case p.InvoiceSent:
		return "sent"
	default:
		return ""
	}
}
