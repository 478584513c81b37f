package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/solia/internal/store"
)

// ServiceCmd groups service catalog subcommands.
type ServiceCmd struct {
	Add    ServiceAddCmd    `cmd:"" help:"Add a service to the catalog"`
	List   ServiceListCmd   `cmd:"" help:"List the service catalog"`
	Rm     ServiceRmCmd     `cmd:"" help:"Remove a service from the catalog"`
	Attach ServiceAttachCmd `cmd:"" help:"Attach a catalog service to a profile"`
	Detach ServiceDetachCmd `cmd:"" help:"Detach a service instance from its profile"`
}

type ServiceAddCmd struct {
	Name      string `arg:"" help:"Service name"`
	RateCents int64  `arg:"" help:"Hourly rate in cents"`
	Estimate  *int64 `help:"Estimated effort in hours"`
}

func (c *ServiceAddCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	var estimate *int64
	if c.Estimate != nil {
		seconds := *c.Estimate * 3600
		estimate = &seconds
	}
	svc, err := app.Store.CreateService(ctx, store.Service{
		Name:             c.Name,
		RateCents:        c.RateCents,
		EstimatedSeconds: estimate,
	})
	if err != nil {
		return err
	}
	app.Core.NotifyServicesUpdated()

	fmt.Printf("created service %d (%s)\n", svc.ID, svc.Name)
	return nil
}

type ServiceListCmd struct {
	Profile string `help:"Show the instances attached to this profile instead of the catalog"`
}

func (c *ServiceListCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)

	if c.Profile != "" {
		profile, err := resolveProfile(ctx, app.Store, c.Profile)
		if err != nil {
			return err
		}
		attached, err := app.Store.ListProfileServices(ctx, profile.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tSERVICE\tRATE\tNOTES")
		for _, ps := range attached {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", ps.ID, ps.ServiceName, formatRate(ps.RateCents), ps.Notes)
		}
		return w.Flush()
	}

	services, err := app.Store.ListServices(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ID\tNAME\tRATE")
	for _, svc := range services {
		fmt.Fprintf(w, "%d\t%s\t%s\n", svc.ID, svc.Name, formatRate(svc.RateCents))
	}
	return w.Flush()
}

type ServiceRmCmd struct {
	ID int64 `arg:"" help:"Service id"`
}

func (c *ServiceRmCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.DeleteService(ctx, c.ID); err != nil {
		return err
	}
	app.Core.NotifyServicesUpdated()

	fmt.Printf("deleted service %d\n", c.ID)
	return nil
}

type ServiceAttachCmd struct {
	Profile string `arg:"" help:"Profile name or id"`
	Service int64  `arg:"" help:"Service id from the catalog"`
	Notes   string `help:"Instance notes"`
}

func (c *ServiceAttachCmd) Run(_ *Global, root *CLI) error {
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
	ps, err := app.Store.AttachService(ctx, profile.ID, c.Service, c.Notes)
	if err != nil {
		return err
	}
	app.Core.NotifyServicesUpdated()

	fmt.Printf("attached service %d to %s (instance %d)\n", c.Service, profile.Name, ps.ID)
	return nil
}

type ServiceDetachCmd struct {
	ID int64 `arg:"" help:"Service instance id"`
}

func (c *ServiceDetachCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.DetachService(ctx, c.ID); err != nil {
		return err
	}
	app.Core.NotifyServicesUpdated()

	fmt.Printf("detached service instance %d\n", c.ID)
	return nil
}

// formatRate renders integer cents as a decimal amount.
func formatRate(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
