package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/solia/internal/store"
)

// TodoCmd groups todo subcommands. Every todo belongs to a profile, a
// project, or a profile service instance, selected with --kind.
type TodoCmd struct {
	Kind string `short:"k" enum:"profile,project,profile_service" default:"profile" help:"Parent kind"`

	Add  TodoAddCmd  `cmd:"" help:"Add a todo"`
	List TodoListCmd `cmd:"" help:"List todos"`
	Done TodoDoneCmd `cmd:"" help:"Mark a todo completed (or open again)"`
	Rm   TodoRmCmd   `cmd:"" help:"Delete a todo"`
}

func (c *TodoCmd) kind() store.TodoKind { return store.TodoKind(c.Kind) }

type TodoAddCmd struct {
	Parent int64  `arg:"" help:"Parent id"`
	Text   string `arg:"" help:"Todo text"`
}

func (c *TodoAddCmd) Run(parent *TodoCmd, _ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	todo, err := app.Store.AddTodo(ctx, parent.kind(), c.Parent, c.Text)
	if err != nil {
		return err
	}

	fmt.Printf("added todo %d\n", todo.ID)
	return nil
}

type TodoListCmd struct {
	Parent int64 `arg:"" help:"Parent id"`
}

func (c *TodoListCmd) Run(parent *TodoCmd, _ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	todos, err := app.Store.ListTodos(ctx, parent.kind(), c.Parent)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tTEXT")
	for _, t := range todos {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%d\t[%s]\t%s\n", t.ID, done, t.Text)
	}
	return w.Flush()
}

type TodoDoneCmd struct {
	ID     int64 `arg:"" help:"Todo id"`
	Reopen bool  `help:"Mark as open instead"`
}

func (c *TodoDoneCmd) Run(parent *TodoCmd, _ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.SetTodoCompleted(ctx, parent.kind(), c.ID, !c.Reopen); err != nil {
		return err
	}

	verb := "completed"
	if c.Reopen {
		verb = "reopened"
	}
	fmt.Printf("%s todo %d\n", verb, c.ID)
	return nil
}

type TodoRmCmd struct {
	ID int64 `arg:"" help:"Todo id"`
}

func (c *TodoRmCmd) Run(parent *TodoCmd, _ *Global, root *CLI) error {
	ctx := context.Background()
	app, err := openApp(ctx, root)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.DeleteTodo(ctx, parent.kind(), c.ID); err != nil {
		return err
	}

	fmt.Printf("deleted todo %d\n", c.ID)
	return nil
}
