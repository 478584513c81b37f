// Package commands holds the kong command tree for the solia CLI.
package commands

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/solia/internal/config"
	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
	"git.home.luguber.info/inful/solia/internal/settings"
	"git.home.luguber.info/inful/solia/internal/state"
	"git.home.luguber.info/inful/solia/internal/store"
	"git.home.luguber.info/inful/solia/internal/timer"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Start   StartCmd   `cmd:"" help:"Start tracking time for a profile"`
	Stop    StopCmd    `cmd:"" help:"Stop the running timer"`
	Status  StatusCmd  `cmd:"" help:"Show the current timer state"`
	Toggle  ToggleCmd  `cmd:"" help:"Stop the running timer, or start one if idle"`
	Profile ProfileCmd `cmd:"" help:"Manage profiles"`
	Service ServiceCmd `cmd:"" help:"Manage the service catalog and profile attachments"`
	Project ProjectCmd `cmd:"" help:"Manage projects"`
	Todo    TodoCmd    `cmd:"" help:"Manage todo lists"`
	Export  ExportCmd  `cmd:"" help:"Export time entries as CSV or JSON"`
	Daemon  DaemonCmd  `cmd:"" help:"Run the tracker daemon with file watching and metrics"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// configPath resolves the config file, preferring the flag over the
// SOLIA_CONFIG environment variable and the default location.
func (c *CLI) configPath() string {
	if c.Config != "" {
		return c.Config
	}
	if env := os.Getenv("SOLIA_CONFIG"); env != "" {
		return env
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.config/solia/config.yaml"
	}
	return "config.yaml"
}

// App bundles the wired application for one command invocation.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Settings *settings.Store
	Hub      *state.Hub
	Core     *state.Core
	Engine   *timer.Engine
}

// openApp loads config and wires store, settings, state core and timer
// engine. Callers must Close the returned app.
func openApp(ctx context.Context, root *CLI, engineOpts ...timer.Option) (*App, error) {
	cfg, err := config.Load(root.configPath())
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "create data directory").
			Fatal().WithContext("path", cfg.DataDir).Build()
	}

	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	sett, err := settings.Load(cfg.SettingsPath())
	if err != nil {
		st.Close()
		return nil, err
	}

	hub := state.NewHub()
	core := state.NewCore(ctx, st, hub, sett)

	opts := append([]timer.Option{timer.WithTickInterval(cfg.Timer.TickInterval)}, engineOpts...)
	eng, err := timer.New(st, core, opts...)
	if err != nil {
		st.Close()
		return nil, err
	}

	if err := eng.Recover(ctx); err != nil {
		eng.Close()
		st.Close()
		return nil, err
	}

	return &App{
		Config:   cfg,
		Store:    st,
		Settings: sett,
		Hub:      hub,
		Core:     core,
		Engine:   eng,
	}, nil
}

// Close releases the engine and the database.
func (a *App) Close() {
	if err := a.Engine.Close(); err != nil {
		slog.Warn("closing timer engine", "error", err)
	}
	if err := a.Store.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
}

// configureLogging rebuilds the default logger from the loaded config. The
// -v flag always wins with debug level.
func configureLogging(cfg *config.Config, verbose bool) {
	level := cfg.Level().SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Format() == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func errNoProfileSelected() error {
	return ferrors.ValidationError("no profile selected").Build()
}

// resolveProfile accepts a numeric id or a profile name, matched
// case-insensitively against all profiles including archived ones.
func resolveProfile(ctx context.Context, st *store.Store, ref string) (*store.Profile, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ferrors.ValidationError("profile reference must not be empty").Build()
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return st.GetProfile(ctx, id)
	}

	profiles, err := st.ListProfiles(ctx, true)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if strings.EqualFold(profiles[i].Name, ref) {
			return &profiles[i], nil
		}
	}
	return nil, ferrors.NotFoundError("profile not found").
		WithContext("profile", ref).Build()
}
