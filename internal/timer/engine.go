// Package timer owns the Idle/Running state machine. It is the only
// component that opens and closes time entries; every transition goes
// through the store transactionally and is mirrored into the state core
// before observers hear about it.
package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
	"git.home.luguber.info/inful/solia/internal/logfields"
	"git.home.luguber.info/inful/solia/internal/metrics"
	"git.home.luguber.info/inful/solia/internal/state"
	"git.home.luguber.info/inful/solia/internal/store"
)

// Engine drives the timer. All transitions serialize on one mutex, so a
// toggle reads the state it acts on atomically and concurrent start
// attempts resolve to exactly one winner.
type Engine struct {
	store     *store.Store
	core      *state.Core
	recorder  metrics.Recorder
	now       func() time.Time
	tickEvery time.Duration

	scheduler gocron.Scheduler

	mu          sync.Mutex
	tickJob     *uuid.UUID // non-nil while the tick job is scheduled
	lastElapsed int64      // clamp floor for a backwards-moving clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow overrides the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTickInterval changes the ElapsedTick cadence (default one second).
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.tickEvery = d }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New builds an engine around a store and state core. Call Recover once
// afterwards so a session that survived a crash resumes as Running.
func New(st *store.Store, core *state.Core, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:     st,
		core:      core,
		recorder:  metrics.NoopRecorder{},
		now:       time.Now,
		tickEvery: time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create tick scheduler").Build()
	}
	e.scheduler = scheduler
	scheduler.Start()
	return e, nil
}

// Close cancels any pending tick and shuts the scheduler down. Open entries
// are deliberately left open; they are recovered on the next start.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.tickJob = nil
	e.mu.Unlock()
	return e.scheduler.Shutdown()
}

// Recover synchronizes the engine with the store at startup. If the
// previous process crashed while Running, ticking resumes on the surviving
// open entry instead of assuming Idle.
func (e *Engine) Recover(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.core.RefreshActiveEntry(ctx); err != nil {
		return err
	}
	if active := e.core.ActiveEntry(); active != nil {
		e.lastElapsed = 0
		if err := e.startTickingLocked(); err != nil {
			return err
		}
		e.recorder.SetRunning(true)
		slog.Info("resumed running session",
			logfields.EntryID(active.ID),
			logfields.ProfileID(active.ProfileID))
	}
	return nil
}

// Running reports whether an entry is currently open.
func (e *Engine) Running() bool {
	return e.core.ActiveEntry() != nil
}

// Start opens an entry for the profile. Only valid while Idle; a lost race
// against another opener surfaces as an already-running error, never as a
// silent adoption of the other entry.
func (e *Engine) Start(ctx context.Context, profileID int64, projectID *int64, note, tags string) (*store.TimeEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(ctx, profileID, projectID, note, tags)
}

// Stop closes the active entry at the current clock time.
func (e *Engine) Stop(ctx context.Context) (*store.TimeEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopLocked(ctx, e.now().Unix())
}

// StopAt closes the active entry at an explicit timestamp.
func (e *Engine) StopAt(ctx context.Context, endTS int64) (*store.TimeEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopLocked(ctx, endTS)
}

// Toggle starts when Idle and stops when Running. The state read and the
// transition happen under one lock, so a stale-state toggle is impossible.
// The returned bool is true when a new entry was started.
func (e *Engine) Toggle(ctx context.Context, profileID int64, projectID *int64, note, tags string) (*store.TimeEntry, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.core.ActiveEntry() != nil {
		entry, err := e.stopLocked(ctx, e.now().Unix())
		return entry, false, err
	}
	entry, err := e.startLocked(ctx, profileID, projectID, note, tags)
	return entry, true, err
}

// ElapsedSeconds returns seconds since the active entry started, or 0 while
// Idle. If the wall clock moved backwards the last known value is returned
// instead of a negative duration.
func (e *Engine) ElapsedSeconds() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked()
}

func (e *Engine) startLocked(ctx context.Context, profileID int64, projectID *int64, note, tags string) (*store.TimeEntry, error) {
	if e.core.ActiveEntry() != nil {
		e.recorder.IncStartConflict()
		return nil, errAlreadyRunning()
	}

	entry, err := e.store.OpenEntry(ctx, profileID, projectID, note, tags)
	if err != nil {
		if ferrors.HasCategory(err, ferrors.CategoryConflict) {
			// Another opener won the race. Stay Idle and report it.
			e.recorder.IncStartConflict()
			return nil, errAlreadyRunning()
		}
		return nil, err
	}

	if err := e.core.RefreshActiveEntry(ctx); err != nil {
		return nil, err
	}
	e.core.NotifyEntriesUpdated()

	e.lastElapsed = 0
	if err := e.startTickingLocked(); err != nil {
		return nil, err
	}
	e.recorder.IncTimerStart()
	e.recorder.SetRunning(true)
	slog.Info("timer started",
		logfields.Event("START"),
		logfields.EntryID(entry.ID),
		logfields.ProfileID(profileID))
	return entry, nil
}

func (e *Engine) stopLocked(ctx context.Context, endTS int64) (*store.TimeEntry, error) {
	active := e.core.ActiveEntry()
	if active == nil {
		return nil, errNoActiveEntry()
	}

	closed, err := e.store.CloseEntry(ctx, active.ID, endTS)
	if err != nil {
		return nil, err
	}

	e.stopTickingLocked()
	if err := e.core.RefreshActiveEntry(ctx); err != nil {
		return nil, err
	}
	e.core.NotifyEntriesUpdated()

	e.lastElapsed = 0
	e.recorder.IncTimerStop()
	e.recorder.SetRunning(false)
	e.recorder.ObserveEntryDuration(time.Duration(closed.DurationSeconds(endTS)) * time.Second)
	slog.Info("timer stopped",
		logfields.Event("STOP"),
		logfields.EntryID(closed.ID),
		logfields.ProfileID(closed.ProfileID),
		logfields.Elapsed(closed.DurationSeconds(endTS)))
	return closed, nil
}

func (e *Engine) elapsedLocked() int64 {
	active := e.core.ActiveEntry()
	if active == nil {
		return 0
	}
	elapsed := e.now().Unix() - active.StartTS
	if elapsed < e.lastElapsed {
		return e.lastElapsed
	}
	e.lastElapsed = elapsed
	return elapsed
}

// tick runs on the scheduler while Running. Publishing under the engine
// lock guarantees no tick is delivered after Stop returns.
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tickJob == nil || e.core.ActiveEntry() == nil {
		return
	}
	elapsed := e.elapsedLocked()
	e.recorder.IncTick()
	e.core.Hub().Publish(state.Event{Kind: state.EventElapsedTick, ElapsedSec: elapsed})
}

func (e *Engine) startTickingLocked() error {
	if e.tickJob != nil {
		return nil
	}
	job, err := e.scheduler.NewJob(
		gocron.DurationJob(e.tickEvery),
		gocron.NewTask(e.tick),
		gocron.WithName("elapsed-tick"),
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "schedule elapsed tick").Build()
	}
	id := job.ID()
	e.tickJob = &id
	return nil
}

func (e *Engine) stopTickingLocked() {
	if e.tickJob == nil {
		return
	}
	if err := e.scheduler.RemoveJob(*e.tickJob); err != nil {
		slog.Warn("remove tick job", logfields.Error(err))
	}
	e.tickJob = nil
}
