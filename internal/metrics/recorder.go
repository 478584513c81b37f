// Package metrics provides observability hooks for the timer engine and
// store. Components receive a Recorder by injection and default to
// NoopRecorder, so metrics stay optional and tests stay quiet.
package metrics

import "time"

// Recorder defines the observability hooks the engine calls. Implementations
// may forward to Prometheus or stay no-ops.
type Recorder interface {
	IncTimerStart()
	IncTimerStop()
	IncStartConflict()
	IncTick()
	SetRunning(running bool)
	ObserveEntryDuration(d time.Duration)
}

// NoopRecorder is the default Recorder; every method does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncTimerStart()                      {}
func (NoopRecorder) IncTimerStop()                       {}
func (NoopRecorder) IncStartConflict()                   {}
func (NoopRecorder) IncTick()                            {}
func (NoopRecorder) SetRunning(bool)                     {}
func (NoopRecorder) ObserveEntryDuration(time.Duration)  {}
