package timer

import (
	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

// errAlreadyRunning is returned by Start when an entry is already open,
// locally or because another opener won the race in the store.
func errAlreadyRunning() error {
	return ferrors.ConflictError("timer already running").Build()
}

// errNoActiveEntry is returned by Stop while Idle.
func errNoActiveEntry() error {
	return ferrors.InvalidStateError("no active entry").Build()
}

// IsAlreadyRunning reports whether err is the already-running failure.
func IsAlreadyRunning(err error) bool {
	return ferrors.HasCategory(err, ferrors.CategoryConflict)
}

// IsNoActiveEntry reports whether err is the stop-while-idle failure.
func IsNoActiveEntry(err error) bool {
	return ferrors.HasCategory(err, ferrors.CategoryInvalidState)
}
