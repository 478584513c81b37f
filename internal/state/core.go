// Package state is the single-writer cache of "what is currently tracked":
// the selected profile and the active time entry. It never owns durable
// data; it mirrors the store and fans out typed change events to observers
// through a synchronous Hub.
package state

import (
	"context"
	"log/slog"
	"sync"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
	"git.home.luguber.info/inful/solia/internal/logfields"
	"git.home.luguber.info/inful/solia/internal/store"
)

// SelectionStore persists the profile selection across restarts. The
// settings package implements it; tests stub it.
type SelectionStore interface {
	LastProfileID() *int64
	SaveLastProfileID(id *int64) error
}

// Core caches the current profile id and the active entry. It is explicitly
// constructed and passed by reference to the timer engine and every
// collaborator; there is no ambient global instance.
type Core struct {
	store     *store.Store
	hub       *Hub
	selection SelectionStore

	mu               sync.RWMutex
	currentProfileID *int64
	activeEntry      *store.TimeEntry
}

// NewCore builds a Core around a store and hub. A nil selection store
// disables selection persistence. The last selected profile is restored if
// it still exists.
func NewCore(ctx context.Context, st *store.Store, hub *Hub, selection SelectionStore) *Core {
	c := &Core{store: st, hub: hub, selection: selection}
	if selection != nil {
		if id := selection.LastProfileID(); id != nil {
			if _, err := st.GetProfile(ctx, *id); err == nil {
				c.currentProfileID = id
			}
		}
	}
	return c
}

// Hub exposes the notification hub for subscribing observers.
func (c *Core) Hub() *Hub { return c.hub }

// CurrentProfileID returns the cached selection, or nil.
func (c *Core) CurrentProfileID() *int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyID(c.currentProfileID)
}

// CurrentProfile reads the selected profile through to the store.
func (c *Core) CurrentProfile(ctx context.Context) (*store.Profile, error) {
	id := c.CurrentProfileID()
	if id == nil {
		return nil, nil
	}
	return c.store.GetProfile(ctx, *id)
}

// SelectProfile updates the current selection. A non-nil id must name an
// existing profile. ProfileChanged fires only on an actual change, after
// the new selection has been persisted.
func (c *Core) SelectProfile(ctx context.Context, profileID *int64) error {
	c.hub.assertNotNotifying("SelectProfile")

	if profileID != nil {
		if _, err := c.store.GetProfile(ctx, *profileID); err != nil {
			return err
		}
	}

	c.mu.Lock()
	if idEqual(c.currentProfileID, profileID) {
		c.mu.Unlock()
		return nil
	}
	c.currentProfileID = copyID(profileID)
	c.mu.Unlock()

	if c.selection != nil {
		if err := c.selection.SaveLastProfileID(profileID); err != nil {
			// Selection persistence is best effort; the in-memory state and
			// the notification still go out.
			slog.Warn("persist profile selection failed", logfields.Error(err))
		}
	}

	c.hub.Publish(Event{Kind: EventProfileChanged, ProfileID: copyID(profileID)})
	return nil
}

// ActiveEntry returns the cached active entry, or nil when idle. The copy
// keeps observers from mutating the cache.
func (c *Core) ActiveEntry() *store.TimeEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyEntry(c.activeEntry)
}

// RefreshActiveEntry re-reads the open entry from the store and updates the
// cache. ActiveEntryChanged fires only when the value actually differs, so
// redundant refreshes cause no observer churn.
func (c *Core) RefreshActiveEntry(ctx context.Context) error {
	c.hub.assertNotNotifying("RefreshActiveEntry")

	entry, err := c.store.FindOpenEntry(ctx)
	if err != nil {
		// Never swallow: the cache stays as it was and the caller decides.
		return err
	}

	c.mu.Lock()
	changed := !entryEqual(c.activeEntry, entry)
	if changed {
		c.activeEntry = copyEntry(entry)
	}
	c.mu.Unlock()

	if changed {
		c.hub.Publish(Event{Kind: EventActiveEntryChanged, ActiveEntry: copyEntry(entry)})
	}
	return nil
}

// NotifyEntriesUpdated signals observers that the entry collection changed.
func (c *Core) NotifyEntriesUpdated() {
	c.hub.assertNotNotifying("NotifyEntriesUpdated")
	c.hub.Publish(Event{Kind: EventEntriesUpdated})
}

// NotifyProfilesUpdated signals observers that the profile collection changed.
func (c *Core) NotifyProfilesUpdated() {
	c.hub.assertNotNotifying("NotifyProfilesUpdated")
	c.hub.Publish(Event{Kind: EventProfilesUpdated})
}

// NotifyServicesUpdated signals observers that the service catalog changed.
func (c *Core) NotifyServicesUpdated() {
	c.hub.assertNotNotifying("NotifyServicesUpdated")
	c.hub.Publish(Event{Kind: EventServicesUpdated})
}

// Validate cross-checks the cache against the store, for startup recovery
// diagnostics.
func (c *Core) Validate(ctx context.Context) error {
	open, err := c.store.FindOpenEntry(ctx)
	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !entryEqual(c.activeEntry, open) {
		return ferrors.InternalError("active entry cache out of sync with store").Build()
	}
	return nil
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyEntry(e *store.TimeEntry) *store.TimeEntry {
	if e == nil {
		return nil
	}
	cp := *e
	cp.ProjectID = copyID(e.ProjectID)
	cp.EndTS = copyID(e.EndTS)
	return &cp
}

func idEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// entryEqual is the value equality used for change suppression.
func entryEqual(a, b *store.TimeEntry) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID &&
		a.ProfileID == b.ProfileID &&
		idEqual(a.ProjectID, b.ProjectID) &&
		a.StartTS == b.StartTS &&
		idEqual(a.EndTS, b.EndTS) &&
		a.Note == b.Note &&
		a.Tags == b.Tags
}
