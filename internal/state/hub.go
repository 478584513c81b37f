package state

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Handler receives one event. Handlers run synchronously on the publishing
// goroutine, in subscription order. A handler must not trigger another state
// mutation; collaborators running on other goroutines must marshal events
// through a channel instead of mutating from the handler.
type Handler func(Event)

type subscription struct {
	token uuid.UUID
	fn    Handler
}

// Hub is the in-process notification fan-out for state changes.
//
// Unlike a channel-based bus there is no buffering and no backpressure:
// delivery is synchronous and ordered, so an observer never sees
// intermediate state and two observers never see events in different
// orders. Reentrant mutation attempts from inside a handler turn into a
// loud panic instead of silent corruption; the guard is per goroutine, so
// publishes on other goroutines never trip it.
type Hub struct {
	mu        sync.Mutex
	subs      map[EventKind][]subscription
	notifying map[uint64]int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs:      make(map[EventKind][]subscription),
		notifying: make(map[uint64]int),
	}
}

// Subscribe registers a handler for one event kind and returns an
// unsubscribe func. Unsubscribing twice is a no-op.
func (h *Hub) Subscribe(kind EventKind, fn Handler) func() {
	token := uuid.New()

	h.mu.Lock()
	h.subs[kind] = append(h.subs[kind], subscription{token: token, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			list := h.subs[kind]
			for i, sub := range list {
				if sub.token == token {
					h.subs[kind] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// SubscriberCount returns the number of handlers for a kind, for tests and
// diagnostics.
func (h *Hub) SubscriberCount(kind EventKind) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[kind])
}

// Publish delivers evt to every handler of its kind, in subscription order.
// Handlers registered or removed by a running handler take effect from the
// next publish.
func (h *Hub) Publish(evt Event) {
	id := gid()

	h.mu.Lock()
	list := h.subs[evt.Kind]
	targets := make([]subscription, len(list))
	copy(targets, list)
	h.notifying[id]++
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.notifying[id]--
		if h.notifying[id] == 0 {
			delete(h.notifying, id)
		}
		h.mu.Unlock()
	}()

	for _, sub := range targets {
		sub.fn(evt)
	}
}

// assertNotNotifying panics if the calling goroutine is currently delivering
// a notification. State mutators call this so that a handler mutating state
// synchronously fails immediately during development instead of corrupting
// the cache through a notification cycle.
func (h *Hub) assertNotNotifying(op string) {
	id := gid()
	h.mu.Lock()
	depth := h.notifying[id]
	h.mu.Unlock()
	if depth > 0 {
		panic(fmt.Sprintf("state: %s called from inside a notification handler", op))
	}
}

// gid extracts the current goroutine id from the stack header. Only used to
// key the reentrancy guard, never for scheduling decisions.
func gid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// Header shape: "goroutine 123 [running]:".
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
