package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	hub := NewHub()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		hub.Subscribe(EventEntriesUpdated, func(Event) { order = append(order, i) })
	}

	hub.Publish(Event{Kind: EventEntriesUpdated})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestPublishOnlyMatchingKind(t *testing.T) {
	hub := NewHub()

	var got []EventKind
	hub.Subscribe(EventProfilesUpdated, func(e Event) { got = append(got, e.Kind) })
	hub.Subscribe(EventServicesUpdated, func(e Event) { got = append(got, e.Kind) })

	hub.Publish(Event{Kind: EventServicesUpdated})
	assert.Equal(t, []EventKind{EventServicesUpdated}, got)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()

	calls := 0
	unsub := hub.Subscribe(EventEntriesUpdated, func(Event) { calls++ })
	require.Equal(t, 1, hub.SubscriberCount(EventEntriesUpdated))

	unsub()
	unsub()
	assert.Equal(t, 0, hub.SubscriberCount(EventEntriesUpdated))

	hub.Publish(Event{Kind: EventEntriesUpdated})
	assert.Equal(t, 0, calls)
}

func TestUnsubscribeKeepsOthersInOrder(t *testing.T) {
	hub := NewHub()

	var order []string
	hub.Subscribe(EventEntriesUpdated, func(Event) { order = append(order, "a") })
	unsubB := hub.Subscribe(EventEntriesUpdated, func(Event) { order = append(order, "b") })
	hub.Subscribe(EventEntriesUpdated, func(Event) { order = append(order, "c") })

	unsubB()
	hub.Publish(Event{Kind: EventEntriesUpdated})
	assert.Equal(t, []string{"a", "c"}, order)
}

func TestGuardIsPerGoroutine(t *testing.T) {
	hub := NewHub()

	handlerRunning := make(chan struct{})
	release := make(chan struct{})
	hub.Subscribe(EventElapsedTick, func(Event) {
		close(handlerRunning)
		<-release
	})

	go hub.Publish(Event{Kind: EventElapsedTick})
	<-handlerRunning

	// A publish is in flight on another goroutine; this one is still
	// allowed to mutate.
	assert.NotPanics(t, func() { hub.assertNotNotifying("Mutate") })
	close(release)
}

func TestSubscribeDuringPublishTakesEffectNextTime(t *testing.T) {
	hub := NewHub()

	late := 0
	hub.Subscribe(EventEntriesUpdated, func(Event) {
		hub.Subscribe(EventEntriesUpdated, func(Event) { late++ })
	})

	hub.Publish(Event{Kind: EventEntriesUpdated})
	assert.Equal(t, 0, late)

	hub.Publish(Event{Kind: EventEntriesUpdated})
	assert.Equal(t, 1, late)
}
