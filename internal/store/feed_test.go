package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedSubscribePublish(t *testing.T) {
	f := NewFeed()

	var orders []Event
	cancel := f.Subscribe(CollectionOrders, func(e Event) {
		orders = append(orders, e)
	})
	defer cancel()

	var lost []Event
	cancelLost := f.Subscribe(CollectionLostItems, func(e Event) {
		lost = append(lost, e)
	})
	defer cancelLost()

	f.Publish(Event{Collection: CollectionOrders, Action: ActionCreated, ID: "o1"})
	f.Publish(Event{Collection: CollectionOrders, Action: ActionUpdated, ID: "o1"})
	f.Publish(Event{Collection: CollectionLostItems, Action: ActionCreated, ID: "l1"})

	// Subscribers only see their own collection.
	assert.Len(t, orders, 2)
	assert.Equal(t, ActionUpdated, orders[1].Action)
	assert.Len(t, lost, 1)
	assert.Equal(t, "l1", lost[0].ID)
}

func TestFeedCancelIsSynchronousAndIdempotent(t *testing.T) {
	f := NewFeed()

	delivered := 0
	cancel := f.Subscribe(CollectionQRCodes, func(Event) { delivered++ })

	f.Publish(Event{Collection: CollectionQRCodes, Action: ActionCreated, ID: "q1"})
	assert.Equal(t, 1, delivered)

	cancel()
	f.Publish(Event{Collection: CollectionQRCodes, Action: ActionUpdated, ID: "q1"})
	assert.Equal(t, 1, delivered, "no delivery after cancel")

	// Cancelling again is a no-op.
	cancel()
	cancel()

	// A later subscriber on the same collection is unaffected.
	other := 0
	cancelOther := f.Subscribe(CollectionQRCodes, func(Event) { other++ })
	defer cancelOther()

	f.Publish(Event{Collection: CollectionQRCodes, Action: ActionUpdated, ID: "q2"})
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, other)
}
