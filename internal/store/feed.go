package store

import "sync"

// EventAction describes what happened to a record.
type EventAction string

const (
	ActionCreated EventAction = "created"
	ActionUpdated EventAction = "updated"
	ActionDeleted EventAction = "deleted"
)

// Event is one change on a collection.
type Event struct {
	Collection string
	Action     EventAction
	ID         string
}

// Feed is an in-process change feed. Store mutations publish events
// after their transaction commits; subscribers receive every event on
// their collection until they cancel.
//
// Callbacks run under the feed lock, so cancellation is synchronous:
// once a subscriber's cancel func returns, its callback will not run
// again. Callbacks must therefore not block.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(Event)
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[string]map[int]func(Event))}
}

// Subscribe registers fn for all events on collection and returns a
// cancel func. Cancelling twice is a no-op.
func (f *Feed) Subscribe(collection string, fn func(Event)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	if f.subs[collection] == nil {
		f.subs[collection] = make(map[int]func(Event))
	}
	f.subs[collection][id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs[collection], id)
	}
}

// Publish delivers e to every current subscriber of its collection.
func (f *Feed) Publish(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fn := range f.subs[e.Collection] {
		fn(e)
	}
}
