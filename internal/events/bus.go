// Package events carries presentation-facing notifications between the
// core and its observers over an explicit subscription interface, replacing
// any reliance on a global broadcast medium.
package events

import (
	"sync"
	"time"
)

type Type string

const (
	EntityCreated    Type = "entity.created"
	EntityUpdated    Type = "entity.updated"
	EntityDeleted    Type = "entity.deleted"
	DataChanged      Type = "data.changed"
	SelectionChanged Type = "selection.changed"
)

type Event struct {
	Type       Type      `json:"type"`
	Collection string    `json:"collection,omitempty"`
	IDs        []uint64  `json:"ids,omitempty"`
	At         time.Time `json:"at"`
}

// Bus is an in-process observer bus. Publish never blocks: a subscriber
// that falls behind misses events rather than stalling mutations.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel of future events and a cancel function. The
// channel is closed on cancel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, 32)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
