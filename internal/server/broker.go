package server

import (
	"sync"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

const (
	eventState   = "state"
	eventDeleted = "deleted"
)

// GameEvent is the payload pushed to subscribers of a game.
type GameEvent struct {
	Type    string          `json:"type"`
	Session *trivia.Session `json:"session,omitempty"`
}

// Broker tells subscribers that a game changed. It carries no payload: a
// subscription holds at most one pending notification and the stream reads
// the stored session when it wakes, so bursts collapse into one read of the
// latest state.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan struct{}]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that is signalled after every change to the game.
func (b *Broker) Subscribe(code string) chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	if b.subs[code] == nil {
		b.subs[code] = make(map[chan struct{}]struct{})
	}
	b.subs[code][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(code string, ch chan struct{}) {
	b.mu.Lock()
	delete(b.subs[code], ch)
	if len(b.subs[code]) == 0 {
		delete(b.subs, code)
	}
	b.mu.Unlock()
}

// Notify marks the game as changed for every subscriber. Callers notify
// after the write is stored.
func (b *Broker) Notify(code string) {
	b.mu.RLock()
	for ch := range b.subs[code] {
		select {
		case ch <- struct{}{}:
		default:
			// A notification is already pending and the read it triggers
			// happens after this write.
		}
	}
	b.mu.RUnlock()
}

// Subscribers reports how many listeners a game has.
func (b *Broker) Subscribers(code string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[code])
}
