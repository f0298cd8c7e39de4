package store

import (
	"sync"

	"bugtracker-api/internal/models"
)

// Broadcaster is the shared subscription registry embedded by the backends.
// Backends call Emit with a fresh snapshot after every mutation.
type Broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]func([]models.Task)
}

// Subscribe registers fn and returns its unsubscribe function.
func (b *Broadcaster) Subscribe(fn func(snapshot []models.Task)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func([]models.Task))
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Emit delivers the snapshot to every subscriber. Callbacks run on the
// caller's goroutine; delivery order is not guaranteed.
func (b *Broadcaster) Emit(snapshot []models.Task) {
	b.mu.Lock()
	fns := make([]func([]models.Task), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}
