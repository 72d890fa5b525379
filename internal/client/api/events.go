package api

import (
	"context"
	"sync"
)

// Invalidation describes why the stored session was dropped.
type Invalidation struct {
	Method string
	Path   string
	Status int
}

// InvalidationListener runs synchronously inside the failing call, after the
// session keys have been removed from the store.
type InvalidationListener func(ctx context.Context, ev Invalidation)

type listeners struct {
	mu   sync.Mutex
	next uint64
	fns  map[uint64]InvalidationListener
}

func (l *listeners) add(fn InvalidationListener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[uint64]InvalidationListener)
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners) publish(ctx context.Context, ev Invalidation) {
	l.mu.Lock()
	fns := make([]InvalidationListener, 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(ctx, ev)
	}
}
