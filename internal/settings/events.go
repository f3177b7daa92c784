package settings

import (
	"context"
	"sync"
)

type changeBroadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan ChangeEvent
	nextID   uint64
}

func newChangeBroadcaster() *changeBroadcaster {
	return &changeBroadcaster{
		watchers: make(map[uint64]chan ChangeEvent),
	}
}

// Subscribe registers a watcher whose channel closes once ctx is done.
func (b *changeBroadcaster) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan ChangeEvent, 1)
	if ctx.Err() != nil {
		close(ch)
		return ch, nil
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	context.AfterFunc(ctx, func() { b.unsubscribe(id) })
	return ch, nil
}

func (b *changeBroadcaster) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.watchers[id]; ok {
		delete(b.watchers, id)
		close(ch)
	}
}

// Broadcast delivers evt without blocking; slow subscribers miss events.
// Sends happen under the lock so a watcher cannot be closed mid-send.
func (b *changeBroadcaster) Broadcast(evt ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}
