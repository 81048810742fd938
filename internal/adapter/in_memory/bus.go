package in_memory

import (
	"context"
	"sync"

	"github.com/swapvault/escrow-engine/internal/domain"
	"github.com/swapvault/escrow-engine/internal/port"
)

// Bus is an in-process event fanout. Subscribers get buffered channels;
// a full subscriber drops events rather than blocking the engine.
type Bus struct {
	mu   sync.Mutex
	subs []chan domain.Event
}

var _ port.Publisher = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(buffer int) <-chan domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan domain.Event, buffer)
	b.subs = append(b.subs, ch)
	return ch
}

func (b *Bus) Publish(ctx context.Context, ev domain.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}
