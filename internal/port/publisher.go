package port

import (
	"context"

	"github.com/swapvault/escrow-engine/internal/domain"
)

// Publisher fans lifecycle events out to off-process consumers (indexers,
// tests). Publish failures never abort the operation that emitted them.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}
