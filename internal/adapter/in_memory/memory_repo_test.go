package in_memory

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapvault/escrow-engine/internal/domain"
)

var (
	makerA = common.HexToAddress("0x1000000000000000000000000000000000000001")
	makerB = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func TestMemoryRepoSlotKeyedStorage(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	_, err := repo.GetOrder(ctx, makerA, 0)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	o := &domain.Order{Maker: makerA, Nonce: 0, State: domain.Made}
	require.NoError(t, repo.SaveOrder(ctx, o))

	// same nonce under another maker is a different slot
	_, err = repo.GetOrder(ctx, makerB, 0)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	got, err := repo.GetOrder(ctx, makerA, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Made, got.State)

	// stored orders are isolated from caller mutation
	got.State = domain.Taken
	again, err := repo.GetOrder(ctx, makerA, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Made, again.State)
}

func TestMemoryRepoOverwriteAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	require.NoError(t, repo.SaveOrder(ctx, &domain.Order{Maker: makerA, Nonce: 0, State: domain.Made}))
	require.NoError(t, repo.SaveOrder(ctx, &domain.Order{Maker: makerA, Nonce: 0, State: domain.Cancelled}))
	require.NoError(t, repo.SaveOrder(ctx, &domain.Order{Maker: makerA, Nonce: 1, State: domain.Made}))

	got, err := repo.GetOrder(ctx, makerA, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Cancelled, got.State)

	orders, err := repo.ListOrdersByMaker(ctx, makerA)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = repo.ListOrdersByMaker(ctx, makerB)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCacheMissReturnsNil(t *testing.T) {
	ctx := context.Background()
	c := NewCache()

	o, err := c.GetOrder(ctx, makerA, 0)
	require.NoError(t, err)
	assert.Nil(t, o)

	require.NoError(t, c.SetOrder(ctx, &domain.Order{Maker: makerA, Nonce: 0, State: domain.Made}))
	o, err = c.GetOrder(ctx, makerA, 0)
	require.NoError(t, err)
	require.NotNil(t, o)

	require.NoError(t, c.Invalidate(ctx, makerA, 0))
	o, err = c.GetOrder(ctx, makerA, 0)
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	ctx := context.Background()
	bus := NewBus()
	ch := bus.Subscribe(1)

	require.NoError(t, bus.Publish(ctx, domain.Event{ID: "1"}))
	require.NoError(t, bus.Publish(ctx, domain.Event{ID: "2"})) // dropped, not blocked

	ev := <-ch
	assert.Equal(t, "1", ev.ID)
	select {
	case <-ch:
		t.Fatal("expected second event to be dropped")
	default:
	}
}
