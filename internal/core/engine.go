// Package core implements the escrow order lifecycle: make, cancel,
// taking, take and recover over bundles held in custody.
package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/swapvault/escrow-engine/internal/custody"
	"github.com/swapvault/escrow-engine/internal/domain"
	"github.com/swapvault/escrow-engine/internal/port"
)

// Engine owns the order store and all custodied bundles. A single mutex
// serializes the five lifecycle operations; it is the reentrancy guard
// around the outbound asset transfers each of them issues.
type Engine struct {
	repo   port.Repository
	cache  port.Cache
	events port.Publisher
	mover  *custody.Mover

	mu    sync.Mutex
	owner common.Address
	open  bool
	now   func() time.Time
	log   *logrus.Entry
}

func NewEngine(owner common.Address, mover *custody.Mover, repo port.Repository, cache port.Cache, events port.Publisher, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		repo:   repo,
		cache:  cache,
		events: events,
		mover:  mover,
		owner:  owner,
		open:   true,
		now:    time.Now,
		log:    log,
	}
}

// SetClock replaces the engine's time source. Used by tests to cross
// expiration deadlines.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// Owner returns the administrative owner of the escrow.
func (e *Engine) Owner() common.Address {
	return e.owner
}

// Open reports whether new orders are accepted.
func (e *Engine) Open() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// SetOpen flips the make gate. Owner only; live orders are unaffected.
func (e *Engine) SetOpen(caller common.Address, open bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.owner {
		return domain.ErrNotOwner
	}
	e.open = open
	return nil
}

// Make deposits the caller's bundle and stores the order in MADE state.
// The slot (caller, order.Nonce) must be empty or hold a terminal order;
// any caller-supplied state and recovery flags are discarded.
func (e *Engine) Make(ctx context.Context, caller common.Address, o *domain.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return domain.ErrClosed
	}
	if err := o.MakerDetails.Validate(); err != nil {
		return err
	}
	if err := o.TakerDetails.Validate(); err != nil {
		return err
	}
	prev, err := e.repo.GetOrder(ctx, caller, o.Nonce)
	if err == nil && !prev.State.Terminal() {
		return domain.ErrSlotOccupied
	}
	if err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
		return err
	}

	stored := o.Clone()
	stored.Maker = caller
	stored.State = domain.Made
	stored.Recovery = domain.RecoveryDetails{}
	stored.CreatedAt = e.now()
	stored.UpdatedAt = stored.CreatedAt

	if err := e.mover.Move(ctx, custody.Leg{
		Bundle: stored.MakerDetails,
		From:   caller,
		To:     e.mover.Operator(),
	}); err != nil {
		return err
	}
	if err := e.repo.SaveOrder(ctx, stored); err != nil {
		e.release(ctx, stored.MakerDetails, caller)
		return err
	}
	e.afterMutation(ctx, stored)
	e.emit(ctx, domain.EventOrderMade, stored, "")
	return nil
}

// Cancel returns the maker's bundle and terminates a MADE order. Only the
// maker may cancel, at any time; expiration does not apply to MADE orders.
func (e *Engine) Cancel(ctx context.Context, caller, maker common.Address, nonce uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.repo.GetOrder(ctx, maker, nonce)
	if err != nil {
		return err
	}
	if caller != o.Maker {
		return domain.ErrNotMaker
	}
	if o.State != domain.Made {
		return domain.ErrInvalidState
	}

	prev := o.Clone()
	o.State = domain.Cancelled
	o.UpdatedAt = e.now()
	if err := e.repo.SaveOrder(ctx, o); err != nil {
		return err
	}
	if err := e.mover.Move(ctx, custody.Leg{
		Bundle: o.MakerDetails,
		From:   e.mover.Operator(),
		To:     o.Maker,
	}); err != nil {
		e.restore(ctx, prev)
		return err
	}
	e.afterMutation(ctx, o)
	e.emit(ctx, domain.EventOrderCancelled, o, "")
	return nil
}

// Taking deposits the caller's side of a MADE order and binds the caller
// as taker. value models the native currency sent with the call and must
// exactly equal the taker bundle's declared value.
func (e *Engine) Taking(ctx context.Context, caller, maker common.Address, nonce uint64, value decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.repo.GetOrder(ctx, maker, nonce)
	if err != nil {
		return err
	}
	if o.State != domain.Made {
		return domain.ErrInvalidState
	}
	if !e.now().Before(o.Expiration) {
		return domain.ErrOrderExpired
	}
	if !o.OpenTaker() && caller != o.Taker {
		return domain.ErrNotTaker
	}
	if !value.Equal(o.TakerDetails.Value) {
		return domain.ErrValueMismatch
	}

	o.Taker = caller
	o.State = domain.Taking
	o.UpdatedAt = e.now()
	if err := e.mover.Move(ctx, custody.Leg{
		Bundle: o.TakerDetails,
		From:   caller,
		To:     e.mover.Operator(),
	}); err != nil {
		return err
	}
	if err := e.repo.SaveOrder(ctx, o); err != nil {
		e.release(ctx, o.TakerDetails, caller)
		return err
	}
	e.afterMutation(ctx, o)
	e.emit(ctx, domain.EventOrderTaking, o, "")
	return nil
}

// Take settles a TAKING order: both custodied bundles move to their new
// owners in one failure unit. Any caller may finalize; both sides already
// deposited irrevocably and the swap is mechanically fixed, so gating it
// would only invite a settlement deadlock.
func (e *Engine) Take(ctx context.Context, caller, maker common.Address, nonce uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.repo.GetOrder(ctx, maker, nonce)
	if err != nil {
		return err
	}
	if o.State != domain.Taking {
		return domain.ErrInvalidState
	}

	prev := o.Clone()
	o.State = domain.Taken
	o.UpdatedAt = e.now()
	if err := e.repo.SaveOrder(ctx, o); err != nil {
		return err
	}
	if err := e.mover.Move(ctx,
		custody.Leg{Bundle: o.MakerDetails, From: e.mover.Operator(), To: o.Taker},
		custody.Leg{Bundle: o.TakerDetails, From: e.mover.Operator(), To: o.Maker},
	); err != nil {
		e.restore(ctx, prev)
		return err
	}
	e.afterMutation(ctx, o)
	e.emit(ctx, domain.EventOrderTaken, o, "")
	return nil
}

// Recover lets each party of an expired TAKING order reclaim its own
// deposited side, once. The order stays in TAKING; the per-side flags in
// RecoveryDetails are the idempotency guard.
func (e *Engine) Recover(ctx context.Context, caller, maker common.Address, nonce uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.repo.GetOrder(ctx, maker, nonce)
	if err != nil {
		return err
	}
	if o.State != domain.Taking {
		return domain.ErrInvalidState
	}
	if e.now().Before(o.Expiration) {
		return domain.ErrNotExpired
	}

	prev := o.Clone()
	var bundle domain.AssetBundle
	var side domain.RecoverySide
	zero := common.Address{}
	switch {
	case caller == o.Maker && o.Recovery.Maker == zero:
		o.Recovery.Maker = caller
		bundle = o.MakerDetails
		side = domain.MakerSide
	case caller == o.Taker && o.Recovery.Taker == zero:
		o.Recovery.Taker = caller
		bundle = o.TakerDetails
		side = domain.TakerSide
	case caller == o.Maker || caller == o.Taker:
		return domain.ErrAlreadyRecovered
	default:
		return domain.ErrNotParty
	}

	o.UpdatedAt = e.now()
	if err := e.repo.SaveOrder(ctx, o); err != nil {
		return err
	}
	if err := e.mover.Move(ctx, custody.Leg{
		Bundle: bundle,
		From:   e.mover.Operator(),
		To:     caller,
	}); err != nil {
		e.restore(ctx, prev)
		return err
	}
	e.afterMutation(ctx, o)
	e.emit(ctx, domain.EventOrderRecovered, o, side)
	return nil
}

// Details returns the order at (maker, nonce), cache-aside.
func (e *Engine) Details(ctx context.Context, maker common.Address, nonce uint64) (*domain.Order, error) {
	if e.cache != nil {
		if o, err := e.cache.GetOrder(ctx, maker, nonce); err == nil && o != nil {
			return o, nil
		}
	}
	o, err := e.repo.GetOrder(ctx, maker, nonce)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		_ = e.cache.SetOrder(ctx, o)
	}
	return o, nil
}

// OrdersByMaker lists all stored orders for one maker.
func (e *Engine) OrdersByMaker(ctx context.Context, maker common.Address) ([]*domain.Order, error) {
	return e.repo.ListOrdersByMaker(ctx, maker)
}

// release moves a custodied bundle back out of the escrow after a store
// write failed. Transfers out of the escrow's own account need no
// third-party authorization.
func (e *Engine) release(ctx context.Context, bundle domain.AssetBundle, to common.Address) {
	if err := e.mover.Move(ctx, custody.Leg{
		Bundle: bundle,
		From:   e.mover.Operator(),
		To:     to,
	}); err != nil {
		e.log.WithError(err).WithField("to", to.Hex()).Error("failed to release custody after store failure")
	}
}

func (e *Engine) restore(ctx context.Context, prev *domain.Order) {
	if err := e.repo.SaveOrder(ctx, prev); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"maker": prev.Maker.Hex(),
			"nonce": prev.Nonce,
		}).Error("failed to restore order after custody failure")
	}
}

func (e *Engine) afterMutation(ctx context.Context, o *domain.Order) {
	if e.cache != nil {
		_ = e.cache.SetOrder(ctx, o)
	}
	e.log.WithFields(logrus.Fields{
		"maker": o.Maker.Hex(),
		"nonce": o.Nonce,
		"state": o.State,
	}).Info("order state committed")
}

func (e *Engine) emit(ctx context.Context, typ domain.EventType, o *domain.Order, side domain.RecoverySide) {
	if e.events == nil {
		return
	}
	ev := domain.Event{
		ID:    uuid.NewString(),
		Type:  typ,
		Maker: o.Maker,
		Nonce: o.Nonce,
		Taker: o.Taker,
		Side:  side,
		At:    e.now(),
	}
	if err := e.events.Publish(ctx, ev); err != nil {
		e.log.WithError(err).WithField("type", typ).Warn("event publish failed")
	}
}
