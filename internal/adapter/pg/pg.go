package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swapvault/escrow-engine/internal/domain"
	"github.com/swapvault/escrow-engine/internal/port"
)

var _ port.Repository = (*PgRepo)(nil)

// PgRepo persists orders keyed (maker, nonce); bundles and recovery flags
// are stored as JSONB.
type PgRepo struct {
	pool *pgxpool.Pool
}

// call Close when finished working with the database.
func NewPgRepo(ctx context.Context, dsn string) (*PgRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return &PgRepo{pool: pool}, nil
}

func (p *PgRepo) Close(ctx context.Context) {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PgRepo) SaveOrder(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return errors.New("nil order")
	}
	makerDetails, err := json.Marshal(o.MakerDetails)
	if err != nil {
		return err
	}
	takerDetails, err := json.Marshal(o.TakerDetails)
	if err != nil {
		return err
	}
	recovery, err := json.Marshal(o.Recovery)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
INSERT INTO orders(maker, nonce, taker, expiration, state, maker_details, taker_details, recovery, created_at, updated_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (maker, nonce) DO UPDATE SET
  taker = EXCLUDED.taker,
  expiration = EXCLUDED.expiration,
  state = EXCLUDED.state,
  maker_details = EXCLUDED.maker_details,
  taker_details = EXCLUDED.taker_details,
  recovery = EXCLUDED.recovery,
  created_at = EXCLUDED.created_at,
  updated_at = EXCLUDED.updated_at
`, o.Maker.Hex(), int64(o.Nonce), o.Taker.Hex(), o.Expiration, string(o.State),
		string(makerDetails), string(takerDetails), string(recovery), o.CreatedAt, o.UpdatedAt)
	return err
}

func (p *PgRepo) GetOrder(ctx context.Context, maker common.Address, nonce uint64) (*domain.Order, error) {
	row := p.pool.QueryRow(ctx, `
SELECT maker, nonce, taker, expiration, state, maker_details, taker_details, recovery, created_at, updated_at
FROM orders
WHERE maker = $1 AND nonce = $2
`, maker.Hex(), int64(nonce))
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	return o, err
}

func (p *PgRepo) ListOrdersByMaker(ctx context.Context, maker common.Address) ([]*domain.Order, error) {
	rows, err := p.pool.Query(ctx, `
SELECT maker, nonce, taker, expiration, state, maker_details, taker_details, recovery, created_at, updated_at
FROM orders
WHERE maker = $1
ORDER BY nonce ASC
`, maker.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanOrder(row scannable) (*domain.Order, error) {
	var (
		o            domain.Order
		maker, taker string
		nonce        int64
		state        string
		makerDetails []byte
		takerDetails []byte
		recovery     []byte
		expiration   time.Time
	)
	if err := row.Scan(&maker, &nonce, &taker, &expiration, &state,
		&makerDetails, &takerDetails, &recovery, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Maker = common.HexToAddress(maker)
	o.Taker = common.HexToAddress(taker)
	o.Nonce = uint64(nonce)
	o.Expiration = expiration
	o.State = domain.OrderState(state)
	if err := json.Unmarshal(makerDetails, &o.MakerDetails); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(takerDetails, &o.TakerDetails); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recovery, &o.Recovery); err != nil {
		return nil, err
	}
	return &o, nil
}
