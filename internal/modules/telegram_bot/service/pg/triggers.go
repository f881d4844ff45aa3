package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"softsl_bot/internal/slwatch"
	"softsl_bot/pkg/db"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Triggers — стор мягких стопов в Postgres; ключ (owner, symbol, direction).
type Triggers struct {
	db *db.PgTxManager
}

// NewTriggers instance
func NewTriggers(db *db.PgTxManager) *Triggers {
	return &Triggers{db: db}
}

// Find возвращает nil, nil если записи нет.
func (t *Triggers) Find(ctx context.Context, key slwatch.Key) (trg *slwatch.Trigger, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Triggers.Find: %w", err)
		}
	}()

	var (
		price     string
		timeframe string
		createdAt time.Time
	)
	err = t.db.Conn().QueryRow(ctx,
		`SELECT price::text, timeframe, created_at
		   FROM soft_sl_triggers
		  WHERE owner = $1 AND symbol = $2 AND direction = $3`,
		key.Owner, key.Symbol, string(key.Direction),
	).Scan(&price, &timeframe, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rowToTrigger(key.Owner, key.Symbol, string(key.Direction), price, timeframe, createdAt)
}

// Insert возвращает false, если запись с таким ключом уже есть: атомарный
// условный insert вместо check-then-insert, раз Postgres это умеет.
func (t *Triggers) Insert(ctx context.Context, trg *slwatch.Trigger) (inserted bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Triggers.Insert: %w", err)
		}
	}()

	err = t.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		ct, err := tx.Exec(ctxTx,
			`INSERT INTO soft_sl_triggers (owner, symbol, direction, price, timeframe, created_at)
			 VALUES ($1, $2, $3, $4::numeric, $5, $6)
			 ON CONFLICT (owner, symbol, direction) DO NOTHING`,
			trg.Owner, trg.Symbol, string(trg.Direction),
			trg.Price.String(), string(trg.Timeframe), trg.CreatedAt,
		)
		if err != nil {
			return err
		}
		inserted = ct.RowsAffected() > 0
		return nil
	})
	return inserted, err
}

// Delete возвращает true, если запись была.
func (t *Triggers) Delete(ctx context.Context, key slwatch.Key) (deleted bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Triggers.Delete: %w", err)
		}
	}()

	err = t.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		ct, err := tx.Exec(ctxTx,
			`DELETE FROM soft_sl_triggers
			  WHERE owner = $1 AND symbol = $2 AND direction = $3`,
			key.Owner, key.Symbol, string(key.Direction),
		)
		if err != nil {
			return err
		}
		deleted = ct.RowsAffected() > 0
		return nil
	})
	return deleted, err
}

func (t *Triggers) ListByOwner(ctx context.Context, owner int64) (trgs []*slwatch.Trigger, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Triggers.ListByOwner: %w", err)
		}
	}()

	rows, err := t.db.Conn().Query(ctx,
		`SELECT symbol, direction, price::text, timeframe, created_at
		   FROM soft_sl_triggers
		  WHERE owner = $1
		  ORDER BY created_at`,
		owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			symbol    string
			direction string
			price     string
			timeframe string
			createdAt time.Time
		)
		if err := rows.Scan(&symbol, &direction, &price, &timeframe, &createdAt); err != nil {
			return nil, err
		}
		trg, err := rowToTrigger(owner, symbol, direction, price, timeframe, createdAt)
		if err != nil {
			return nil, err
		}
		trgs = append(trgs, trg)
	}
	return trgs, rows.Err()
}

func rowToTrigger(owner int64, symbol, direction, price, timeframe string, createdAt time.Time) (*slwatch.Trigger, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	dir, err := slwatch.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	tf, err := slwatch.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	return &slwatch.Trigger{
		Owner:     owner,
		Symbol:    symbol,
		Direction: dir,
		Price:     p,
		Timeframe: tf,
		// в сторе живут только наблюдаемые записи
		State:     slwatch.Watching,
		CreatedAt: createdAt,
	}, nil
}
