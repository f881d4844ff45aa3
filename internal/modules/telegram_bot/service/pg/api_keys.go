package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"softsl_bot/internal/models"
	"softsl_bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

// APIKeys — ключи Bitget по юзерам; лежат jsonb-блобом.
type APIKeys struct {
	db *db.PgTxManager
}

// NewAPIKeys instance
func NewAPIKeys(db *db.PgTxManager) *APIKeys {
	return &APIKeys{db: db}
}

// Get возвращает nil, nil если ключей нет.
func (a *APIKeys) Get(ctx context.Context, owner int64) (creds *models.APICredentials, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.APIKeys.Get: %w", err)
		}
	}()

	var data []byte
	err = a.db.Conn().QueryRow(ctx,
		`SELECT creds FROM bitget_api_keys WHERE owner = $1`, owner,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var c models.APICredentials
	if err = sonic.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save — добавить или обновить ключи.
func (a *APIKeys) Save(ctx context.Context, owner int64, creds models.APICredentials) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.APIKeys.Save: %w", err)
		}
	}()

	data, err := sonic.Marshal(creds)
	if err != nil {
		return err
	}

	return a.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO bitget_api_keys (owner, creds, updated_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (owner) DO UPDATE SET creds = EXCLUDED.creds, updated_at = EXCLUDED.updated_at`,
			owner, data, time.Now(),
		)
		return err
	})
}

// Delete возвращает true, если ключи были.
func (a *APIKeys) Delete(ctx context.Context, owner int64) (deleted bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.APIKeys.Delete: %w", err)
		}
	}()

	err = a.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		ct, err := tx.Exec(ctxTx,
			`DELETE FROM bitget_api_keys WHERE owner = $1`, owner,
		)
		if err != nil {
			return err
		}
		deleted = ct.RowsAffected() > 0
		return nil
	})
	return deleted, err
}
