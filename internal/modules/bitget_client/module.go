package bitget_client

import (
	"context"

	"softsl_bot/internal/models"
	"softsl_bot/internal/modules/bitget_client/service"
	"softsl_bot/internal/modules/config"
	"softsl_bot/internal/slwatch"

	"go.uber.org/fx"
)

// KeyStore — сохранённые ключи Bitget; nil, nil — у юзера ключей нет.
type KeyStore interface {
	Get(ctx context.Context, owner int64) (*models.APICredentials, error)
}

// Factory собирает REST-клиент под ключи конкретного юзера.
type Factory struct {
	cfg  *config.Config
	keys KeyStore
}

func NewFactory(cfg *config.Config, keys KeyStore) *Factory {
	return &Factory{cfg: cfg, keys: keys}
}

func (f *Factory) ClientFor(ctx context.Context, owner int64) (slwatch.ExchangeClient, error) {
	creds, err := f.keys.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, slwatch.ErrNoAPIKeys
	}
	return service.NewClient(f.cfg, *creds), nil
}

func Module() fx.Option {
	return fx.Module("bitget_client",
		fx.Provide(
			NewFactory,
			// адаптер: *Factory -> slwatch.Accounts
			func(f *Factory) slwatch.Accounts {
				return f
			},
		),
	)
}
