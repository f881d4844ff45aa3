package telegram

import (
	"context"

	bitget_client "softsl_bot/internal/modules/bitget_client"
	"softsl_bot/internal/modules/config"
	"softsl_bot/internal/modules/telegram_bot/service"
	"softsl_bot/internal/modules/telegram_bot/service/pg"
	"softsl_bot/internal/notify"
	"softsl_bot/internal/slwatch"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// 1. Бот один на командную поверхность и нотифайер
		fx.Provide(
			func(cfg *config.Config) (*tgbot.BotAPI, error) {
				return tgbot.NewBotAPI(cfg.Telegram.Token)
			},
		),

		// 2. Репозитории: ключи и триггеры
		fx.Provide(
			pg.NewAPIKeys,
			pg.NewTriggers,
			func(k *pg.APIKeys) bitget_client.KeyStore {
				return k
			},
			func(t *pg.Triggers) slwatch.TriggerStore {
				return t
			},
		),

		// 3. Нотифайер движка: *notify.Telegram -> slwatch.Notifier
		fx.Provide(
			notify.NewTelegram,
			func(n *notify.Telegram) slwatch.Notifier {
				return n
			},
		),

		// 4. Сервис Telegram
		fx.Provide(
			service.NewTelegram,
		),

		// Запуск основного цикла через Lifecycle. Цикл живёт на базовом
		// контексте процесса: контекст OnStart умирает сразу после старта.
		fx.Invoke(
			func(lc fx.Lifecycle, appCtx context.Context, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						go t.Start(appCtx)
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
