package main

import (
	"context"
	"log"

	bitget_client "softsl_bot/internal/modules/bitget_client"
	bitget_websocket "softsl_bot/internal/modules/bitget_websocket"
	"softsl_bot/internal/modules/config"
	"softsl_bot/internal/modules/health"
	"softsl_bot/internal/modules/postgres"
	telegram "softsl_bot/internal/modules/telegram_bot"
	"softsl_bot/internal/slwatch"
	"softsl_bot/pkg/logger"
	"softsl_bot/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("softsl_bot")
	tracing.SetServiceName("softsl_bot")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		bitget_client.Module(),
		bitget_websocket.Module(),
		slwatch.Module(),
		telegram.Module(),
		health.Module(),
		fx.Invoke(
			func(lc fx.Lifecycle, cfg *config.Config) error {
				if cfg.Jaeger.Host == "" {
					return nil
				}
				_, closeTracer, err := tracing.InitTracer(tracing.Config{
					Host: cfg.Jaeger.Host,
					Port: cfg.Jaeger.Port,
				})
				if err != nil {
					return err
				}
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						closeTracer()
						return nil
					},
				})
				return nil
			},
		),
	)
	app.Run()
}
