package service

import (
	"context"
	"fmt"

	"softsl_bot/internal/modules/config"
	"softsl_bot/internal/modules/telegram_bot/service/pg"
	"softsl_bot/internal/slwatch"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram — командная поверхность бота: приём и разбор команд, ответы юзеру.
type Telegram struct {
	bot    *tgbot.BotAPI
	cfg    *config.Config
	keys   *pg.APIKeys
	engine *slwatch.Engine
}

func NewTelegram(cfg *config.Config, bot *tgbot.BotAPI, keys *pg.APIKeys, engine *slwatch.Engine) *Telegram {
	return &Telegram{
		bot:    bot,
		cfg:    cfg,
		keys:   keys,
		engine: engine,
	}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.bot.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

// Start ...
func (t *Telegram) Start(ctx context.Context) error {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)
	for update := range updates {
		t.handleUpdate(ctx, update)
	}
	return nil
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
