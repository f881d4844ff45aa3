package notify

import (
	"context"
	"fmt"

	"softsl_bot/internal/modules/config"
	"softsl_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram — пассивный нотифайер движка: личные сообщения владельцу
// триггера и broadcast в общий канал. Fire-and-forget: ошибки доставки
// логируются и никогда не доходят до движка.
type Telegram struct {
	bot             *tgbot.BotAPI
	broadcastChatID int64
}

func NewTelegram(bot *tgbot.BotAPI, cfg *config.Config) *Telegram {
	return &Telegram{
		bot:             bot,
		broadcastChatID: cfg.Telegram.BroadcastChatID,
	}
}

func (t *Telegram) Notify(ctx context.Context, owner int64, text string) {
	if t == nil || t.bot == nil || owner == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(owner, text)); err != nil {
		logger.Error("notify %d failed: %v", owner, err)
	}
}

func (t *Telegram) Broadcast(ctx context.Context, text string) {
	if t == nil || t.bot == nil || t.broadcastChatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.broadcastChatID, text)); err != nil {
		logger.Error("broadcast failed: %v", err)
	}
}

func (t *Telegram) Broadcastf(ctx context.Context, format string, args ...any) {
	t.Broadcast(ctx, fmt.Sprintf(format, args...))
}
