package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"softsl_bot/internal/slwatch"
	"softsl_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			t.handleStart(ctx, chatID)
		case "setsl":
			// создание ждёт биржу и стор — не держим цикл апдейтов
			go t.handleSetSL(ctx, chatID, msg.CommandArguments())
		case "cancelsl":
			go t.handleCancelSL(ctx, chatID, msg.CommandArguments())
		case "list":
			go t.handleList(ctx, chatID)
		case "removeapi":
			go t.handleRemoveAPI(ctx, chatID)
		default:
			// незнакомые команды молча игнорируем
		}
		return
	}

	// обычный текст: ключи Bitget
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(msg.Text)), "BITGET:") {
		t.handleAPIKeys(ctx, msg)
		return
	}
}

func (t *Telegram) handleStart(ctx context.Context, chatID int64) {
	text := "Hi! I watch soft stop-losses on your Bitget futures positions.\n\n" +
		"1️⃣ First send your Bitget API keys:\n" +
		"`BITGET: apiKey; apiSecret; passphrase`\n\n" +
		"2️⃣ Then arm a soft SL:\n" +
		"/setsl BTC long 60000 1H\n\n" +
		"Other commands:\n" +
		"/cancelsl BTC long - cancel a soft SL\n" +
		"/list - list active soft SLs\n" +
		"/removeapi - remove stored API keys"

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := t.bot.Send(msg); err != nil {
		logger.Error("handleStart send: %v", err)
	}
}

func (t *Telegram) handleSetSL(ctx context.Context, chatID int64, args string) {
	req, err := parseSetArgs(chatID, args)
	if err != nil {
		t.SendF(ctx, chatID, "❗️ %v", err)
		return
	}

	res, err := t.engine.Create(ctx, req)
	if err != nil {
		t.replyCreateError(ctx, chatID, req, err)
		return
	}

	t.SendF(ctx, chatID,
		"✅ An open %s %s position was found:\n"+
			"entry: %s\nmargin: %s\nleverage: %s\nsize: %s\n\n"+
			"Soft SL set at %s close %s %s",
		req.Symbol, req.Direction,
		res.Entry, res.Margin, res.Leverage, res.Size,
		req.Timeframe, req.Direction.AboveOrBelow(), req.Price,
	)
}

func (t *Telegram) replyCreateError(ctx context.Context, chatID int64, req slwatch.CreateRequest, err error) {
	var conflict *slwatch.ConflictError
	switch {
	case errors.Is(err, slwatch.ErrNoAPIKeys):
		t.SendF(ctx, chatID, "No API keys found. Send them first:\nBITGET: apiKey; apiSecret; passphrase")
	case errors.Is(err, slwatch.ErrPositionNotFound):
		t.SendF(ctx, chatID, "An open %s %s position was not found", req.Symbol, req.Direction)
	case errors.As(err, &conflict):
		ex := conflict.Existing
		t.SendF(ctx, chatID, "A soft SL already exists for this position:\n%s close %s %s",
			ex.Timeframe, ex.Direction.AboveOrBelow(), ex.Price)
	default:
		logger.Error("setsl for %d failed: %v", chatID, err)
		t.SendF(ctx, chatID, "❗️ Failed to set soft SL: %v", err)
	}
}

func (t *Telegram) handleCancelSL(ctx context.Context, chatID int64, args string) {
	key, err := parseCancelArgs(chatID, args)
	if err != nil {
		t.SendF(ctx, chatID, "❗️ %v", err)
		return
	}

	deleted, err := t.engine.Cancel(ctx, key)
	if err != nil {
		logger.Error("cancelsl %s failed: %v", key, err)
		t.SendF(ctx, chatID, "❗️ Failed to cancel soft SL: %v", err)
		return
	}
	if !deleted {
		t.SendF(ctx, chatID, "No active soft SL found for %s %s", key.Symbol, key.Direction)
		return
	}
	t.SendF(ctx, chatID, "Soft SL for %s %s has been canceled", key.Symbol, key.Direction)
}

func (t *Telegram) handleList(ctx context.Context, chatID int64) {
	trgs, err := t.engine.List(ctx, chatID)
	if err != nil {
		logger.Error("list for %d failed: %v", chatID, err)
		t.SendF(ctx, chatID, "❗️ Failed to list soft SLs: %v", err)
		return
	}
	if len(trgs) == 0 {
		t.Send(ctx, chatID, "No active soft SLs")
		return
	}

	var b strings.Builder
	b.WriteString("Active soft SLs:\n\n")
	for i, trg := range trgs {
		fmt.Fprintf(&b, "%d. %s %s close %s %s\n",
			i+1, trg.Symbol, trg.Timeframe, trg.Direction.AboveOrBelow(), trg.Price)
	}
	t.Send(ctx, chatID, b.String())
}

func (t *Telegram) handleAPIKeys(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	creds, err := parseAPIKeys(msg.Text)
	if err != nil {
		t.SendF(ctx, chatID, "❗️ %v", err)
		return
	}

	existing, err := t.keys.Get(ctx, chatID)
	if err != nil {
		logger.Error("keys get for %d failed: %v", chatID, err)
		t.Send(ctx, chatID, "❗️ Failed to save Bitget API keys. Please try again.")
		return
	}
	if err := t.keys.Save(ctx, chatID, creds); err != nil {
		logger.Error("keys save for %d failed: %v", chatID, err)
		t.Send(ctx, chatID, "❗️ Failed to save Bitget API keys. Please try again.")
		return
	}

	// сообщение с ключами лучше убрать из чата
	if _, err := t.bot.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		logger.Error("delete keys message for %d failed: %v", chatID, err)
	}

	if existing == nil {
		t.Send(ctx, chatID, "✅ Bitget API added successfully!")
	} else {
		t.Send(ctx, chatID, "✅ Bitget API updated successfully!")
	}
}

func (t *Telegram) handleRemoveAPI(ctx context.Context, chatID int64) {
	deleted, err := t.keys.Delete(ctx, chatID)
	if err != nil {
		logger.Error("keys delete for %d failed: %v", chatID, err)
		t.Send(ctx, chatID, "❗️ Failed to remove Bitget API keys.")
		return
	}
	if !deleted {
		t.Send(ctx, chatID, "No Bitget API keys found for this account")
		return
	}
	t.Send(ctx, chatID, "Bitget API removed successfully!")
}
