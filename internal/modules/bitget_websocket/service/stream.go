package service

import (
	"context"
	"log"
	"strings"
	"time"

	"softsl_bot/internal/models"
	"softsl_bot/internal/modules/config"
	"softsl_bot/internal/slwatch"

	"github.com/gorilla/websocket"
)

// Client — свечной стрим Bitget mix v1: одно ws-соединение на подписку.
type Client struct {
	wsDialer *websocket.Dialer
	url      string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		wsDialer: &websocket.Dialer{},
		url:      cfg.Bitget.WsURL,
	}
}

type subscription struct {
	events chan models.CandleEvent
	cancel context.CancelFunc
}

func (s *subscription) Events() <-chan models.CandleEvent { return s.events }

// Close идемпотентен и безопасен из чужой горутины.
func (s *subscription) Close() { s.cancel() }

// Subscribe открывает поток по (symbol, timeframe). Переподключение живёт
// под этим интерфейсом: после каждого реконнекта в канал уходит отдельное
// событие CandleReconnect, потому что первое сообщение свежего соединения —
// снапшот, и подписчик должен об этом знать.
func (c *Client) Subscribe(ctx context.Context, symbol string, tf slwatch.Timeframe) (slwatch.Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		events: make(chan models.CandleEvent),
		cancel: cancel,
	}

	channel := tf.Channel() // "1H" -> "candle1H"
	// ws-канал ходит по instId без суффикса контракта
	instID := strings.ReplaceAll(symbol, "_UMCBL", "")

	go c.run(subCtx, sub, channel, instID)

	return sub, nil
}

func (c *Client) run(ctx context.Context, sub *subscription, channel, instID string) {
	defer close(sub.events)

	first := true
	for {
		if ctx.Err() != nil {
			return
		}

		if !first {
			// реконнект: следующий кадр канала будет снапшотом
			select {
			case sub.events <- models.CandleEvent{Kind: models.CandleReconnect}:
			case <-ctx.Done():
				return
			}
		}

		log.Printf("[WS] connect %s %s", channel, instID)
		conn, _, err := c.wsDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			log.Printf("[WS] dial error %s %s: %v", channel, instID, err)
			first = false
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		first = false

		subMsg := map[string]any{
			"op": "subscribe",
			"args": []map[string]string{{
				"instType": "mc",
				"channel":  channel,
				"instId":   instID,
			}},
		}
		if err := conn.WriteJSON(subMsg); err != nil {
			log.Printf("[WS] subscribe error %s %s: %v", channel, instID, err)
			_ = conn.Close()
			continue
		}

		// keepalive: Bitget ждёт текстовый "ping" каждые ~30s, иначе рвёт.
		// Эта же горутина рвёт соединение при отмене: read-loop висит в
		// ReadMessage и иначе заметит отмену только по активности рынка.
		connDone := make(chan struct{})
		go func() {
			t := time.NewTicker(25 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					_ = conn.Close()
					return
				case <-connDone:
					return
				case <-t.C:
					_ = conn.WriteMessage(websocket.TextMessage, []byte("ping"))
				}
			}
		}()

		// основной read-loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Printf("[WS] read error %s %s: %v", channel, instID, err)
				_ = conn.Close()
				close(connDone)
				break
			}
			if string(msg) == "pong" {
				continue
			}

			events, ok := parseCandleFrame(msg, channel, instID)
			if !ok {
				continue
			}
			for _, ev := range events {
				select {
				case sub.events <- ev:
				case <-ctx.Done():
					_ = conn.Close()
					return
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}
