package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"softsl_bot/internal/modules/config"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// сервер принимает подписку и молчит: свечей не будет, ридер висит
func silentWsServer(t *testing.T) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestSubscribeCloseUnblocksReader(t *testing.T) {
	srv := silentWsServer(t)
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Bitget.WsURL = "ws" + strings.TrimPrefix(srv.URL, "http")

	c := NewClient(cfg)
	sub, err := c.Subscribe(context.Background(), "BTCUSDT_UMCBL", "1H")
	require.NoError(t, err)

	// даём потоку подключиться и подписаться
	time.Sleep(100 * time.Millisecond)
	sub.Close()

	// отмена должна уронить висящий ReadMessage, а не ждать активности рынка
	select {
	case _, ok := <-sub.Events():
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not exit after Close")
	}
}
