package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		http:        srv.Client(),
		baseURL:     srv.URL,
		productType: "umcbl",
		marginCoin:  "USDT",
		apiKey:      "key",
		apiSecret:   "secret",
		passph:      "pass",
	}
}

func TestOpenPositions(t *testing.T) {
	t.Run("maps payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/mix/v1/position/allPosition", r.URL.Path)
			assert.Equal(t, "umcbl", r.URL.Query().Get("productType"))
			assert.NotEmpty(t, r.Header.Get("ACCESS-SIGN"))
			w.Write([]byte(`{
				"code": "00000",
				"data": [
					{"symbol": "BTCUSDT_UMCBL", "holdSide": "long", "total": "0.5",
					 "available": "0.5", "averageOpenPrice": "61000", "margin": "305",
					 "leverage": "100", "marginCoin": "USDT"},
					{"symbol": "ETHUSDT_UMCBL", "holdSide": "short", "total": "0",
					 "available": "0", "marginCoin": "USDT"},
					{"symbol": "XRPUSDT_UMCBL", "holdSide": "long", "total": "not-a-number"}
				]
			}`))
		}))
		defer srv.Close()

		positions, err := testClient(srv).OpenPositions(context.Background())
		require.NoError(t, err)
		// битая строка выпала, нулевая осталась (фильтрует вызывающий)
		require.Len(t, positions, 2)

		assert.Equal(t, "BTCUSDT_UMCBL", positions[0].Symbol)
		assert.Equal(t, "long", positions[0].HoldSide)
		assert.True(t, positions[0].Open())
		assert.Equal(t, "0.5", positions[0].Available)
		assert.Equal(t, "61000", positions[0].AverageOpenPrice)

		assert.False(t, positions[1].Open())
	})

	t.Run("api error code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code": "40037", "msg": "apikey not exists"}`))
		}))
		defer srv.Close()

		_, err := testClient(srv).OpenPositions(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40037")
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := testClient(srv).OpenPositions(context.Background())
		assert.Error(t, err)
	})
}

func TestCloseMarket(t *testing.T) {
	t.Run("places market order", func(t *testing.T) {
		var gotBody map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/mix/v1/order/placeOrder", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Write([]byte(`{"code": "00000", "data": {"orderId": "1042"}}`))
		}))
		defer srv.Close()

		orderID, err := testClient(srv).CloseMarket(context.Background(),
			"BTCUSDT_UMCBL", "USDT", "close_long", "0.5")
		require.NoError(t, err)
		assert.Equal(t, "1042", orderID)

		assert.Equal(t, map[string]string{
			"symbol":     "BTCUSDT_UMCBL",
			"marginCoin": "USDT",
			"size":       "0.5",
			"side":       "close_long",
			"orderType":  "market",
		}, gotBody)
	})

	t.Run("empty size is rejected locally", func(t *testing.T) {
		c := &Client{}
		_, err := c.CloseMarket(context.Background(), "BTCUSDT_UMCBL", "USDT", "close_long", "")
		assert.Error(t, err)
		_, err = c.CloseMarket(context.Background(), "BTCUSDT_UMCBL", "USDT", "close_long", "0")
		assert.Error(t, err)
	})

	t.Run("order rejection surfaces code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code": "40757", "msg": "order size too small"}`))
		}))
		defer srv.Close()

		_, err := testClient(srv).CloseMarket(context.Background(),
			"BTCUSDT_UMCBL", "USDT", "close_long", "0.0001")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40757")
	})
}
