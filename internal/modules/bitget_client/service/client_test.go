package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// векторы посчитаны отдельно: base64(HMAC-SHA256(ts + METHOD + path + body))
func TestSign(t *testing.T) {
	c := &Client{apiSecret: "test-secret"}

	t.Run("get with query", func(t *testing.T) {
		got := c.sign("1700000000000", "GET", "/api/mix/v1/position/allPosition?productType=umcbl", "")
		assert.Equal(t, "xFoCiIXNlkYYNIBS49LkDXApacvRaLOAVpvl5W8KAGs=", got)
	})

	t.Run("post with body", func(t *testing.T) {
		got := c.sign("1700000000000", "POST", "/api/mix/v1/order/placeOrder", `{"symbol":"BTCUSDT_UMCBL"}`)
		assert.Equal(t, "YwwW9EvfR/Tp1RZCGQ3Wjv5YSRi22qsTygtNn2DqwGU=", got)
	})
}

func TestAuthHeaders(t *testing.T) {
	c := &Client{apiKey: "key-1", passph: "pass-1"}
	req, err := http.NewRequest(http.MethodGet, "https://api.bitget.com/api/mix/v1/position/allPosition", nil)
	require.NoError(t, err)

	c.authHeaders(req, "1700000000000", "sig")

	assert.Equal(t, "key-1", req.Header.Get("ACCESS-KEY"))
	assert.Equal(t, "sig", req.Header.Get("ACCESS-SIGN"))
	assert.Equal(t, "1700000000000", req.Header.Get("ACCESS-TIMESTAMP"))
	assert.Equal(t, "pass-1", req.Header.Get("ACCESS-PASSPHRASE"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}
