package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
)

// CloseMarket закрывает позицию рыночным ордером.
// side — close_long / close_short, size — строка available из позиции.
func (c *Client) CloseMarket(ctx context.Context, symbol, marginCoin, side, size string) (string, error) {
	if size == "" || size == "0" {
		return "", fmt.Errorf("CloseMarket: empty size")
	}
	if marginCoin == "" {
		marginCoin = c.marginCoin
	}

	body := map[string]string{
		"symbol":     symbol,
		"marginCoin": marginCoin,
		"size":       size,
		"side":       side,
		"orderType":  "market",
	}
	payload, _ := sonic.Marshal(body)

	const requestPath = "/api/mix/v1/order/placeOrder"
	ts := nowMillis()
	sign := c.sign(ts, http.MethodPost, requestPath, string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+requestPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("CloseMarket new request: %w", err)
	}
	c.authHeaders(req, ts, sign)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("CloseMarket do: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("CloseMarket http %d: %s", resp.StatusCode, string(data))
	}

	var r placeOrderResponse
	_ = json.Unmarshal(data, &r)

	if r.Code != "00000" {
		return "", fmt.Errorf("CloseMarket error: code=%s msg=%s RAW=%s", r.Code, r.Msg, string(data))
	}
	if r.Data.OrderID == "" {
		return "", fmt.Errorf("CloseMarket empty orderId RAW=%s", string(data))
	}
	return r.Data.OrderID, nil
}
