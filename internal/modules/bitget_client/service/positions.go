package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"softsl_bot/internal/models"

	"github.com/shopspring/decimal"
)

// OpenPositions — все позиции аккаунта по продуктовой линейке.
// Нулевые (total == 0) не фильтруем здесь: это решение вызывающего.
func (c *Client) OpenPositions(ctx context.Context) ([]models.Position, error) {
	requestPath := "/api/mix/v1/position/allPosition?productType=" + c.productType + "&marginCoin=" + c.marginCoin

	ts := nowMillis()
	sign := c.sign(ts, http.MethodGet, requestPath, "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+requestPath, nil)
	if err != nil {
		return nil, fmt.Errorf("OpenPositions new request: %w", err)
	}
	c.authHeaders(req, ts, sign)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenPositions do: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("OpenPositions http %d: %s", resp.StatusCode, string(data))
	}

	var r allPositionResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("OpenPositions decode: %w", err)
	}
	if r.Code != "00000" {
		return nil, fmt.Errorf("bitget error: code=%s msg=%s", r.Code, r.Msg)
	}

	out := make([]models.Position, 0, len(r.Data))
	for _, p := range r.Data {
		total, err := decimal.NewFromString(p.Total)
		if err != nil {
			// битое поле — позицию пропускаем, остальные отдаём
			continue
		}
		out = append(out, models.Position{
			Symbol:           p.Symbol,
			HoldSide:         p.HoldSide,
			Total:            total,
			Available:        p.Available,
			AverageOpenPrice: p.AverageOpenPrice,
			Margin:           p.Margin,
			Leverage:         p.Leverage,
			MarginCoin:       p.MarginCoin,
		})
	}
	return out, nil
}
