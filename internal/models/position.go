package models

import "github.com/shopspring/decimal"

// Position — открытая позиция на Bitget (USDT-M futures).
// Числовые поля приходят строками, для отображения так и храним;
// Total парсим, потому что по нему решаем "позиция открыта или нет".
type Position struct {
	Symbol           string          // BTCUSDT_UMCBL
	HoldSide         string          // long / short
	Total            decimal.Decimal // 0 => позиция не открыта
	Available        string          // закрываемый объём, уходит в ордер как есть
	AverageOpenPrice string
	Margin           string
	Leverage         string
	MarginCoin       string // обычно USDT
}

// Open — позиция реально открыта.
func (p Position) Open() bool {
	return !p.Total.IsZero()
}
