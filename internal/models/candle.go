package models

import "github.com/shopspring/decimal"

type CandleEventKind int

const (
	// CandleUpdate — очередное сообщение свечного канала.
	CandleUpdate CandleEventKind = iota
	// CandleReconnect — поток переподключился; следующее сообщение канала
	// будет снапшотом текущего состояния, а не новым закрытием.
	CandleReconnect
)

// CandleEvent — событие свечного потока по одной подписке (symbol, timeframe).
type CandleEvent struct {
	Kind  CandleEventKind
	Open  decimal.Decimal // цена открытия интервала
	Close decimal.Decimal // цена закрытия (для репорта об исполнении)
}
