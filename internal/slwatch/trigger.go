package slwatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction — сторона позиции, которую защищает стоп.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return Long, nil
	case "short":
		return Short, nil
	}
	return "", fmt.Errorf("direction must be long or short, got %q", s)
}

// CloseSide — сторона рыночного ордера, закрывающего позицию.
func (d Direction) CloseSide() string {
	if d == Short {
		return "close_short"
	}
	return "close_long"
}

// AboveOrBelow — как описывать условие юзеру: лонг срабатывает закрытием ниже
// цены, шорт — выше.
func (d Direction) AboveOrBelow() string {
	if d == Short {
		return "above"
	}
	return "below"
}

// Timeframe — интервал свечи. Канал Bitget: "candle" + Timeframe.
type Timeframe string

var timeframes = map[Timeframe]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1H":  time.Hour,
	"4H":  4 * time.Hour,
	"6H":  6 * time.Hour,
	"12H": 12 * time.Hour,
	"1D":  24 * time.Hour,
}

func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.TrimSpace(s))
	if _, ok := timeframes[tf]; !ok {
		// минуты строчные, часы/дни заглавные — прощаем регистр
		upper := Timeframe(strings.ToUpper(string(tf)))
		lower := Timeframe(strings.ToLower(string(tf)))
		if _, ok := timeframes[upper]; ok {
			return upper, nil
		}
		if _, ok := timeframes[lower]; ok {
			return lower, nil
		}
		return "", fmt.Errorf("unsupported timeframe %q (want 1m 5m 15m 30m 1H 4H 6H 12H 1D)", s)
	}
	return tf, nil
}

func (tf Timeframe) Channel() string {
	return "candle" + string(tf)
}

func (tf Timeframe) Duration() time.Duration {
	return timeframes[tf]
}

// State — жизненный цикл триггера. Watching — единственное не-терминальное
// состояние после создания; терминальные записи из стора удаляются.
type State int

const (
	Pending State = iota
	Watching
	Fired
	Cancelled
	Aborted
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Watching:
		return "watching"
	case Fired:
		return "fired"
	case Cancelled:
		return "cancelled"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Key — уникальность триггера: не больше одного живого на
// (owner, symbol, direction).
type Key struct {
	Owner     int64
	Symbol    string
	Direction Direction
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s/%s", k.Owner, k.Symbol, k.Direction)
}

// Trigger — мягкий стоп-лосс: закрыть позицию рыночным ордером, когда свеча
// выбранного таймфрейма уйдёт за порог.
type Trigger struct {
	Owner     int64
	Symbol    string // BTCUSDT_UMCBL
	Direction Direction
	Price     decimal.Decimal
	Timeframe Timeframe
	State     State
	CreatedAt time.Time
}

func (t *Trigger) Key() Key {
	return Key{Owner: t.Owner, Symbol: t.Symbol, Direction: t.Direction}
}

// Tripped — условие срабатывания. Сознательно по цене открытия интервала
// (закрывшаяся свеча несёт open только что завершившегося интервала), строгие
// неравенства: ровно на пороге не срабатывает.
func (t *Trigger) Tripped(open decimal.Decimal) bool {
	switch t.Direction {
	case Long:
		return open.LessThan(t.Price)
	case Short:
		return open.GreaterThan(t.Price)
	}
	return false
}
