package slwatch

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{
		"long":   Long,
		"LONG":   Long,
		" Short": Short,
		"short":  Short,
	} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "buy", "l", "longshort"} {
		_, err := ParseDirection(in)
		assert.Error(t, err, in)
	}
}

func TestDirectionSides(t *testing.T) {
	assert.Equal(t, "close_long", Long.CloseSide())
	assert.Equal(t, "close_short", Short.CloseSide())
	assert.Equal(t, "below", Long.AboveOrBelow())
	assert.Equal(t, "above", Short.AboveOrBelow())
}

func TestParseTimeframe(t *testing.T) {
	cases := map[string]Timeframe{
		"1m":  "1m",
		"15m": "15m",
		"1H":  "1H",
		"1h":  "1H", // регистр прощаем
		"4h":  "4H",
		"1D":  "1D",
		"1d":  "1D",
		"30M": "30m",
	}
	for in, want := range cases {
		got, err := ParseTimeframe(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "2H", "3m", "1W", "candle1H"} {
		_, err := ParseTimeframe(in)
		assert.Error(t, err, in)
	}
}

func TestTimeframeChannel(t *testing.T) {
	assert.Equal(t, "candle1H", Timeframe("1H").Channel())
	assert.Equal(t, "candle15m", Timeframe("15m").Channel())
	assert.Equal(t, time.Hour, Timeframe("1H").Duration())
}

func TestKeyString(t *testing.T) {
	key := Key{Owner: 42, Symbol: "ETHUSDT_UMCBL", Direction: Short}
	assert.Equal(t, "42/ETHUSDT_UMCBL/short", key.String())
}

func TestTripped(t *testing.T) {
	price := decimal.RequireFromString("60000")

	long := &Trigger{Direction: Long, Price: price}
	short := &Trigger{Direction: Short, Price: price}

	cases := []struct {
		name string
		trg  *Trigger
		open string
		want bool
	}{
		{"long below trips", long, "59999.99", true},
		{"long equal does not", long, "60000", false},
		{"long above does not", long, "60001", false},
		{"short above trips", short, "60000.01", true},
		{"short equal does not", short, "60000", false},
		{"short below does not", short, "59000", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			open := decimal.RequireFromString(tc.open)
			assert.Equal(t, tc.want, tc.trg.Tripped(open))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "watching", Watching.String())
	assert.Equal(t, "fired", Fired.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "aborted", Aborted.String())
}
