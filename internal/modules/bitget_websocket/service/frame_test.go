package service

import (
	"testing"

	"softsl_bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandleFrame(t *testing.T) {
	const frame = `{
		"action": "update",
		"arg": {"instType": "mc", "channel": "candle1H", "instId": "BTCUSDT"},
		"data": [["1700000000000", "59500", "59800", "59300", "59400", "120", "7130000"]]
	}`

	t.Run("matching frame", func(t *testing.T) {
		events, ok := parseCandleFrame([]byte(frame), "candle1H", "BTCUSDT")
		require.True(t, ok)
		require.Len(t, events, 1)
		assert.Equal(t, models.CandleUpdate, events[0].Kind)
		assert.Equal(t, "59500", events[0].Open.String())
		assert.Equal(t, "59400", events[0].Close.String())
	})

	t.Run("other channel is skipped", func(t *testing.T) {
		_, ok := parseCandleFrame([]byte(frame), "candle15m", "BTCUSDT")
		assert.False(t, ok)
	})

	t.Run("other instrument is skipped", func(t *testing.T) {
		_, ok := parseCandleFrame([]byte(frame), "candle1H", "ETHUSDT")
		assert.False(t, ok)
	})

	t.Run("not json", func(t *testing.T) {
		_, ok := parseCandleFrame([]byte("pong"), "candle1H", "BTCUSDT")
		assert.False(t, ok)
	})

	t.Run("subscribe ack has no data", func(t *testing.T) {
		ack := `{"event": "subscribe", "arg": {"instType": "mc", "channel": "candle1H", "instId": "BTCUSDT"}}`
		_, ok := parseCandleFrame([]byte(ack), "candle1H", "BTCUSDT")
		assert.False(t, ok)
	})

	t.Run("malformed rows are dropped", func(t *testing.T) {
		mixed := `{
			"arg": {"channel": "candle1H", "instId": "BTCUSDT"},
			"data": [
				["1700000000000", "59500"],
				["1700000000000", "oops", "1", "1", "59400"],
				["1700000000000", "59500", "59800", "59300", "0"],
				["1700003600000", "59400", "59600", "59100", "59200", "80"]
			]
		}`
		events, ok := parseCandleFrame([]byte(mixed), "candle1H", "BTCUSDT")
		require.True(t, ok)
		require.Len(t, events, 1)
		assert.Equal(t, "59400", events[0].Open.String())
		assert.Equal(t, "59200", events[0].Close.String())
	})

	t.Run("snapshot collapses to the latest row", func(t *testing.T) {
		// история в снапшоте: старые opens далеко за любым разумным порогом,
		// наружу должна выйти ровно одна строка — последняя
		snap := `{
			"action": "snapshot",
			"arg": {"channel": "candle1H", "instId": "BTCUSDT"},
			"data": [
				["1699992800000", "55000", "60300", "54900", "56000", "50"],
				["1699996400000", "56000", "60300", "55900", "57000", "50"],
				["1700000000000", "60000", "60200", "59800", "59900", "40"]
			]
		}`
		events, ok := parseCandleFrame([]byte(snap), "candle1H", "BTCUSDT")
		require.True(t, ok)
		require.Len(t, events, 1)
		assert.Equal(t, "60000", events[0].Open.String())
		assert.Equal(t, "59900", events[0].Close.String())
	})

	t.Run("update keeps all rows", func(t *testing.T) {
		upd := `{
			"action": "update",
			"arg": {"channel": "candle1H", "instId": "BTCUSDT"},
			"data": [
				["1700000000000", "60000", "60200", "59800", "59900", "40"],
				["1700003600000", "59900", "60000", "59700", "59800", "10"]
			]
		}`
		events, ok := parseCandleFrame([]byte(upd), "candle1H", "BTCUSDT")
		require.True(t, ok)
		assert.Len(t, events, 2)
	})
}
