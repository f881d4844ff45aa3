package service

import (
	"softsl_bot/internal/models"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

type candleFrame struct {
	Action string `json:"action"` // snapshot / update
	Arg    struct {
		InstType string `json:"instType"`
		Channel  string `json:"channel"`
		InstID   string `json:"instId"`
	} `json:"arg"`
	Data [][]string `json:"data"`
}

// parseCandleFrame выбирает из кадра свечи нашей подписки.
// ожидаемый формат строки data: [ts, open, high, low, close, baseVol, quoteVol]
func parseCandleFrame(msg []byte, channel, instID string) ([]models.CandleEvent, bool) {
	var frame candleFrame
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return nil, false
	}
	if frame.Arg.Channel != channel || frame.Arg.InstID != instID || len(frame.Data) == 0 {
		return nil, false
	}

	rows := frame.Data
	// снапшот несёт историю интервалов; текущее состояние только в
	// последней строке, остальные — протухшие opens, по ним решать нельзя
	if frame.Action == "snapshot" && len(rows) > 1 {
		rows = rows[len(rows)-1:]
	}

	events := make([]models.CandleEvent, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		open, err1 := decimal.NewFromString(row[1])
		closep, err2 := decimal.NewFromString(row[4])
		if err1 != nil || err2 != nil {
			continue
		}
		if !closep.IsPositive() {
			continue
		}
		events = append(events, models.CandleEvent{
			Kind:  models.CandleUpdate,
			Open:  open,
			Close: closep,
		})
	}
	return events, len(events) > 0
}
