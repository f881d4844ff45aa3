package service

import (
	"fmt"
	"strings"

	"softsl_bot/internal/models"
	"softsl_bot/internal/slwatch"

	"github.com/shopspring/decimal"
)

// normalizeSymbol: "btc" -> "BTCUSDT_UMCBL". Юзер шлёт только монету,
// без "USDT".
func normalizeSymbol(coin string) string {
	return strings.ToUpper(strings.TrimSpace(coin)) + "USDT_UMCBL"
}

// parseSetArgs разбирает хвост команды /setsl: "<coin> <long|short> <price> <timeframe>".
func parseSetArgs(owner int64, args string) (slwatch.CreateRequest, error) {
	var req slwatch.CreateRequest

	fields := strings.Fields(args)
	if len(fields) != 4 {
		return req, fmt.Errorf("expected: /setsl COIN long|short PRICE TIMEFRAME")
	}

	dir, err := slwatch.ParseDirection(fields[1])
	if err != nil {
		return req, err
	}
	price, err := decimal.NewFromString(fields[2])
	if err != nil || !price.IsPositive() {
		return req, fmt.Errorf("bad price %q", fields[2])
	}
	tf, err := slwatch.ParseTimeframe(fields[3])
	if err != nil {
		return req, err
	}

	req = slwatch.CreateRequest{
		Owner:     owner,
		Symbol:    normalizeSymbol(fields[0]),
		Direction: dir,
		Price:     price,
		Timeframe: tf,
	}
	return req, nil
}

// parseCancelArgs разбирает хвост команды /cancelsl: "<coin> <long|short>".
func parseCancelArgs(owner int64, args string) (slwatch.Key, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return slwatch.Key{}, fmt.Errorf("expected: /cancelsl COIN long|short")
	}
	dir, err := slwatch.ParseDirection(fields[1])
	if err != nil {
		return slwatch.Key{}, err
	}
	return slwatch.Key{
		Owner:     owner,
		Symbol:    normalizeSymbol(fields[0]),
		Direction: dir,
	}, nil
}

// parseAPIKeys разбирает "BITGET: key; secret; passphrase".
func parseAPIKeys(text string) (models.APICredentials, error) {
	var creds models.APICredentials

	body := strings.TrimSpace(text)
	if i := strings.Index(body, ":"); i >= 0 {
		body = body[i+1:]
	}
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return creds, fmt.Errorf("expected: BITGET: apiKey; apiSecret; passphrase")
	}
	creds = models.APICredentials{
		Key:        strings.TrimSpace(parts[0]),
		Secret:     strings.TrimSpace(parts[1]),
		Passphrase: strings.TrimSpace(parts[2]),
	}
	if creds.Key == "" || creds.Secret == "" || creds.Passphrase == "" {
		return creds, fmt.Errorf("expected: BITGET: apiKey; apiSecret; passphrase")
	}
	return creds, nil
}
