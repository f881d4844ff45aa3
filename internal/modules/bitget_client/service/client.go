package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"softsl_bot/internal/models"
	"softsl_bot/internal/modules/config"
)

// Client — REST-клиент Bitget USDT-M futures под ключи одного юзера.
type Client struct {
	http *http.Client

	baseURL     string
	productType string // umcbl
	marginCoin  string // USDT

	apiKey    string
	apiSecret string
	passph    string
}

func NewClient(cfg *config.Config, creds models.APICredentials) *Client {
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		baseURL:     cfg.Bitget.RestURL,
		productType: cfg.Bitget.ProductType,
		marginCoin:  cfg.Bitget.MarginCoin,
		apiKey:      creds.Key,
		apiSecret:   creds.Secret,
		passph:      creds.Passphrase,
	}
}

// sign — подпись Bitget: base64(HMAC-SHA256(ts + METHOD + path + body)).
// path — вместе с query string.
func (c *Client) sign(ts, method, requestPath, body string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(ts + method + requestPath + body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Client) authHeaders(req *http.Request, ts, sign string) {
	req.Header.Set("ACCESS-KEY", c.apiKey)
	req.Header.Set("ACCESS-SIGN", sign)
	req.Header.Set("ACCESS-TIMESTAMP", ts)
	req.Header.Set("ACCESS-PASSPHRASE", c.passph)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("locale", "en-US")
}

// Bitget ждёт таймстамп в миллисекундах
func nowMillis() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
