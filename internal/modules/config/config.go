package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV  = "CONFIG_FILE"
	tokenTelegramENV   = "TELEGRAM_TOKEN"
	databaseDSN        = "DATABASE_DSN"
	broadcastChatIDENV = "BROADCAST_CHAT_ID"
)

// Config ...
type Config struct {
	Telegram struct {
		Token string `yaml:"token"`
		// общий канал для broadcast-уведомлений о сработавших стопах
		BroadcastChatID int64 `yaml:"broadcast_chat_id"`
	} `yaml:"telegram"`
	DB string `yaml:"db_dsn"`

	Bitget struct {
		RestURL string `yaml:"rest_url"` // https://api.bitget.com
		WsURL   string `yaml:"ws_url"`   // wss://ws.bitget.com/mix/v1/stream
		// продуктовая линейка USDT-M futures
		ProductType string `yaml:"product_type"` // umcbl
		MarginCoin  string `yaml:"margin_coin"`  // USDT
	} `yaml:"bitget"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// таймаут на каждый внешний вызов (стор/REST), чтобы зависшая
	// зависимость не приколотила watch навсегда; yaml.v2 не умеет
	// time.Duration, поэтому строка + разбор после декода
	CallTimeoutStr string        `yaml:"call_timeout"`
	CallTimeout    time.Duration `yaml:"-"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{}

	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	// env поверх yaml
	if config.Bitget.RestURL == "" {
		config.Bitget.RestURL = "https://api.bitget.com"
	}
	if config.Bitget.WsURL == "" {
		config.Bitget.WsURL = "wss://ws.bitget.com/mix/v1/stream"
	}
	if config.Bitget.ProductType == "" {
		config.Bitget.ProductType = "umcbl"
	}
	if config.Bitget.MarginCoin == "" {
		config.Bitget.MarginCoin = "USDT"
	}
	if v := os.Getenv("BITGET_REST_URL"); v != "" {
		config.Bitget.RestURL = v
	}
	if v := os.Getenv("BITGET_WS_URL"); v != "" {
		config.Bitget.WsURL = v
	}
	if v := os.Getenv("BITGET_PRODUCT_TYPE"); v != "" {
		config.Bitget.ProductType = v
	}
	if v := os.Getenv("BITGET_MARGIN_COIN"); v != "" {
		config.Bitget.MarginCoin = v
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if v := os.Getenv(broadcastChatIDENV); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.BroadcastChatID = id
		}
	}

	config.CallTimeout = 10 * time.Second
	if config.CallTimeoutStr != "" {
		if d, err := time.ParseDuration(config.CallTimeoutStr); err == nil {
			config.CallTimeout = d
		}
	}
	if v := os.Getenv("CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.CallTimeout = d
		}
	}

	return &config, nil
}
