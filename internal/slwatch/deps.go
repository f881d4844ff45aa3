package slwatch

import (
	"context"
	"errors"
	"fmt"

	"softsl_bot/internal/models"
)

// TriggerStore — внешнее хранилище триггеров; единственный источник правды
// о существовании. Registry — только процессный кэш подписок.
type TriggerStore interface {
	// Find возвращает nil, nil если записи нет.
	Find(ctx context.Context, key Key) (*Trigger, error)
	// Insert возвращает false, если запись с таким ключом уже есть.
	Insert(ctx context.Context, trg *Trigger) (bool, error)
	// Delete возвращает true, если запись была и удалилась.
	Delete(ctx context.Context, key Key) (bool, error)
	ListByOwner(ctx context.Context, owner int64) ([]*Trigger, error)
}

// Subscription — живая подписка на свечи одной пары (symbol, timeframe).
// Close безопасно звать из другой горутины, в том числе повторно.
type Subscription interface {
	Events() <-chan models.CandleEvent
	Close()
}

type CandleStream interface {
	Subscribe(ctx context.Context, symbol string, tf Timeframe) (Subscription, error)
}

// ExchangeClient — позиции и закрывающий ордер от имени конкретного юзера.
type ExchangeClient interface {
	OpenPositions(ctx context.Context) ([]models.Position, error)
	// CloseMarket закрывает позицию рыночным ордером, возвращает orderId.
	CloseMarket(ctx context.Context, symbol, marginCoin, side, size string) (string, error)
}

// Accounts отдаёт биржевой клиент под ключи конкретного юзера.
type Accounts interface {
	ClientFor(ctx context.Context, owner int64) (ExchangeClient, error)
}

// Notifier — уведомления: лично владельцу триггера и в общий канал.
// Fire-and-forget: ошибки доставки логируются и никогда не роняют движок.
type Notifier interface {
	Notify(ctx context.Context, owner int64, text string)
	Broadcast(ctx context.Context, text string)
}

// ErrNoAPIKeys — у юзера не сохранены ключи биржи.
var ErrNoAPIKeys = errors.New("no exchange API keys stored")

// ErrPositionNotFound — нет открытой позиции под (symbol, direction).
var ErrPositionNotFound = errors.New("open position not found")

// ConflictError — живой триггер на этот ключ уже существует.
type ConflictError struct {
	Existing *Trigger
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("soft SL already exists: %s close %s %s",
		e.Existing.Timeframe, e.Existing.Direction.AboveOrBelow(), e.Existing.Price)
}

// DependencyError — стор или стрим недоступны; на пути создания это откат
// с ошибкой, на пути наблюдения — повтор на следующей свече.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
