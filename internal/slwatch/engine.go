package slwatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"softsl_bot/internal/models"
	"softsl_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
	"github.com/shopspring/decimal"
)

const defaultCallTimeout = 10 * time.Second

// Engine — жизненный цикл мягких стоп-лоссов: создание, наблюдение за
// свечами, закрытие позиции рыночным ордером ровно один раз на триггер.
type Engine struct {
	ctx      context.Context // базовый контекст процесса; watch живёт дольше запроса
	reg      *Registry
	store    TriggerStore
	stream   CandleStream
	accounts Accounts
	sink     Notifier

	callTimeout time.Duration
}

func NewEngine(
	ctx context.Context,
	reg *Registry,
	store TriggerStore,
	stream CandleStream,
	accounts Accounts,
	sink Notifier,
) *Engine {
	return &Engine{
		ctx:         ctx,
		reg:         reg,
		store:       store,
		stream:      stream,
		accounts:    accounts,
		sink:        sink,
		callTimeout: defaultCallTimeout,
	}
}

type CreateRequest struct {
	Owner     int64
	Symbol    string // нормализованный, например BTCUSDT_UMCBL
	Direction Direction
	Price     decimal.Decimal
	Timeframe Timeframe
}

// CreateResult — снапшот найденной позиции для ответа юзеру.
type CreateResult struct {
	Entry    string
	Margin   string
	Leverage string
	Size     string
}

// Create валидирует запрос против позиций и стора, сохраняет триггер и
// открывает подписку на свечи. Любой сбой после записи откатывает её:
// осиротевших записей и подписок не остаётся.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "slwatch.create")
	defer span.Finish()
	span.SetTag("symbol", req.Symbol)
	span.SetTag("direction", string(req.Direction))

	if req.Symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("price must be positive, got %s", req.Price)
	}
	if _, ok := timeframes[req.Timeframe]; !ok {
		return nil, fmt.Errorf("unsupported timeframe %q", req.Timeframe)
	}

	cli, err := e.accounts.ClientFor(ctx, req.Owner)
	if err != nil {
		return nil, err
	}

	// 1. Позиция должна быть реально открыта.
	pos, err := e.findOpenPosition(ctx, cli, req.Symbol, req.Direction)
	if err != nil {
		return nil, &DependencyError{Op: "get positions", Err: err}
	}
	if pos == nil {
		return nil, ErrPositionNotFound
	}

	key := Key{Owner: req.Owner, Symbol: req.Symbol, Direction: req.Direction}

	// 2. Проверка существующего триггера в сторе.
	existing, err := e.storeFind(ctx, key)
	if err != nil {
		return nil, &DependencyError{Op: "store find", Err: err}
	}
	if existing != nil {
		return nil, &ConflictError{Existing: existing}
	}

	trg := &Trigger{
		Owner:     req.Owner,
		Symbol:    req.Symbol,
		Direction: req.Direction,
		Price:     req.Price,
		Timeframe: req.Timeframe,
		State:     Pending,
		CreatedAt: time.Now(),
	}

	// 3. Registry первым: атомарность против конкурентного создания того же
	// ключа внутри процесса.
	h := &watchHandle{trg: trg}
	if ok, cur := e.reg.Register(key, h); !ok {
		return nil, &ConflictError{Existing: cur}
	}

	inserted, err := e.storeInsert(ctx, trg)
	if err != nil {
		e.reg.Unregister(key)
		return nil, &DependencyError{Op: "store insert", Err: err}
	}
	if !inserted {
		// проигранная межпроцессная гонка за ключ
		e.reg.Unregister(key)
		cur, ferr := e.storeFind(ctx, key)
		if ferr != nil || cur == nil {
			cur = trg
		}
		return nil, &ConflictError{Existing: cur}
	}

	watchCtx, cancel := context.WithCancel(e.ctx)
	sub, err := e.stream.Subscribe(watchCtx, req.Symbol, req.Timeframe)
	if err != nil {
		cancel()
		if _, derr := e.storeDelete(ctx, key); derr != nil {
			logger.Error("rollback delete %s failed: %v", key, derr)
		}
		e.reg.Unregister(key)
		return nil, &DependencyError{Op: "subscribe", Err: err}
	}

	if !h.arm(sub, cancel) {
		// /cancelsl успел раньше, чем поднялась подписка: запись он уже
		// удалил, нам осталось прибрать подписку и свою вставку
		cancel()
		sub.Close()
		if _, derr := e.storeDelete(ctx, key); derr != nil {
			logger.Error("rollback delete %s failed: %v", key, derr)
		}
		e.reg.Unregister(key)
		return nil, fmt.Errorf("soft SL for %s cancelled during setup", key)
	}
	trg.State = Watching

	go e.watch(watchCtx, trg, cli, sub)

	log.Printf("[SL] watching %s: %s close %s %s",
		key, trg.Timeframe, trg.Direction.AboveOrBelow(), trg.Price)

	return &CreateResult{
		Entry:    pos.AverageOpenPrice,
		Margin:   pos.Margin,
		Leverage: pos.Leverage,
		Size:     pos.Available,
	}, nil
}

// Cancel удаляет запись и проактивно гасит живую подписку, если она в этом
// процессе. Запись чужого процесса тоже удалится — его watch заметит это на
// следующей свече.
func (e *Engine) Cancel(ctx context.Context, key Key) (bool, error) {
	deleted, err := e.storeDelete(ctx, key)
	if err != nil {
		return false, &DependencyError{Op: "store delete", Err: err}
	}

	if h, ok := e.reg.Lookup(key); ok {
		h.trg.State = Cancelled
		h.stop()
		e.reg.Unregister(key)
		log.Printf("[SL] cancelled %s", key)
	}

	return deleted, nil
}

// List — активные триггеры юзера.
func (e *Engine) List(ctx context.Context, owner int64) ([]*Trigger, error) {
	tctx, cancel := e.boundCall(ctx)
	defer cancel()
	trgs, err := e.store.ListByOwner(tctx, owner)
	if err != nil {
		return nil, &DependencyError{Op: "store list", Err: err}
	}
	return trgs, nil
}

// Watching — сколько подписок живо в этом процессе.
func (e *Engine) Watching() int {
	return e.reg.Len()
}

// watch — цикл наблюдения одного триггера. События обрабатываются строго
// последовательно; выход из цикла всегда снимает подписку и запись в Registry.
func (e *Engine) watch(ctx context.Context, trg *Trigger, cli ExchangeClient, sub Subscription) {
	key := trg.Key()
	defer func() {
		sub.Close()
		e.reg.Unregister(key)
	}()

	// первое сообщение после (пере)подключения — снапшот текущего состояния,
	// его нельзя считать новым закрытием
	snapshotSeen := false

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if ev.Kind == models.CandleReconnect {
				snapshotSeen = false
				continue
			}
			if !snapshotSeen {
				snapshotSeen = true
				continue
			}

			done := e.evaluate(ctx, trg, cli, ev)
			if done {
				return
			}
		}
	}
}

// evaluate — один шаг оценки на пришедшей свече. true => наблюдение окончено.
// Сбой любой зависимости не завершает наблюдение: следующая свеча —
// естественный сигнал повтора, мгновенный retry молотил бы лежащий сервис.
func (e *Engine) evaluate(ctx context.Context, trg *Trigger, cli ExchangeClient, ev models.CandleEvent) bool {
	key := trg.Key()

	// триггер мог быть отменён в другом процессе — стор главнее Registry
	live, err := e.storeFind(ctx, key)
	if err != nil {
		log.Printf("[SL] %s store check failed, will retry on next candle: %v", key, err)
		return false
	}
	if live == nil {
		log.Printf("[SL] %s cancelled, stopping watch", key)
		trg.State = Cancelled
		return true
	}

	// позицию могли закрыть руками мимо бота
	pos, err := e.findOpenPosition(ctx, cli, trg.Symbol, trg.Direction)
	if err != nil {
		log.Printf("[SL] %s position check failed, will retry on next candle: %v", key, err)
		return false
	}
	if pos == nil {
		if _, derr := e.storeDelete(ctx, key); derr != nil {
			logger.Error("delete %s after external close failed: %v", key, derr)
		}
		trg.State = Aborted
		text := fmt.Sprintf("%s %s manually closed, removing soft SL", trg.Symbol, trg.Direction)
		e.sink.Notify(ctx, trg.Owner, text)
		e.sink.Broadcast(ctx, text)
		log.Printf("[SL] %s position closed externally, watch removed", key)
		return true
	}

	if !trg.Tripped(ev.Open) {
		return false
	}

	tctx, cancel := e.boundCall(ctx)
	orderID, err := cli.CloseMarket(tctx, trg.Symbol, pos.MarginCoin, trg.Direction.CloseSide(), pos.Available)
	cancel()
	if err != nil {
		// запись и подписка остаются: позиция всё ещё без защиты, пока ордер
		// не пройдёт — это громкая ошибка, а не строчка в чате
		logger.Error("close order failed for %s (size=%s): %v", key, pos.Available, err)
		e.sink.Notify(ctx, trg.Owner,
			fmt.Sprintf("⚠️ Soft SL for %s %s tripped but the close order failed: %v. Will retry on the next candle.",
				trg.Symbol, trg.Direction, err))
		return false
	}

	if _, derr := e.storeDelete(ctx, key); derr != nil {
		logger.Error("delete %s after fire failed: %v", key, derr)
	}
	trg.State = Fired

	text := fmt.Sprintf("Soft SL triggered--%s %s closed @ %s", trg.Symbol, trg.Direction, ev.Close)
	e.sink.Notify(ctx, trg.Owner, text)
	e.sink.Broadcast(ctx, text)
	log.Printf("[SL] %s fired: open=%s close=%s orderId=%s", key, ev.Open, ev.Close, orderID)
	return true
}

// findOpenPosition — позиции с total != 0, отфильтрованные по ключу.
// nil, nil — позиции нет.
func (e *Engine) findOpenPosition(ctx context.Context, cli ExchangeClient, symbol string, dir Direction) (*models.Position, error) {
	tctx, cancel := e.boundCall(ctx)
	defer cancel()

	positions, err := cli.OpenPositions(tctx)
	if err != nil {
		return nil, err
	}
	for i := range positions {
		p := &positions[i]
		if !p.Open() {
			continue
		}
		if p.Symbol == symbol && p.HoldSide == string(dir) {
			return p, nil
		}
	}
	return nil, nil
}

// зависимости не должны висеть вечно: каждый внешний вызов ограничен
func (e *Engine) boundCall(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.callTimeout)
}

func (e *Engine) storeFind(ctx context.Context, key Key) (*Trigger, error) {
	tctx, cancel := e.boundCall(ctx)
	defer cancel()
	return e.store.Find(tctx, key)
}

func (e *Engine) storeInsert(ctx context.Context, trg *Trigger) (bool, error) {
	tctx, cancel := e.boundCall(ctx)
	defer cancel()
	return e.store.Insert(tctx, trg)
}

func (e *Engine) storeDelete(ctx context.Context, key Key) (bool, error) {
	tctx, cancel := e.boundCall(ctx)
	defer cancel()
	return e.store.Delete(tctx, key)
}
