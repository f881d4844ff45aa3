package slwatch

import (
	"context"
	"sync"
)

// watchHandle — владение одной живой подпиской: соединение и отмена цикла
// наблюдения. Регистрация происходит раньше подписки, поэтому sub/cancel
// живут под мьютексом: отмена может прийти, пока создание ещё в пути.
type watchHandle struct {
	trg *Trigger

	mu        sync.Mutex
	sub       Subscription
	cancel    context.CancelFunc
	cancelled bool
}

// arm отдаёт хэндлу живую подписку. false — отмена успела раньше, и
// подписка вызывающему больше не нужна.
func (h *watchHandle) arm(sub Subscription, cancel context.CancelFunc) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return false
	}
	h.sub = sub
	h.cancel = cancel
	return true
}

// stop глушит подписку, если она уже поднята; идемпотентен.
func (h *watchHandle) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelled = true
	if h.cancel != nil {
		h.cancel()
	}
	if h.sub != nil {
		h.sub.Close()
	}
}

// Registry — процессная карта "кто сейчас подписан". Register атомарен
// относительно конкурентных созданий одного ключа: это внутрипроцессная
// половина инварианта уникальности, вторая половина — проверка в сторе.
type Registry struct {
	mu      sync.Mutex
	watches map[Key]*watchHandle
}

func NewRegistry() *Registry {
	return &Registry{
		watches: make(map[Key]*watchHandle),
	}
}

// Register возвращает false и уже занявший ключ триггер, если подписка на
// ключ уже есть.
func (r *Registry) Register(key Key, h *watchHandle) (bool, *Trigger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.watches[key]; ok {
		return false, cur.trg
	}
	r.watches[key] = h
	return true, nil
}

func (r *Registry) Unregister(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watches, key)
}

func (r *Registry) Lookup(key Key) (*watchHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.watches[key]
	return h, ok
}

// Len — сколько подписок живо (для статуса и тестов).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watches)
}
