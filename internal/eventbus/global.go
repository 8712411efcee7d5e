package eventbus

import (
	"context"
	"sync"
)

var (
	globalMu  sync.RWMutex
	globalBus EventBus
)

// Init устанавливает глобальную шину.
func Init(bus EventBus) {
	globalMu.Lock()
	globalBus = bus
	globalMu.Unlock()
}

// Default возвращает глобальную шину или nil.
func Default() EventBus {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalBus
}

// Publish отправляет событие в глобальную шину, если она инициализирована.
func Publish(ctx context.Context, ev *Envelope) error {
	bus := Default()
	if bus == nil {
		return nil
	}
	return bus.Publish(ctx, ev)
}

// Emit собирает Envelope и публикует его в глобальную шину.
func Emit(ctx context.Context, source, eventType string, priority int, payload interface{}) error {
	if Default() == nil {
		return nil
	}
	ev, err := NewEnvelope(source, eventType, priority, payload)
	if err != nil {
		return err
	}
	return Publish(ctx, ev)
}
