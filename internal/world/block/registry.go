package block

import "sync"

var (
	registryMu sync.RWMutex
	registry   []Effect
	byMarker   = make(map[Marker]Effect)
)

// Register добавляет поведение в реестр. Порядок регистрации определяет порядок
// вызова наблюдателей движения и периодических обновлений.
func Register(e Effect) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for i, existing := range registry {
		if existing.Name() == e.Name() {
			registry[i] = e
			for _, m := range e.Markers() {
				byMarker[m] = e
			}
			return
		}
	}
	registry = append(registry, e)
	for _, m := range e.Markers() {
		byMarker[m] = e
	}
}

// Get возвращает поведение для метки
func Get(m Marker) (Effect, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := byMarker[m]
	return e, ok
}

// Registered возвращает зарегистрированные поведения в порядке регистрации
func Registered() []Effect {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Effect, len(registry))
	copy(out, registry)
	return out
}
