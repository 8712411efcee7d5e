package world

import (
	"context"
	"fmt"
	"sync"

	"github.com/annel0/funnyblocks/internal/eventbus"
	"github.com/annel0/funnyblocks/internal/logging"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

const inboxSize = 16

// Host реализует block.Effects поверх менеджера сущностей: импульс меняет скорость,
// урон уменьшает прочность блок-сущности, уведомления уходят в шину событий.
// События копятся в outbox и публикуются после тика.
type Host struct {
	mu       sync.Mutex
	world    *Manager
	entities *entity.Manager
	source   string
	outbox   []*eventbus.Envelope
	broken   []vec.Vec3
	inbox    map[entity.ID][]string
	log      *logging.Logger
}

// NewHost создаёт хост; source подставляется в Envelope.Source
func NewHost(w *Manager, source string) *Host {
	return &Host{
		world:    w,
		entities: w.Entities(),
		source:   source,
		inbox:    make(map[entity.ID][]string),
		log:      logging.GetWorldLogger(),
	}
}

// ApplyImpulse добавляет импульс к скорости персонажа
func (h *Host) ApplyImpulse(id entity.ID, impulse vec.Vec3Float) {
	if !h.entities.Movements.Update(id, func(m *entity.CharacterMovement) {
		m.Velocity = m.Velocity.Add(impulse)
	}) {
		h.log.Debug("импульс для %d пропущен: нет CharacterMovement", id)
	}
}

// ApplyDamage уменьшает прочность. Блок с исчерпанной прочностью будет разрушен в конце тика.
func (h *Host) ApplyDamage(id entity.ID, amount int, damageType string) {
	var remaining int
	if !h.entities.Healths.Update(id, func(hp *entity.Health) {
		hp.Current -= amount
		remaining = hp.Current
	}) {
		return
	}

	loc, isBlock := h.entities.BlockLocations.Get(id)
	if !isBlock {
		return
	}
	h.log.Debug("блок %v получил %d урона (%s), осталось %d", loc.Pos, amount, damageType, remaining)
	h.emit(eventbus.TypeBlockTriggered, eventbus.PriorityLow, eventbus.BlockTriggeredPayload{
		Marker:   h.world.MarkerOf(h.world.BlockAt(loc.Pos)).String(),
		Pos:      loc.Pos,
		EntityID: uint64(id),
		Detail:   fmt.Sprintf("damage %d %s, health %d", amount, damageType, remaining),
	})

	if remaining <= 0 {
		h.mu.Lock()
		h.broken = append(h.broken, loc.Pos)
		h.mu.Unlock()
	}
}

// Teleport переносит персонажа в точку dest
func (h *Host) Teleport(id entity.ID, dest vec.Vec3Float) {
	from, _ := h.entities.Locations.Get(id)
	h.entities.Locations.Set(id, entity.Location{Position: dest})

	h.log.Info("🌀 сущность %d телепортирована %v -> %v", id, from.Position, dest)
	h.emit(eventbus.TypeTeleported, eventbus.PriorityNormal, eventbus.TeleportedPayload{
		EntityID: uint64(id),
		From:     from.Position,
		To:       dest,
	})
}

// Notify сохраняет сообщение в ящике получателя и публикует его в шину
func (h *Host) Notify(recipient entity.ID, message string) {
	h.mu.Lock()
	box := append(h.inbox[recipient], message)
	if len(box) > inboxSize {
		box = box[len(box)-inboxSize:]
	}
	h.inbox[recipient] = box
	h.mu.Unlock()

	h.emit(eventbus.TypeNotification, eventbus.PriorityHigh, eventbus.NotificationPayload{
		Recipient: uint64(recipient),
		Message:   message,
	})
}

// Notifications возвращает последние сообщения получателя
func (h *Host) Notifications(recipient entity.ID) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.inbox[recipient]...)
}

// Forget очищает ящик удаленной сущности
func (h *Host) Forget(id entity.ID) {
	h.mu.Lock()
	delete(h.inbox, id)
	h.mu.Unlock()
}

func (h *Host) emit(eventType string, priority int, payload interface{}) {
	ev, err := eventbus.NewEnvelope(h.source, eventType, priority, payload)
	if err != nil {
		h.log.Error("не удалось создать событие %s: %v", eventType, err)
		return
	}
	h.mu.Lock()
	h.outbox = append(h.outbox, ev)
	h.mu.Unlock()
}

func (h *Host) takeBroken() []vec.Vec3 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.broken
	h.broken = nil
	return out
}

// Flush публикует накопленные события. Без шины события отбрасываются.
// Возвращает число опубликованных событий.
func (h *Host) Flush(ctx context.Context, bus eventbus.EventBus) int {
	h.mu.Lock()
	out := h.outbox
	h.outbox = nil
	h.mu.Unlock()

	if bus == nil {
		return 0
	}
	sent := 0
	for _, ev := range out {
		if err := bus.Publish(ctx, ev); err != nil {
			h.log.Warn("публикация %s не удалась: %v", ev.EventType, err)
			continue
		}
		sent++
	}
	return sent
}
