package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/google/uuid"
)

// Типы событий игрового мира
const (
	TypeNotification   = "Notification"
	TypeBlockTriggered = "BlockTriggered"
	TypeTeleported     = "Teleported"
	TypePortalChanged  = "PortalChanged"
	TypeBlockDestroyed = "BlockDestroyed"
	TypeAdminAction    = "AdminAction"
)

// Приоритеты: уведомления игроку не должны теряться при переполнении очереди
const (
	PriorityLow    = 1
	PriorityNormal = 4
	PriorityHigh   = 7
)

// NotificationPayload - текстовое сообщение владельцу сущности
type NotificationPayload struct {
	Recipient uint64 `json:"recipient"`
	Message   string `json:"message"`
}

// BlockTriggeredPayload - срабатывание специального блока
type BlockTriggeredPayload struct {
	Marker   string   `json:"marker"`
	Pos      vec.Vec3 `json:"pos"`
	EntityID uint64   `json:"entity_id"`
	Detail   string   `json:"detail,omitempty"`
}

// TeleportedPayload - перемещение персонажа порталом
type TeleportedPayload struct {
	EntityID uint64        `json:"entity_id"`
	From     vec.Vec3Float `json:"from"`
	To       vec.Vec3Float `json:"to"`
}

// PortalChangedPayload - новое состояние пары порталов
type PortalChangedPayload struct {
	Phase  string    `json:"phase"`
	Blue   *vec.Vec3 `json:"blue,omitempty"`
	Orange *vec.Vec3 `json:"orange,omitempty"`
}

// BlockDestroyedPayload - блок удален из мира
type BlockDestroyedPayload struct {
	Pos    vec.Vec3 `json:"pos"`
	Block  string   `json:"block"`
	Reason string   `json:"reason"`
}

// AdminActionPayload - действие администратора через REST API
type AdminActionPayload struct {
	Operator string `json:"operator"`
	Action   string `json:"action"`
	Target   string `json:"target"`
}

// NewEnvelope сериализует payload в JSON и оборачивает его в Envelope с новым UUID
func NewEnvelope(source, eventType string, priority int, payload interface{}) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   1,
		Priority:  priority,
		Payload:   data,
	}, nil
}

// DecodePayload разбирает полезную нагрузку события
func DecodePayload(ev *Envelope, out interface{}) error {
	if err := json.Unmarshal(ev.Payload, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", ev.EventType, err)
	}
	return nil
}
