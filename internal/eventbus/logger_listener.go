package eventbus

import (
	"context"

	"github.com/annel0/funnyblocks/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог.
// Уведомления игрокам пишутся на уровне INFO с текстом сообщения, остальное - DEBUG.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	logger := logging.GetEventBusLogger()
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		if ev.EventType == TypeNotification {
			var n NotificationPayload
			if err := DecodePayload(ev, &n); err == nil {
				logger.Info("💬 -> %d: %s", n.Recipient, n.Message)
				return
			}
		}
		logger.Debug("[EventBus] %s %s src=%s prio=%d size=%dB", ev.ID, ev.EventType, ev.Source, ev.Priority, len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub, nil
}
