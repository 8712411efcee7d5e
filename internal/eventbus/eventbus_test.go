package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu   sync.Mutex
	evs  []*Envelope
	done chan struct{}
	want int
}

func newCollector(want int) *collector {
	return &collector{done: make(chan struct{}), want: want}
}

func (c *collector) handle(ctx context.Context, ev *Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evs = append(c.evs, ev)
	if len(c.evs) == c.want {
		close(c.done)
	}
}

func (c *collector) wait(t *testing.T) []*Envelope {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("не дождались %d событий", c.want)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Envelope(nil), c.evs...)
}

func TestMemoryBusDeliversInOrder(t *testing.T) {
	bus := NewMemoryBus(64)
	defer bus.Close()

	c := newCollector(20)
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeNotification}}, c.handle)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		ev, err := NewEnvelope("test", TypeNotification, PriorityHigh, NotificationPayload{Recipient: uint64(i)})
		require.NoError(t, err)
		require.NoError(t, bus.Publish(context.Background(), ev))

		other, _ := NewEnvelope("test", TypeTeleported, PriorityLow, TeleportedPayload{})
		require.NoError(t, bus.Publish(context.Background(), other))
	}

	evs := c.wait(t)
	for i, ev := range evs {
		var n NotificationPayload
		require.NoError(t, DecodePayload(ev, &n))
		assert.Equal(t, uint64(i), n.Recipient, "порядок доставки сохраняется")
		assert.Equal(t, TypeNotification, ev.EventType)
	}
}

func TestMemoryBusDropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	defer bus.Close()

	block := make(chan struct{})
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		<-block
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		ev, _ := NewEnvelope("test", TypeBlockTriggered, PriorityLow, BlockTriggeredPayload{})
		require.NoError(t, bus.Publish(context.Background(), ev))
	}
	close(block)

	stats := bus.Metrics()
	assert.Equal(t, uint64(5), stats.Published)
	assert.GreaterOrEqual(t, stats.Dropped, uint64(3))
}

func TestMemoryBusUnsubscribeAndClose(t *testing.T) {
	bus := NewMemoryBus(8)

	c := newCollector(1)
	sub, err := bus.Subscribe(context.Background(), Filter{Sources: []string{"world"}}, c.handle)
	require.NoError(t, err)

	ev, _ := NewEnvelope("world", TypePortalChanged, PriorityNormal, PortalChangedPayload{Phase: "BlueOnly", Blue: vec.Vec3{X: 1}.Ptr()})
	require.NoError(t, bus.Publish(context.Background(), ev))
	got := c.wait(t)

	var p PortalChangedPayload
	require.NoError(t, DecodePayload(got[0], &p))
	assert.Equal(t, "BlueOnly", p.Phase)
	assert.Equal(t, vec.Vec3{X: 1}, *p.Blue)

	sub.Unsubscribe()
	require.NoError(t, bus.Close())
	assert.ErrorIs(t, bus.Publish(context.Background(), ev), ErrClosed)
}

func TestNewEnvelope(t *testing.T) {
	ev, err := NewEnvelope("world", TypeTeleported, PriorityNormal, TeleportedPayload{EntityID: 7})
	require.NoError(t, err)
	assert.Len(t, ev.ID, 36, "UUID")
	assert.Equal(t, 1, ev.Version)
	assert.JSONEq(t, `{"entity_id":7,"from":{"x":0,"y":0,"z":0},"to":{"x":0,"y":0,"z":0}}`, string(ev.Payload))

	_, err = NewEnvelope("world", TypeTeleported, PriorityNormal, make(chan int))
	assert.Error(t, err)
}

func TestGlobalEmit(t *testing.T) {
	Init(nil)
	assert.NoError(t, Emit(context.Background(), "api", TypeAdminAction, PriorityNormal, AdminActionPayload{}))

	bus := NewMemoryBus(8)
	defer bus.Close()
	Init(bus)
	defer Init(nil)

	c := newCollector(1)
	_, err := bus.Subscribe(context.Background(), Filter{}, c.handle)
	require.NoError(t, err)

	require.NoError(t, Emit(context.Background(), "api", TypeAdminAction, PriorityNormal,
		AdminActionPayload{Operator: "root", Action: "place"}))
	evs := c.wait(t)
	assert.Equal(t, "api", evs[0].Source)
}

func TestMetricsExporterSync(t *testing.T) {
	bus := NewMemoryBus(8)
	defer bus.Close()

	reg := prometheus.NewRegistry()
	exp := NewMetricsExporter(bus, reg)
	defer exp.Stop()

	for i := 0; i < 3; i++ {
		ev, _ := NewEnvelope("test", TypeNotification, PriorityHigh, NotificationPayload{})
		require.NoError(t, bus.Publish(context.Background(), ev))
	}
	exp.Sync()
	exp.Sync()

	assert.Equal(t, 3.0, testutil.ToFloat64(exp.published), "повторная синхронизация не удваивает счетчик")
}
