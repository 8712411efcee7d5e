// Package metrics публикует игровые метрики срабатывания блоков в Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector - счетчики срабатываний специальных блоков.
// Все методы безопасно вызывать на nil-получателе.
type Collector struct {
	triggers         *prometheus.CounterVec
	teleports        prometheus.Counter
	teleportFailures prometheus.Counter
	breakDamage      prometheus.Counter
	tickDuration     prometheus.Histogram
	portalPhase      prometheus.Gauge
	queueDepth       prometheus.Gauge
}

// NewCollector создаёт метрики и регистрирует их в reg.
// При reg == nil используется регистр Prometheus по умолчанию.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "funnyblocks",
			Name:      "triggers_total",
			Help:      "Срабатывания специальных блоков по типу метки.",
		}, []string{"marker"}),
		teleports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "funnyblocks",
			Name:      "teleports_total",
			Help:      "Успешные телепортации между порталами.",
		}),
		teleportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "funnyblocks",
			Name:      "teleport_failures_total",
			Help:      "Телепортации, отмененные из-за отсутствия места у портала назначения.",
		}),
		breakDamage: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "funnyblocks",
			Name:      "break_damage_total",
			Help:      "Урон, нанесенный разрушающимися блоками.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "funnyblocks",
			Name:      "tick_duration_seconds",
			Help:      "Длительность одного тика симуляции.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		portalPhase: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "funnyblocks",
			Name:      "portal_phase",
			Help:      "Фаза пары порталов: 0 Inactive, 1 BlueOnly, 2 OrangeOnly, 3 BothActive.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "funnyblocks",
			Name:      "event_queue_depth",
			Help:      "Событий в очереди на начало тика.",
		}),
	}

	reg.MustRegister(c.triggers, c.teleports, c.teleportFailures, c.breakDamage,
		c.tickDuration, c.portalPhase, c.queueDepth)
	return c
}

// Triggered учитывает срабатывание блока с меткой marker
func (c *Collector) Triggered(marker string) {
	if c == nil {
		return
	}
	c.triggers.WithLabelValues(marker).Inc()
}

func (c *Collector) Teleported() {
	if c == nil {
		return
	}
	c.teleports.Inc()
}

func (c *Collector) TeleportFailed() {
	if c == nil {
		return
	}
	c.teleportFailures.Inc()
}

// BreakDamage учитывает нанесенный урон
func (c *Collector) BreakDamage(amount int) {
	if c == nil {
		return
	}
	c.breakDamage.Add(float64(amount))
}

// ObserveTick записывает длительность тика
func (c *Collector) ObserveTick(d time.Duration) {
	if c == nil {
		return
	}
	c.tickDuration.Observe(d.Seconds())
}

func (c *Collector) SetPortalPhase(phase int) {
	if c == nil {
		return
	}
	c.portalPhase.Set(float64(phase))
}

func (c *Collector) SetQueueDepth(n int) {
	if c == nil {
		return
	}
	c.queueDepth.Set(float64(n))
}
