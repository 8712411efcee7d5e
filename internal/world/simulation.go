package world

import (
	"context"
	"sync"
	"time"

	"github.com/annel0/funnyblocks/internal/config"
	"github.com/annel0/funnyblocks/internal/eventbus"
	"github.com/annel0/funnyblocks/internal/logging"
	"github.com/annel0/funnyblocks/internal/metrics"
	"github.com/annel0/funnyblocks/internal/portal"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/block/implementations"
	"github.com/annel0/funnyblocks/internal/world/entity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Options задает зависимости симуляции
type Options struct {
	World   *Manager
	Bus     eventbus.EventBus // nil - события не публикуются
	Metrics *metrics.Collector
	Tuning  config.BlocksConfig
	Portals *portal.PairState // nil - пустое состояние
	Source  string
}

// Simulation обрабатывает события мира в одной горутине.
// Другие горутины передают события через Submit; Tick разбирает очередь в порядке FIFO
// и затем выполняет периодические обновления поведений.
type Simulation struct {
	mu       sync.Mutex
	queueMu  sync.Mutex
	queue    []Event
	world    *Manager
	entities *entity.Manager
	host     *Host
	detector *Detector
	bus      eventbus.EventBus
	metrics  *metrics.Collector
	tuning   config.BlocksConfig
	portals  *portal.PairState

	portalVersion uint64
	nowMs         int64
	ticks         uint64
	tracer        trace.Tracer
	log           *logging.Logger
}

// NewSimulation создаёт симуляцию над миром opts.World
func NewSimulation(opts Options) *Simulation {
	if opts.Portals == nil {
		opts.Portals = portal.NewPairState()
	}
	if opts.Source == "" {
		opts.Source = "world"
	}
	return &Simulation{
		world:    opts.World,
		entities: opts.World.Entities(),
		host:     NewHost(opts.World, opts.Source),
		detector: NewDetector(opts.World),
		bus:      opts.Bus,
		metrics:  opts.Metrics,
		tuning:   opts.Tuning,
		portals:  opts.Portals,
		tracer:   otel.Tracer("funnyblocks/world"),
		log:      logging.GetWorldLogger(),
	}
}

// Submit ставит событие в очередь следующего тика. Безопасно из любой горутины.
func (s *Simulation) Submit(ev Event) {
	s.queueMu.Lock()
	s.queue = append(s.queue, ev)
	s.queueMu.Unlock()
}

// Pending возвращает число событий в очереди
func (s *Simulation) Pending() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	return len(s.queue)
}

// Tick обрабатывает накопленные события и выполняет обновление поведений.
// nowMs - игровое время в миллисекундах.
func (s *Simulation) Tick(ctx context.Context, nowMs int64) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "simulation.tick")
	defer span.End()

	s.queueMu.Lock()
	events := s.queue
	s.queue = nil
	s.queueMu.Unlock()
	s.metrics.SetQueueDepth(len(events))

	s.mu.Lock()
	s.nowMs = nowMs
	s.ticks++
	before := s.portals.Clone()

	for _, ev := range events {
		s.process(ev)
	}
	s.update()
	for _, pos := range s.host.takeBroken() {
		s.destroyAt(pos, "broken")
	}
	s.checkPortalChange(before)
	s.mu.Unlock()

	sent := s.host.Flush(ctx, s.bus)
	span.SetAttributes(
		attribute.Int("events", len(events)),
		attribute.Int("published", sent),
		attribute.Int64("now_ms", nowMs),
	)
	s.metrics.ObserveTick(time.Since(start))
}

func (s *Simulation) context() *block.Context {
	return &block.Context{
		World:    s.world,
		Effects:  s.host,
		Entities: s.entities,
		Portals:  s.portals,
		Tuning:   s.tuning,
		Metrics:  s.metrics,
		NowMs:    s.nowMs,
	}
}

func (s *Simulation) process(ev Event) {
	switch e := ev.(type) {
	case MoveInputEvent:
		s.handleMove(e)
	case EnterBlockEvent:
		s.handleEnter(e)
	case ActivateEvent:
		s.handleActivate(e)
	case PlaceEvent:
		s.handlePlace(e)
	case DestroyEvent:
		s.destroyAt(e.Pos, e.Reason)
	default:
		s.log.Warn("неизвестное событие %T", ev)
	}
}

func handles(e block.Effect, m block.Marker) bool {
	for _, em := range e.Markers() {
		if em == m {
			return true
		}
	}
	return false
}

// handleMove применяет кинематику, рассылает события входа при смене клетки ног,
// затем проверяет блок под ногами и вызывает наблюдателей движения.
func (s *Simulation) handleMove(e MoveInputEvent) {
	loc, hasLoc := s.entities.Locations.Get(e.EntityID)
	mv, hasMv := s.entities.Movements.Get(e.EntityID)
	if !hasLoc || !hasMv {
		s.log.Debug("движение %d пропущено: нет Location или CharacterMovement", e.EntityID)
		return
	}

	oldFeet := loc.Position.Round()
	s.entities.Locations.Set(e.EntityID, entity.Location{Position: e.Position})
	s.entities.Movements.Update(e.EntityID, func(m *entity.CharacterMovement) {
		m.Velocity = e.Velocity
	})

	if newFeet := e.Position.Round(); !newFeet.Equals(oldFeet) {
		for _, enter := range EnterEvents(s.world, e, oldFeet, newFeet, mv.Height) {
			s.handleEnter(enter)
		}
	}

	c := s.context()
	if ref, m, ok := s.detector.Beneath(e.Position); ok {
		if eff, ok := block.Get(m); ok {
			if h, ok := eff.(block.StandHandler); ok {
				h.OnStand(c, e.EntityID, ref)
			}
		}
	}

	pos := e.Position
	if cur, ok := s.entities.Locations.Get(e.EntityID); ok {
		pos = cur.Position
	}
	for _, eff := range block.Registered() {
		if o, ok := eff.(block.MoveObserver); ok {
			o.OnMove(c, e.EntityID, pos)
		}
	}
}

func (s *Simulation) handleEnter(e EnterBlockEvent) {
	if !s.entities.Locations.Has(e.EntityID) {
		return
	}
	mv, ok := s.entities.Movements.Get(e.EntityID)
	if !ok {
		return
	}
	if IsHeadLevel(e.Relative, mv.Height) {
		return
	}

	c := s.context()
	marker := s.world.MarkerOf(e.NewBlock)
	for _, eff := range block.Registered() {
		h, ok := eff.(block.EnterHandler)
		if !ok {
			continue
		}
		if handles(eff, marker) {
			h.OnEnter(c, e.EntityID, e.NewBlock)
		} else {
			h.OnEnterOther(c, e.EntityID, e.NewBlock)
		}
	}
}

func (s *Simulation) handleActivate(e ActivateEvent) {
	ref := s.world.BlockAt(e.Target)
	eff, ok := block.Get(s.world.MarkerOf(ref))
	if !ok {
		return
	}
	h, ok := eff.(block.ActivateHandler)
	if !ok {
		return
	}
	blockEnt, ok := s.world.BlockEntityAt(e.Target)
	if !ok {
		return
	}
	h.OnActivate(s.context(), e.Instigator, ref, blockEnt)
}

func (s *Simulation) handlePlace(e PlaceEvent) {
	if !block.IsValidBlockID(e.ID) {
		s.log.Warn("установка неизвестного блока %d в %v отклонена", e.ID, e.Pos)
		return
	}
	if !s.world.BlockAt(e.Pos).IsAir() {
		s.destroyAt(e.Pos, "replaced")
	}
	if e.ID == block.AirBlockID {
		return
	}

	s.world.SetBlock(e.Pos, e.ID, e.Facing)
	ref := s.world.BlockAt(e.Pos)
	def := ref.Definition()
	if def.Marker == block.MarkerNone {
		return
	}

	blockEnt := s.entities.Create()
	s.entities.BlockLocations.Set(blockEnt, entity.BlockLocation{Pos: e.Pos})
	s.entities.Healths.Set(blockEnt, entity.Health{Current: s.tuning.BlockHealth, Max: s.tuning.BlockHealth})
	s.world.BindBlockEntity(e.Pos, blockEnt)

	if eff, ok := block.Get(def.Marker); ok {
		if h, ok := eff.(block.PlaceHandler); ok {
			h.OnPlace(s.context(), ref, blockEnt)
		}
	}
	s.log.Debug("блок %s установлен в %v (%s)", def.Name, e.Pos, e.Facing)
}

// destroyAt удаляет блок и его блок-сущность, предварительно вызвав DestroyHandler
func (s *Simulation) destroyAt(pos vec.Vec3, reason string) bool {
	ref := s.world.BlockAt(pos)
	if ref.IsAir() {
		return false
	}

	blockEnt, hasEnt := s.world.BlockEntityAt(pos)
	if hasEnt {
		if eff, ok := block.Get(s.world.MarkerOf(ref)); ok {
			if h, ok := eff.(block.DestroyHandler); ok {
				h.OnDestroy(s.context(), ref, blockEnt)
			}
		}
	}

	s.world.RemoveBlock(pos)
	if hasEnt {
		s.entities.Destroy(blockEnt)
	}
	s.host.emit(eventbus.TypeBlockDestroyed, eventbus.PriorityNormal, eventbus.BlockDestroyedPayload{
		Pos:    pos,
		Block:  ref.Definition().Name,
		Reason: reason,
	})
	return true
}

func (s *Simulation) update() {
	c := s.context()
	for _, eff := range block.Registered() {
		if t, ok := eff.(block.Ticker); ok {
			t.Update(c)
		}
	}
}

func (s *Simulation) checkPortalChange(before portal.PairState) {
	if before.Equal(*s.portals) {
		return
	}
	s.portalVersion++
	phase := s.portals.Phase()
	after := s.portals.Clone()
	s.metrics.SetPortalPhase(int(phase))
	s.host.emit(eventbus.TypePortalChanged, eventbus.PriorityNormal, eventbus.PortalChangedPayload{
		Phase:  phase.String(),
		Blue:   after.Blue,
		Orange: after.Orange,
	})
}

// SpawnCharacter создаёт персонажа. height <= 0 - рост из настроек.
func (s *Simulation) SpawnCharacter(pos vec.Vec3Float, height float64) entity.ID {
	if height <= 0 {
		height = s.tuning.CharacterHeight
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.entities.Create()
	s.entities.Locations.Set(id, entity.Location{Position: pos})
	s.entities.Movements.Set(id, entity.CharacterMovement{Height: height, SpeedMultiplier: 1})
	return id
}

// RemoveCharacter удаляет персонажа вместе с его компонентами
func (s *Simulation) RemoveCharacter(id entity.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entities.BlockLocations.Has(id) {
		return false
	}
	s.host.Forget(id)
	return s.entities.Destroy(id)
}

// PortalState возвращает копию состояния пары порталов и номер его версии.
// Версия растет при каждом изменении.
func (s *Simulation) PortalState() (portal.PairState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portals.Clone(), s.portalVersion
}

// RestorePortals подставляет загруженное состояние и согласует его с блоками мира.
// Возвращает цвета, чьи порталы больше не существуют.
func (s *Simulation) RestorePortals(state portal.PairState) []portal.Color {
	s.mu.Lock()
	defer s.mu.Unlock()

	*s.portals = state.Clone()
	c := s.context()
	cleared := portal.Restore(s.portals, implementations.ActiveMarkers(c), func(color portal.Color, pos vec.Vec3) bool {
		got, ok := implementations.ColorOf(s.world.MarkerOf(s.world.BlockAt(pos)))
		if !ok || got != color {
			return false
		}
		_, hasEnt := s.world.BlockEntityAt(pos)
		return hasEnt
	})
	s.portalVersion++
	s.metrics.SetPortalPhase(int(s.portals.Phase()))
	for _, color := range cleared {
		s.log.Warn("сохраненный %s портал не найден в мире, позиция сброшена", color)
	}
	return cleared
}

// EntityView - снимок состояния сущности для API
type EntityView struct {
	ID            entity.ID                 `json:"id"`
	Position      *vec.Vec3Float            `json:"position,omitempty"`
	Movement      *entity.CharacterMovement `json:"movement,omitempty"`
	Acceleration  *entity.Acceleration      `json:"acceleration,omitempty"`
	Block         *entity.BlockLocation     `json:"block,omitempty"`
	Health        *entity.Health            `json:"health,omitempty"`
	Notifications []string                  `json:"notifications,omitempty"`
}

// Entity возвращает снимок сущности
func (s *Simulation) Entity(id entity.ID) (EntityView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.entities.Exists(id) {
		return EntityView{}, false
	}
	view := EntityView{ID: id, Notifications: s.host.Notifications(id)}
	if loc, ok := s.entities.Locations.Get(id); ok {
		view.Position = &loc.Position
	}
	if mv, ok := s.entities.Movements.Get(id); ok {
		view.Movement = &mv
	}
	if acc, ok := s.entities.Accelerations.Get(id); ok {
		view.Acceleration = &acc
	}
	if bl, ok := s.entities.BlockLocations.Get(id); ok {
		view.Block = &bl
	}
	if hp, ok := s.entities.Healths.Get(id); ok {
		view.Health = &hp
	}
	return view, true
}

// Stats возвращает статистику симуляции
func (s *Simulation) Stats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"ticks":          s.ticks,
		"now_ms":         s.nowMs,
		"pending_events": s.Pending(),
		"blocks":         s.world.BlockCount(),
		"special_blocks": len(s.world.SpecialBlocks()),
		"portal_phase":   s.portals.Phase().String(),
		"portal_version": s.portalVersion,
		"entities":       s.entities.GetStats(),
	}
}

// Host возвращает сервисы хоста симуляции
func (s *Simulation) Host() *Host {
	return s.host
}
