package implementations

import (
	"github.com/annel0/funnyblocks/internal/config"
	"github.com/annel0/funnyblocks/internal/portal"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
	"github.com/annel0/funnyblocks/internal/world/entity"
)

// mockWorld реализует block.World для тестирования
type mockWorld struct {
	blocks   map[vec.Vec3]block.Ref
	entities map[vec.Vec3]entity.ID
}

func newMockWorld() *mockWorld {
	return &mockWorld{
		blocks:   make(map[vec.Vec3]block.Ref),
		entities: make(map[vec.Vec3]entity.ID),
	}
}

func (w *mockWorld) BlockAt(pos vec.Vec3) block.Ref {
	if ref, ok := w.blocks[pos]; ok {
		return ref
	}
	return block.Ref{Pos: pos, ID: block.AirBlockID}
}

func (w *mockWorld) IsPenetrable(ref block.Ref) bool { return ref.Definition().Penetrable }

func (w *mockWorld) MarkerOf(ref block.Ref) block.Marker { return ref.Definition().Marker }

func (w *mockWorld) SetFacing(pos vec.Vec3, facing block.Side) {
	if ref, ok := w.blocks[pos]; ok {
		ref.Facing = facing
		w.blocks[pos] = ref
	}
}

func (w *mockWorld) BlockEntityAt(pos vec.Vec3) (entity.ID, bool) {
	id, ok := w.entities[pos]
	return id, ok
}

type impulse struct {
	id entity.ID
	v  vec.Vec3Float
}

type damage struct {
	id     entity.ID
	amount int
	kind   string
}

type teleport struct {
	id   entity.ID
	dest vec.Vec3Float
}

type note struct {
	id      entity.ID
	message string
}

// mockEffects записывает все вызовы сервисов хоста
type mockEffects struct {
	impulses  []impulse
	damages   []damage
	teleports []teleport
	notes     []note
}

func (e *mockEffects) ApplyImpulse(id entity.ID, v vec.Vec3Float) {
	e.impulses = append(e.impulses, impulse{id: id, v: v})
}

func (e *mockEffects) ApplyDamage(id entity.ID, amount int, kind string) {
	e.damages = append(e.damages, damage{id: id, amount: amount, kind: kind})
}

func (e *mockEffects) Teleport(id entity.ID, dest vec.Vec3Float) {
	e.teleports = append(e.teleports, teleport{id: id, dest: dest})
}

func (e *mockEffects) Notify(id entity.ID, message string) {
	e.notes = append(e.notes, note{id: id, message: message})
}

type fixture struct {
	ctx     *block.Context
	world   *mockWorld
	effects *mockEffects
}

func newFixture() *fixture {
	w := newMockWorld()
	fx := &mockEffects{}
	return &fixture{
		world:   w,
		effects: fx,
		ctx: &block.Context{
			World:    w,
			Effects:  fx,
			Entities: entity.NewManager(),
			Portals:  portal.NewPairState(),
			Tuning:   config.DefaultBlocks(),
		},
	}
}

// place ставит блок, создает блок-сущность и вызывает OnPlace поведения
func (f *fixture) place(pos vec.Vec3, id block.BlockID, facing block.Side) (block.Ref, entity.ID) {
	ref := block.Ref{Pos: pos, ID: id, Facing: facing}
	f.world.blocks[pos] = ref

	blockEnt := f.ctx.Entities.Create()
	f.ctx.Entities.BlockLocations.Set(blockEnt, entity.BlockLocation{Pos: pos})
	f.world.entities[pos] = blockEnt

	if e, ok := block.Get(ref.Definition().Marker); ok {
		if h, ok := e.(block.PlaceHandler); ok {
			h.OnPlace(f.ctx, ref, blockEnt)
		}
	}
	return ref, blockEnt
}

// character создает персонажа с позицией и кинематикой
func (f *fixture) character(pos, velocity vec.Vec3Float) entity.ID {
	id := f.ctx.Entities.Create()
	f.ctx.Entities.Locations.Set(id, entity.Location{Position: pos})
	f.ctx.Entities.Movements.Set(id, entity.CharacterMovement{Velocity: velocity, Height: 1.8, SpeedMultiplier: 1})
	return id
}
