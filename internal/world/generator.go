package world

import (
	"github.com/annel0/funnyblocks/internal/config"
	"github.com/annel0/funnyblocks/internal/util"
	"github.com/annel0/funnyblocks/internal/vec"
	"github.com/annel0/funnyblocks/internal/world/block"
)

// Константы высот для генерации
const (
	SandMax       = 0.35 // Ниже - песчаные низины
	StoneStart    = 0.75 // Выше - каменистые холмы
	MaxRelief     = 4    // Наибольшая высота рельефа над основанием
	ShowcaseLevel = 2    // Высота поверхности демонстрационной полосы
)

// Generator строит площадку мира: рельеф по шуму Перлина и полосу специальных блоков
type Generator struct {
	Size       int     // Сторона площадки в блоках
	NoiseScale float64 // Масштаб шума (сглаженность рельефа)
	Demo       bool    // Выставлять демонстрационную полосу
	noise      *util.Noise
}

// NewGenerator создаёт генератор по настройкам мира
func NewGenerator(cfg config.WorldConfig) *Generator {
	size := cfg.Size
	if size < 8 {
		size = 8
	}
	return &Generator{
		Size:       size,
		NoiseScale: 0.08,
		Demo:       cfg.Demo,
		noise:      util.NewNoise(cfg.Seed),
	}
}

// ShowcaseRow возвращает Z ряда демонстрационной полосы
func (g *Generator) ShowcaseRow() int {
	return g.Size / 2
}

// ColumnHeight возвращает высоту поверхности столбца (Y верхнего блока)
func (g *Generator) ColumnHeight(x, z int) int {
	if g.Demo && abs(z-g.ShowcaseRow()) <= 2 {
		return ShowcaseLevel
	}
	h := g.noise.Noise2D(float64(x)*g.NoiseScale, float64(z)*g.NoiseScale)
	return int(h * MaxRelief)
}

// Generate заполняет мир обычными блоками. Обработчики поведения не вызываются.
func (g *Generator) Generate(w *Manager) int {
	placed := 0
	for x := 0; x < g.Size; x++ {
		for z := 0; z < g.Size; z++ {
			top := g.ColumnHeight(x, z)
			surface := g.surfaceBlock(x, z)
			for y := 0; y <= top; y++ {
				id := block.StoneBlockID
				switch {
				case y == 0:
					// нижний слой всегда каменный
				case y == top:
					id = surface
				case y >= top-1:
					id = block.DirtBlockID
				}
				w.SetBlock(vec.Vec3{X: x, Y: y, Z: z}, id, block.SideTop)
				placed++
			}
		}
	}
	return placed
}

func (g *Generator) surfaceBlock(x, z int) block.BlockID {
	if g.Demo && abs(z-g.ShowcaseRow()) <= 2 {
		return block.StoneBlockID
	}
	h := g.noise.Noise2D(float64(x)*g.NoiseScale, float64(z)*g.NoiseScale)
	switch {
	case h < SandMax:
		return block.SandBlockID
	case h >= StoneStart:
		return block.StoneBlockID
	default:
		return block.GrassBlockID
	}
}

// Showcase возвращает события установки демонстрационных блоков.
// Площадки, в которые входят (ускоритель, разгонщик), и порталы ставятся поверх поверхности,
// остальные заменяют верхний блок и работают, когда на них стоят.
// Вокруг портала на его уровне должно быть пусто, иначе прибыть к нему нельзя.
func (g *Generator) Showcase() []PlaceEvent {
	if !g.Demo {
		return nil
	}
	row := g.ShowcaseRow()
	surface := ShowcaseLevel
	above := ShowcaseLevel + 1

	events := []PlaceEvent{
		{Pos: vec.Vec3{X: 2, Y: above, Z: row}, ID: block.BluePortalBlockID, Facing: block.SideTop},
		{Pos: vec.Vec3{X: 5, Y: above, Z: row}, ID: block.AcceleratorBlockID, Facing: block.SideFront},
		{Pos: vec.Vec3{X: 7, Y: above, Z: row}, ID: block.AcceleratorBlockID, Facing: block.SideLeft},
		{Pos: vec.Vec3{X: 9, Y: surface, Z: row}, ID: block.BouncerBlockID, Facing: block.SideTop},
		{Pos: vec.Vec3{X: 11, Y: surface, Z: row}, ID: block.BreakerBlockID, Facing: block.SideTop},
		{Pos: vec.Vec3{X: 13, Y: surface, Z: row}, ID: block.SpeedBoostBlockID, Facing: block.SideFront},
		{Pos: vec.Vec3{X: 15, Y: surface, Z: row}, ID: block.SpeedBoostBlockID, Facing: block.SideTop},
		{Pos: vec.Vec3{X: 17, Y: above, Z: row}, ID: block.SpeedBoosterBlockID, Facing: block.SideTop},
	}
	if last := g.Size - 3; last > 17 {
		events = append(events, PlaceEvent{Pos: vec.Vec3{X: last, Y: above, Z: row}, ID: block.OrangePortalBlockID, Facing: block.SideTop})
	}
	return events
}

// SpawnPoint возвращает точку появления персонажа в начале полосы
func (g *Generator) SpawnPoint() vec.Vec3Float {
	return vec.Vec3Float{X: 1, Y: float64(ShowcaseLevel + 1), Z: float64(g.ShowcaseRow())}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
