package physics

import (
	"math"

	"github.com/annel0/funnyblocks/internal/vec"
)

// ColumnCollider описывает сущность как вертикальный столбец вокселей заданной высоты
type ColumnCollider struct {
	Height float64 // Высота в блоках, может быть дробной
}

// NewColumnCollider создаёт коллайдер с указанной высотой
func NewColumnCollider(height float64) *ColumnCollider {
	return &ColumnCollider{Height: height}
}

// CellsForHeight возвращает число вокселей, занимаемых столбцом высоты height (не меньше одного)
func CellsForHeight(height float64) int {
	n := int(math.Ceil(height))
	if n < 1 {
		return 1
	}
	return n
}

// Cells возвращает число вокселей, занимаемых коллайдером
func (c *ColumnCollider) Cells() int {
	return CellsForHeight(c.Height)
}

// HeadOffset возвращает смещение по Y клетки головы относительно клетки ног: ceil(height) - 1
func (c *ColumnCollider) HeadOffset() int {
	return int(math.Ceil(c.Height)) - 1
}

// OccupiedCells возвращает клетки столбца начиная с feet, снизу вверх
func (c *ColumnCollider) OccupiedCells(feet vec.Vec3) []vec.Vec3 {
	cells := make([]vec.Vec3, 0, c.Cells())
	for j := 0; j < c.Cells(); j++ {
		cells = append(cells, feet.Add(vec.Vec3{Y: j}))
	}
	return cells
}

// ColumnClear проверяет снизу вверх, что все клетки от base на CellsForHeight(height) вверх
// проходимы. Останавливается на первой непроходимой клетке.
func ColumnClear(base vec.Vec3, height float64, penetrable func(vec.Vec3) bool) bool {
	for j := 0; j < CellsForHeight(height); j++ {
		if !penetrable(base.Add(vec.Vec3{Y: j})) {
			return false
		}
	}
	return true
}
