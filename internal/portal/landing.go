package portal

import (
	"github.com/annel0/funnyblocks/internal/physics"
	"github.com/annel0/funnyblocks/internal/vec"
)

// NoSpaceMessage отправляется, когда рядом с порталом назначения нет места
const NoSpaceMessage = "Could not teleport to the other portal as there is no space around it!"

// Terrain отвечает на вопрос о проходимости вокселя
type Terrain interface {
	IsPenetrable(pos vec.Vec3) bool
}

// FindLanding ищет среди 8 горизонтальных соседей target первую клетку, над которой
// помещается столбец высоты height. Порядок обхода: i = -1..1 (X), внутри k = -1..1 (Z).
// Возвращает точку прибытия: сосед + (0,1,0).
func FindLanding(t Terrain, target vec.Vec3, height float64) (vec.Vec3Float, bool) {
	for i := -1; i <= 1; i++ {
		for k := -1; k <= 1; k++ {
			if i == 0 && k == 0 {
				continue
			}
			neighbor := target.Add(vec.Vec3{X: i, Z: k})
			if physics.ColumnClear(neighbor, height, t.IsPenetrable) {
				return neighbor.Add(vec.Up).ToFloat(), true
			}
		}
	}
	return vec.Vec3Float{}, false
}
