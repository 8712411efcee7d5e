package vec

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3Float представляет трехмерный вектор с плавающими координатами
type Vec3Float struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RoundHalfUp округляет к ближайшему целому, половины вверх: floor(x + 0.5).
// -0.5 дает 0, -1.5 дает -1.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Round возвращает воксель, в котором находится точка
func (v Vec3Float) Round() Vec3 {
	return Vec3{X: RoundHalfUp(v.X), Y: RoundHalfUp(v.Y), Z: RoundHalfUp(v.Z)}
}

// BlockBelow возвращает воксель непосредственно под точкой
func (v Vec3Float) BlockBelow() Vec3 {
	return v.Round().Add(Down)
}

// Add складывает два вектора
func (v Vec3Float) Add(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub вычитает вектор
func (v Vec3Float) Sub(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Mul умножает вектор на скаляр
func (v Vec3Float) Mul(s float64) Vec3Float {
	return Vec3Float{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Length возвращает длину вектора
func (v Vec3Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// IsZero сообщает, что все компоненты равны нулю
func (v Vec3Float) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Normalized возвращает единичный вектор того же направления. Нулевой вектор остается нулевым.
func (v Vec3Float) Normalized() Vec3Float {
	l := v.Length()
	if l == 0 {
		return Vec3Float{}
	}
	return v.Mul(1 / l)
}

// Horizontal обнуляет вертикальную составляющую
func (v Vec3Float) Horizontal() Vec3Float {
	return Vec3Float{X: v.X, Z: v.Z}
}

// Equals проверяет точное равенство векторов
func (v Vec3Float) Equals(other Vec3Float) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Mgl преобразует вектор в mgl64.Vec3
func (v Vec3Float) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromMgl создает вектор из mgl64.Vec3
func FromMgl(m mgl64.Vec3) Vec3Float {
	return Vec3Float{X: m[0], Y: m[1], Z: m[2]}
}

func (v Vec3Float) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
