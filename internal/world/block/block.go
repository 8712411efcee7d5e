package block

import (
	"sort"
	"strings"

	"github.com/annel0/funnyblocks/internal/vec"
)

// BlockID представляет идентификатор типа блока
type BlockID uint16

// Константы ID блоков
const (
	// Базовые типы блоков
	AirBlockID   BlockID = iota // 0
	StoneBlockID                // 1
	GrassBlockID                // 2
	DirtBlockID                 // 3
	SandBlockID                 // 4
	GlassBlockID                // 5

	// Специальные блоки (начиная с 1000)
	AcceleratorBlockID  BlockID = 1000
	BouncerBlockID      BlockID = 1001
	BreakerBlockID      BlockID = 1002
	SpeedBoostBlockID   BlockID = 1003
	SpeedBoosterBlockID BlockID = 1004
	BluePortalBlockID   BlockID = 1005
	OrangePortalBlockID BlockID = 1006
)

// Marker - метка поведения, которую несет тип блока
type Marker uint8

const (
	MarkerNone Marker = iota
	MarkerAccelerator
	MarkerBouncer
	MarkerBreaker
	MarkerSpeedBoost
	MarkerSpeedBooster
	MarkerBluePortal
	MarkerOrangePortal
)

func (m Marker) String() string {
	switch m {
	case MarkerAccelerator:
		return "Accelerator"
	case MarkerBouncer:
		return "Bouncer"
	case MarkerBreaker:
		return "Breaker"
	case MarkerSpeedBoost:
		return "SpeedBoost"
	case MarkerSpeedBooster:
		return "SpeedBooster"
	case MarkerBluePortal:
		return "BluePortal"
	case MarkerOrangePortal:
		return "OrangePortal"
	default:
		return "None"
	}
}

// Side - грань блока и направление, в котором он установлен
type Side uint8

const (
	SideFront Side = iota
	SideBack
	SideLeft
	SideRight
	SideTop
	SideBottom
)

var sideNames = [...]string{"front", "back", "left", "right", "top", "bottom"}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return "unknown"
}

// Direction возвращает единичный вектор грани. Канонический перед - (0,0,-1).
func (s Side) Direction() vec.Vec3 {
	switch s {
	case SideBack:
		return vec.Vec3{Z: 1}
	case SideLeft:
		return vec.Vec3{X: -1}
	case SideRight:
		return vec.Vec3{X: 1}
	case SideTop:
		return vec.Up
	case SideBottom:
		return vec.Down
	default:
		return vec.Vec3{Z: -1}
	}
}

// ParseSide разбирает имя грани
func ParseSide(name string) (Side, bool) {
	for i, n := range sideNames {
		if strings.EqualFold(n, name) {
			return Side(i), true
		}
	}
	return SideFront, false
}

// Definition описывает тип блока
type Definition struct {
	ID         BlockID `json:"id"`
	Name       string  `json:"name"`
	Marker     Marker  `json:"marker"`
	Penetrable bool    `json:"penetrable"`
}

var definitions = map[BlockID]Definition{
	AirBlockID:   {ID: AirBlockID, Name: "Air", Penetrable: true},
	StoneBlockID: {ID: StoneBlockID, Name: "Stone"},
	GrassBlockID: {ID: GrassBlockID, Name: "Grass"},
	DirtBlockID:  {ID: DirtBlockID, Name: "Dirt"},
	SandBlockID:  {ID: SandBlockID, Name: "Sand"},
	GlassBlockID: {ID: GlassBlockID, Name: "Glass"},

	// Ускорители без коллизии: сущность входит внутрь блока
	AcceleratorBlockID:  {ID: AcceleratorBlockID, Name: "Accelerator", Marker: MarkerAccelerator, Penetrable: true},
	SpeedBoosterBlockID: {ID: SpeedBoosterBlockID, Name: "SpeedBooster", Marker: MarkerSpeedBooster, Penetrable: true},

	// На эти блоки встают сверху
	BouncerBlockID:      {ID: BouncerBlockID, Name: "Bouncer", Marker: MarkerBouncer},
	BreakerBlockID:      {ID: BreakerBlockID, Name: "Breaker", Marker: MarkerBreaker},
	SpeedBoostBlockID:   {ID: SpeedBoostBlockID, Name: "SpeedBoost", Marker: MarkerSpeedBoost},
	BluePortalBlockID:   {ID: BluePortalBlockID, Name: "BluePortal", Marker: MarkerBluePortal},
	OrangePortalBlockID: {ID: OrangePortalBlockID, Name: "OrangePortal", Marker: MarkerOrangePortal},
}

// Lookup возвращает описание типа блока
func Lookup(id BlockID) (Definition, bool) {
	def, ok := definitions[id]
	return def, ok
}

// LookupName ищет тип блока по имени без учета регистра
func LookupName(name string) (Definition, bool) {
	for _, def := range definitions {
		if strings.EqualFold(def.Name, name) {
			return def, true
		}
	}
	return Definition{}, false
}

// Definitions возвращает все известные типы по возрастанию ID
func Definitions() []Definition {
	out := make([]Definition, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := definitions[id]
	return exists
}

// Ref - экземпляр блока в мире
type Ref struct {
	Pos    vec.Vec3 `json:"pos"`
	ID     BlockID  `json:"id"`
	Facing Side     `json:"facing"`
}

// Definition возвращает описание типа блока. Неизвестный тип считается непроходимым без метки.
func (r Ref) Definition() Definition {
	if def, ok := definitions[r.ID]; ok {
		return def
	}
	return Definition{ID: r.ID, Name: "Unknown"}
}

// IsAir сообщает, что в позиции нет блока
func (r Ref) IsAir() bool {
	return r.ID == AirBlockID
}
