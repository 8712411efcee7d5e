package implementations

import "github.com/annel0/funnyblocks/internal/world/block"

// Регистрируем все поведения специальных блоков при импорте пакета
func init() {
	block.Register(&AcceleratorEffect{})
	block.Register(&BouncerEffect{})
	block.Register(&BreakerEffect{})
	block.Register(&SpeedBoostEffect{})
	block.Register(&SpeedBoosterEffect{})
	block.Register(&PortalEffect{})
}
