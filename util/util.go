package util

func BoolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func BitN8(n uint8, index int) bool {
	return ((n >> index) & 1) != 0
}

// TickCounter divides an incoming tick stream by a fixed period.
type TickCounter struct {
	current, target uint
}

func NewTickCounter(target uint) *TickCounter {
	if target == 0 {
		target = 1
	}
	return &TickCounter{target: target}
}

// Tick adds tick to the counter and returns how many full periods elapsed.
func (tc *TickCounter) Tick(tick uint) int {
	edges := 0
	tc.current += tick
	for tc.current >= tc.target {
		tc.current -= tc.target
		edges++
	}
	return edges
}

func (tc *TickCounter) Reset() {
	tc.current = 0
}

func (tc *TickCounter) SetTarget(target uint) {
	if target == 0 {
		target = 1
	}
	tc.target = target
}

func (tc *TickCounter) Target() uint {
	return tc.target
}
