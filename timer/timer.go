package timer

import (
	"github.com/ushitora-anqou/dmgcore/bus"
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/util"
)

// Timer drives DIV and TIMA from the ticks the CPU reports after each step.
// TAC gating is decoded by the bus on write.
type Timer struct {
	bus      *bus.Bus
	div      *util.TickCounter
	tima     *util.TickCounter
	overflow uint64
}

func NewTimer(bus *bus.Bus) *Timer {
	return &Timer{
		bus:  bus,
		div:  util.NewTickCounter(constant.DIV_TICKS),
		tima: util.NewTickCounter(bus.TimerPeriod()),
	}
}

func (t *Timer) DIV() uint8 {
	return t.bus.Raw(bus.DIV)
}

func (t *Timer) TIMA() uint8 {
	return t.bus.Raw(bus.TIMA)
}

func (t *Timer) TMA() uint8 {
	return t.bus.Raw(bus.TMA)
}

// Overflows counts TIMA overflows since power-on.
func (t *Timer) Overflows() uint64 {
	return t.overflow
}

func (t *Timer) ResetDIV() {
	t.bus.SetRaw(bus.DIV, 0)
	t.div.Reset()
}

func (t *Timer) incTIMA() {
	val := uint(t.TIMA()) + 1
	if val > 0xff { // Interrupt
		t.overflow++
		t.bus.RequestInterrupt(bus.INT_TIMER)
		val = uint(t.TMA())
	}
	t.bus.SetRaw(bus.TIMA, uint8(val))
}

func (t *Timer) Update(tick uint) {
	for n := t.div.Tick(tick); n > 0; n-- {
		t.bus.SetRaw(bus.DIV, t.DIV()+1)
	}

	if !t.bus.TimerEnabled() {
		return
	}
	t.tima.SetTarget(t.bus.TimerPeriod())
	for n := t.tima.Tick(tick); n > 0; n-- {
		t.incTIMA()
	}
}
