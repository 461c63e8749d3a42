package apu

import (
	"github.com/ushitora-anqou/dmgcore/util"
)

// Envelope steps run at 64 Hz.
const ENVELOPE_TICKS = 8192 * 8

type envelope struct {
	currentVolume, initVolume, direction, numSweep int
	tick                                           *util.TickCounter
}

func newEnvelope(val int) *envelope {
	ret := &envelope{
		initVolume: val >> 4,
		direction:  (val >> 3) & 1,
		numSweep:   val & 7,
	}
	ret.trigger()
	return ret
}

func (e *envelope) trigger() {
	e.currentVolume = e.initVolume
	if e.numSweep == 0 {
		e.tick = nil
	} else {
		e.tick = util.NewTickCounter(uint(e.numSweep) * ENVELOPE_TICKS)
	}
}

func (e *envelope) doTick(tick uint) {
	if e.tick == nil {
		return
	}
	for n := e.tick.Tick(tick); n > 0; n-- {
		if e.direction == 1 && e.currentVolume < 0xf { // Increase
			e.currentVolume += 1
		} else if e.direction == 0 && e.currentVolume > 0x0 { // Decrease
			e.currentVolume -= 1
		}
	}
}

func (e *envelope) getAmplitude(src float32 /* NOTE: -1 to 1 */) float32 {
	return src * float32(e.currentVolume) / 15
}
