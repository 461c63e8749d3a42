package apu

import (
	"github.com/ushitora-anqou/dmgcore/util"
)

// Sweep steps run at 128 Hz.
const SWEEP_TICKS = 8192 * 4

const MAX_FREQ = 2047

type sweep struct {
	sweepPeriod, sweepShift, shadowFreq int
	outEnabled, isDecrementing          bool
	tick                                *util.TickCounter
}

func newSweep(freq, val int) *sweep {
	ret := &sweep{
		sweepPeriod:    (val >> 4) & 7,
		isDecrementing: (val>>3)&1 != 0,
		sweepShift:     val & 7,
		shadowFreq:     freq,
		outEnabled:     true,
	}
	if ret.sweepPeriod != 0 {
		ret.tick = util.NewTickCounter(uint(ret.sweepPeriod) * SWEEP_TICKS)
	}
	return ret
}

func (s *sweep) isOutEnabled() bool {
	return s.outEnabled
}

func (s *sweep) getCurrentFreq() int {
	return s.shadowFreq
}

// doTick reports whether the frequency changed.
func (s *sweep) doTick(tick uint) bool {
	if s.tick == nil {
		return false
	}
	changed := false
	for n := s.tick.Tick(tick); n > 0 && s.outEnabled; n-- {
		if s.sweepShift == 0 {
			continue
		}
		delta := s.shadowFreq >> s.sweepShift
		freq := s.shadowFreq + delta
		if s.isDecrementing {
			freq = s.shadowFreq - delta
		}
		if freq > MAX_FREQ {
			s.tick = nil
			s.outEnabled = false
			return changed
		}
		s.shadowFreq = freq
		changed = true
	}
	return changed
}
