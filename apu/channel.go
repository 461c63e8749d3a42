package apu

import (
	"github.com/ushitora-anqou/dmgcore/util"
)

// voice is the state every channel variant shares.
type voice struct {
	loop      bool
	remaining int // samples left when not looping
	stopped   bool
	pos       int
	freqTick  *util.TickCounter
	buf       []float32
}

func (v *voice) base() *voice {
	return v
}

func (v *voice) setPeriod(ticks uint) {
	if v.freqTick == nil {
		v.freqTick = util.NewTickCounter(ticks)
	} else {
		v.freqTick.SetTarget(ticks)
	}
}

type channel interface {
	base() *voice
	// advance moves the generator forward by tick clock ticks.
	advance(tick uint)
	amplitude() float32
}

var dutyPatterns = [4][8]float32{
	{-1.0, -1.0, -1.0, -1.0, -1.0, -1.0, -1.0, +1.0}, // duty 0
	{-1.0, -1.0, -1.0, -1.0, -1.0, -1.0, +1.0, +1.0}, // duty 1
	{-1.0, -1.0, -1.0, -1.0, +1.0, +1.0, +1.0, +1.0}, // duty 2
	{+1.0, +1.0, +1.0, +1.0, +1.0, +1.0, -1.0, -1.0}, // duty 3
}

type channelQuad struct {
	voice
	wavePatternDuty int
	env             *envelope
	sweep           *sweep // channel 1 only
}

func squarePeriod(freq int) uint {
	return uint(2048-freq) * 4
}

func (ch *channelQuad) advance(tick uint) {
	ch.pos = (ch.pos + ch.freqTick.Tick(tick)) % 8

	if ch.sweep != nil {
		if ch.sweep.doTick(tick) {
			ch.setPeriod(squarePeriod(ch.sweep.getCurrentFreq()))
		}
		if !ch.sweep.isOutEnabled() {
			ch.stopped = true
		}
	}

	ch.env.doTick(tick)
}

func (ch *channelQuad) amplitude() float32 {
	if ch.stopped {
		return 0
	}
	return ch.env.getAmplitude(dutyPatterns[ch.wavePatternDuty][ch.pos])
}

type channelWave struct {
	voice
	outputLevel int
	wave        [32]uint8
}

func wavePeriod(freq int) uint {
	return uint(2048-freq) * 2
}

func (ch *channelWave) advance(tick uint) {
	ch.pos = (ch.pos + ch.freqTick.Tick(tick)) % 32
}

func (ch *channelWave) amplitude() float32 {
	val := ch.wave[ch.pos]

	// output level
	switch ch.outputLevel {
	case 0:
		return 0
	case 1:
		// Do nothing
	case 2:
		val >>= 1
	case 3:
		val >>= 2
	}
	return float32(val)/7.5 - 1.0
}

type channelNoise struct {
	voice
	env       *envelope
	widthMode bool
	lfsr      uint16
}

func noisePeriod(divisorCode, shiftAmount int) uint {
	divisor := 8
	if divisorCode > 0 {
		divisor = divisorCode << 4
	}
	return uint(divisor << shiftAmount)
}

// clock shifts the LFSR once. Bits 0 and 1 feed bit 14, and bit 6 as well
// in the 7-bit width mode.
func (ch *channelNoise) clock() {
	tmp := (ch.lfsr & 1) ^ ((ch.lfsr >> 1) & 1)
	ch.lfsr = (ch.lfsr >> 1) | (tmp << 14)
	if ch.widthMode {
		ch.lfsr &^= (1 << 6)
		ch.lfsr |= (tmp << 6)
	}
}

// output is the inverted low bit of the LFSR.
func (ch *channelNoise) output() uint8 {
	return uint8(1 &^ ch.lfsr)
}

func (ch *channelNoise) advance(tick uint) {
	for n := ch.freqTick.Tick(tick); n > 0; n-- {
		ch.clock()
	}
	ch.env.doTick(tick)
}

func (ch *channelNoise) amplitude() float32 {
	return ch.env.getAmplitude(float32(ch.output())*2 - 1)
}
