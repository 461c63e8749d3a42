package apu

import (
	"github.com/ushitora-anqou/dmgcore/bus"
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/util"
)

const NUM_CHANNELS = 4

// APU turns the sound registers into stereo float32 samples. A channel reads
// its registers once when triggered and keeps that snapshot until it ends or
// is triggered again.
type APU struct {
	bus        *bus.Bus
	sampleRate int
	channels   [NUM_CHANNELS]channel

	// Running sample index used to split CPU ticks evenly across samples.
	sampleClock uint64
	// Sub-sample remainder of elapsed milliseconds, scaled by sampleRate.
	msRemainder int

	ticks []uint
	out   []float32
	mixer *Mixer
}

func NewAPU(b *bus.Bus, sampleRate, prebufferMillis int) *APU {
	if sampleRate <= 0 {
		sampleRate = constant.AUDIO_FREQ
	}
	capacity := constant.AUDIO_SAMPLES * constant.AUDIO_QUEUE_SIZE * constant.CHANNELS
	prebuffer := sampleRate * prebufferMillis / 1000 * constant.CHANNELS
	return &APU{
		bus:        b,
		sampleRate: sampleRate,
		mixer:      NewMixer(capacity, prebuffer),
	}
}

func (apu *APU) SampleRate() int {
	return apu.sampleRate
}

// Output is the queue the audio backend drains.
func (apu *APU) Output() *Mixer {
	return apu.mixer
}

// Active reports whether channel n (0 to 3) is currently producing sound.
func (apu *APU) Active(n int) bool {
	return apu.channels[n] != nil
}

func (apu *APU) SetPower(on bool) {
	util.Trace1("\t<<<APU: power %v>>>", on)
	if on {
		return
	}
	for i := range apu.channels {
		apu.deactivate(i)
	}
}

func (apu *APU) samples(units int) int {
	return units * apu.sampleRate / 256
}

// Trigger (re)starts channel n from the current register values.
func (apu *APU) Trigger(n int) {
	var ch channel
	switch n {
	case 0:
		ch = apu.newQuad(bus.NR10, true)
	case 1:
		ch = apu.newQuad(bus.NR21-1, false)
	case 2:
		ch = apu.newWave()
	case 3:
		ch = apu.newNoise()
	default:
		return
	}

	if ch == nil {
		util.Trace1("\t<<<APU: channel %d DAC off>>>", n+1)
		apu.deactivate(n)
		return
	}
	util.Trace1("\t<<<APU: channel %d triggered>>>", n+1)
	apu.channels[n] = ch
	apu.bus.SetRaw(bus.NR52, apu.bus.Raw(bus.NR52)|(1<<n))
}

func (apu *APU) deactivate(n int) {
	apu.channels[n] = nil
	apu.bus.SetRaw(bus.NR52, apu.bus.Raw(bus.NR52)&^(1<<n))
}

// newQuad reads the square channel registers starting at base (NRx0).
func (apu *APU) newQuad(base uint16, withSweep bool) channel {
	nrx1 := int(apu.bus.Raw(base + 1))
	nrx2 := int(apu.bus.Raw(base + 2))
	nrx3 := int(apu.bus.Raw(base + 3))
	nrx4 := int(apu.bus.Raw(base + 4))
	if nrx2&0xf8 == 0 {
		return nil
	}

	freq := nrx3 | (nrx4&7)<<8
	ch := &channelQuad{
		wavePatternDuty: nrx1 >> 6,
		env:             newEnvelope(nrx2),
	}
	ch.loop = nrx4&0x40 == 0
	ch.remaining = apu.samples(64 - nrx1&0x3f)
	ch.setPeriod(squarePeriod(freq))
	if withSweep {
		ch.sweep = newSweep(freq, int(apu.bus.Raw(base)))
	}
	return ch
}

func (apu *APU) newWave() channel {
	if apu.bus.Raw(bus.NR30)&0x80 == 0 {
		return nil
	}
	nr34 := int(apu.bus.Raw(bus.NR34))
	freq := int(apu.bus.Raw(bus.NR33)) | (nr34&7)<<8

	ch := &channelWave{
		outputLevel: int(apu.bus.Raw(bus.NR32)>>5) & 3,
	}
	for i := 0; i < 16; i++ {
		b := apu.bus.Raw(bus.WAVE_RAM + uint16(i))
		ch.wave[i*2] = b >> 4
		ch.wave[i*2+1] = b & 0x0f
	}
	ch.loop = nr34&0x40 == 0
	ch.remaining = apu.samples(256 - int(apu.bus.Raw(bus.NR31)))
	ch.setPeriod(wavePeriod(freq))
	return ch
}

func (apu *APU) newNoise() channel {
	nr42 := int(apu.bus.Raw(bus.NR42))
	if nr42&0xf8 == 0 {
		return nil
	}
	nr43 := int(apu.bus.Raw(bus.NR43))
	nr44 := int(apu.bus.Raw(bus.NR44))

	ch := &channelNoise{
		env:       newEnvelope(nr42),
		widthMode: (nr43>>3)&1 != 0,
		lfsr:      0x7fff,
	}
	ch.loop = nr44&0x40 == 0
	ch.remaining = apu.samples(64 - int(apu.bus.Raw(bus.NR41))&0x3f)
	ch.setPeriod(noisePeriod(nr43&7, nr43>>4))
	return ch
}

// Render produces the interleaved stereo samples covering elapsedMillis of
// emulated time, queues them on the mixer and returns them. The returned
// slice is reused by the next call.
func (apu *APU) Render(elapsedMillis int) []float32 {
	apu.msRemainder += elapsedMillis * apu.sampleRate
	n := apu.msRemainder / 1000
	apu.msRemainder %= 1000

	if cap(apu.ticks) < n {
		apu.ticks = make([]uint, n)
		apu.out = make([]float32, n*constant.CHANNELS)
	}
	apu.ticks = apu.ticks[:n]
	apu.out = apu.out[:n*constant.CHANNELS]
	rate := uint64(apu.sampleRate)
	for i := range apu.ticks {
		k := apu.sampleClock + uint64(i)
		apu.ticks[i] = uint(constant.CPU_FREQ*(k+1)/rate - constant.CPU_FREQ*k/rate)
	}
	apu.sampleClock += uint64(n)

	for _, ch := range apu.channels {
		if ch == nil {
			continue
		}
		v := ch.base()
		count := n
		if !v.loop && v.remaining < count {
			count = v.remaining
		}
		v.buf = v.buf[:0]
		for s := 0; s < count && !v.stopped; s++ {
			ch.advance(apu.ticks[s])
			v.buf = append(v.buf, ch.amplitude())
		}
		if !v.loop {
			v.remaining -= len(v.buf)
		}
	}

	apu.mix()

	for i, ch := range apu.channels {
		if ch == nil {
			continue
		}
		v := ch.base()
		if v.stopped || (!v.loop && v.remaining <= 0) {
			util.Trace1("\t<<<APU: channel %d finished>>>", i+1)
			apu.deactivate(i)
		}
	}

	apu.mixer.Write(apu.out)
	return apu.out
}

func (apu *APU) mix() {
	terminal := apu.bus.Raw(bus.NR51)
	nr50 := apu.bus.Raw(bus.NR50)
	so1Volume := float32(nr50&7+1) / 8
	so2Volume := float32((nr50>>4)&7+1) / 8

	for s := 0; s < len(apu.out)/constant.CHANNELS; s++ {
		var left, right float32
		for i, ch := range apu.channels {
			if ch == nil {
				continue
			}
			buf := ch.base().buf
			if s >= len(buf) {
				continue
			}
			if (terminal>>i)&1 != 0 {
				right += buf[s]
			}
			if (terminal>>(i+4))&1 != 0 {
				left += buf[s]
			}
		}
		apu.out[s*2] = left * so2Volume / NUM_CHANNELS
		apu.out[s*2+1] = right * so1Volume / NUM_CHANNELS
	}
}
