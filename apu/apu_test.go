package apu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ushitora-anqou/dmgcore/bus"
	"github.com/ushitora-anqou/dmgcore/cartridge"
	"github.com/ushitora-anqou/dmgcore/constant"
)

func newTestAPU(t *testing.T, sampleRate int) (*APU, *bus.Bus) {
	t.Helper()
	cat, err := cartridge.New(make([]uint8, 0x8000))
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	b := bus.NewBus(cat, nil)
	a := NewAPU(b, sampleRate, 0)
	b.Register(a, nil, nil)
	return a, b
}

func TestNoiseLFSR(t *testing.T) {
	ch := &channelNoise{lfsr: 0x7fff}
	want := []uint8{
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		0, 1, 1,
	}
	for i, w := range want {
		ch.clock()
		if got := ch.output(); got != w {
			t.Fatalf("step %d: expect %d but got %d", i+1, w, got)
		}
	}
}

func TestNoiseLFSRPeriod(t *testing.T) {
	tests := []struct {
		widthMode bool
		period    int
	}{
		{false, 32767},
		{true, 127},
	}
	for _, tc := range tests {
		ch := &channelNoise{lfsr: 0x7fff, widthMode: tc.widthMode}
		// Let bits above bit 6 settle in the narrow mode.
		for i := 0; i < 16; i++ {
			ch.clock()
		}
		start := ch.lfsr
		for i := 1; i <= tc.period; i++ {
			ch.clock()
			if ch.lfsr == start && i != tc.period {
				t.Fatalf("widthMode=%v: state repeated after %d steps", tc.widthMode, i)
			}
		}
		if ch.lfsr != start {
			t.Errorf("widthMode=%v: expect period %d but state is 0x%04x, not 0x%04x", tc.widthMode, tc.period, ch.lfsr, start)
		}
	}
}

func TestEnvelope(t *testing.T) {
	e := newEnvelope(0xf1)
	e.doTick(ENVELOPE_TICKS - 1)
	if e.currentVolume != 15 {
		t.Fatalf("expect 15 but got %d", e.currentVolume)
	}
	e.doTick(1)
	if e.currentVolume != 14 {
		t.Fatalf("expect 14 but got %d", e.currentVolume)
	}
	e.doTick(ENVELOPE_TICKS * 20)
	if e.currentVolume != 0 {
		t.Errorf("decreasing envelope should stop at 0 but got %d", e.currentVolume)
	}

	e = newEnvelope(0x09)
	e.doTick(ENVELOPE_TICKS * 20)
	if e.currentVolume != 15 {
		t.Errorf("increasing envelope should stop at 15 but got %d", e.currentVolume)
	}

	e = newEnvelope(0xa0)
	e.doTick(ENVELOPE_TICKS * 20)
	if e.currentVolume != 10 {
		t.Errorf("period 0 should keep the initial volume but got %d", e.currentVolume)
	}
	if got := e.getAmplitude(1); got != float32(10)/15 {
		t.Errorf("expect %f but got %f", float32(10)/15, got)
	}
}

func TestSweep(t *testing.T) {
	s := newSweep(1024, 0x11)
	if !s.doTick(SWEEP_TICKS) || s.getCurrentFreq() != 1536 {
		t.Fatalf("expect 1536 but got %d", s.getCurrentFreq())
	}
	if s.doTick(SWEEP_TICKS) {
		t.Fatalf("overflowing step should not change the frequency")
	}
	if s.isOutEnabled() || s.getCurrentFreq() != 1536 {
		t.Fatalf("expect overflow to disable the channel at 1536")
	}

	s = newSweep(1024, 0x19)
	s.doTick(SWEEP_TICKS)
	if s.getCurrentFreq() != 512 {
		t.Errorf("expect 512 but got %d", s.getCurrentFreq())
	}

	for _, val := range []int{0x01, 0x10} {
		s = newSweep(1024, val)
		if s.doTick(SWEEP_TICKS*10) || s.getCurrentFreq() != 1024 || !s.isOutEnabled() {
			t.Errorf("0x%02x: sweep should be inactive", val)
		}
	}
}

func triggerSquare2(b *bus.Bus, nr21, nr22, nr24 uint8) {
	b.Set8(bus.NR21, nr21)
	b.Set8(bus.NR22, nr22)
	b.Set8(bus.NR23, 0x00)
	b.Set8(bus.NR24, nr24)
}

func TestLengthExpiry(t *testing.T) {
	a, b := newTestAPU(t, 48000)
	triggerSquare2(b, 0x3f, 0xf0, 0xc0)
	if !a.Active(1) || b.Raw(bus.NR52)&0x02 == 0 {
		t.Fatalf("channel 2 should be running")
	}

	out := a.Render(10)
	if len(out) != 480*2 {
		t.Fatalf("expect %d values but got %d", 480*2, len(out))
	}
	if a.Active(1) || b.Raw(bus.NR52)&0x02 != 0 {
		t.Fatalf("channel 2 should have stopped")
	}
	// One length unit is 1/256 s.
	for s := 0; s < 480; s++ {
		left := out[s*2]
		if s < 187 && left == 0 {
			t.Fatalf("sample %d should be audible", s)
		}
		if s >= 187 && left != 0 {
			t.Fatalf("sample %d should be silent but got %f", s, left)
		}
	}
}

func TestLoopingChannel(t *testing.T) {
	a, b := newTestAPU(t, 48000)
	triggerSquare2(b, 0x3f, 0xf0, 0x80)
	a.Render(1000)
	if !a.Active(1) {
		t.Errorf("channel 2 without length enable should keep running")
	}
}

func TestDACOff(t *testing.T) {
	a, b := newTestAPU(t, 48000)
	triggerSquare2(b, 0x00, 0x00, 0x80)
	if a.Active(1) || b.Raw(bus.NR52)&0x02 != 0 {
		t.Errorf("channel 2 should not start with its DAC off")
	}

	b.Set8(bus.NR30, 0x00)
	b.Set8(bus.NR34, 0x80)
	if a.Active(2) {
		t.Errorf("channel 3 should not start with NR30 bit 7 clear")
	}
	b.Set8(bus.NR30, 0x80)
	b.Set8(bus.NR34, 0x80)
	if !a.Active(2) || b.Raw(bus.NR52)&0x04 == 0 {
		t.Errorf("channel 3 should start")
	}
}

func TestPowerOff(t *testing.T) {
	a, b := newTestAPU(t, 48000)
	triggerSquare2(b, 0x00, 0xf0, 0x80)
	b.Set8(bus.NR52, 0x00)
	if a.Active(1) {
		t.Fatalf("power off should stop every channel")
	}
	triggerSquare2(b, 0x00, 0xf0, 0x80)
	if a.Active(1) {
		t.Fatalf("triggers should be ignored while powered off")
	}
	for _, v := range a.Render(10) {
		if v != 0 {
			t.Fatalf("expect silence but got %f", v)
		}
	}
}

func TestSweepOverflowStopsChannel(t *testing.T) {
	a, b := newTestAPU(t, 48000)
	b.Set8(bus.NR10, 0x11)
	b.Set8(bus.NR11, 0x80)
	b.Set8(bus.NR12, 0xf0)
	b.Set8(bus.NR13, 0x00)
	b.Set8(bus.NR14, 0x84)

	a.Render(10)
	if !a.Active(0) {
		t.Fatalf("channel 1 should survive the first sweep step")
	}
	a.Render(20)
	if a.Active(0) || b.Raw(bus.NR52)&0x01 != 0 {
		t.Errorf("channel 1 should be disabled by the sweep overflow")
	}
}

func TestRouting(t *testing.T) {
	tests := []struct {
		nr50, nr51  uint8
		left, right float32
	}{
		{0x77, 0x20, 0.25, 0},
		{0x77, 0x02, 0, 0.25},
		{0x70, 0x22, 0.25, 0.03125},
		{0x77, 0x00, 0, 0},
	}
	for _, tc := range tests {
		a, b := newTestAPU(t, 48000)
		b.Set8(bus.NR50, tc.nr50)
		b.Set8(bus.NR51, tc.nr51)
		triggerSquare2(b, 0x00, 0xf0, 0x80)
		out := a.Render(10)
		for s := 0; s < len(out)/2; s++ {
			if l := float32(math.Abs(float64(out[s*2]))); l != tc.left {
				t.Fatalf("NR50=0x%02x NR51=0x%02x: left expect %f but got %f", tc.nr50, tc.nr51, tc.left, l)
			}
			if r := float32(math.Abs(float64(out[s*2+1]))); r != tc.right {
				t.Fatalf("NR50=0x%02x NR51=0x%02x: right expect %f but got %f", tc.nr50, tc.nr51, tc.right, r)
			}
		}
	}
}

func TestRenderSampleCount(t *testing.T) {
	a, _ := newTestAPU(t, 44100)
	total := 0
	for i := 0; i < 10; i++ {
		total += len(a.Render(1)) / 2
	}
	if total != 441 {
		t.Errorf("expect 441 samples but got %d", total)
	}

	a, _ = newTestAPU(t, 48000)
	a.Render(1000)
	var sum uint
	for _, tick := range a.ticks {
		sum += tick
	}
	if sum != constant.CPU_FREQ {
		t.Errorf("one second of samples should cover %d ticks but got %d", constant.CPU_FREQ, sum)
	}
	if a.Output().Buffered() != constant.AUDIO_SAMPLES*constant.AUDIO_QUEUE_SIZE*constant.CHANNELS {
		t.Errorf("mixer should be full but holds %d", a.Output().Buffered())
	}
}

func TestMixerPrebuffer(t *testing.T) {
	m := NewMixer(16, 8)
	m.Write([]float32{1, 2, 3, 4})
	p := []float32{9, 9, 9, 9}
	if n := m.Read(p); n != 0 || m.Playing() {
		t.Fatalf("expect no playback before the pre-buffer fills, got %d", n)
	}
	for _, v := range p {
		if v != 0 {
			t.Fatalf("expect silence but got %v", p)
		}
	}

	m.Write([]float32{5, 6, 7, 8})
	if n := m.Read(p); n != 4 || p[0] != 1 || p[3] != 4 || !m.Playing() {
		t.Fatalf("unexpected read: %d %v", n, p)
	}

	p = make([]float32, 8)
	if n := m.Read(p); n != 4 || p[3] != 8 || p[4] != 0 {
		t.Fatalf("unexpected read: %d %v", n, p)
	}
	if m.Playing() || m.Underruns() != 1 {
		t.Errorf("underrun should stop playback until the pre-buffer refills")
	}
}

func TestMixerOverflow(t *testing.T) {
	m := NewMixer(4, 0)
	m.Write([]float32{1, 2, 3, 4, 5, 6})
	if m.Dropped() != 2 || m.Buffered() != 4 {
		t.Fatalf("expect 2 dropped and 4 buffered but got %d, %d", m.Dropped(), m.Buffered())
	}
	p := make([]float32, 4)
	m.Read(p)
	for i, want := range []float32{3, 4, 5, 6} {
		if p[i] != want {
			t.Fatalf("expect %v but got %v", []float32{3, 4, 5, 6}, p)
		}
	}
}

func TestFloat32LE(t *testing.T) {
	m := NewMixer(4, 0)
	m.Write([]float32{0.5, -1})
	buf := make([]byte, 8)
	n, err := m.Float32LE().Read(buf)
	if err != nil || n != 8 {
		t.Fatalf("unexpected read: %d %v", n, err)
	}
	if v := math.Float32frombits(binary.LittleEndian.Uint32(buf)); v != 0.5 {
		t.Errorf("expect 0.5 but got %f", v)
	}
	if v := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])); v != -1 {
		t.Errorf("expect -1 but got %f", v)
	}
}
