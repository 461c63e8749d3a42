package gameboy

import (
	"context"
	"errors"
	"testing"

	"github.com/ushitora-anqou/dmgcore/bus"
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/cpu"
)

// newROM returns a 32 KiB ROM-only image with code placed at the given
// addresses and a valid header checksum.
func newROM(code map[uint16][]uint8) []uint8 {
	rom := make([]uint8, 0x8000)
	copy(rom[0x134:], "TEST")
	for addr, bytes := range code {
		copy(rom[addr:], bytes)
	}
	var x uint8
	for i := 0x134; i <= 0x14c; i++ {
		x = x - rom[i] - 1
	}
	rom[0x14d] = x
	return rom
}

// vblankCounter counts VBlank interrupts in register A.
var vblankCounter = map[uint16][]uint8{
	0x40: {
		0x3c, // INC A
		0xd9, // RETI
	},
	0x100: {
		0x3e, 0x01, // LD A,1
		0xe0, 0xff, // LDH (IE),A
		0xaf,       // XOR A
		0xe0, 0x0f, // LDH (IF),A
		0xfb,       // EI
		0x76,       // HALT
		0x18, 0xfd, // JR -3
	},
}

func newTestGameBoy(t *testing.T, code map[uint16][]uint8) *GameBoy {
	t.Helper()
	gb, err := New(newROM(code), DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return gb
}

func TestNew(t *testing.T) {
	gb := newTestGameBoy(t, nil)
	cat := gb.Cartridge()
	if cat.Title != "TEST" || cat.ROMSize != 0x8000 || cat.RAMSize != 0 || !cat.HeaderChecksumOK {
		t.Errorf("unexpected header: %+v", cat)
	}
	if gb.CPU().PC() != 0x0100 {
		t.Errorf("expect PC 0x0100 but got 0x%04x", gb.CPU().PC())
	}

	if _, err := New(make([]uint8, 0x100), DefaultConfig()); err == nil {
		t.Errorf("short image should be rejected")
	}
	cfg := DefaultConfig()
	cfg.BootROM = make([]uint8, 0x80)
	if _, err := New(newROM(nil), cfg); err == nil {
		t.Errorf("short boot ROM should be rejected")
	}
}

func TestBootROM(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BootROM = make([]uint8, 0x100)
	cfg.BootROM[0] = 0x31
	gb, err := New(newROM(nil), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if gb.CPU().PC() != 0x0000 {
		t.Errorf("expect PC 0x0000 but got 0x%04x", gb.CPU().PC())
	}
	if gb.Bus().Get8(0x0000) != 0x31 {
		t.Errorf("boot ROM should be mapped")
	}
}

func TestManySteps(t *testing.T) {
	gb := newTestGameBoy(t, map[uint16][]uint8{
		0x100: {0x18, 0xfe}, // JR -2
	})
	for i := 0; i < 10000; i++ {
		if _, err := gb.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if gb.CPU().PC() != 0x0100 {
		t.Errorf("expect PC 0x0100 but got 0x%04x", gb.CPU().PC())
	}
}

func TestBlankImage(t *testing.T) {
	gb := newTestGameBoy(t, nil)
	if cat := gb.Cartridge(); cat.ROMSize != 0x8000 || cat.RAMSize != 0 {
		t.Fatalf("ROMSize=%d RAMSize=%d", cat.ROMSize, cat.RAMSize)
	}
	for i := 0; i < 10000; i++ {
		if _, err := gb.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	frames := gb.PPU().Frames()
	if _, err := gb.RunFrame(); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	last := gb.Bus().Ticks()
	for k := uint64(2); k <= 6; k++ {
		if _, err := gb.RunFrame(); err != nil {
			t.Fatalf("frame %d: %v", k, err)
		}
		ticks := gb.Bus().Ticks()
		if d := ticks - last; d+32 < constant.FRAME_TICKS || d > constant.FRAME_TICKS+32 {
			t.Fatalf("frame %d: expect about %d ticks apart but got %d", k, constant.FRAME_TICKS, d)
		}
		if gb.PPU().Frames() != frames+k {
			t.Fatalf("expect %d frames but got %d", frames+k, gb.PPU().Frames())
		}
		last = ticks
	}
}

func TestFrameTiming(t *testing.T) {
	gb := newTestGameBoy(t, vblankCounter)
	for k := uint64(1); k <= 10; k++ {
		if _, err := gb.RunFrame(); err != nil {
			t.Fatalf("frame %d: %v", k, err)
		}
		expected := uint64(constant.LCD_HEIGHT*constant.LINE_TICKS) + (k-1)*constant.FRAME_TICKS
		ticks := gb.Bus().Ticks()
		if ticks < expected || ticks >= expected+32 {
			t.Fatalf("frame %d: expect about %d ticks but got %d", k, expected, ticks)
		}
		if gb.PPU().Frames() != k {
			t.Fatalf("expect %d frames but got %d", k, gb.PPU().Frames())
		}
	}
}

func TestVBlankInterrupt(t *testing.T) {
	gb := newTestGameBoy(t, vblankCounter)
	for i := 0; i < 5; i++ {
		if _, err := gb.RunFrame(); err != nil {
			t.Fatalf("RunFrame: %v", err)
		}
	}
	// The interrupt of a frame is taken at the beginning of the next one.
	if gb.CPU().A() != 4 {
		t.Errorf("expect 4 interrupts but got %d", gb.CPU().A())
	}
	if !gb.CPU().Halted() || !gb.CPU().IME() {
		t.Errorf("expect the CPU to be halted with IME set")
	}
}

func TestAudioPerFrame(t *testing.T) {
	gb := newTestGameBoy(t, vblankCounter)
	total := 0
	for i := 0; i < 60; i++ {
		samples, err := gb.RunFrame()
		if err != nil {
			t.Fatalf("RunFrame: %v", err)
		}
		total += len(samples) / constant.CHANNELS
	}
	ms := gb.Bus().Ticks() * 1000 / constant.CPU_FREQ
	if uint64(total) != ms*constant.AUDIO_FREQ/1000 {
		t.Errorf("expect %d samples but got %d", ms*constant.AUDIO_FREQ/1000, total)
	}
}

func TestIllegalOpcode(t *testing.T) {
	gb := newTestGameBoy(t, map[uint16][]uint8{
		0x100: {0x00, 0xd3},
	})
	_, err := gb.RunFrame()
	var illegal *cpu.IllegalOpcodeError
	if !errors.As(err, &illegal) {
		t.Fatalf("expect IllegalOpcodeError but got %v", err)
	}
	if illegal.Opcode != 0xd3 || illegal.PC != 0x0101 || illegal.Steps != 1 {
		t.Errorf("unexpected error: %+v", illegal)
	}
}

func TestRun(t *testing.T) {
	gb := newTestGameBoy(t, vblankCounter)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := 0
	err := gb.Run(ctx, func(gb *GameBoy, samples []float32) error {
		frames++
		if frames == 3 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expect context.Canceled but got %v", err)
	}
	if frames != 3 || gb.PPU().Frames() != 3 {
		t.Errorf("expect 3 frames but got %d (%d)", frames, gb.PPU().Frames())
	}

	stop := errors.New("stop")
	err = gb.Run(context.Background(), func(gb *GameBoy, samples []float32) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("expect the callback error but got %v", err)
	}
}

func TestSetButtons(t *testing.T) {
	gb := newTestGameBoy(t, nil)
	b := gb.Bus()
	b.Set8(bus.IE, bus.INT_JOYPAD.Mask())
	b.SetIF(0)

	gb.SetButtons(0, 1<<constant.ACT_A)
	if b.IF()&bus.INT_JOYPAD.Mask() == 0 {
		t.Fatalf("a new press should request the joypad interrupt")
	}

	b.SetIF(0)
	gb.SetButtons(0, 1<<constant.ACT_A)
	if b.IF() != 0 {
		t.Errorf("holding a button should not request another interrupt")
	}

	b.Set8(bus.P1, 0x10) // select action buttons
	if got := b.Get8(bus.P1) & 0x0f; got != 0x0e {
		t.Errorf("expect 0x0e but got 0x%02x", got)
	}
}
