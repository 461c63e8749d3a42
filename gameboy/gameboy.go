package gameboy

import (
	"context"
	"fmt"

	"github.com/ushitora-anqou/dmgcore/apu"
	"github.com/ushitora-anqou/dmgcore/bus"
	"github.com/ushitora-anqou/dmgcore/cartridge"
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/cpu"
	"github.com/ushitora-anqou/dmgcore/joypad"
	"github.com/ushitora-anqou/dmgcore/ppu"
	"github.com/ushitora-anqou/dmgcore/timer"
)

type Config struct {
	// BootROM is mapped over 0x0000-0x00FF until the program writes to
	// 0xFF50. Without it the machine starts in the post-boot state.
	BootROM              []uint8
	SampleRate           int
	AudioPrebufferMillis int
	TraceInstructions    bool
}

func DefaultConfig() Config {
	return Config{
		SampleRate:           constant.AUDIO_FREQ,
		AudioPrebufferMillis: constant.AUDIO_PREBUFFER,
	}
}

// GameBoy owns one machine. It is not safe for concurrent use; only the
// audio mixer returned by Audio may be drained from another goroutine.
type GameBoy struct {
	cat    *cartridge.Cartridge
	bus    *bus.Bus
	cpu    *cpu.CPU
	ppu    *ppu.PPU
	apu    *apu.APU
	timer  *timer.Timer
	joypad *joypad.Joypad

	audioTicks uint64 // tick counter at the last audio render
	msFraction uint64 // leftover ticks*1000 not yet rendered
}

func New(rom []uint8, cfg Config) (*GameBoy, error) {
	cat, err := cartridge.New(rom)
	if err != nil {
		return nil, fmt.Errorf("failed to load cartridge: %w", err)
	}
	if cfg.BootROM != nil && len(cfg.BootROM) != 0x100 {
		return nil, fmt.Errorf("boot ROM must be 256 bytes, got %d", len(cfg.BootROM))
	}

	// Build the components
	bus := bus.NewBus(cat, cfg.BootROM)
	timer := timer.NewTimer(bus)
	cpu := cpu.NewCPU(bus, timer)
	ppu := ppu.NewPPU(bus)
	apu := apu.NewAPU(bus, cfg.SampleRate, cfg.AudioPrebufferMillis)
	joypad := joypad.NewJoypad()

	// Build up the bus
	bus.Register(apu, timer, joypad)

	cpu.SetTrace(cfg.TraceInstructions)

	return &GameBoy{
		cat:    cat,
		bus:    bus,
		cpu:    cpu,
		ppu:    ppu,
		apu:    apu,
		timer:  timer,
		joypad: joypad,
	}, nil
}

func (gb *GameBoy) Cartridge() *cartridge.Cartridge { return gb.cat }
func (gb *GameBoy) Bus() *bus.Bus                   { return gb.bus }
func (gb *GameBoy) CPU() *cpu.CPU                   { return gb.cpu }
func (gb *GameBoy) PPU() *ppu.PPU                   { return gb.ppu }
func (gb *GameBoy) APU() *apu.APU                   { return gb.apu }
func (gb *GameBoy) Timer() *timer.Timer             { return gb.timer }
func (gb *GameBoy) Joypad() *joypad.Joypad          { return gb.joypad }

// Audio is the mixer an audio backend reads from.
func (gb *GameBoy) Audio() *apu.Mixer {
	return gb.apu.Output()
}

// Step runs one instruction and lets the pixel pipeline catch up with the
// ticks it consumed.
func (gb *GameBoy) Step() (uint, error) {
	tick, err := gb.cpu.Step()
	gb.ppu.Step()
	return tick, err
}

// RunFrame emulates until the pixel pipeline completes a frame, then renders
// the audio covering the emulated time. The returned samples are interleaved
// stereo and only valid until the next call.
func (gb *GameBoy) RunFrame() ([]float32, error) {
	for !gb.ppu.ConsumeFrame() {
		if _, err := gb.Step(); err != nil {
			return nil, fmt.Errorf("frame %d: %w", gb.ppu.Frames(), err)
		}
	}
	return gb.renderAudio(), nil
}

func (gb *GameBoy) renderAudio() []float32 {
	now := gb.bus.Ticks()
	gb.msFraction += (now - gb.audioTicks) * 1000
	gb.audioTicks = now
	ms := gb.msFraction / constant.CPU_FREQ
	gb.msFraction %= constant.CPU_FREQ
	return gb.apu.Render(int(ms))
}

// Run emulates frames until ctx is done or an error occurs. onFrame, if not
// nil, is called after every frame with that frame's audio.
func (gb *GameBoy) Run(ctx context.Context, onFrame func(gb *GameBoy, samples []float32) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		samples, err := gb.RunFrame()
		if err != nil {
			return err
		}
		if onFrame != nil {
			if err := onFrame(gb, samples); err != nil {
				return err
			}
		}
	}
}

// SetButtons replaces the pressed buttons. Bits follow constant.DIR_* and
// constant.ACT_*. A newly pressed button raises the joypad interrupt and
// wakes the CPU from STOP.
func (gb *GameBoy) SetButtons(direction, action uint8) {
	if gb.joypad.SetButtons(direction, action) {
		gb.cpu.KeyPressed()
		gb.bus.RequestInterrupt(bus.INT_JOYPAD)
	}
}
