package ppu

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/ushitora-anqou/dmgcore/bus"
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/util"
)

const LCD_WIDTH = constant.LCD_WIDTH
const LCD_HEIGHT = constant.LCD_HEIGHT

type Mode uint8

const (
	MODE_HBLANK Mode = iota
	MODE_VBLANK
	MODE_OAM_SCAN
	MODE_TRANSFER
)

// Ticks spent in each mode of a visible line, and per V-blank line.
const (
	OAM_SCAN_TICKS = 80
	TRANSFER_TICKS = 172
	HBLANK_TICKS   = 204
	VBLANK_TICKS   = constant.LINE_TICKS
)

func (m Mode) String() string {
	return []string{"H-Blank", "V-Blank", "OAM Scan", "Pixel Transfer"}[m]
}

type PPU struct {
	bus        *bus.Bus
	mode       Mode
	ly         uint8
	tick       uint
	lastTicks  uint64
	frameReady bool
	frames     uint64
	pixels     [LCD_WIDTH * LCD_HEIGHT]uint8
	bgIndex    [LCD_WIDTH]uint8 // color indices of the background of the current line
	oam        [NUM_OAM_ENTRIES]object
	visible    [NUM_OAM_ENTRIES]*object // scratch for objects on the current line
}

func NewPPU(bus *bus.Bus) *PPU {
	ppu := &PPU{
		bus:       bus,
		mode:      MODE_OAM_SCAN,
		lastTicks: bus.Ticks(),
	}
	ppu.mirrorRegisters()
	return ppu
}

func (ppu *PPU) Mode() Mode {
	return ppu.mode
}

func (ppu *PPU) LY() uint8 {
	return ppu.ly
}

// Frames counts completed frames.
func (ppu *PPU) Frames() uint64 {
	return ppu.frames
}

// FrameReady reports whether a frame completed since the last ConsumeFrame.
func (ppu *PPU) FrameReady() bool {
	return ppu.frameReady
}

// ConsumeFrame returns the frame-ready flag and clears it.
func (ppu *PPU) ConsumeFrame() bool {
	ready := ppu.frameReady
	ppu.frameReady = false
	return ready
}

// Pixels returns the framebuffer, one grey level per pixel, row major. The
// slice aliases internal state and must not be modified.
func (ppu *PPU) Pixels() []uint8 {
	return ppu.pixels[:]
}

// FrameHash returns a hex encoded SHA-1 of the framebuffer.
func (ppu *PPU) FrameHash() string {
	sum := sha1.Sum(ppu.pixels[:])
	return hex.EncodeToString(sum[:])
}

func (ppu *PPU) setMode(mode Mode) {
	util.Trace2("\t<<<PPU: LY=%d %s>>>", ppu.ly, mode)
	ppu.mode = mode
}

func (ppu *PPU) mirrorRegisters() {
	ppu.bus.SetRaw(bus.LY, ppu.ly)
	stat := ppu.bus.Raw(bus.STAT) &^ 0x03
	ppu.bus.SetRaw(bus.STAT, stat|uint8(ppu.mode))
}

func (ppu *PPU) compareLY() {
	stat := ppu.bus.Raw(bus.STAT)
	if ppu.ly == ppu.bus.Raw(bus.LYC) {
		ppu.bus.SetRaw(bus.STAT, stat|0x04)
		ppu.bus.RequestInterrupt(bus.INT_LCD)
	} else {
		ppu.bus.SetRaw(bus.STAT, stat&^0x04)
	}
}

// Step consumes the ticks elapsed on the bus since the previous call and runs
// every mode transition they pay for.
func (ppu *PPU) Step() {
	now := ppu.bus.Ticks()
	ppu.tick += uint(now - ppu.lastTicks)
	ppu.lastTicks = now

	for {
		switch ppu.mode {
		case MODE_OAM_SCAN:
			if ppu.tick < OAM_SCAN_TICKS {
				return
			}
			ppu.tick -= OAM_SCAN_TICKS
			ppu.setMode(MODE_TRANSFER)

		case MODE_TRANSFER:
			if ppu.tick < TRANSFER_TICKS {
				return
			}
			ppu.tick -= TRANSFER_TICKS
			ppu.compareLY()
			ppu.drawLine()
			ppu.setMode(MODE_HBLANK)

		case MODE_HBLANK:
			if ppu.tick < HBLANK_TICKS {
				return
			}
			ppu.tick -= HBLANK_TICKS
			ppu.ly++
			if ppu.ly == LCD_HEIGHT {
				ppu.bus.RequestInterrupt(bus.INT_VBLANK)
				ppu.frameReady = true
				ppu.frames++
				ppu.setMode(MODE_VBLANK)
			} else {
				ppu.setMode(MODE_OAM_SCAN)
			}

		case MODE_VBLANK:
			if ppu.tick < VBLANK_TICKS {
				return
			}
			ppu.tick -= VBLANK_TICKS
			ppu.ly++
			if ppu.ly >= constant.LINES {
				ppu.ly = 0
				ppu.setMode(MODE_OAM_SCAN)
			}
		}
		ppu.mirrorRegisters()
	}
}
