package bus

import (
	"github.com/ushitora-anqou/dmgcore/cartridge"
)

/*
	GENERAL MEMORY MAP
	Thanks to: https://gbdev.gg8.se/wiki/articles/Memory_Map

	0000-3FFF  16KB ROM bank 00 	From cartridge
	4000-7FFF  16KB ROM Bank 01-NN 	From cartridge
	8000-9FFF  8KB Video RAM (VRAM)
	A000-BFFF  8KB External RAM     In cartridge
	C000-CFFF  4KB Work RAM (WRAM)
	D000-DFFF  4KB Work RAM (WRAM)
	E000-FDFF  Mirror of C000-DDFF (ECHO RAM)
	FE00-FE9F  Sprite attribute table (OAM)
	FEA0-FEFF  Not Usable
	FF00-FF7F  I/O Registers
	FF80-FFFE  High RAM (HRAM)
	FFFF-FFFF  Interrupts Enable Register (IE)
*/

// APU receives channel notifications forwarded from sound register writes.
type APU interface {
	Trigger(channel int)
	SetPower(on bool)
}

type Timer interface {
	ResetDIV()
}

type Joypad interface {
	Get() uint8
	Set(val uint8)
}

// Bus is the address space shared by every component of one machine. It also
// hosts the global tick counter.
type Bus struct {
	APU
	Timer
	Joypad

	mem   [0x10000]uint8
	boot  []uint8
	cat   *cartridge.Cartridge
	ctrl  cartridge.Controller
	ticks uint64

	tiles      [NUM_TILES][8][8]uint8
	bgPalette  [4]uint8
	objPalette [2][4]uint8

	timerEnabled bool
	timerPeriod  uint
}

// NewBus maps cat into a fresh address space. boot may be nil, in which case
// the bus starts in the state the boot ROM leaves behind.
func NewBus(cat *cartridge.Cartridge, boot []uint8) *Bus {
	b := &Bus{
		cat:  cat,
		boot: boot,
	}
	b.Reset()
	return b
}

func (b *Bus) Register(apu APU, timer Timer, joypad Joypad) {
	b.APU = apu
	b.Timer = timer
	b.Joypad = joypad
}

// Reset performs a cold boot of the address space.
func (b *Bus) Reset() {
	b.mem = [0x10000]uint8{}
	b.tiles = [NUM_TILES][8][8]uint8{}
	b.ticks = 0
	b.ctrl = b.cat.NewController()

	if b.boot == nil {
		for addr, val := range postBootIO {
			b.mem[addr] = val
		}
		b.mem[BOOT] = 1
	}
	b.updatePalette(BGP)
	b.updatePalette(OBP0)
	b.updatePalette(OBP1)
	b.updateTimerControl(b.mem[TAC])
}

var postBootIO = map[uint16]uint8{
	P1: 0xcf, TAC: 0xf8, IF: 0xe1,
	NR10: 0x80, NR11: 0xbf, NR12: 0xf3, NR14: 0xbf,
	NR21: 0x3f, NR24: 0xbf,
	NR30: 0x7f, NR31: 0xff, NR32: 0x9f, NR34: 0xbf,
	NR41: 0xff, NR44: 0xbf,
	NR50: 0x77, NR51: 0xf3, NR52: 0xf0,
	LCDC: 0x91, BGP: 0xfc, OBP0: 0xff, OBP1: 0xff,
}

func (b *Bus) Cartridge() *cartridge.Cartridge {
	return b.cat
}

func (b *Bus) Controller() cartridge.Controller {
	return b.ctrl
}

func (b *Bus) Ticks() uint64 {
	return b.ticks
}

func (b *Bus) AddTicks(n uint) {
	b.ticks += uint64(n)
}

func (b *Bus) BootROMMapped() bool {
	return b.boot != nil && b.mem[BOOT] == 0
}

func (b *Bus) Get8(addr uint16) uint8 {
	if addr < 0x0100 && b.BootROMMapped() {
		if int(addr) < len(b.boot) {
			return b.boot[addr]
		}
		return 0xff
	}

	switch {
	case addr <= 0x7fff:
		return b.ctrl.ReadROM(addr)
	case 0xa000 <= addr && addr <= 0xbfff:
		return b.ctrl.ReadRAM(addr)
	case 0xfea0 <= addr && addr <= 0xfeff:
		if mode := b.mem[STAT] & 0x03; mode == 2 || mode == 3 { // If OAM is blocked
			return 0xff
		}
		return 0x00
	}

	switch addr {
	case P1:
		if b.Joypad != nil {
			return b.Joypad.Get()
		}
		return 0xc0 | b.mem[P1]&0x30 | 0x0f
	case IF:
		return 0xe0 | b.mem[IF]
	case STAT:
		return 0x80 | b.mem[STAT]
	case NR52:
		return 0x70 | b.mem[NR52]
	}
	if 0xff00 <= addr && addr <= 0xff7f && !ioMapped(addr) {
		return 0xff
	}
	return b.mem[addr]
}

func (b *Bus) Set8(addr uint16, val uint8) {
	switch {
	case addr <= 0x7fff:
		b.ctrl.WriteROM(addr, val)
		return
	case 0xa000 <= addr && addr <= 0xbfff:
		b.ctrl.WriteRAM(addr, val)
		return
	case 0xfea0 <= addr && addr <= 0xfeff:
		return
	}

	old := b.mem[addr]
	b.mem[addr] = val

	switch {
	case 0x8000 <= addr && addr <= 0x97ff:
		b.updateTile(addr)
	case 0xc000 <= addr && addr <= 0xddff:
		b.mem[addr+0x2000] = val
	case 0xe000 <= addr && addr <= 0xfdff:
		b.mem[addr-0x2000] = val
	case 0xff00 <= addr && addr <= 0xff7f, addr == IE:
		b.setIO(addr, old, val)
	}
}

func (b *Bus) Get16(addr uint16) uint16 {
	lo := (uint16)(b.Get8(addr))
	hi := (uint16)(b.Get8(addr + 1))
	return lo + (hi << 8)
}

func (b *Bus) Set16(addr uint16, val uint16) {
	b.Set8(addr, uint8(val))
	b.Set8(addr+1, uint8(val>>8))
}

// Raw returns the backing byte without any read semantics. Components use it
// to read the registers they own.
func (b *Bus) Raw(addr uint16) uint8 {
	return b.mem[addr]
}

// SetRaw stores val without triggering write side effects.
func (b *Bus) SetRaw(addr uint16, val uint8) {
	b.mem[addr] = val
}

func (b *Bus) TimerEnabled() bool {
	return b.timerEnabled
}

// TimerPeriod returns the number of ticks per TIMA increment.
func (b *Bus) TimerPeriod() uint {
	return b.timerPeriod
}

var timerPeriods = [4]uint{1024, 16, 64, 256}

func (b *Bus) updateTimerControl(val uint8) {
	b.timerEnabled = val&0x04 != 0
	b.timerPeriod = timerPeriods[val&0x03]
}

func (b *Bus) dmaTransfer(val uint8) {
	src := uint16(val) << 8
	for i := uint16(0); i < 0xa0; i++ {
		b.mem[0xfe00+i] = b.Get8(src + i)
	}
}
