package bus

import (
	"github.com/ushitora-anqou/dmgcore/util"
)

// I/O register addresses.
const (
	P1   = 0xff00
	SB   = 0xff01
	SC   = 0xff02
	DIV  = 0xff04
	TIMA = 0xff05
	TMA  = 0xff06
	TAC  = 0xff07
	IF   = 0xff0f

	NR10 = 0xff10
	NR11 = 0xff11
	NR12 = 0xff12
	NR13 = 0xff13
	NR14 = 0xff14
	NR21 = 0xff16
	NR22 = 0xff17
	NR23 = 0xff18
	NR24 = 0xff19
	NR30 = 0xff1a
	NR31 = 0xff1b
	NR32 = 0xff1c
	NR33 = 0xff1d
	NR34 = 0xff1e
	NR41 = 0xff20
	NR42 = 0xff21
	NR43 = 0xff22
	NR44 = 0xff23
	NR50 = 0xff24
	NR51 = 0xff25
	NR52 = 0xff26

	WAVE_RAM = 0xff30

	LCDC = 0xff40
	STAT = 0xff41
	SCY  = 0xff42
	SCX  = 0xff43
	LY   = 0xff44
	LYC  = 0xff45
	DMA  = 0xff46
	BGP  = 0xff47
	OBP0 = 0xff48
	OBP1 = 0xff49
	WY   = 0xff4a
	WX   = 0xff4b
	BOOT = 0xff50

	IE = 0xffff
)

// ioMapped reports whether an address in 0xFF00-0xFF7F backs a register.
// The others read as open bus.
func ioMapped(addr uint16) bool {
	switch {
	case P1 <= addr && addr <= SC,
		DIV <= addr && addr <= TAC,
		IF <= addr && addr <= NR14,
		NR21 <= addr && addr <= NR34,
		NR41 <= addr && addr <= NR52,
		WAVE_RAM <= addr && addr < WAVE_RAM+0x10,
		LCDC <= addr && addr <= WX,
		addr == BOOT:
		return true
	}
	return false
}

// setIO applies the side effects of a register write. old is the byte held
// before the write.
func (b *Bus) setIO(addr uint16, old, val uint8) {
	switch addr {
	case P1:
		util.Trace1("\t<<<WRITE: P1/JOYP Joypad: %08b>>>", val)
		b.mem[P1] = val & 0x30
		if b.Joypad != nil {
			b.Joypad.Set(val)
		}
	case SB:
		util.Trace1("\t<<<WRITE: SB Serial transfer data: 0x%02x>>>", val)
	case SC:
		util.Trace1("\t<<<WRITE: SC Serial Transfer Control: %08b>>>", val)
	case DIV:
		util.Trace1("\t<<<WRITE: DIV Divider Register: %02x>>>", val)
		b.mem[DIV] = 0
		if b.Timer != nil {
			b.Timer.ResetDIV()
		}
	case TIMA:
		util.Trace1("\t<<<WRITE: TIMA Timer counter: %02x>>>", val)
	case TMA:
		util.Trace1("\t<<<WRITE: TMA Timer Modulo: %02x>>>", val)
	case TAC:
		util.Trace1("\t<<<WRITE: TAC Timer Control: %08b>>>", val)
		b.updateTimerControl(val)
	case IF:
		util.Trace1("\t<<<WRITE: IF Interrupt Flag: %08b>>>", val)
		b.mem[IF] = val & 0x1f

	case NR10:
		util.Trace1("\t<<<WRITE: NR10 Channel 1 Sweep register: %08b>>>", val)
	case NR11:
		util.Trace1("\t<<<WRITE: NR11 Channel 1 Sound length/Wave pattern duty: %08b>>>", val)
	case NR12:
		util.Trace1("\t<<<WRITE: NR12 Channel 1 Volume Envelope: %08b>>>", val)
	case NR13:
		util.Trace1("\t<<<WRITE: NR13 Channel 1 Frequency lo: 0x%02x>>>", val)
	case NR14:
		util.Trace1("\t<<<WRITE: NR14 Channel 1 Frequency hi: %08b>>>", val)
		b.triggerIfSet(0, val)
	case NR21:
		util.Trace1("\t<<<WRITE: NR21 Channel 2 Sound Length/Wave Pattern Duty: %08b>>>", val)
	case NR22:
		util.Trace1("\t<<<WRITE: NR22 Channel 2 Volume Envelope: %08b>>>", val)
	case NR23:
		util.Trace1("\t<<<WRITE: NR23 Channel 2 Frequency lo data: 0x%02x>>>", val)
	case NR24:
		util.Trace1("\t<<<WRITE: NR24 Channel 2 Frequency hi data: %08b>>>", val)
		b.triggerIfSet(1, val)
	case NR30:
		util.Trace1("\t<<<WRITE: NR30 Channel 3 Sound on/off: %08b>>>", val)
	case NR31:
		util.Trace1("\t<<<WRITE: NR31 Channel 3 Sound Length: 0x%02x>>>", val)
	case NR32:
		util.Trace1("\t<<<WRITE: NR32 Channel 3 Select output level: %08b>>>", val)
	case NR33:
		util.Trace1("\t<<<WRITE: NR33 Channel 3 Frequency's lower data: 0x%02x>>>", val)
	case NR34:
		util.Trace1("\t<<<WRITE: NR34 Channel 3 Frequency's higher data: %08b>>>", val)
		b.triggerIfSet(2, val)
	case NR41:
		util.Trace1("\t<<<WRITE: NR41 Channel 4 Sound Length: 0x%02x>>>", val)
	case NR42:
		util.Trace1("\t<<<WRITE: NR42 Channel 4 Volume Envelope: %08b>>>", val)
	case NR43:
		util.Trace1("\t<<<WRITE: NR43 Channel 4 Polynomial Counter: %08b>>>", val)
	case NR44:
		util.Trace1("\t<<<WRITE: NR44 Channel 4 Counter/consecutive; Inital: %08b>>>", val)
		b.triggerIfSet(3, val)
	case NR50:
		util.Trace1("\t<<<WRITE: NR50 Channel control / ON-OFF / Volume: %08b>>>", val)
	case NR51:
		util.Trace1("\t<<<WRITE: NR51 Selection of Sound output terminal: %08b>>>", val)
	case NR52:
		util.Trace1("\t<<<WRITE: NR52 Sound on/off: %08b>>>", val)
		on := val&0x80 != 0
		if on {
			b.mem[NR52] = 0x80
		} else {
			b.mem[NR52] = 0x00
		}
		if b.APU != nil {
			b.APU.SetPower(on)
		}

	case LCDC:
		util.Trace1("\t<<<WRITE: LCDC LCD Control: %08b>>>", val)
	case STAT:
		util.Trace1("\t<<<WRITE: STAT LCDC Status: %08b>>>", val)
		// Mode and coincidence bits belong to the PPU.
		b.mem[STAT] = val&0x78 | old&0x07
	case SCY:
		util.Trace1("\t<<<WRITE: SCY Scroll Y: 0x%02x>>>", val)
	case SCX:
		util.Trace1("\t<<<WRITE: SCX Scroll X: 0x%02x>>>", val)
	case LY:
		util.Trace1("\t<<<WRITE: LY LCDC Y-Coordinate: 0x%02x>>>", val)
		// Read-only; the PPU owns it.
		b.mem[LY] = old
	case LYC:
		util.Trace1("\t<<<WRITE: LYC LY Compare: 0x%02x>>>", val)
	case DMA:
		util.Trace1("\t<<<WRITE: OAM DMA Transfer: 0x%02x>>>", val)
		b.dmaTransfer(val)
	case BGP:
		util.Trace1("\t<<<WRITE: BGP BG Palette Data: %08b>>>", val)
		b.updatePalette(BGP)
	case OBP0:
		util.Trace1("\t<<<WRITE: OBP0 Object Palette 0 Data: %08b>>>", val)
		b.updatePalette(OBP0)
	case OBP1:
		util.Trace1("\t<<<WRITE: OBP1 Object Palette 1 Data: %08b>>>", val)
		b.updatePalette(OBP1)
	case WY:
		util.Trace1("\t<<<WRITE: WY Window Y Position: 0x%02x>>>", val)
	case WX:
		util.Trace1("\t<<<WRITE: WX Window X Position: 0x%02x>>>", val)
	case BOOT:
		util.Trace1("\t<<<WRITE: BOOT Boot ROM disable: 0x%02x>>>", val)
	case IE:
		util.Trace1("\t<<<WRITE: IE Interrupt Enable: %08b>>>", val)

	default:
		if WAVE_RAM <= addr && addr < WAVE_RAM+0x10 {
			util.Trace2("\t<<<WRITE: Wave Pattern RAM 0x%04x: 0x%02x>>>", addr, val)
		}
	}
}

func (b *Bus) triggerIfSet(channel int, val uint8) {
	if val&0x80 == 0 || b.mem[NR52]&0x80 == 0 {
		return
	}
	if b.APU != nil {
		b.APU.Trigger(channel)
	}
}
