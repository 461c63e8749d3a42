package bus

import "fmt"

type Interrupt uint8

// Interrupt sources, highest priority first.
const (
	INT_VBLANK Interrupt = iota
	INT_LCD
	INT_TIMER
	INT_SERIAL
	INT_JOYPAD
	NUM_INTERRUPTS
)

func (i Interrupt) Mask() uint8 {
	return 1 << i
}

// Vector is the service routine address the CPU jumps to.
func (i Interrupt) Vector() uint16 {
	return 0x0040 + 8*uint16(i)
}

func (i Interrupt) String() string {
	switch i {
	case INT_VBLANK:
		return "VBlank"
	case INT_LCD:
		return "LCD STAT"
	case INT_TIMER:
		return "Timer"
	case INT_SERIAL:
		return "Serial"
	case INT_JOYPAD:
		return "Joypad"
	}
	return fmt.Sprintf("Interrupt(%d)", uint8(i))
}

// RequestInterrupt sets the pending flag of i if its source is enabled in IE.
func (b *Bus) RequestInterrupt(i Interrupt) {
	if b.mem[IE]&i.Mask() != 0 {
		b.mem[IF] |= i.Mask()
	}
}

func (b *Bus) IE() uint8 {
	return b.mem[IE]
}

func (b *Bus) IF() uint8 {
	return b.mem[IF] & 0x1f
}

func (b *Bus) SetIF(val uint8) {
	b.mem[IF] = val & 0x1f
}

// Pending returns the enabled and requested interrupt sources.
func (b *Bus) Pending() uint8 {
	return b.IE() & b.IF()
}
