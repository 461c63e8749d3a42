package cpu

import "fmt"

// IllegalOpcodeError stops the machine. Nothing after the opcode has run.
type IllegalOpcodeError struct {
	Opcode uint8
	PC     uint16
	Steps  uint64
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode 0x%02x at 0x%04x after %d successful steps", e.Opcode, e.PC, e.Steps)
}
