package cpu

// alu applies one of ADD, ADC, SUB, SBC, AND, XOR, OR, CP to A.
func (cpu *CPU) alu(kind uint8, val uint8) {
	a := cpu.A()
	switch kind {
	case 0: // ADD
		res, c := add8(a, val, false)
		_, h := add4(a, val, false)
		cpu.SetA(res)
		cpu.SetFlagZNHC(res == 0, false, h, c)
	case 1: // ADC
		carry := cpu.FlagC()
		res, c := add8(a, val, carry)
		_, h := add4(a, val, carry)
		cpu.SetA(res)
		cpu.SetFlagZNHC(res == 0, false, h, c)
	case 2: // SUB
		res, c := sub8(a, val, false)
		_, h := sub4(a, val, false)
		cpu.SetA(res)
		cpu.SetFlagZNHC(res == 0, true, h, c)
	case 3: // SBC
		borrow := cpu.FlagC()
		res, c := sub8(a, val, borrow)
		_, h := sub4(a, val, borrow)
		cpu.SetA(res)
		cpu.SetFlagZNHC(res == 0, true, h, c)
	case 4: // AND
		res := a & val
		cpu.SetA(res)
		cpu.SetFlagZNHC(res == 0, false, true, false)
	case 5: // XOR
		res := a ^ val
		cpu.SetA(res)
		cpu.SetFlagZNHC(res == 0, false, false, false)
	case 6: // OR
		res := a | val
		cpu.SetA(res)
		cpu.SetFlagZNHC(res == 0, false, false, false)
	case 7: // CP
		res, c := sub8(a, val, false)
		_, h := sub4(a, val, false)
		cpu.SetFlagZNHC(res == 0, true, h, c)
	}
}

func alu2str(kind uint8) string {
	return []string{"ADD A, ", "ADC A, ", "SUB ", "SBC A, ", "AND ", "XOR ", "OR ", "CP "}[kind]
}

func (cpu *CPU) inc8(v uint8) uint8 {
	res := v + 1
	_, h := add4(v, 1, false)
	cpu.SetFlagZ(res == 0)
	cpu.SetFlagN(false)
	cpu.SetFlagH(h)
	return res
}

func (cpu *CPU) dec8(v uint8) uint8 {
	res := v - 1
	_, h := sub4(v, 1, false)
	cpu.SetFlagZ(res == 0)
	cpu.SetFlagN(true)
	cpu.SetFlagH(h)
	return res
}

func (cpu *CPU) addHL(v uint16) {
	hl := cpu.HL()
	res := uint32(hl) + uint32(v)
	cpu.SetFlagN(false)
	cpu.SetFlagH((hl&0x0fff)+(v&0x0fff) > 0x0fff)
	cpu.SetFlagC(res > 0xffff)
	cpu.SetHL(uint16(res))
}

// addSPr8 returns SP plus a signed immediate. H and C come from the low byte.
func (cpu *CPU) addSPr8() uint16 {
	off := cpu.fetch8()
	sp := cpu.SP()
	_, h := add4(uint8(sp), off, false)
	_, c := add8(uint8(sp), off, false)
	cpu.SetFlagZNHC(false, false, h, c)
	return sp + uint16(int16(int8(off)))
}

func (cpu *CPU) daa() {
	var correction uint8
	carry := cpu.FlagC()
	if cpu.FlagH() || (!cpu.FlagN() && cpu.A()&0x0f > 0x09) {
		correction |= 0x06
	}
	if carry || (!cpu.FlagN() && cpu.A() > 0x99) {
		correction |= 0x60
		carry = true
	}
	if cpu.FlagN() {
		cpu.SetA(cpu.A() - correction)
	} else {
		cpu.SetA(cpu.A() + correction)
	}
	cpu.SetFlagZ(cpu.A() == 0)
	cpu.SetFlagH(false)
	cpu.SetFlagC(carry)
}

func (cpu *CPU) shiftFlags(res uint8, carry bool) uint8 {
	cpu.SetFlagZNHC(res == 0, false, false, carry)
	return res
}

func (cpu *CPU) rlc(v uint8) uint8 {
	return cpu.shiftFlags(v<<1|v>>7, v&0x80 != 0)
}

func (cpu *CPU) rrc(v uint8) uint8 {
	return cpu.shiftFlags(v>>1|v<<7, v&0x01 != 0)
}

func (cpu *CPU) rl(v uint8) uint8 {
	return cpu.shiftFlags(v<<1|b2u8(cpu.FlagC()), v&0x80 != 0)
}

func (cpu *CPU) rr(v uint8) uint8 {
	return cpu.shiftFlags(v>>1|b2u8(cpu.FlagC())<<7, v&0x01 != 0)
}

func (cpu *CPU) sla(v uint8) uint8 {
	return cpu.shiftFlags(v<<1, v&0x80 != 0)
}

func (cpu *CPU) sra(v uint8) uint8 {
	return cpu.shiftFlags(v>>1|v&0x80, v&0x01 != 0)
}

func (cpu *CPU) swap(v uint8) uint8 {
	return cpu.shiftFlags(v<<4|v>>4, false)
}

func (cpu *CPU) srl(v uint8) uint8 {
	return cpu.shiftFlags(v>>1, v&0x01 != 0)
}

func (cpu *CPU) bit(n uint8, v uint8) {
	cpu.SetFlagZ(v&(1<<n) == 0)
	cpu.SetFlagN(false)
	cpu.SetFlagH(true)
}

// Jumps return whether the branch was taken so the caller can charge the
// extra cycles of a conditional instruction.

func (cpu *CPU) jr(cond bool) bool {
	off := int8(cpu.fetch8())
	if cond {
		cpu.pc = uint16(int(cpu.pc) + int(off))
	}
	return cond
}

func (cpu *CPU) jp(cond bool) bool {
	addr := cpu.fetch16()
	if cond {
		cpu.pc = addr
	}
	return cond
}

func (cpu *CPU) call(cond bool) bool {
	addr := cpu.fetch16()
	if cond {
		cpu.push16(cpu.pc)
		cpu.pc = addr
	}
	return cond
}

func (cpu *CPU) ret(cond bool) bool {
	if cond {
		cpu.pc = cpu.pop16()
	}
	return cond
}
