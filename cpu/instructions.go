package cpu

import (
	"fmt"
)

type instruction struct {
	mnemonic string
	cycles   uint
	exec     func(cpu *CPU)
}

var instructions, cbInstructions [0x100]*instruction

// baseCycles holds the cost in ticks of every plain opcode. Conditional
// JR/JP/CALL/RET list their not-taken cost; 0 marks an opcode that does not
// exist.
var baseCycles = [0x100]uint{
	//     x0  x1  x2  x3  x4  x5  x6  x7  x8  x9  xA  xB  xC  xD  xE  xF
	/*0x*/ 4, 12, 8, 8, 4, 4, 8, 4, 20, 8, 8, 8, 4, 4, 8, 4,
	/*1x*/ 4, 12, 8, 8, 4, 4, 8, 4, 12, 8, 8, 8, 4, 4, 8, 4,
	/*2x*/ 8, 12, 8, 8, 4, 4, 8, 4, 8, 8, 8, 8, 4, 4, 8, 4,
	/*3x*/ 8, 12, 8, 8, 12, 12, 12, 4, 8, 8, 8, 8, 4, 4, 8, 4,
	/*4x*/ 4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
	/*5x*/ 4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
	/*6x*/ 4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
	/*7x*/ 8, 8, 8, 8, 8, 8, 4, 8, 4, 4, 4, 4, 4, 4, 8, 4,
	/*8x*/ 4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
	/*9x*/ 4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
	/*Ax*/ 4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
	/*Bx*/ 4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
	/*Cx*/ 8, 12, 12, 16, 12, 16, 8, 16, 8, 16, 12, 4, 12, 24, 8, 16,
	/*Dx*/ 8, 12, 12, 0, 12, 16, 8, 16, 8, 16, 12, 0, 12, 0, 8, 16,
	/*Ex*/ 12, 12, 8, 0, 0, 16, 8, 16, 16, 4, 16, 0, 0, 0, 8, 16,
	/*Fx*/ 12, 12, 8, 4, 0, 16, 8, 16, 12, 8, 16, 4, 0, 0, 8, 16,
}

// Extra ticks charged when a conditional branch is taken.
const (
	takenJR   = 4
	takenJP   = 4
	takenCALL = 12
	takenRET  = 12
)

func init() {
	initInstructions()
	initCBInstructions()
}

func def(opcode uint8, mnemonic string, exec func(cpu *CPU)) {
	if instructions[opcode] != nil {
		panic(fmt.Sprintf("opcode 0x%02x defined twice", opcode))
	}
	instructions[opcode] = &instruction{
		mnemonic: mnemonic,
		cycles:   baseCycles[opcode],
		exec:     exec,
	}
}

func initInstructions() {
	def(0x00, "NOP", func(cpu *CPU) {})
	def(0x10, "STOP", func(cpu *CPU) {
		cpu.fetch8()
		cpu.stopped = true
	})
	def(0x76, "HALT", func(cpu *CPU) { cpu.halted = true })
	def(0xf3, "DI", func(cpu *CPU) { cpu.ime = false })
	def(0xfb, "EI", func(cpu *CPU) { cpu.ime = true })
	def(0xcb, "PREFIX CB", (*CPU).execPrefixed)

	def(0x07, "RLCA", func(cpu *CPU) {
		cpu.SetA(cpu.rlc(cpu.A()))
		cpu.SetFlagZ(false)
	})
	def(0x0f, "RRCA", func(cpu *CPU) {
		cpu.SetA(cpu.rrc(cpu.A()))
		cpu.SetFlagZ(false)
	})
	def(0x17, "RLA", func(cpu *CPU) {
		cpu.SetA(cpu.rl(cpu.A()))
		cpu.SetFlagZ(false)
	})
	def(0x1f, "RRA", func(cpu *CPU) {
		cpu.SetA(cpu.rr(cpu.A()))
		cpu.SetFlagZ(false)
	})
	def(0x27, "DAA", (*CPU).daa)
	def(0x2f, "CPL", func(cpu *CPU) {
		cpu.SetA(compl(cpu.A()))
		cpu.SetFlagN(true)
		cpu.SetFlagH(true)
	})
	def(0x37, "SCF", func(cpu *CPU) {
		cpu.SetFlagN(false)
		cpu.SetFlagH(false)
		cpu.SetFlagC(true)
	})
	def(0x3f, "CCF", func(cpu *CPU) {
		cpu.SetFlagN(false)
		cpu.SetFlagH(false)
		cpu.SetFlagC(!cpu.FlagC())
	})

	def(0x08, "LD (a16), SP", func(cpu *CPU) { cpu.bus.Set16(cpu.fetch16(), cpu.SP()) })
	def(0xe0, "LDH (a8), A", func(cpu *CPU) { cpu.bus.Set8(0xff00+uint16(cpu.fetch8()), cpu.A()) })
	def(0xf0, "LDH A, (a8)", func(cpu *CPU) { cpu.SetA(cpu.bus.Get8(0xff00 + uint16(cpu.fetch8()))) })
	def(0xe2, "LD (C), A", func(cpu *CPU) { cpu.bus.Set8(0xff00+uint16(cpu.C()), cpu.A()) })
	def(0xf2, "LD A, (C)", func(cpu *CPU) { cpu.SetA(cpu.bus.Get8(0xff00 + uint16(cpu.C()))) })
	def(0xea, "LD (a16), A", func(cpu *CPU) { cpu.bus.Set8(cpu.fetch16(), cpu.A()) })
	def(0xfa, "LD A, (a16)", func(cpu *CPU) { cpu.SetA(cpu.bus.Get8(cpu.fetch16())) })
	def(0xe8, "ADD SP, r8", func(cpu *CPU) { cpu.SetSP(cpu.addSPr8()) })
	def(0xf8, "LD HL, SP+r8", func(cpu *CPU) { cpu.SetHL(cpu.addSPr8()) })
	def(0xf9, "LD SP, HL", func(cpu *CPU) { cpu.SetSP(cpu.HL()) })

	def(0x18, "JR r8", func(cpu *CPU) { cpu.jr(true) })
	def(0xc3, "JP a16", func(cpu *CPU) { cpu.jp(true) })
	def(0xe9, "JP (HL)", func(cpu *CPU) { cpu.SetPC(cpu.HL()) })
	def(0xcd, "CALL a16", func(cpu *CPU) { cpu.call(true) })
	def(0xc9, "RET", func(cpu *CPU) { cpu.ret(true) })
	def(0xd9, "RETI", func(cpu *CPU) {
		cpu.ret(true)
		cpu.ime = true
	})

	for cc := uint8(0); cc < 4; cc++ {
		cc := cc
		def(0x20|cc<<3, "JR "+cond2str(cc)+", r8", func(cpu *CPU) {
			if cpu.jr(cpu.cond(cc)) {
				cpu.tick(takenJR)
			}
		})
		def(0xc2|cc<<3, "JP "+cond2str(cc)+", a16", func(cpu *CPU) {
			if cpu.jp(cpu.cond(cc)) {
				cpu.tick(takenJP)
			}
		})
		def(0xc4|cc<<3, "CALL "+cond2str(cc)+", a16", func(cpu *CPU) {
			if cpu.call(cpu.cond(cc)) {
				cpu.tick(takenCALL)
			}
		})
		def(0xc0|cc<<3, "RET "+cond2str(cc), func(cpu *CPU) {
			if cpu.ret(cpu.cond(cc)) {
				cpu.tick(takenRET)
			}
		})
	}

	for i := uint8(0); i < 4; i++ {
		i := i
		def(0x01|i<<4, "LD "+regBC_DE_HL_SP_ToStr(i)+", d16", func(cpu *CPU) {
			cpu.setReg16(i, cpu.fetch16(), true)
		})
		def(0x02|i<<4, "LD ("+regBC_DE_HLPLUS_HLMINUS_ToStr(i)+"), A", func(cpu *CPU) {
			cpu.bus.Set8(cpu.indirectAddr(i), cpu.A())
		})
		def(0x0a|i<<4, "LD A, ("+regBC_DE_HLPLUS_HLMINUS_ToStr(i)+")", func(cpu *CPU) {
			cpu.SetA(cpu.bus.Get8(cpu.indirectAddr(i)))
		})
		def(0x03|i<<4, "INC "+regBC_DE_HL_SP_ToStr(i), func(cpu *CPU) {
			cpu.setReg16(i, cpu.getReg16(i, true)+1, true)
		})
		def(0x0b|i<<4, "DEC "+regBC_DE_HL_SP_ToStr(i), func(cpu *CPU) {
			cpu.setReg16(i, cpu.getReg16(i, true)-1, true)
		})
		def(0x09|i<<4, "ADD HL, "+regBC_DE_HL_SP_ToStr(i), func(cpu *CPU) {
			cpu.addHL(cpu.getReg16(i, true))
		})
		def(0xc1|i<<4, "POP "+regBC_DE_HL_AF_ToStr(i), func(cpu *CPU) {
			cpu.setReg16(i, cpu.pop16(), false)
		})
		def(0xc5|i<<4, "PUSH "+regBC_DE_HL_AF_ToStr(i), func(cpu *CPU) {
			cpu.push16(cpu.getReg16(i, false))
		})
	}

	for r := uint8(0); r < 8; r++ {
		r := r
		def(0x04|r<<3, "INC "+reg2str(r), func(cpu *CPU) { cpu.setReg(r, cpu.inc8(cpu.getReg(r))) })
		def(0x05|r<<3, "DEC "+reg2str(r), func(cpu *CPU) { cpu.setReg(r, cpu.dec8(cpu.getReg(r))) })
		def(0x06|r<<3, "LD "+reg2str(r)+", d8", func(cpu *CPU) { cpu.setReg(r, cpu.fetch8()) })
		def(0xc7|r<<3, fmt.Sprintf("RST %02XH", r*8), func(cpu *CPU) {
			cpu.push16(cpu.PC())
			cpu.SetPC(uint16(r) * 8)
		})
		def(0xc6|r<<3, alu2str(r)+"d8", func(cpu *CPU) { cpu.alu(r, cpu.fetch8()) })
	}

	for opcode := 0x40; opcode <= 0xbf; opcode++ {
		if opcode == 0x76 { // HALT
			continue
		}
		op := uint8(opcode)
		src := op & 0x07
		if op < 0x80 { // LD reg1, reg2
			dst := (op >> 3) & 0x07
			def(op, "LD "+reg2str(dst)+", "+reg2str(src), func(cpu *CPU) {
				cpu.setReg(dst, cpu.getReg(src))
			})
		} else {
			kind := (op >> 3) & 0x07
			def(op, alu2str(kind)+reg2str(src), func(cpu *CPU) {
				cpu.alu(kind, cpu.getReg(src))
			})
		}
	}
}

var cbShifts = [8]struct {
	name string
	fn   func(cpu *CPU, v uint8) uint8
}{
	{"RLC", (*CPU).rlc},
	{"RRC", (*CPU).rrc},
	{"RL", (*CPU).rl},
	{"RR", (*CPU).rr},
	{"SLA", (*CPU).sla},
	{"SRA", (*CPU).sra},
	{"SWAP", (*CPU).swap},
	{"SRL", (*CPU).srl},
}

func initCBInstructions() {
	for opcode := 0; opcode < 0x100; opcode++ {
		op := uint8(opcode)
		reg := op & 0x07
		y := (op >> 3) & 0x07

		var cycles uint = 8
		if reg == 6 { // (HL)
			cycles = 16
		}
		// The prefix byte itself is charged by the plain table.
		cycles -= baseCycles[0xcb]

		inst := &instruction{cycles: cycles}
		switch op >> 6 {
		case 0:
			shift := cbShifts[y].fn
			inst.mnemonic = cbShifts[y].name + " " + reg2str(reg)
			inst.exec = func(cpu *CPU) { cpu.setReg(reg, shift(cpu, cpu.getReg(reg))) }
		case 1:
			if reg == 6 {
				inst.cycles -= 4
			}
			inst.mnemonic = fmt.Sprintf("BIT %d, %s", y, reg2str(reg))
			inst.exec = func(cpu *CPU) { cpu.bit(y, cpu.getReg(reg)) }
		case 2:
			inst.mnemonic = fmt.Sprintf("RES %d, %s", y, reg2str(reg))
			inst.exec = func(cpu *CPU) { cpu.setReg(reg, cpu.getReg(reg)&^(1<<y)) }
		case 3:
			inst.mnemonic = fmt.Sprintf("SET %d, %s", y, reg2str(reg))
			inst.exec = func(cpu *CPU) { cpu.setReg(reg, cpu.getReg(reg)|(1<<y)) }
		}
		cbInstructions[op] = inst
	}
}

// Disassemble returns the mnemonic of the instruction at addr.
func (cpu *CPU) Disassemble(addr uint16) string {
	opcode := cpu.bus.Get8(addr)
	if opcode == 0xcb {
		return cbInstructions[cpu.bus.Get8(addr+1)].mnemonic
	}
	if inst := instructions[opcode]; inst != nil {
		return inst.mnemonic
	}
	return fmt.Sprintf("DB 0x%02x", opcode)
}
