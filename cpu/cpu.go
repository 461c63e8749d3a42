package cpu

import (
	"log"

	"github.com/ushitora-anqou/dmgcore/bus"
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/util"
)

func reg2str(index uint8) string {
	return []string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}[index]
}

func regBC_DE_HL_SP_ToStr(index uint8) string {
	return []string{"BC", "DE", "HL", "SP"}[index]
}

func regBC_DE_HLPLUS_HLMINUS_ToStr(index uint8) string {
	return []string{"BC", "DE", "HL+", "HL-"}[index]
}

func regBC_DE_HL_AF_ToStr(index uint8) string {
	return []string{"BC", "DE", "HL", "AF"}[index]
}

func cond2str(index uint8) string {
	return []string{"NZ", "Z", "NC", "C"}[index]
}

func compl(v uint8) uint8 {
	return 0xff ^ v
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func add8(x, y uint8, carry bool) (uint8, bool) {
	// Thanks to: https://cs.opensource.google/go/go/+/refs/tags/go1.17.6:src/math/bits/bits.go;l=354
	sum := x + y + b2u8(carry)
	carryOut := (((x & y) | ((x | y) &^ sum)) >> 7) != 0
	return sum, carryOut
}

func add4(xu8, yu8 uint8, carry bool) (uint8, bool) {
	// Thanks to: https://cs.opensource.google/go/go/+/refs/tags/go1.17.6:src/math/bits/bits.go;l=354
	x, y := xu8&0x0f, yu8&0x0f
	sum := (x + y + b2u8(carry)) & 0x0f
	carryOut := (((x & y) | ((x | y) &^ sum)) >> 3) != 0
	return sum, carryOut
}

func sub8(x, y uint8, borrow bool) (uint8, bool) {
	// Thanks to: https://cs.opensource.google/go/go/+/refs/tags/go1.17.6:src/math/bits/bits.go;l=380
	diff := x - y - b2u8(borrow)
	borrowOut := (((^x & y) | (^(x ^ y) & diff)) >> 7) != 0
	return diff, borrowOut
}

func sub4(xu8, yu8 uint8, borrow bool) (uint8, bool) {
	// Thanks to: https://cs.opensource.google/go/go/+/refs/tags/go1.17.6:src/math/bits/bits.go;l=380
	x, y := xu8&0x0f, yu8&0x0f
	diff := (x - y - b2u8(borrow)) & 0x0f
	borrowOut := (((^x & y) | (^(x ^ y) & diff)) >> 3) != 0
	return diff, borrowOut
}

// Timer is advanced by the number of ticks each step consumed.
type Timer interface {
	Update(tick uint)
}

type CPU struct {
	bus                    *bus.Bus
	timer                  Timer
	pc, sp                 uint16
	a, f, b, c, d, e, h, l uint8
	ime                    bool // Interrupt Master Enable flag (IME)
	halted, stopped        bool
	steps                  uint64
	stepTicks              uint
	trace                  bool
}

func NewCPU(bus *bus.Bus, timer Timer) *CPU {
	cpu := &CPU{
		bus:   bus,
		timer: timer,
	}
	cpu.Reset()
	return cpu
}

// Reset loads the power-on register file. Without a boot ROM the CPU starts
// where the boot ROM would have handed over to the cartridge.
func (cpu *CPU) Reset() {
	*cpu = CPU{bus: cpu.bus, timer: cpu.timer, trace: cpu.trace}
	if cpu.bus.BootROMMapped() {
		return
	}
	cpu.SetAF(0x01b0)
	cpu.SetBC(0x0013)
	cpu.SetDE(0x00d8)
	cpu.SetHL(0x014d)
	cpu.sp = 0xfffe
	cpu.pc = 0x0100
}

func (cpu *CPU) SetTrace(flag bool) {
	cpu.trace = flag
}

func (cpu *CPU) PC() uint16 {
	return cpu.pc
}
func (cpu *CPU) SP() uint16 {
	return cpu.sp
}
func (cpu *CPU) A() uint8 {
	return cpu.a
}
func (cpu *CPU) F() uint8 {
	return cpu.f
}
func (cpu *CPU) B() uint8 {
	return cpu.b
}
func (cpu *CPU) C() uint8 {
	return cpu.c
}
func (cpu *CPU) D() uint8 {
	return cpu.d
}
func (cpu *CPU) E() uint8 {
	return cpu.e
}
func (cpu *CPU) H() uint8 {
	return cpu.h
}
func (cpu *CPU) L() uint8 {
	return cpu.l
}
func (cpu *CPU) AF() uint16 {
	return ((uint16)(cpu.a) << 8) + (uint16)(cpu.f)
}
func (cpu *CPU) BC() uint16 {
	return ((uint16)(cpu.b) << 8) + (uint16)(cpu.c)
}
func (cpu *CPU) DE() uint16 {
	return ((uint16)(cpu.d) << 8) + (uint16)(cpu.e)
}
func (cpu *CPU) HL() uint16 {
	return ((uint16)(cpu.h) << 8) + (uint16)(cpu.l)
}
func (cpu *CPU) SetPC(pc uint16) {
	cpu.pc = pc
}
func (cpu *CPU) SetSP(sp uint16) {
	cpu.sp = sp
}
func (cpu *CPU) SetA(a uint8) {
	cpu.a = a
}

// SetF stores the flag byte. The low nibble always reads as zero.
func (cpu *CPU) SetF(f uint8) {
	cpu.f = f & 0xf0
}
func (cpu *CPU) SetB(b uint8) {
	cpu.b = b
}
func (cpu *CPU) SetC(c uint8) {
	cpu.c = c
}
func (cpu *CPU) SetD(d uint8) {
	cpu.d = d
}
func (cpu *CPU) SetE(e uint8) {
	cpu.e = e
}
func (cpu *CPU) SetH(h uint8) {
	cpu.h = h
}
func (cpu *CPU) SetL(l uint8) {
	cpu.l = l
}
func (cpu *CPU) SetAF(af uint16) {
	cpu.a = (uint8)(af >> 8)
	cpu.SetF((uint8)(af))
}
func (cpu *CPU) SetBC(bc uint16) {
	cpu.b = (uint8)(bc >> 8)
	cpu.c = (uint8)(bc)
}
func (cpu *CPU) SetDE(de uint16) {
	cpu.d = (uint8)(de >> 8)
	cpu.e = (uint8)(de)
}
func (cpu *CPU) SetHL(hl uint16) {
	cpu.h = (uint8)(hl >> 8)
	cpu.l = (uint8)(hl)
}
func (cpu *CPU) FlagZ() bool {
	return ((cpu.f & (1 << 7)) != 0)
}
func (cpu *CPU) FlagN() bool {
	return ((cpu.f & (1 << 6)) != 0)
}
func (cpu *CPU) FlagH() bool {
	return ((cpu.f & (1 << 5)) != 0)
}
func (cpu *CPU) FlagC() bool {
	return ((cpu.f & (1 << 4)) != 0)
}
func (cpu *CPU) SetFlag(flag bool, n uint) {
	if flag {
		cpu.f |= (1 << n)
	} else {
		cpu.f &= compl(1 << n)
	}
}
func (cpu *CPU) SetFlagZ(flag bool) {
	cpu.SetFlag(flag, 7)
}
func (cpu *CPU) SetFlagN(flag bool) {
	cpu.SetFlag(flag, 6)
}
func (cpu *CPU) SetFlagH(flag bool) {
	cpu.SetFlag(flag, 5)
}
func (cpu *CPU) SetFlagC(flag bool) {
	cpu.SetFlag(flag, 4)
}
func (cpu *CPU) SetFlagZNHC(z, n, h, c bool) {
	cpu.SetFlagZ(z)
	cpu.SetFlagN(n)
	cpu.SetFlagH(h)
	cpu.SetFlagC(c)
}
func (cpu *CPU) IME() bool {
	return cpu.ime
}
func (cpu *CPU) SetIME(flag bool) {
	cpu.ime = flag
}
func (cpu *CPU) Halted() bool {
	return cpu.halted
}
func (cpu *CPU) Stopped() bool {
	return cpu.stopped
}

// Steps is the number of instructions executed so far.
func (cpu *CPU) Steps() uint64 {
	return cpu.steps
}

// KeyPressed ends a STOP.
func (cpu *CPU) KeyPressed() {
	cpu.stopped = false
}

func (cpu *CPU) getReg(num uint8) uint8 {
	switch num {
	case 0:
		return cpu.B()
	case 1:
		return cpu.C()
	case 2:
		return cpu.D()
	case 3:
		return cpu.E()
	case 4:
		return cpu.H()
	case 5:
		return cpu.L()
	case 6:
		return cpu.bus.Get8(cpu.HL())
	case 7:
		return cpu.A()
	}
	log.Fatalf("Invalid num: %d", num)
	return 0
}

func (cpu *CPU) setReg(dst, val uint8) {
	switch dst {
	case 0:
		cpu.SetB(val)
	case 1:
		cpu.SetC(val)
	case 2:
		cpu.SetD(val)
	case 3:
		cpu.SetE(val)
	case 4:
		cpu.SetH(val)
	case 5:
		cpu.SetL(val)
	case 6:
		cpu.bus.Set8(cpu.HL(), val)
	case 7:
		cpu.SetA(val)
	default:
		log.Fatalf("Invalid num: %d", dst)
	}
}

func (cpu *CPU) getReg16(dst uint8, is3rdSP bool) uint16 {
	switch dst {
	case 0:
		return cpu.BC()
	case 1:
		return cpu.DE()
	case 2:
		return cpu.HL()
	case 3:
		if is3rdSP {
			return cpu.SP()
		}
		return cpu.AF()
	}
	log.Fatalf("Invalid dst: %d", dst)
	return 0
}

func (cpu *CPU) setReg16(dst uint8, val uint16, is3rdSP bool) {
	switch dst {
	case 0:
		cpu.SetBC(val)
	case 1:
		cpu.SetDE(val)
	case 2:
		cpu.SetHL(val)
	case 3:
		if is3rdSP {
			cpu.SetSP(val)
		} else {
			cpu.SetAF(val)
		}
	default:
		log.Fatalf("Invalid dst: %d", dst)
	}
}

// indirectAddr resolves the (BC), (DE), (HL+), (HL-) operands.
func (cpu *CPU) indirectAddr(index uint8) uint16 {
	switch index {
	case 0:
		return cpu.BC()
	case 1:
		return cpu.DE()
	case 2:
		hl := cpu.HL()
		cpu.SetHL(hl + 1)
		return hl
	case 3:
		hl := cpu.HL()
		cpu.SetHL(hl - 1)
		return hl
	}
	log.Fatalf("Invalid index: %d", index)
	return 0
}

func (cpu *CPU) cond(index uint8) bool {
	switch index {
	case 0:
		return !cpu.FlagZ()
	case 1:
		return cpu.FlagZ()
	case 2:
		return !cpu.FlagC()
	case 3:
		return cpu.FlagC()
	}
	log.Fatalf("Invalid condition: %d", index)
	return false
}

func (cpu *CPU) fetch8() uint8 {
	val := cpu.bus.Get8(cpu.pc)
	cpu.pc++
	return val
}

func (cpu *CPU) fetch16() uint16 {
	val := cpu.bus.Get16(cpu.pc)
	cpu.pc += 2
	return val
}

func (cpu *CPU) push16(val uint16) {
	cpu.sp -= 2
	cpu.bus.Set16(cpu.sp, val)
}

func (cpu *CPU) pop16() uint16 {
	val := cpu.bus.Get16(cpu.sp)
	cpu.sp += 2
	return val
}

func (cpu *CPU) tick(n uint) {
	cpu.stepTicks += n
	cpu.bus.AddTicks(n)
}

// serviceInterrupt dispatches the highest priority pending interrupt. Any
// pending source ends HALT even while IME is off.
func (cpu *CPU) serviceInterrupt() {
	pending := cpu.bus.Pending()
	if pending == 0 {
		return
	}
	cpu.halted = false
	if !cpu.ime {
		return
	}
	for i := bus.INT_VBLANK; i < bus.NUM_INTERRUPTS; i++ {
		if pending&i.Mask() == 0 {
			continue
		}
		util.Trace2("\t<<<INTERRUPT: %s -> 0x%04x>>>", i, i.Vector())
		cpu.bus.SetIF(cpu.bus.IF() &^ i.Mask())
		cpu.ime = false
		cpu.push16(cpu.pc)
		cpu.pc = i.Vector()
		cpu.tick(constant.INT_DISPATCH)
		return
	}
}

// Step executes one instruction, or idles while halted or stopped, and
// returns the number of ticks it consumed.
func (cpu *CPU) Step() (uint, error) {
	cpu.stepTicks = 0
	defer func() {
		cpu.timer.Update(cpu.stepTicks)
	}()

	cpu.serviceInterrupt()

	if cpu.stopped || cpu.halted {
		cpu.tick(constant.IDLE_TICKS)
		return cpu.stepTicks, nil
	}

	pc := cpu.pc
	opcode := cpu.fetch8()
	inst := instructions[opcode]
	if inst == nil {
		cpu.pc = pc
		return cpu.stepTicks, &IllegalOpcodeError{Opcode: opcode, PC: pc, Steps: cpu.steps}
	}
	cpu.tick(inst.cycles)
	if cpu.trace && opcode != 0xcb {
		util.Trace2("0x%04x: %s", pc, inst.mnemonic)
	}
	inst.exec(cpu)
	cpu.steps++
	return cpu.stepTicks, nil
}

func (cpu *CPU) execPrefixed() {
	pc := cpu.pc - 1
	inst := cbInstructions[cpu.fetch8()]
	cpu.tick(inst.cycles)
	if cpu.trace {
		util.Trace2("0x%04x: %s", pc, inst.mnemonic)
	}
	inst.exec(cpu)
}
