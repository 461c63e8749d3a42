package cartridge

import (
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/util"
)

type MBC1 struct {
	cat         *Cartridge
	ram         []uint8
	numROMBanks int
	romBank     uint8 // low 5 bits, never 0
	secondary   uint8 // 2 bits
	ramEnabled  bool
	ramMode     bool
}

func NewMBC1(cat *Cartridge) *MBC1 {
	return &MBC1{
		cat:         cat,
		ram:         make([]uint8, cat.RAMSize),
		numROMBanks: cat.NumROMBanks(),
		romBank:     1,
	}
}

func (m *MBC1) WriteROM(addr uint16, val uint8) {
	switch {
	case addr <= 0x1fff: // RAM Enable
		m.ramEnabled = val&0x0f == 0x0a
		util.Trace1("\t<<<MBC1: RAM enable: %v>>>", m.ramEnabled)

	case addr <= 0x3fff: // ROM Bank Number (lower 5 bits)
		num := val & 0x1f
		if num == 0 {
			num = 1
		}
		m.romBank = num
		util.Trace1("\t<<<MBC1: ROM bank low: 0x%02x>>>", num)

	case addr <= 0x5fff: // RAM Bank Number or Upper Bits of ROM Bank Number
		m.secondary = val & 0x03
		util.Trace1("\t<<<MBC1: secondary bank: %d>>>", m.secondary)

	default: // Banking Mode Select
		m.ramMode = val&0x01 != 0
		util.Trace1("\t<<<MBC1: RAM banking mode: %v>>>", m.ramMode)
	}
}

// ROMBank returns the bank mapped into 0x4000-0x7fff.
func (m *MBC1) ROMBank() int {
	bank := int(m.romBank)
	if !m.ramMode {
		bank |= int(m.secondary) << 5
	}
	bank &= m.numROMBanks - 1
	if bank == 0 {
		bank = 1
	}
	return bank
}

// RAMBank returns the bank mapped into 0xa000-0xbfff.
func (m *MBC1) RAMBank() int {
	if m.ramMode {
		return int(m.secondary)
	}
	return 0
}

func (m *MBC1) RAMEnabled() bool {
	return m.ramEnabled
}

func (m *MBC1) RAMMode() bool {
	return m.ramMode
}

func (m *MBC1) ReadROM(addr uint16) uint8 {
	if addr <= 0x3fff { // ROM Bank 00
		return m.cat.rom[addr]
	}
	return m.cat.rom[m.ROMBank()*constant.ROM_BANK_SIZE+int(addr-0x4000)]
}

func (m *MBC1) ramIndex(addr uint16) (int, bool) {
	if !m.ramEnabled || !m.ramMode || len(m.ram) == 0 {
		return 0, false
	}
	index := m.RAMBank()*constant.RAM_BANK_SIZE + int(addr-0xa000)
	return index % len(m.ram), true
}

func (m *MBC1) ReadRAM(addr uint16) uint8 {
	index, ok := m.ramIndex(addr)
	if !ok {
		return 0xff
	}
	return m.ram[index]
}

func (m *MBC1) WriteRAM(addr uint16, val uint8) {
	if index, ok := m.ramIndex(addr); ok {
		m.ram[index] = val
	}
}
