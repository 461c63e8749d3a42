package cartridge

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ushitora-anqou/dmgcore/constant"
)

const (
	offsetTitle          = 0x134
	titleLength          = 16
	offsetType           = 0x147
	offsetROMSize        = 0x148
	offsetRAMSize        = 0x149
	offsetHeaderChecksum = 0x14d
	headerEnd            = 0x150
)

type Type uint8

const (
	TypeROMOnly        Type = 0x00
	TypeMBC1           Type = 0x01
	TypeMBC1RAM        Type = 0x02
	TypeMBC1RAMBattery Type = 0x03
)

func (t Type) String() string {
	switch t {
	case TypeROMOnly:
		return "ROM ONLY"
	case TypeMBC1:
		return "MBC1"
	case TypeMBC1RAM:
		return "MBC1+RAM"
	case TypeMBC1RAMBattery:
		return "MBC1+RAM+BATTERY"
	}
	return fmt.Sprintf("0x%02x", uint8(t))
}

var (
	ErrTooSmall           = errors.New("cartridge image too small")
	ErrUnsupportedType    = errors.New("unsupported cartridge type")
	ErrUnsupportedROMSize = errors.New("unsupported ROM size")
	ErrUnsupportedRAMSize = errors.New("unsupported RAM size")
	ErrSizeMismatch       = errors.New("image length does not match declared ROM size")
)

// Cartridge is a parsed, validated cartridge image. The ROM bytes are never
// modified after New returns.
type Cartridge struct {
	Title            string
	Type             Type
	ROMSizeCode      uint8
	RAMSizeCode      uint8
	ROMSize          int // bytes
	RAMSize          int // bytes
	HeaderChecksum   uint8
	HeaderChecksumOK bool
	rom              []uint8
}

// New parses the header of src and validates it against the image length.
func New(src []uint8) (*Cartridge, error) {
	if len(src) < headerEnd {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(src))
	}

	catType := Type(src[offsetType])
	switch catType {
	case TypeROMOnly, TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedType, uint8(catType))
	}

	romCode := src[offsetROMSize]
	if romCode > 8 {
		return nil, fmt.Errorf("%w: code 0x%02x", ErrUnsupportedROMSize, romCode)
	}
	romSize := (2 * constant.ROM_BANK_SIZE) << romCode

	ramCode := src[offsetRAMSize]
	ramSize, ok := ramSizes[ramCode]
	if !ok {
		return nil, fmt.Errorf("%w: code 0x%02x", ErrUnsupportedRAMSize, ramCode)
	}

	if len(src) != romSize {
		return nil, fmt.Errorf("%w: header says %d bytes, got %d", ErrSizeMismatch, romSize, len(src))
	}
	if catType == TypeROMOnly && romSize != 2*constant.ROM_BANK_SIZE {
		return nil, fmt.Errorf("%w: %s cartridge must be 32KiB", ErrSizeMismatch, catType)
	}

	sum := headerChecksum(src)
	cat := &Cartridge{
		Title:            decodeTitle(src[offsetTitle : offsetTitle+titleLength]),
		Type:             catType,
		ROMSizeCode:      romCode,
		RAMSizeCode:      ramCode,
		ROMSize:          romSize,
		RAMSize:          ramSize,
		HeaderChecksum:   src[offsetHeaderChecksum],
		HeaderChecksumOK: sum == src[offsetHeaderChecksum],
		rom:              src,
	}
	if !cat.HeaderChecksumOK {
		log.Printf("cartridge %q: header checksum mismatch: stored 0x%02x, computed 0x%02x",
			cat.Title, cat.HeaderChecksum, sum)
	}
	return cat, nil
}

var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

func decodeTitle(raw []uint8) string {
	var sb strings.Builder
	for _, c := range raw {
		if c == 0x00 || c >= 0x80 {
			break
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func headerChecksum(src []uint8) uint8 {
	var x uint8
	for i := offsetTitle; i < offsetHeaderChecksum; i++ {
		x = x - src[i] - 1
	}
	return x
}

func (cat *Cartridge) NumROMBanks() int {
	return cat.ROMSize / constant.ROM_BANK_SIZE
}

func (cat *Cartridge) HasBankController() bool {
	return cat.Type != TypeROMOnly
}

// At returns the ROM byte at a flat image offset.
func (cat *Cartridge) At(index int) uint8 {
	return cat.rom[index]
}

// NewController returns fresh bank-selection state for this image.
func (cat *Cartridge) NewController() Controller {
	if cat.HasBankController() {
		return NewMBC1(cat)
	}
	return &romOnly{cat: cat}
}

// Controller decodes the cartridge windows of the address space:
// 0x0000-0x7fff (ROM, control registers on write) and 0xa000-0xbfff (RAM).
type Controller interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, val uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, val uint8)
}

type romOnly struct {
	cat *Cartridge
}

func (c *romOnly) ReadROM(addr uint16) uint8 {
	return c.cat.rom[addr]
}

func (c *romOnly) WriteROM(addr uint16, val uint8) {}

func (c *romOnly) ReadRAM(addr uint16) uint8 {
	return 0xff
}

func (c *romOnly) WriteRAM(addr uint16, val uint8) {}
