package cartridge

import (
	"errors"
	"testing"
)

func newTestImage(catType Type, romCode, ramCode uint8) []uint8 {
	src := make([]uint8, (2*0x4000)<<romCode)
	copy(src[offsetTitle:], "TESTROM")
	src[offsetType] = uint8(catType)
	src[offsetROMSize] = romCode
	src[offsetRAMSize] = ramCode
	src[offsetHeaderChecksum] = headerChecksum(src)
	// Tag every bank with its own number.
	for bank := 0; bank < len(src)/0x4000; bank++ {
		src[bank*0x4000+0x1000] = uint8(bank)
	}
	return src
}

func TestNew(t *testing.T) {
	src := newTestImage(TypeMBC1RAM, 2, 3)
	cat, err := New(src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cat.Title != "TESTROM" {
		t.Errorf("Title = %q", cat.Title)
	}
	if cat.ROMSize != 128*1024 || cat.RAMSize != 32*1024 {
		t.Errorf("ROMSize = %d, RAMSize = %d", cat.ROMSize, cat.RAMSize)
	}
	if cat.NumROMBanks() != 8 {
		t.Errorf("NumROMBanks = %d", cat.NumROMBanks())
	}
	if !cat.HeaderChecksumOK {
		t.Errorf("header checksum should match")
	}
}

func TestNewErrors(t *testing.T) {
	tooLong := newTestImage(TypeROMOnly, 0, 0)
	tooLong = append(tooLong, 0)

	bigROMOnly := newTestImage(TypeROMOnly, 1, 0)

	badType := newTestImage(TypeROMOnly, 0, 0)
	badType[offsetType] = 0x19

	badRAM := newTestImage(TypeMBC1RAM, 0, 0)
	badRAM[offsetRAMSize] = 0x09

	badROM := newTestImage(TypeMBC1, 0, 0)
	badROM[offsetROMSize] = 0x20

	tests := []struct {
		name string
		src  []uint8
		err  error
	}{
		{"truncated", make([]uint8, 0x100), ErrTooSmall},
		{"length mismatch", tooLong, ErrSizeMismatch},
		{"rom only over 32KiB", bigROMOnly, ErrSizeMismatch},
		{"unsupported type", badType, ErrUnsupportedType},
		{"unsupported ram size", badRAM, ErrUnsupportedRAMSize},
		{"unsupported rom size", badROM, ErrUnsupportedROMSize},
	}
	for _, tc := range tests {
		_, err := New(tc.src)
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.err)
		}
	}
}

func TestDecodeTitle(t *testing.T) {
	tests := []struct {
		raw  []uint8
		want string
	}{
		{[]uint8("TETRIS\x00\x00\x00"), "TETRIS"},
		{[]uint8{'A', 'B', 0x80, 'C'}, "AB"},
		{[]uint8("SIXTEEN CHARS!!!"), "SIXTEEN CHARS!!!"},
	}
	for _, tc := range tests {
		if got := decodeTitle(tc.raw); got != tc.want {
			t.Errorf("decodeTitle(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestChecksumMismatchIsNotFatal(t *testing.T) {
	src := newTestImage(TypeROMOnly, 0, 0)
	src[offsetHeaderChecksum]++
	cat, err := New(src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cat.HeaderChecksumOK {
		t.Fatalf("checksum mismatch not detected")
	}
}

func TestROMOnly(t *testing.T) {
	cat, err := New(newTestImage(TypeROMOnly, 0, 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctrl := cat.NewController()
	ctrl.WriteROM(0x2000, 0x01)
	if got := ctrl.ReadROM(0x5000); got != 1 {
		t.Errorf("ReadROM(0x5000) = %d, want 1", got)
	}
	if got := ctrl.ReadRAM(0xa000); got != 0xff {
		t.Errorf("ReadRAM = 0x%02x, want 0xff", got)
	}
}

func TestMBC1ROMBanking(t *testing.T) {
	cat, err := New(newTestImage(TypeMBC1, 6, 0)) // 128 banks
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m := NewMBC1(cat)

	tests := []struct {
		addr uint16
		val  uint8
		bank int
	}{
		{0x2000, 0x00, 1},
		{0x2000, 0x00, 1},
		{0x2000, 0x05, 5},
		{0x3fff, 0x05, 5},
		{0x2000, 0x1f, 31},
		{0x4000, 0x02, 0x5f},
		{0x2000, 0x00, 0x41},
		{0x6000, 0x01, 1}, // RAM mode drops the high bits
		{0x6000, 0x00, 0x41},
	}
	for i, tc := range tests {
		m.WriteROM(tc.addr, tc.val)
		if got := m.ROMBank(); got != tc.bank {
			t.Fatalf("#%d: ROMBank() = 0x%02x, want 0x%02x", i, got, tc.bank)
		}
		if got := m.ReadROM(0x5000); int(got) != tc.bank {
			t.Fatalf("#%d: ReadROM(0x5000) = 0x%02x, want 0x%02x", i, got, tc.bank)
		}
		if got := m.ReadROM(0x1000); got != 0 {
			t.Fatalf("#%d: fixed bank read 0x%02x", i, got)
		}
	}
}

func TestMBC1BankMask(t *testing.T) {
	cat, err := New(newTestImage(TypeMBC1, 1, 0)) // 4 banks
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m := NewMBC1(cat)
	m.WriteROM(0x2000, 0x06)
	if got := m.ROMBank(); got != 2 {
		t.Errorf("ROMBank() = %d, want 2", got)
	}
	m.WriteROM(0x2000, 0x04)
	if got := m.ROMBank(); got == 0 {
		t.Errorf("bank 0 mapped into the switchable window")
	}
}

func TestMBC1RAM(t *testing.T) {
	cat, err := New(newTestImage(TypeMBC1RAMBattery, 0, 3)) // 4 RAM banks
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m := NewMBC1(cat)

	m.WriteRAM(0xa000, 0x12)
	if got := m.ReadRAM(0xa000); got != 0xff {
		t.Fatalf("disabled RAM read 0x%02x", got)
	}

	m.WriteROM(0x0000, 0x0a)
	m.WriteROM(0x6000, 0x01)
	for bank := uint8(0); bank < 4; bank++ {
		m.WriteROM(0x4000, bank)
		m.WriteRAM(0xa123, 0x10+bank)
	}
	for bank := uint8(0); bank < 4; bank++ {
		m.WriteROM(0x4000, bank)
		if got := m.ReadRAM(0xa123); got != 0x10+bank {
			t.Errorf("bank %d: got 0x%02x", bank, got)
		}
	}

	m.WriteROM(0x0000, 0x00)
	if got := m.ReadRAM(0xa123); got != 0xff {
		t.Errorf("RAM still readable after disable: 0x%02x", got)
	}
}
