package joypad

import (
	"testing"

	"github.com/ushitora-anqou/dmgcore/constant"
)

func TestGet(t *testing.T) {
	j := NewJoypad()
	j.SetButtons(1<<constant.DIR_UP, 1<<constant.ACT_A|1<<constant.ACT_START)

	tests := []struct {
		p1   uint8
		want uint8
	}{
		{0x30, 0xff},        // nothing selected
		{0x20, 0xe0 | 0x0b}, // directions: Up low
		{0x10, 0xd0 | 0x06}, // actions: A and Start low
		{0x00, 0xc0 | 0x02}, // both lines
	}
	for _, tc := range tests {
		j.Set(tc.p1)
		if got := j.Get(); got != tc.want {
			t.Errorf("P1=0x%02x: Get() = %08b, want %08b", tc.p1, got, tc.want)
		}
	}
}

func TestSetButtons(t *testing.T) {
	j := NewJoypad()
	tests := []struct {
		direction, action uint8
		pressed           bool
	}{
		{0, 1 << constant.ACT_B, true},
		{0, 1 << constant.ACT_B, false},
		{1 << constant.DIR_LEFT, 1 << constant.ACT_B, true},
		{0, 0, false},
		{0, 1 << constant.ACT_B, true},
	}
	for i, tc := range tests {
		if got := j.SetButtons(tc.direction, tc.action); got != tc.pressed {
			t.Errorf("#%d: SetButtons() = %v, want %v", i, got, tc.pressed)
		}
	}
}
