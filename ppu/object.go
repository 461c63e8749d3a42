package ppu

import "github.com/ushitora-anqou/dmgcore/bus"

// object is one OAM entry.
type object struct {
	oamIndex              int
	y, x, tileIndex, attr uint8
}

func (o *object) load(b *bus.Bus, index int) {
	addr := uint16(0xfe00 + index*4)
	o.oamIndex = index
	o.y = b.Raw(addr)
	o.x = b.Raw(addr + 1)
	o.tileIndex = b.Raw(addr + 2)
	o.attr = b.Raw(addr + 3)
}

func (o *object) screenY() int {
	return int(o.y) - 16
}

func (o *object) screenX() int {
	return int(o.x) - 8
}

func (o *object) paletteNumber() int {
	return int((o.attr >> 4) & 1)
}

func (o *object) xFlip() bool {
	return ((o.attr >> 5) & 1) != 0
}

func (o *object) yFlip() bool {
	return ((o.attr >> 6) & 1) != 0
}

// behindBG is the priority bit: background colors 1-3 cover the object.
func (o *object) behindBG() bool {
	return ((o.attr >> 7) & 1) != 0
}

type byXAndOAMIndex []*object

func (o byXAndOAMIndex) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
}
func (o byXAndOAMIndex) Less(i, j int) bool {
	return o[i].x < o[j].x || (o[i].x == o[j].x && o[i].oamIndex < o[j].oamIndex)
}

// sortForDrawing orders the objects so the ones with priority come last.
// It sorts in place without allocating.
func (o byXAndOAMIndex) sortForDrawing() {
	for i := 1; i < len(o); i++ {
		for j := i; j > 0 && o.Less(j-1, j); j-- {
			o.Swap(j-1, j)
		}
	}
}
