package bus

import (
	"github.com/ushitora-anqou/dmgcore/constant"
)

const NUM_TILES = 384

// updateTile re-decodes the tile row that contains addr.
func (b *Bus) updateTile(addr uint16) {
	addr &= 0xfffe
	tile := (addr >> 4) & 0x1ff
	y := (addr >> 1) & 7
	lo, hi := b.mem[addr], b.mem[addr+1]
	for x := 0; x < 8; x++ {
		bit := uint(7 - x)
		b.tiles[tile][y][x] = (lo>>bit)&1 | ((hi>>bit)&1)<<1
	}
}

// RebuildTileCache decodes every tile from VRAM from scratch.
func (b *Bus) RebuildTileCache() {
	for addr := uint16(0x8000); addr < 0x9800; addr += 2 {
		b.updateTile(addr)
	}
}

// Tile returns the 2-bit color index of pixel (x, y) of tile index.
func (b *Bus) Tile(index, y, x int) uint8 {
	return b.tiles[index][y][x]
}

func (b *Bus) updatePalette(addr uint16) {
	val := b.mem[addr]
	var pal *[4]uint8
	switch addr {
	case BGP:
		pal = &b.bgPalette
	case OBP0:
		pal = &b.objPalette[0]
	case OBP1:
		pal = &b.objPalette[1]
	}
	for i := 0; i < 4; i++ {
		pal[i] = constant.Shades[(val>>(i*2))&3]
	}
}

func (b *Bus) BGPalette() [4]uint8 {
	return b.bgPalette
}

func (b *Bus) OBJPalette(n int) [4]uint8 {
	return b.objPalette[n&1]
}
