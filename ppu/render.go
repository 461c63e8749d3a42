package ppu

import "github.com/ushitora-anqou/dmgcore/bus"

// LCDC bits
const (
	LCDC_BG_ENABLE   = 1 << 0
	LCDC_OBJ_ENABLE  = 1 << 1
	LCDC_OBJ_SIZE    = 1 << 2
	LCDC_BG_MAP      = 1 << 3
	LCDC_TILE_DATA   = 1 << 4
	LCDC_WIN_ENABLE  = 1 << 5
	LCDC_WIN_MAP     = 1 << 6
	LCDC_LCD_ENABLE  = 1 << 7
	NUM_OAM_ENTRIES  = 40
	TILE_MAP_0       = 0x9800
	TILE_MAP_1       = 0x9c00
	TILE_MAP_COLUMNS = 32
)

func tileMap(lcdc uint8, bit uint8) uint16 {
	if lcdc&bit != 0 {
		return TILE_MAP_1
	}
	return TILE_MAP_0
}

// tileIndex converts a tile map entry into a tile cache index, honoring the
// signed 0x8800 addressing mode.
func tileIndex(lcdc, tileNo uint8) int {
	if lcdc&LCDC_TILE_DATA != 0 {
		return int(tileNo)
	}
	return 256 + int(int8(tileNo))
}

func (ppu *PPU) drawLine() {
	lcdc := ppu.bus.Raw(bus.LCDC)
	if lcdc&LCDC_LCD_ENABLE == 0 {
		return
	}
	scanline := ppu.pixels[int(ppu.ly)*LCD_WIDTH : (int(ppu.ly)+1)*LCD_WIDTH]
	ppu.drawBackground(lcdc, scanline)
	if lcdc&LCDC_OBJ_ENABLE != 0 {
		ppu.drawObjects(lcdc, scanline)
	}
}

func (ppu *PPU) drawBackground(lcdc uint8, scanline []uint8) {
	palette := ppu.bus.BGPalette()
	if lcdc&LCDC_BG_ENABLE == 0 {
		for x := range scanline {
			scanline[x] = palette[0]
			ppu.bgIndex[x] = 0
		}
		return
	}

	ly := int(ppu.ly)
	scx, scy := int(ppu.bus.Raw(bus.SCX)), int(ppu.bus.Raw(bus.SCY))
	wx, wy := int(ppu.bus.Raw(bus.WX))-7, int(ppu.bus.Raw(bus.WY))
	windowOnLine := lcdc&LCDC_WIN_ENABLE != 0 && ly >= wy
	bgMap := tileMap(lcdc, LCDC_BG_MAP)
	winMap := tileMap(lcdc, LCDC_WIN_MAP)

	for ax := 0; ax < LCD_WIDTH; ax++ {
		var mapBase uint16
		var x, y int
		if windowOnLine && ax >= wx {
			mapBase = winMap
			x, y = ax-wx, ly-wy
		} else {
			mapBase = bgMap
			x, y = (ax+scx)&0xff, (ly+scy)&0xff // NOTE: wrap around
		}
		tileNo := ppu.bus.Raw(mapBase + uint16((y/8)*TILE_MAP_COLUMNS+x/8))
		color := ppu.bus.Tile(tileIndex(lcdc, tileNo), y%8, x%8)
		ppu.bgIndex[ax] = color
		scanline[ax] = palette[color]
	}
}

func (ppu *PPU) drawObjects(lcdc uint8, scanline []uint8) {
	height := 8
	if lcdc&LCDC_OBJ_SIZE != 0 {
		height = 16
	}
	ly := int(ppu.ly)

	objs := ppu.visible[:0]
	for i := range ppu.oam {
		obj := &ppu.oam[i]
		obj.load(ppu.bus, i)
		if top := obj.screenY(); top <= ly && ly < top+height {
			objs = append(objs, obj)
		}
	}
	// Lower X, then lower OAM index, wins. Draw the winners last.
	byXAndOAMIndex(objs).sortForDrawing()

	for _, obj := range objs {
		row := ly - obj.screenY()
		if obj.yFlip() {
			row = height - 1 - row
		}
		tile := int(obj.tileIndex)
		if height == 16 {
			tile &= 0xfe
		}
		tile += row / 8
		row %= 8

		palette := ppu.bus.OBJPalette(obj.paletteNumber())
		for col := 0; col < 8; col++ {
			x := obj.screenX() + col
			if x < 0 || LCD_WIDTH <= x {
				continue
			}
			if obj.behindBG() && ppu.bgIndex[x] != 0 {
				continue
			}
			srcX := col
			if obj.xFlip() {
				srcX = 7 - col
			}
			color := ppu.bus.Tile(tile, row, srcX)
			if color == 0 { // transparent
				continue
			}
			scanline[x] = palette[color]
		}
	}
}
