package screenshot

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/ushitora-anqou/dmgcore/constant"
)

func testPixels() []uint8 {
	pixels := make([]uint8, constant.LCD_WIDTH*constant.LCD_HEIGHT)
	for i := range pixels {
		pixels[i] = constant.Shades[i%4]
	}
	return pixels
}

func TestImage(t *testing.T) {
	pixels := testPixels()
	img, err := Image(pixels, 3)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != constant.LCD_WIDTH*3 || b.Dy() != constant.LCD_HEIGHT*3 {
		t.Fatalf("unexpected bounds %v", b)
	}
	for _, p := range [][2]int{{0, 0}, {5, 7}, {159, 143}} {
		want := pixels[p[1]*constant.LCD_WIDTH+p[0]]
		for dy := 0; dy < 3; dy++ {
			for dx := 0; dx < 3; dx++ {
				if got := img.GrayAt(p[0]*3+dx, p[1]*3+dy).Y; got != want {
					t.Fatalf("(%d,%d)+(%d,%d): expect 0x%02x but got 0x%02x", p[0], p[1], dx, dy, want, got)
				}
			}
		}
	}

	if _, err := Image(pixels[:10], 1); err == nil {
		t.Errorf("short framebuffer should be rejected")
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testPixels(), 1); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != constant.LCD_WIDTH || b.Dy() != constant.LCD_HEIGHT {
		t.Errorf("unexpected bounds %v", b)
	}
}
