// Package screenshot turns a framebuffer of grey levels into a PNG.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/ushitora-anqou/dmgcore/constant"
	"golang.org/x/image/draw"
)

// Image wraps the LCD_WIDTH x LCD_HEIGHT shades in pixels and scales the
// result by an integer factor with nearest neighbour sampling.
func Image(pixels []uint8, scale int) (*image.Gray, error) {
	if len(pixels) != constant.LCD_WIDTH*constant.LCD_HEIGHT {
		return nil, fmt.Errorf("screenshot: expect %d pixels, got %d", constant.LCD_WIDTH*constant.LCD_HEIGHT, len(pixels))
	}
	if scale < 1 {
		scale = 1
	}

	src := &image.Gray{
		Pix:    pixels,
		Stride: constant.LCD_WIDTH,
		Rect:   image.Rect(0, 0, constant.LCD_WIDTH, constant.LCD_HEIGHT),
	}
	dst := image.NewGray(image.Rect(0, 0, constant.LCD_WIDTH*scale, constant.LCD_HEIGHT*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

func WritePNG(w io.Writer, pixels []uint8, scale int) error {
	img, err := Image(pixels, scale)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	return nil
}

func Save(filename string, pixels []uint8, scale int) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("screenshot: %w", err)
		}
	}()
	return WritePNG(f, pixels, scale)
}
