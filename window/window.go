package window

import (
	"fmt"

	"github.com/ushitora-anqou/dmgcore/constant"
)

type WindowEvent struct {
	Direction, Action uint8
}

// Window presents finished frames and collects input. Frames are
// LCD_WIDTH*LCD_HEIGHT grey levels as produced by the pixel pipeline.
type Window interface {
	DrawFrame(pixels []uint8) error
	// HandleEvents reports whether the user asked to quit, and the buttons
	// currently held.
	HandleEvents() (bool, *WindowEvent)
}

func checkFrame(pixels []uint8) error {
	if len(pixels) != constant.LCD_WIDTH*constant.LCD_HEIGHT {
		return fmt.Errorf(
			"Invalid length of frame data: expected %d, got %d",
			constant.LCD_WIDTH*constant.LCD_HEIGHT,
			len(pixels),
		)
	}
	return nil
}
