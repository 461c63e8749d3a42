package window

import (
	"io"
	"os"
	"strings"

	"github.com/ushitora-anqou/dmgcore/constant"
	"golang.org/x/term"
)

// From lightest to darkest.
const asciiRamp = " .:-=+*#%@"

const defaultTerminalColumns = 80

// TerminalWindow draws frames as ASCII art. It has no input.
type TerminalWindow struct {
	out     io.Writer
	columns int
}

// NewTerminalWindow sizes the picture to fit out when it is a terminal.
func NewTerminalWindow(out *os.File) *TerminalWindow {
	columns := defaultTerminalColumns
	if term.IsTerminal(int(out.Fd())) {
		if width, height, err := term.GetSize(int(out.Fd())); err == nil {
			columns = width
			// Each row of characters covers twice as many pixels as a column.
			if rows := height - 1; rows > 0 && rows*4 < columns {
				columns = rows * 4
			}
		}
	}
	return &TerminalWindow{out: out, columns: columns}
}

func (wind *TerminalWindow) DrawFrame(pixels []uint8) error {
	if err := checkFrame(pixels); err != nil {
		return err
	}
	_, err := io.WriteString(wind.out, "\x1b[H"+RenderASCII(pixels, wind.columns))
	return err
}

func (wind *TerminalWindow) HandleEvents() (bool, *WindowEvent) {
	return false, &WindowEvent{}
}

// RenderASCII downsamples a frame to the given number of columns. Every
// character stands for a block twice as tall as it is wide.
func RenderASCII(pixels []uint8, columns int) string {
	if columns < 1 {
		columns = 1
	}
	if columns > constant.LCD_WIDTH {
		columns = constant.LCD_WIDTH
	}
	bw := (constant.LCD_WIDTH + columns - 1) / columns
	bh := bw * 2

	var sb strings.Builder
	for y := 0; y < constant.LCD_HEIGHT; y += bh {
		for x := 0; x < constant.LCD_WIDTH; x += bw {
			sum, n := 0, 0
			for dy := 0; dy < bh && y+dy < constant.LCD_HEIGHT; dy++ {
				for dx := 0; dx < bw && x+dx < constant.LCD_WIDTH; dx++ {
					sum += 0xff - int(pixels[(y+dy)*constant.LCD_WIDTH+x+dx])
					n++
				}
			}
			sb.WriteByte(asciiRamp[sum*(len(asciiRamp)-1)/(n*0xff)])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
