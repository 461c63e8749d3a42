package constant

const (
	DIR_RIGHT, ACT_A    = 0x00, 0x00
	DIR_LEFT, ACT_B     = 0x01, 0x01
	DIR_UP, ACT_SELECT  = 0x02, 0x02
	DIR_DOWN, ACT_START = 0x03, 0x03

	LCD_WIDTH    = 160
	LCD_HEIGHT   = 144
	BG_PX_WIDTH  = 256
	BG_PX_HEIGHT = 256

	// Ticks are T-cycles of the 4.194304 MHz master clock.
	CPU_FREQ      = 4194304
	LINE_TICKS    = 456
	LINES         = 154
	FRAME_TICKS   = LINE_TICKS * LINES
	DIV_TICKS     = 256
	INT_DISPATCH  = 20
	IDLE_TICKS    = 4
	TARGET_FPS    = float64(CPU_FREQ) / float64(FRAME_TICKS)
	ROM_BANK_SIZE = 0x4000
	RAM_BANK_SIZE = 0x2000

	AUDIO_FREQ       = 48000
	CHANNELS         = 2
	AUDIO_SAMPLES    = 1024
	AUDIO_QUEUE_SIZE = 8
	AUDIO_PREBUFFER  = 60 // milliseconds

	COLOR_WHITE      = 0xff
	COLOR_LIGHT_GRAY = 0xaa
	COLOR_DARK_GRAY  = 0x55
	COLOR_BLACK      = 0x00

	WINDOW_TITLE  = "dmgcore"
	WINDOW_SCALE  = 4
	WINDOW_WIDTH  = LCD_WIDTH * WINDOW_SCALE
	WINDOW_HEIGHT = LCD_HEIGHT * WINDOW_SCALE
)

// Shades maps a 2-bit shade index to a grey level.
var Shades = [4]uint8{COLOR_WHITE, COLOR_LIGHT_GRAY, COLOR_DARK_GRAY, COLOR_BLACK}
