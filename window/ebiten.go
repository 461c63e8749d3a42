//go:build ebiten

package window

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/ushitora-anqou/dmgcore/apu"
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/util"
)

func EbitenInitialize() {
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(constant.WINDOW_WIDTH, constant.WINDOW_HEIGHT)
	ebiten.SetWindowTitle(constant.WINDOW_TITLE)
}

type EbitenWindow struct {
	rgba        [4 * constant.LCD_WIDTH * constant.LCD_HEIGHT]uint8
	audioPlayer *audio.Player
}

// NewEbitenWindow starts an audio player that drains mixer.
func NewEbitenWindow(mixer *apu.Mixer, sampleRate int) (*EbitenWindow, error) {
	wind := &EbitenWindow{}
	player, err := audio.NewContext(sampleRate).NewPlayerF32(mixer.Float32LE())
	if err != nil {
		return nil, err
	}
	player.Play()
	wind.audioPlayer = player
	return wind, nil
}

func (wind *EbitenWindow) DrawFrame(pixels []uint8) error {
	if err := checkFrame(pixels); err != nil {
		return err
	}
	for off, color := range pixels {
		wind.rgba[off*4+0] = color // r
		wind.rgba[off*4+1] = color // g
		wind.rgba[off*4+2] = color // b
		wind.rgba[off*4+3] = 0xff  // a
	}
	return nil
}

func (wind *EbitenWindow) Render(screen *ebiten.Image) {
	screen.WritePixels(wind.rgba[:])
}

func (wind *EbitenWindow) HandleEvents() (bool, *WindowEvent) {
	event := &WindowEvent{}
	event.Direction |= util.BoolToU8(ebiten.IsKeyPressed(ebiten.KeyW)) << constant.DIR_UP
	event.Direction |= util.BoolToU8(ebiten.IsKeyPressed(ebiten.KeyA)) << constant.DIR_LEFT
	event.Direction |= util.BoolToU8(ebiten.IsKeyPressed(ebiten.KeyD)) << constant.DIR_RIGHT
	event.Direction |= util.BoolToU8(ebiten.IsKeyPressed(ebiten.KeyS)) << constant.DIR_DOWN
	event.Action |= util.BoolToU8(ebiten.IsKeyPressed(ebiten.KeyK)) << constant.ACT_A
	event.Action |= util.BoolToU8(ebiten.IsKeyPressed(ebiten.KeyJ)) << constant.ACT_B
	event.Action |= util.BoolToU8(ebiten.IsKeyPressed(ebiten.KeyEnter)) << constant.ACT_START
	event.Action |= util.BoolToU8(ebiten.IsKeyPressed(ebiten.KeySpace)) << constant.ACT_SELECT
	return ebiten.IsKeyPressed(ebiten.KeyEscape), event
}
