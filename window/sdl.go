//go:build sdl2

package window

// typedef unsigned char Uint8;
// void OnAudioPlayback(void *userdata, Uint8 *stream, int len);
import "C"
import (
	"unsafe"

	"github.com/mattn/go-pointer"
	"github.com/ushitora-anqou/dmgcore/apu"
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/veandco/go-sdl2/sdl"
)

func SDLInitialize() error {
	return sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS)
}

type SDLWindow struct {
	window                    *sdl.Window
	renderer                  *sdl.Renderer
	texture                   *sdl.Texture
	prevAction, prevDirection uint8
	audioDevice               sdl.AudioDeviceID
	mixer                     *apu.Mixer
	userdata                  unsafe.Pointer
}

// NewSDLWindow opens the window and an audio device that drains mixer.
func NewSDLWindow(mixer *apu.Mixer, sampleRate int) (*SDLWindow, error) {
	window, err := sdl.CreateWindow(
		constant.WINDOW_TITLE,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		constant.WINDOW_WIDTH,
		constant.WINDOW_HEIGHT,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return nil, err
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, err
	}

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING,
		constant.LCD_WIDTH,
		constant.LCD_HEIGHT,
	)
	if err != nil {
		return nil, err
	}

	wind := &SDLWindow{
		window:   window,
		renderer: renderer,
		texture:  texture,
		mixer:    mixer,
	}
	wind.userdata = pointer.Save(wind)

	audioDevice, err := sdl.OpenAudioDevice(
		"",
		false,
		&sdl.AudioSpec{
			Freq:     int32(sampleRate),
			Format:   sdl.AUDIO_F32,
			Channels: constant.CHANNELS,
			Samples:  constant.AUDIO_SAMPLES,
			Callback: sdl.AudioCallback(C.OnAudioPlayback),
			UserData: wind.userdata,
		},
		nil,
		0,
	)
	if err != nil {
		pointer.Unref(wind.userdata)
		return nil, err
	}
	sdl.PauseAudioDevice(audioDevice, false)
	wind.audioDevice = audioDevice

	return wind, nil
}

func (wind *SDLWindow) Close() {
	sdl.CloseAudioDevice(wind.audioDevice)
	pointer.Unref(wind.userdata)
	wind.texture.Destroy()
	wind.renderer.Destroy()
	wind.window.Destroy()
}

var keyDirections = map[sdl.Keycode]uint8{
	sdl.K_w: 1 << constant.DIR_UP,
	sdl.K_a: 1 << constant.DIR_LEFT,
	sdl.K_d: 1 << constant.DIR_RIGHT,
	sdl.K_s: 1 << constant.DIR_DOWN,
}

var keyActions = map[sdl.Keycode]uint8{
	sdl.K_k:      1 << constant.ACT_A,
	sdl.K_j:      1 << constant.ACT_B,
	sdl.K_RETURN: 1 << constant.ACT_START,
	sdl.K_SPACE:  1 << constant.ACT_SELECT,
}

func (wind *SDLWindow) HandleEvents() (bool, *WindowEvent) {
	we := &WindowEvent{
		Action:    wind.prevAction,
		Direction: wind.prevDirection,
	}
	escape := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch event := event.(type) {
		case *sdl.QuitEvent:
			escape = true

		case *sdl.KeyboardEvent:
			sym := event.Keysym.Sym
			switch event.Type {
			case sdl.KEYDOWN:
				if sym == sdl.K_ESCAPE {
					escape = true
				}
				we.Direction |= keyDirections[sym]
				we.Action |= keyActions[sym]

			case sdl.KEYUP:
				we.Direction &^= keyDirections[sym]
				we.Action &^= keyActions[sym]
			}
		}
	}

	wind.prevAction = we.Action
	wind.prevDirection = we.Direction

	return escape, we
}

func (wind *SDLWindow) DrawFrame(srcPic []uint8) error {
	if err := checkFrame(srcPic); err != nil {
		return err
	}

	// Update the texture
	pixels, _, err := wind.texture.Lock(nil)
	if err != nil {
		return err
	}
	for off, color := range srcPic {
		pixels[off*4+0] = color // b
		pixels[off*4+1] = color // g
		pixels[off*4+2] = color // r
		pixels[off*4+3] = 0xff  // a
	}
	wind.texture.Unlock()

	// Present the scene
	wind.renderer.Clear()
	wind.renderer.Copy(wind.texture, nil, nil)
	wind.renderer.Present()

	return nil
}

//export OnAudioPlayback
func OnAudioPlayback(userdata unsafe.Pointer, stream *C.Uint8, length C.int) {
	buf := unsafe.Slice((*float32)(unsafe.Pointer(stream)), int(length)/4)
	wind := pointer.Restore(userdata).(*SDLWindow)
	wind.mixer.Read(buf)
}
