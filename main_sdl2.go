//go:build sdl2 && !ebiten

package main

import (
	"log"

	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/window"
)

func runSDL2() error {
	opts, err := parseOptions()
	if err != nil {
		return err
	}
	stop, err := startProfile()
	if err != nil {
		return err
	}
	defer stop()

	// Initialize SDL
	if err := window.SDLInitialize(); err != nil {
		return err
	}

	emu, err := NewEmulator(opts, nil)
	if err != nil {
		return err
	}

	// Create a window
	wind, err := window.NewSDLWindow(emu.gb.Audio(), emu.gb.APU().SampleRate())
	if err != nil {
		return err
	}
	defer wind.Close()
	emu.wind = wind

	ts := window.NewTimeSynchronizer(constant.TARGET_FPS)
	for !emu.Done() {
		escape, event := wind.HandleEvents()
		if escape {
			break
		}
		if err := emu.Update(event); err != nil {
			emu.Close()
			return err
		}
		ts.MaySleep()
	}
	return emu.Close()
}

func main() {
	if err := runSDL2(); err != nil {
		log.Fatal(err)
	}
}
