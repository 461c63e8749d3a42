//go:build !ebiten && !sdl2

package main

import (
	"log"
	"os"

	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/window"
)

func run() error {
	opts, err := parseOptions()
	if err != nil {
		return err
	}
	stop, err := startProfile()
	if err != nil {
		return err
	}
	defer stop()

	var wind window.Window
	if opts.ascii {
		wind = window.NewTerminalWindow(os.Stdout)
	}
	emu, err := NewEmulator(opts, wind)
	if err != nil {
		return err
	}

	var ts *window.TimeSynchronizer
	if opts.audio {
		speaker, err := window.NewOtoSpeaker(emu.gb.Audio(), emu.gb.APU().SampleRate())
		if err != nil {
			return err
		}
		defer speaker.Close()
		ts = window.NewTimeSynchronizer(constant.TARGET_FPS)
	} else if opts.frames == 0 && emu.script == nil {
		log.Printf("running until interrupted; use -frames to stop earlier")
	}

	event := &window.WindowEvent{}
	for !emu.Done() {
		if err := emu.Update(event); err != nil {
			emu.Close()
			return err
		}
		if ts != nil {
			ts.MaySleep()
		}
	}
	return emu.Close()
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
