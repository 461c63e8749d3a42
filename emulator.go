package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/ushitora-anqou/dmgcore/gameboy"
	"github.com/ushitora-anqou/dmgcore/screenshot"
	"github.com/ushitora-anqou/dmgcore/script"
	"github.com/ushitora-anqou/dmgcore/statsview"
	"github.com/ushitora-anqou/dmgcore/util"
	"github.com/ushitora-anqou/dmgcore/wavwriter"
	"github.com/ushitora-anqou/dmgcore/window"
)

type options struct {
	romPath    string
	bootPath   string
	frames     int
	pngPath    string
	scale      int
	wavPath    string
	scriptPath string
	trace      bool
	ascii      bool
	stats      bool
	audio      bool
}

func parseOptions() (*options, error) {
	opts := &options{}
	flag.StringVar(&opts.bootPath, "boot", "", "boot ROM image (256 bytes)")
	flag.IntVar(&opts.frames, "frames", 0, "stop after this many frames (0: run until stopped)")
	flag.StringVar(&opts.pngPath, "png", "", "save the last frame as a PNG file")
	flag.IntVar(&opts.scale, "scale", 1, "scale factor of the PNG file")
	flag.StringVar(&opts.wavPath, "wav", "", "record the audio to a WAV file")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua script driving the buttons")
	flag.BoolVar(&opts.trace, "trace", false, "trace instructions and register writes")
	flag.BoolVar(&opts.ascii, "ascii", false, "draw frames on the terminal")
	flag.BoolVar(&opts.stats, "stats", false, "serve runtime statistics (statsview builds only)")
	flag.BoolVar(&opts.audio, "audio", false, "play audio in real time (oto builds only)")
	flag.Parse()

	if flag.NArg() < 1 {
		return nil, fmt.Errorf("Usage: %s [OPTIONS] PATH", os.Args[0])
	}
	opts.romPath = flag.Arg(0)
	if os.Getenv("DMGCORE_TRACE") == "1" {
		opts.trace = true
	}
	return opts, nil
}

// startProfile honours DMGCORE_CPUPROFILE. The returned function stops it.
func startProfile() (func(), error) {
	filename := os.Getenv("DMGCORE_CPUPROFILE")
	if filename == "" {
		return func() {}, nil
	}
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		file.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		file.Close()
	}, nil
}

// Emulator glues a machine to its frontends.
type Emulator struct {
	opts   *options
	gb     *gameboy.GameBoy
	wind   window.Window
	wav    *wavwriter.WavWriter
	script *script.Script
	frame  uint64
}

func NewEmulator(opts *options, wind window.Window) (*Emulator, error) {
	rom, err := os.ReadFile(opts.romPath)
	if err != nil {
		return nil, err
	}

	cfg := gameboy.DefaultConfig()
	cfg.TraceInstructions = opts.trace
	if opts.bootPath != "" {
		if cfg.BootROM, err = os.ReadFile(opts.bootPath); err != nil {
			return nil, err
		}
	}
	if opts.trace {
		util.EnableTrace()
	}

	gb, err := gameboy.New(rom, cfg)
	if err != nil {
		return nil, err
	}
	cat := gb.Cartridge()
	log.Printf("%s: %q %s, ROM %d KiB, RAM %d KiB", opts.romPath, cat.Title, cat.Type, cat.ROMSize/1024, cat.RAMSize/1024)

	e := &Emulator{opts: opts, gb: gb, wind: wind}
	if opts.wavPath != "" {
		e.wav = wavwriter.New(opts.wavPath, cfg.SampleRate)
	}
	if opts.scriptPath != "" {
		if e.script, err = script.Load(opts.scriptPath); err != nil {
			return nil, err
		}
	}
	if opts.stats {
		if statsview.Available() {
			statsview.Launch(os.Stderr)
		} else {
			log.Printf("statsview is not available in this build")
		}
	}
	return e, nil
}

// Done reports whether the frame limit or the script ended the run.
func (e *Emulator) Done() bool {
	if e.opts.frames > 0 && e.frame >= uint64(e.opts.frames) {
		return true
	}
	return e.script != nil && e.script.Stopped()
}

// Update emulates one frame with the buttons of event, or those of the
// script when there is one.
func (e *Emulator) Update(event *window.WindowEvent) error {
	direction, action := event.Direction, event.Action
	if e.script != nil {
		var err error
		if direction, action, err = e.script.OnFrame(e.frame); err != nil {
			return err
		}
	}
	e.gb.SetButtons(direction, action)

	samples, err := e.gb.RunFrame()
	if err != nil {
		return err
	}
	e.frame++
	if e.wav != nil {
		e.wav.Write(samples)
	}
	if e.wind != nil {
		return e.wind.DrawFrame(e.gb.PPU().Pixels())
	}
	return nil
}

// Close writes the requested output files.
func (e *Emulator) Close() error {
	if e.script != nil {
		e.script.Close()
	}
	if e.opts.pngPath != "" {
		if err := screenshot.Save(e.opts.pngPath, e.gb.PPU().Pixels(), e.opts.scale); err != nil {
			return err
		}
		log.Printf("frame %d (%s) saved to %s", e.frame, e.gb.PPU().FrameHash(), e.opts.pngPath)
	}
	if e.wav != nil {
		return e.wav.Close()
	}
	return nil
}
