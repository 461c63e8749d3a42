//go:build ebiten

package main

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ushitora-anqou/dmgcore/constant"
	"github.com/ushitora-anqou/dmgcore/window"
)

var errQuit = errors.New("quit")

type Game struct {
	emu  *Emulator
	wind *window.EbitenWindow
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return constant.LCD_WIDTH, constant.LCD_HEIGHT
}

func (g *Game) Update() error {
	escape, event := g.wind.HandleEvents()
	if escape || g.emu.Done() {
		return errQuit
	}
	return g.emu.Update(event)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.wind.Render(screen)
}

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

	window.EbitenInitialize()

	emu, err := NewEmulator(opts, nil)
	if err != nil {
		return err
	}
	wind, err := window.NewEbitenWindow(emu.gb.Audio(), emu.gb.APU().SampleRate())
	if err != nil {
		return err
	}
	emu.wind = wind

	if err := ebiten.RunGame(&Game{emu: emu, wind: wind}); err != nil && !errors.Is(err, errQuit) {
		emu.Close()
		return err
	}
	return emu.Close()
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
