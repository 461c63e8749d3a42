//go:build oto

package window

import (
	"github.com/ebitengine/oto/v3"
	"github.com/ushitora-anqou/dmgcore/apu"
	"github.com/ushitora-anqou/dmgcore/constant"
)

// OtoSpeaker plays the mixer without opening a window.
type OtoSpeaker struct {
	ctx    *oto.Context
	player *oto.Player
}

func NewOtoSpeaker(mixer *apu.Mixer, sampleRate int) (*OtoSpeaker, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: constant.CHANNELS,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	player := ctx.NewPlayer(mixer.Float32LE())
	player.Play()
	return &OtoSpeaker{ctx: ctx, player: player}, nil
}

func (s *OtoSpeaker) Close() error {
	return s.player.Close()
}

func OtoAvailable() bool {
	return true
}
