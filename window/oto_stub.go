//go:build !oto

package window

import (
	"errors"

	"github.com/ushitora-anqou/dmgcore/apu"
)

type OtoSpeaker struct{}

func NewOtoSpeaker(mixer *apu.Mixer, sampleRate int) (*OtoSpeaker, error) {
	return nil, errors.New("audio playback needs a build with the oto tag")
}

func (s *OtoSpeaker) Close() error {
	return nil
}

func OtoAvailable() bool {
	return false
}
