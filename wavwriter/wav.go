// Package wavwriter records the mixed audio stream to a 16-bit stereo WAV
// file. Samples are buffered in memory and written on Close.
package wavwriter

import (
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ushitora-anqou/dmgcore/constant"
)

type WavWriter struct {
	filename   string
	sampleRate int
	buffer     []int
}

func New(filename string, sampleRate int) *WavWriter {
	return &WavWriter{
		filename:   filename,
		sampleRate: sampleRate,
	}
}

// Write appends interleaved stereo samples in the range -1 to 1.
func (aw *WavWriter) Write(samples []float32) {
	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		aw.buffer = append(aw.buffer, int(s*0x7fff))
	}
}

// Frames is the number of stereo frames recorded so far.
func (aw *WavWriter) Frames() int {
	return len(aw.buffer) / constant.CHANNELS
}

func (aw *WavWriter) Close() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, aw.sampleRate, 16, constant.CHANNELS, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: constant.CHANNELS,
			SampleRate:  aw.sampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: 16,
	}

	log.Printf("wavwriter: writing %d frames to %s", aw.Frames(), aw.filename)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	return nil
}
