package wavwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestWavWriter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.wav")
	aw := New(filename, 48000)
	aw.Write([]float32{0, 0, 1, -1, 2, -2})
	if aw.Frames() != 3 {
		t.Fatalf("expect 3 frames but got %d", aw.Frames())
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatalf("not a valid wav file")
	}
	if dec.SampleRate != 48000 || dec.NumChans != 2 || dec.BitDepth != 16 {
		t.Errorf("unexpected format: %d Hz, %d channels, %d bits", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	want := []int{0, 0, 0x7fff, -0x7fff, 0x7fff, -0x7fff}
	if len(buf.Data) != len(want) {
		t.Fatalf("expect %d values but got %d", len(want), len(buf.Data))
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Errorf("value %d: expect %d but got %d", i, want[i], buf.Data[i])
		}
	}
}
