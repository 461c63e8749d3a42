package apu

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
)

// Mixer is a bounded ring of interleaved stereo samples shared between the
// emulation goroutine and an audio backend. Playback holds back until
// prebuffer samples are queued, and falls back to that state on underrun.
type Mixer struct {
	mu          sync.Mutex
	buffer      []float32
	head, tail  int
	usedEntries int
	prebuffer   int
	playing     bool
	underruns   uint64
	dropped     uint64
}

func NewMixer(capacity, prebuffer int) *Mixer {
	if prebuffer > capacity {
		prebuffer = capacity
	}
	return &Mixer{
		buffer:    make([]float32, capacity),
		prebuffer: prebuffer,
	}
}

func (m *Mixer) getNext(pos int) int {
	if pos+1 >= len(m.buffer) {
		return 0
	}
	return pos + 1
}

// Write queues samples. When the ring is full the oldest samples are
// overwritten.
func (m *Mixer) Write(samples []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range samples {
		if m.usedEntries == len(m.buffer) {
			m.tail = m.getNext(m.tail)
			m.usedEntries--
			m.dropped++
		}
		m.buffer[m.head] = s
		m.head = m.getNext(m.head)
		m.usedEntries++
	}
}

// Read fills p completely and returns how many of the values came from the
// queue. The rest is silence.
func (m *Mixer) Read(p []float32) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing && m.usedEntries >= m.prebuffer && m.usedEntries > 0 {
		m.playing = true
	}

	n := 0
	if m.playing {
		for n < len(p) && m.usedEntries > 0 {
			p[n] = m.buffer[m.tail]
			m.tail = m.getNext(m.tail)
			m.usedEntries--
			n++
		}
		if n < len(p) {
			m.playing = false
			m.underruns++
		}
	}
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return n
}

func (m *Mixer) Buffered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usedEntries
}

func (m *Mixer) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mixer) Underruns() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.underruns
}

func (m *Mixer) Dropped() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// Float32LE exposes the mixer as a byte stream of little-endian float32
// samples. It never blocks and never returns io.EOF.
func (m *Mixer) Float32LE() io.Reader {
	return &float32Reader{mixer: m}
}

type float32Reader struct {
	mixer *Mixer
	tmp   []float32
}

func (r *float32Reader) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	if cap(r.tmp) < n {
		r.tmp = make([]float32, n)
	}
	r.tmp = r.tmp[:n]
	r.mixer.Read(r.tmp)
	for i, s := range r.tmp {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return n * 4, nil
}
