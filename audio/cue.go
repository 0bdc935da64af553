package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Player mixes short generated tones triggered by scripts.
// Disabled or unstarted players swallow all cues silently.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	enabled bool
	started bool
}

// NewPlayer creates a cue player
func NewPlayer(enabled bool) *Player {
	return &Player{
		mixer:   &beep.Mixer{},
		enabled: enabled,
	}
}

// Start initialises the speaker and attaches the mixer
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.started {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.started = true
	return nil
}

// Stop shuts the speaker down
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		speaker.Close()
		p.started = false
	}
}

// PlayTone queues a sine tone cue of the given frequency and duration
func (p *Player) PlayTone(freq float64, d time.Duration) {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return
	}

	streamer := beep.Take(sampleRate.N(d), newToneGenerator(sampleRate, freq))
	speaker.Lock()
	p.mixer.Add(streamer)
	speaker.Unlock()
}

// toneGenerator streams a fixed-frequency sine wave
type toneGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newToneGenerator(sr beep.SampleRate, freq float64) *toneGenerator {
	return &toneGenerator{sr: sr, freq: freq}
}

// Stream generates samples with a gentle fixed amplitude
func (g *toneGenerator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := 0.25 * math.Sin(2*math.Pi*g.freq*float64(g.pos)/float64(g.sr))
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (g *toneGenerator) Err() error {
	return nil
}
