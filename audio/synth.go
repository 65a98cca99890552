package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a mono oscillator duplicated to both channels
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	if o.position >= o.duration {
		return 0, false
	}
	for i := range samples {
		if o.position >= o.duration {
			return i, true
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveTriangle:
			val = 1 - 4*math.Abs(o.phase-0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a stream with a linear attack and an exponential release
type envelope struct {
	streamer      beep.Streamer
	position      int
	attackSamples int
	totalSamples  int
	decay         float64 // Release time constants over the tail
}

// NewEnvelope wraps s with a linear attack followed by exponential decay to the end
func NewEnvelope(s beep.Streamer, duration, attack time.Duration, decay float64, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:      s,
		attackSamples: rate.N(attack),
		totalSamples:  rate.N(duration),
		decay:         decay,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		} else if tail := e.totalSamples - e.attackSamples; tail > 0 {
			progress := float64(e.position-e.attackSamples) / float64(tail)
			vol = math.Exp(-e.decay * progress)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s by a linear gain; zero or less is silent
// math.Log2(0) is -Inf
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// tone is one enveloped note of a cue
type tone struct {
	note     int
	duration time.Duration
	wave     WaveType
	gain     float64
}

// cueTones lists the notes played in sequence per cue
var cueTones = [cueTypeCount][]tone{
	CueHover: {
		{note: 81, duration: 40 * time.Millisecond, wave: WaveSine, gain: 0.25}, // A5
	},
	CueOpen: {
		{note: 76, duration: 50 * time.Millisecond, wave: WaveTriangle, gain: 0.25}, // E5
		{note: 83, duration: 70 * time.Millisecond, wave: WaveTriangle, gain: 0.25}, // B5
	},
	CueClose: {
		{note: 69, duration: 60 * time.Millisecond, wave: WaveSine, gain: 0.25}, // A4
	},
}

const (
	cueAttack = 2 * time.Millisecond
	cueDecay  = 4.0
)

// CueStreamer returns the finite streamer for a cue at unity master volume
func CueStreamer(c CueType, rate beep.SampleRate) beep.Streamer {
	if c < 0 || c >= cueTypeCount {
		return nil
	}
	tones := cueTones[c]
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		osc := NewOscillator(NoteFreq(t.note), t.duration, t.wave, rate)
		shaped := NewEnvelope(osc, t.duration, cueAttack, cueDecay, rate)
		parts = append(parts, newVolume(shaped, t.gain))
	}
	return beep.Seq(parts...)
}

// CueDuration returns the total length of a cue
func CueDuration(c CueType) time.Duration {
	if c < 0 || c >= cueTypeCount {
		return 0
	}
	var d time.Duration
	for _, t := range cueTones[c] {
		d += t.duration
	}
	return d
}
