package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// SoundManager mixes interaction blips onto the speaker
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64 // Exponent for base 2; 0 is unity gain
	initialized bool

	played atomic.Uint64
}

// NewSoundManager creates an uninitialized sound manager; volume is in halvings (-1 = half)
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences the mixer and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// SetVolume changes the gain of subsequent blips
func (sm *SoundManager) SetVolume(volume float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.volume = volume
}

// Hover plays a single high blip
func (sm *SoundManager) Hover() { sm.Play(CueHover) }

// Open plays a rising two-tone chime
func (sm *SoundManager) Open() { sm.Play(CueOpen) }

// Close plays a low blip
func (sm *SoundManager) Close() { sm.Play(CueClose) }

// Play queues a cue on the mixer; it reports false when the speaker is not open
func (sm *SoundManager) Play(c CueType) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return false
	}
	s := CueStreamer(c, sampleRate)
	if s == nil {
		return false
	}

	vol := &effects.Volume{Streamer: s, Base: 2, Volume: sm.volume}
	speaker.Lock()
	sm.mixer.Add(vol)
	speaker.Unlock()
	sm.played.Add(1)
	return true
}

// Played returns the number of cues queued since start
func (sm *SoundManager) Played() uint64 {
	return sm.played.Load()
}
