// Package audio plays short synthesized cues for Monake engine events.
package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/monake/internal/games/monake"
)

const sampleRate = beep.SampleRate(44100)

// Cue identifies a sound effect.
type Cue int

const (
	CueCountdown Cue = iota
	CueGameStart
	CueEat
	CueSuperEat
	CueSuperSpawn
	CueSuperExpire
	CueGameOver
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case CueCountdown:
		return "countdown"
	case CueGameStart:
		return "game_start"
	case CueEat:
		return "eat"
	case CueSuperEat:
		return "super_eat"
	case CueSuperSpawn:
		return "super_spawn"
	case CueSuperExpire:
		return "super_expire"
	case CueGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// CueFor maps an engine event to its cue.
func CueFor(ev monake.Event) (Cue, bool) {
	switch ev.Kind {
	case monake.EventCountdown:
		return CueCountdown, true
	case monake.EventGameStart:
		return CueGameStart, true
	case monake.EventEat:
		return CueEat, true
	case monake.EventSuperEat:
		return CueSuperEat, true
	case monake.EventSuperSpawn:
		return CueSuperSpawn, true
	case monake.EventSuperExpire:
		return CueSuperExpire, true
	case monake.EventGameOver:
		return CueGameOver, true
	}
	return 0, false
}

// NewCueStreamer builds a fresh, finite streamer for cue.
func NewCueStreamer(c Cue, rate beep.SampleRate) beep.Streamer {
	switch c {
	case CueCountdown:
		return createCountdownSound(rate)
	case CueGameStart:
		return createGameStartSound(rate)
	case CueEat:
		return createEatSound(rate)
	case CueSuperEat:
		return createSuperEatSound(rate)
	case CueSuperSpawn:
		return createSuperSpawnSound(rate)
	case CueSuperExpire:
		return createSuperExpireSound(rate)
	case CueGameOver:
		return createGameOverSound(rate)
	default:
		return nil
	}
}

// EventSource is anything engine events can be subscribed on, such as *monake.Session.
type EventSource interface {
	Subscribe(h monake.Handler) (unsubscribe func())
}

// SoundManager mixes cues onto the speaker. Until Initialize succeeds every
// Play is a no-op, so callers never need to check whether audio is available.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	logger      *log.Logger
}

// NewSoundManager creates a manager with a master volume in [0,1].
func NewSoundManager(volume float64, logger *log.Logger) *SoundManager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
		logger: logger,
	}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.logger.Debug("audio initialized", "rate", int(sampleRate), "volume", sm.volume)
	return nil
}

// Initialized reports whether cues reach the speaker.
func (sm *SoundManager) Initialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Cleanup silences everything and detaches from the speaker.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	speaker.Clear()
	sm.initialized = false
}

// Play queues cue on the mixer without blocking on playback.
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.volume <= 0 {
		return
	}

	s := NewCueStreamer(c, sampleRate)
	if s == nil {
		return
	}

	speaker.Lock()
	sm.mixer.Add(newVolume(s, sm.volume))
	speaker.Unlock()
}

// Attach plays a cue for every event src emits. The returned function detaches.
func (sm *SoundManager) Attach(src EventSource) (detach func()) {
	return src.Subscribe(func(ev monake.Event) {
		if c, ok := CueFor(ev); ok {
			sm.Play(c)
		}
	})
}
