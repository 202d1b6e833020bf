package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave, optionally sweeping in pitch.
type oscillator struct {
	freq     float64
	endFreq  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a fixed-pitch oscillator.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding linearly from freq to endFreq.
func NewSweep(freq, endFreq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
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
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		progress := float64(o.position) / float64(o.duration)
		freq := o.freq + (o.endFreq-o.freq)*progress
		o.phase += freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/sustain/release envelope over duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; math.Log2(0) is -Inf, so 0 means silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// note is a short enveloped tone.
func note(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

// createEatSound is a single short blip.
func createEatSound(rate beep.SampleRate) beep.Streamer {
	return newVolume(note(660, 60*time.Millisecond, WaveSquare, rate), 0.4)
}

// createSuperEatSound is a rising C-E-G-C arpeggio.
func createSuperEatSound(rate beep.SampleRate) beep.Streamer {
	const d = 50 * time.Millisecond
	return newVolume(beep.Seq(
		note(523.25, d, WaveSquare, rate),
		note(659.25, d, WaveSquare, rate),
		note(783.99, d, WaveSquare, rate),
		note(1046.50, 2*d, WaveSquare, rate),
	), 0.4)
}

// createSuperSpawnSound is a soft bell with an octave overtone.
func createSuperSpawnSound(rate beep.SampleRate) beep.Streamer {
	const d = 180 * time.Millisecond
	return beep.Take(rate.N(d), beep.Mix(
		newVolume(NewEnvelope(NewOscillator(880, d, WaveSine, rate), d, 2*time.Millisecond, 150*time.Millisecond, rate), 0.35),
		newVolume(NewEnvelope(NewOscillator(1760, d, WaveSine, rate), d, 2*time.Millisecond, 80*time.Millisecond, rate), 0.15),
	))
}

// createSuperExpireSound is a short downward chirp.
func createSuperExpireSound(rate beep.SampleRate) beep.Streamer {
	const d = 120 * time.Millisecond
	return newVolume(NewEnvelope(NewSweep(880, 440, d, WaveSine, rate), d, 5*time.Millisecond, 60*time.Millisecond, rate), 0.3)
}

// createCountdownSound is a neutral tick.
func createCountdownSound(rate beep.SampleRate) beep.Streamer {
	return newVolume(note(440, 80*time.Millisecond, WaveSine, rate), 0.4)
}

// createGameStartSound is a rising sweep.
func createGameStartSound(rate beep.SampleRate) beep.Streamer {
	const d = 250 * time.Millisecond
	return newVolume(NewEnvelope(NewSweep(220, 880, d, WaveSaw, rate), d, 10*time.Millisecond, 80*time.Millisecond, rate), 0.3)
}

// createGameOverSound is a falling buzz over a noise burst.
func createGameOverSound(rate beep.SampleRate) beep.Streamer {
	const d = 500 * time.Millisecond
	return beep.Take(rate.N(d), beep.Mix(
		newVolume(NewEnvelope(NewSweep(330, 80, d, WaveSaw, rate), d, 5*time.Millisecond, 300*time.Millisecond, rate), 0.35),
		newVolume(NewEnvelope(NewOscillator(0, 150*time.Millisecond, WaveNoise, rate), 150*time.Millisecond, time.Millisecond, 120*time.Millisecond, rate), 0.15),
	))
}
