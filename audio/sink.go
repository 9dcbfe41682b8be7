package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/system"
)

// Sink plays cues into one beep mixer. It satisfies system.Audio.
type Sink struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	mixer   *beep.Mixer
	volume  float64
	started bool
	played  map[Cue]int
}

func NewSink(volume float64) *Sink {
	return &Sink{
		rate:   SampleRate,
		mixer:  &beep.Mixer{},
		volume: volume,
		played: make(map[Cue]int),
	}
}

// Open starts a speaker-backed sink. Without a usable audio device the game
// runs silent.
func Open(enabled bool, volume float64) system.Audio {
	if !enabled {
		log.Info("audio disabled")
		return system.NopAudio{}
	}
	s := NewSink(volume)
	if err := s.Start(); err != nil {
		log.Warn("audio unavailable, running silent", "err", err)
		return system.NopAudio{}
	}
	return s
}

func (s *Sink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.started = true
	return nil
}

func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	speaker.Clear()
	s.started = false
}

// Stream pulls mixed samples directly. Used when no speaker is attached.
func (s *Sink) Stream(samples [][2]float64) (int, bool) {
	s.lock()
	defer s.unlock()
	return s.mixer.Stream(samples)
}

// Err is always nil; a failing cue is dropped by the mixer.
func (s *Sink) Err() error { return nil }

func (s *Sink) Playing() int {
	s.lock()
	defer s.unlock()
	return s.mixer.Len()
}

// Played reports how often a cue was triggered.
func (s *Sink) Played(c Cue) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.played[c]
}

func (s *Sink) lock() {
	s.mu.Lock()
	if s.started {
		speaker.Lock()
	}
}

func (s *Sink) unlock() {
	if s.started {
		speaker.Unlock()
	}
	s.mu.Unlock()
}

func (s *Sink) add(st beep.Streamer) {
	s.lock()
	defer s.unlock()
	s.mixer.Add(Gain(st, s.volume))
}

func (s *Sink) play(c Cue) {
	st := Synth(c, s.rate)
	if st == nil {
		return
	}
	s.mu.Lock()
	s.played[c]++
	s.mu.Unlock()
	s.add(st)
}

func (s *Sink) PlayEnemyAttack(typ component.EnemyType) system.CueHandle {
	f := newFader(Vocal(typ, s.rate), s.rate)
	s.add(f)
	return f
}

func (s *Sink) PlayEnemyHit()     { s.play(CueEnemyHit) }
func (s *Sink) PlayEnemyDeath()   { s.play(CueEnemyDeath) }
func (s *Sink) PlayShot(string)   { s.play(CueShot) }
func (s *Sink) PlayEmpty()        { s.play(CueEmpty) }
func (s *Sink) PlayReload()       { s.play(CueReload) }
func (s *Sink) PlayPlayerHurt()   { s.play(CuePlayerHurt) }
func (s *Sink) PlayWaveComplete() { s.play(CueWaveComplete) }

func (s *Sink) PlayPickup(kind component.LootKind) {
	if c, ok := PickupCue(kind); ok {
		s.play(c)
	}
}

// fader lets a looping stream be faded out and dropped from the mixer.
type fader struct {
	mu        sync.Mutex
	streamer  beep.Streamer
	rate      beep.SampleRate
	fading    bool
	remaining int
	total     int
}

func newFader(s beep.Streamer, rate beep.SampleRate) *fader {
	return &fader{streamer: s, rate: rate}
}

// Fade ramps the stream to silence over d. Repeated calls never lengthen a
// fade already running.
func (f *fader) Fade(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.rate.N(d)
	if n < 1 {
		n = 1
	}
	if f.fading && f.remaining <= n {
		return
	}
	f.fading = true
	f.remaining = n
	f.total = n
}

func (f *fader) Stream(samples [][2]float64) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fading && f.remaining <= 0 {
		return 0, false
	}
	if f.fading && len(samples) > f.remaining {
		samples = samples[:f.remaining]
	}
	n, ok := f.streamer.Stream(samples)
	if !f.fading {
		return n, ok
	}
	for i := 0; i < n; i++ {
		g := float64(f.remaining) / float64(f.total)
		samples[i][0] *= g
		samples[i][1] *= g
		f.remaining--
	}
	return n, ok
}

func (f *fader) Err() error { return f.streamer.Err() }
