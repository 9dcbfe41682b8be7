package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ system.Audio = (*Sink)(nil)
var _ beep.Streamer = (*Sink)(nil)

func drain(s beep.Streamer, n int) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for total < n {
		got, ok := s.Stream(buf)
		for i := 0; i < got; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += got
		if !ok || got == 0 {
			break
		}
	}
	return total, peak
}

func TestToneLengthAndRange(t *testing.T) {
	tests := []struct {
		name string
		wave Wave
	}{
		{"sine", WaveSine},
		{"square", WaveSquare},
		{"saw", WaveSaw},
		{"noise", WaveNoise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, peak := drain(Tone(440, 100*time.Millisecond, tt.wave, SampleRate), SampleRate.N(time.Second))
			assert.Equal(t, SampleRate.N(100*time.Millisecond), n)
			assert.LessOrEqual(t, peak, 1.0)
			assert.Greater(t, peak, 0.0)
		})
	}
}

func TestEnvelopeStartsAndEndsQuiet(t *testing.T) {
	st := Envelope(Tone(440, 50*time.Millisecond, WaveSquare, SampleRate), 50*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, SampleRate)
	buf := make([][2]float64, SampleRate.N(50*time.Millisecond))
	n, _ := st.Stream(buf)
	require.Equal(t, len(buf), n)
	assert.InDelta(t, 0, buf[0][0], 1e-9)
	assert.Less(t, math.Abs(buf[n-1][0]), 0.01)
	assert.InDelta(t, 1, math.Abs(buf[n/2][0]), 1e-9)
}

func TestEveryCueSynthesizes(t *testing.T) {
	for c := CueShot; c <= CueWaveComplete; c++ {
		t.Run(c.String(), func(t *testing.T) {
			st := Synth(c, SampleRate)
			require.NotNil(t, st)
			n, peak := drain(st, SampleRate.N(5*time.Second))
			assert.Greater(t, n, 0)
			assert.Less(t, n, SampleRate.N(5*time.Second), "one-shot cues end")
			assert.Greater(t, peak, 0.0)
		})
	}
}

func TestSinkMixesCues(t *testing.T) {
	s := NewSink(1)
	s.PlayShot("Pistol")
	s.PlayPickup(component.LootNone)
	s.PlayPickup(component.LootCoin)
	assert.Equal(t, 1, s.Played(CueShot))
	assert.Equal(t, 1, s.Played(CuePickupCoin))
	assert.Equal(t, 2, s.Playing())

	_, peak := drain(s, SampleRate.N(10*time.Millisecond))
	assert.Greater(t, peak, 0.0)

	drain(s, SampleRate.N(2*time.Second))
	assert.Zero(t, s.Playing(), "finished cues leave the mixer")
}

func TestVocalLoopsUntilFaded(t *testing.T) {
	s := NewSink(1)
	h := s.PlayEnemyAttack(component.EnemyDemon)
	drain(s, SampleRate.N(time.Second))
	assert.Equal(t, 1, s.Playing())

	h.Fade(100 * time.Millisecond)
	h.Fade(time.Second)
	drain(s, SampleRate.N(200*time.Millisecond))
	assert.Zero(t, s.Playing())
}

func TestOpenDisabledIsSilent(t *testing.T) {
	a := Open(false, 1)
	assert.IsType(t, system.NopAudio{}, a)
}
