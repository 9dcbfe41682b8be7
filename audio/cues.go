package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/milk9111/cityfps/ecs/component"
)

type Cue int

const (
	CueShot Cue = iota
	CueEmpty
	CueReload
	CueEnemyHit
	CueEnemyDeath
	CuePlayerHurt
	CuePickupCoin
	CuePickupHat
	CuePickupPotion
	CueWaveComplete
)

func (c Cue) String() string {
	switch c {
	case CueShot:
		return "shot"
	case CueEmpty:
		return "empty"
	case CueReload:
		return "reload"
	case CueEnemyHit:
		return "enemy_hit"
	case CueEnemyDeath:
		return "enemy_death"
	case CuePlayerHurt:
		return "player_hurt"
	case CuePickupCoin:
		return "pickup_coin"
	case CuePickupHat:
		return "pickup_hat"
	case CuePickupPotion:
		return "pickup_potion"
	case CueWaveComplete:
		return "wave_complete"
	}
	return "unknown"
}

// Synth builds one-shot cue streams.
func Synth(c Cue, rate beep.SampleRate) beep.Streamer {
	ms := time.Millisecond
	switch c {
	case CueShot:
		body := Envelope(Tone(0, 120*ms, WaveNoise, rate), 120*ms, 2*ms, 100*ms, rate)
		thump := Envelope(Sweep(180, 60, 120*ms, WaveSine, rate), 120*ms, 2*ms, 80*ms, rate)
		return beep.Mix(Gain(body, 0.35), Gain(thump, 0.5))
	case CueEmpty:
		return Gain(Envelope(Tone(1800, 30*ms, WaveSquare, rate), 30*ms, 1*ms, 20*ms, rate), 0.2)
	case CueReload:
		click := func() beep.Streamer {
			return Envelope(Tone(900, 40*ms, WaveSquare, rate), 40*ms, 1*ms, 30*ms, rate)
		}
		return Gain(beep.Seq(click(), beep.Silence(rate.N(150*ms)), click()), 0.25)
	case CueEnemyHit:
		return Gain(Envelope(Sweep(600, 300, 80*ms, WaveSquare, rate), 80*ms, 2*ms, 60*ms, rate), 0.25)
	case CueEnemyDeath:
		return Gain(Envelope(Sweep(400, 50, 600*ms, WaveSaw, rate), 600*ms, 10*ms, 400*ms, rate), 0.35)
	case CuePlayerHurt:
		return Gain(Envelope(Tone(110, 200*ms, WaveSaw, rate), 200*ms, 5*ms, 150*ms, rate), 0.4)
	case CuePickupCoin:
		return Gain(beep.Seq(
			Envelope(Tone(987.77, 80*ms, WaveSquare, rate), 80*ms, 2*ms, 40*ms, rate),
			Envelope(Tone(1318.51, 160*ms, WaveSquare, rate), 160*ms, 2*ms, 120*ms, rate),
		), 0.2)
	case CuePickupHat:
		return Gain(Envelope(Sweep(300, 900, 250*ms, WaveSine, rate), 250*ms, 5*ms, 100*ms, rate), 0.3)
	case CuePickupPotion:
		return Gain(Envelope(Sweep(500, 1000, 300*ms, WaveSine, rate), 300*ms, 20*ms, 150*ms, rate), 0.3)
	case CueWaveComplete:
		note := func(f float64) beep.Streamer {
			return Envelope(Tone(f, 180*ms, WaveSine, rate), 180*ms, 5*ms, 80*ms, rate)
		}
		return Gain(beep.Seq(note(523.25), note(659.25), note(783.99), note(1046.5)), 0.35)
	}
	return nil
}

// PickupCue maps a drop to its cue.
func PickupCue(kind component.LootKind) (Cue, bool) {
	switch kind {
	case component.LootCoin:
		return CuePickupCoin, true
	case component.LootHat:
		return CuePickupHat, true
	case component.LootPotion:
		return CuePickupPotion, true
	}
	return 0, false
}

// Vocal is the looping sound an enemy makes while it hunts the player. It
// never ends on its own; the caller fades it out.
func Vocal(typ component.EnemyType, rate beep.SampleRate) beep.Streamer {
	switch typ {
	case component.EnemyGhost:
		return Gain(Tone(330, 0, WaveSine, rate), 0.08)
	case component.EnemyZombie:
		return beep.Mix(Gain(Tone(70, 0, WaveSaw, rate), 0.08), Gain(Tone(0, 0, WaveNoise, rate), 0.02))
	case component.EnemyDemon:
		return beep.Mix(Gain(Tone(55, 0, WaveSquare, rate), 0.06), Gain(Tone(82.5, 0, WaveSaw, rate), 0.05))
	}
	return Gain(Tone(220, 0, WaveSquare, rate), 0.04)
}
