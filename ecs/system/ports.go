package system

import (
	"time"

	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

// VisualHandle is whatever the scene returns for a drawn object.
type VisualHandle any

// Scene owns the drawable representation of entities. The simulation never
// reads state back from it.
type Scene interface {
	AddVisual(e ecs.Entity, template any) VisualHandle
	RemoveVisual(h VisualHandle)
}

// AssetProvider resolves a model name to a cloneable template. ok is false
// while the asset is still loading or unknown.
type AssetProvider interface {
	Resolve(name string) (template any, ok bool)
}

// Placeholder is handed to the scene when an asset is not available yet.
type Placeholder struct {
	Model string
	Size  common.Vec3
}

// CueHandle lets the caller fade out a cue that is still playing.
type CueHandle interface {
	Fade(d time.Duration)
}

// Audio is the fire-and-forget cue sink.
type Audio interface {
	PlayEnemyAttack(t component.EnemyType) CueHandle
	PlayEnemyHit()
	PlayEnemyDeath()
	PlayShot(weapon string)
	PlayEmpty()
	PlayReload()
	PlayPickup(kind component.LootKind)
	PlayPlayerHurt()
	PlayWaveComplete()
}

type HUDStats struct {
	Health    float64
	MaxHealth float64
	Armor     float64
	Money     int
	Kills     int

	Weapon         string
	Ammo           int
	MaxAmmo        int
	Unlimited      bool
	Reloading      bool
	ReloadProgress float64

	Wave       int
	WaveKilled int
	WaveTotal  int
	Enemies    int

	Driving  bool
	Speed    float64
	EditMode bool
	Ghost    bool
	Holding  bool
	GameOver bool
}

type HUD interface {
	Show(stats HUDStats)
	Notify(msg string, d time.Duration)
}

// Ports bundles every external collaborator. Any of them may be nil.
type Ports struct {
	Scene  Scene
	Assets AssetProvider
	Audio  Audio
	HUD    HUD
}

// WithDefaults swaps nil collaborators for no-op ones.
func (p Ports) WithDefaults() Ports {
	if p.Scene == nil {
		p.Scene = nopScene{}
	}
	if p.Assets == nil {
		p.Assets = nopAssets{}
	}
	if p.Audio == nil {
		p.Audio = NopAudio{}
	}
	if p.HUD == nil {
		p.HUD = nopHUD{}
	}
	return p
}

type nopScene struct{}

func (nopScene) AddVisual(ecs.Entity, any) VisualHandle { return nil }
func (nopScene) RemoveVisual(VisualHandle)              {}

type nopAssets struct{}

func (nopAssets) Resolve(string) (any, bool) { return nil, false }

type nopCue struct{}

func (nopCue) Fade(time.Duration) {}

// NopAudio drops every cue. It is also what a failed audio backend degrades to.
type NopAudio struct{}

func (NopAudio) PlayEnemyAttack(component.EnemyType) CueHandle { return nopCue{} }
func (NopAudio) PlayEnemyHit()                                 {}
func (NopAudio) PlayEnemyDeath()                               {}
func (NopAudio) PlayShot(string)                               {}
func (NopAudio) PlayEmpty()                                    {}
func (NopAudio) PlayReload()                                   {}
func (NopAudio) PlayPickup(component.LootKind)                 {}
func (NopAudio) PlayPlayerHurt()                               {}
func (NopAudio) PlayWaveComplete()                             {}

type nopHUD struct{}

func (nopHUD) Show(HUDStats)                {}
func (nopHUD) Notify(string, time.Duration) {}
