package entity

import (
	"fmt"

	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/prefabs"
)

// NewPlayer creates the player at spawn with the configured loadout equipped.
func NewPlayer(w *ecs.World, spec prefabs.PlayerSpec, weapons prefabs.WeaponsSpec, spawn common.Vec3, yaw float64) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add player tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.PlayerComponent.Kind(), &component.Player{
		Health:      spec.MaxHealth,
		MaxHealth:   spec.MaxHealth,
		Grounded:    true,
		SpawnOrigin: spawn,
	}); err != nil {
		return 0, fmt.Errorf("player: add player: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		Position: spawn,
		Yaw:      yaw,
	}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}

	loadout, err := Loadout(weapons)
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	if err := ecs.Add(w, entity, component.WeaponsComponent.Kind(), loadout); err != nil {
		return 0, fmt.Errorf("player: add weapons: %w", err)
	}

	if err := ecs.Add(w, entity, component.CameraComponent.Kind(), &component.Camera{
		Position: spawn.Add(common.V(0, spec.EyeHeight, 0)),
		Yaw:      yaw,
	}); err != nil {
		return 0, fmt.Errorf("player: add camera: %w", err)
	}

	return entity, nil
}

// Loadout builds the weapon slots listed in the spec, each with a full clip.
func Loadout(spec prefabs.WeaponsSpec) (*component.Weapons, error) {
	out := &component.Weapons{}
	for i, key := range spec.Loadout {
		if i >= len(out.Slots) {
			break
		}
		ws, ok := spec.Weapon(key)
		if !ok {
			return nil, fmt.Errorf("unknown weapon %q", key)
		}
		out.Slots[i] = WeaponState(ws)
		out.Count++
	}
	return out, nil
}

func WeaponState(ws prefabs.WeaponSpec) component.WeaponState {
	return component.WeaponState{
		Name:       ws.Name,
		MaxAmmo:    ws.MaxAmmo,
		Damage:     ws.Damage,
		FireRate:   ws.FireRate,
		ReloadTime: ws.ReloadTime,
		Range:      ws.Range,
		Unlimited:  ws.Unlimited,
		Ammo:       ws.MaxAmmo,
	}
}
