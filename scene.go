package main

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/system"
	"golang.org/x/image/colornames"
)

// pixelsPerMeter is the top-down map scale.
const pixelsPerMeter = 8

type sceneNode struct {
	entity   ecs.Entity
	template any
}

// Scene is the top-down drawable world. It implements system.Scene; nodes
// reference entities, never the other way round.
type Scene struct {
	assets system.AssetProvider

	mu     sync.Mutex
	nodes  map[int]*sceneNode
	nextID int
	images map[image.Image]*ebiten.Image
}

func NewScene(assets system.AssetProvider) *Scene {
	return &Scene{
		assets: assets,
		nodes:  make(map[int]*sceneNode),
		images: make(map[image.Image]*ebiten.Image),
	}
}

func (s *Scene) AddVisual(e ecs.Entity, template any) system.VisualHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.nodes[s.nextID] = &sceneNode{entity: e, template: template}
	return s.nextID
}

func (s *Scene) RemoveVisual(h system.VisualHandle) {
	id, ok := h.(int)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.nodes, id)
	s.mu.Unlock()
}

func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

var roleColors = map[collision.Role]color.Color{
	collision.RoleGround:  color.NRGBA{R: 0x30, G: 0x38, B: 0x30, A: 0xff},
	collision.RoleRoad:    color.NRGBA{R: 0x44, G: 0x44, B: 0x4c, A: 0xff},
	collision.RoleStatic:  colornames.Slategray,
	collision.RoleMovable: colornames.Peru,
	collision.RoleVehicle: colornames.Steelblue,
}

var modelColors = map[string]color.Color{
	"robot":  colornames.Silver,
	"ghost":  colornames.Lavender,
	"zombie": colornames.Olivedrab,
	"demon":  colornames.Crimson,
	"coin":   colornames.Gold,
	"hat":    colornames.Mediumpurple,
	"potion": colornames.Deepskyblue,
}

type view struct {
	screen *ebiten.Image
	center common.Vec3
	w, h   float64
}

func (v view) project(p common.Vec3) (float32, float32) {
	x := v.w/2 + (p.X-v.center.X)*pixelsPerMeter
	y := v.h/2 + (p.Z-v.center.Z)*pixelsPerMeter
	return float32(x), float32(y)
}

// Draw renders the collision world as a map around the camera, then every
// scene node, then the player.
func (s *Scene) Draw(screen *ebiten.Image, w *ecs.World, cw *collision.World, playerEnt ecs.Entity, held ecs.Entity) {
	b := screen.Bounds()
	v := view{screen: screen, w: float64(b.Dx()), h: float64(b.Dy())}
	ptr, _ := ecs.Get(w, playerEnt, component.TransformComponent.Kind())
	if ptr != nil {
		v.center = ptr.Position
	}

	// Surfaces first so obstacles sit on top of them.
	for _, pass := range []collision.Role{collision.Surfaces, collision.Obstacles} {
		cw.Each(func(e ecs.Entity, role collision.Role, box common.Box) {
			if role&pass == 0 {
				return
			}
			x0, y0 := v.project(box.Min)
			x1, y1 := v.project(box.Max)
			clr := roleColors[role]
			if clr == nil {
				return
			}
			vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, clr, false)
			if e == held {
				vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, colornames.Yellow, false)
			}
		})
	}

	s.mu.Lock()
	nodes := make([]*sceneNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		nodes = append(nodes, n)
	}
	s.mu.Unlock()

	for _, n := range nodes {
		if _, isProp := ecs.Get(w, n.entity, component.PropComponent.Kind()); isProp {
			continue
		}
		tr, ok := ecs.Get(w, n.entity, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		s.drawNode(v, w, n, tr)
	}

	if ptr != nil {
		px, py := v.project(ptr.Position)
		vector.DrawFilledCircle(screen, px, py, 5, colornames.White, true)
		aim := common.Forward(ptr.Yaw).Scale(3)
		ax, ay := v.project(ptr.Position.Add(aim))
		vector.StrokeLine(screen, px, py, ax, ay, 2, colornames.White, true)
	}
}

func (s *Scene) drawNode(v view, w *ecs.World, n *sceneNode, tr *component.Transform) {
	if ph, ok := n.template.(system.Placeholder); ok && s.assets != nil {
		// Swap in the real model once it finished loading.
		if tmpl, ready := s.assets.Resolve(ph.Model); ready {
			n.template = tmpl
		}
	}

	flash, _ := ecs.Get(w, n.entity, component.WhiteFlashComponent.Kind())
	x, y := v.project(tr.Position)

	switch t := n.template.(type) {
	case image.Image:
		img := s.ebitenImage(t)
		op := &ebiten.DrawImageOptions{}
		sz := img.Bounds().Size()
		op.GeoM.Translate(-float64(sz.X)/2, -float64(sz.Y)/2)
		op.GeoM.Scale(1.25, 1.25)
		op.GeoM.Translate(float64(x), float64(y))
		if flash.On() {
			op.ColorScale.Scale(4, 4, 4, 1)
		}
		v.screen.DrawImage(img, op)
	case system.Placeholder:
		clr := modelColors[t.Model]
		if clr == nil {
			clr = colornames.Magenta
		}
		if flash.On() {
			clr = colornames.White
		}
		hw := float32(t.Size.X * pixelsPerMeter / 2)
		hd := float32(t.Size.Z * pixelsPerMeter / 2)
		if hw < 3 {
			hw, hd = 3, 3
		}
		vector.DrawFilledRect(v.screen, x-hw, y-hd, hw*2, hd*2, clr, false)
	}
}

// ebitenImage converts decoded images on the draw goroutine and caches them.
func (s *Scene) ebitenImage(img image.Image) *ebiten.Image {
	if eimg, ok := img.(*ebiten.Image); ok {
		return eimg
	}
	if cached, ok := s.images[img]; ok {
		return cached
	}
	eimg := ebiten.NewImageFromImage(img)
	s.images[img] = eimg
	return eimg
}
