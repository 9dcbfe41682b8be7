package collision

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
)

// Hit is one query result.
type Hit struct {
	Entity   ecs.Entity
	Role     Role
	Box      common.Box
	Distance float64
	Point    common.Vec3
}

type volume struct {
	role  Role
	box   common.Box
	shape *cp.Shape
}

// World is the spatial query service. Each volume's XZ footprint is a static
// chipmunk box used as the broad phase; the exact 3D box is tested after.
type World struct {
	space   *cp.Space
	volumes map[ecs.Entity]*volume
	shapes  map[*cp.Shape]ecs.Entity
}

func NewWorld() *World {
	return &World{
		space:   cp.NewSpace(),
		volumes: make(map[ecs.Entity]*volume),
		shapes:  make(map[*cp.Shape]ecs.Entity),
	}
}

func footprint(b common.Box) cp.BB {
	return cp.BB{L: b.Min.X, B: b.Min.Z, R: b.Max.X, T: b.Max.Z}
}

func normalize(b common.Box) common.Box {
	return common.Box{
		Min: common.Vec3{X: math.Min(b.Min.X, b.Max.X), Y: math.Min(b.Min.Y, b.Max.Y), Z: math.Min(b.Min.Z, b.Max.Z)},
		Max: common.Vec3{X: math.Max(b.Min.X, b.Max.X), Y: math.Max(b.Min.Y, b.Max.Y), Z: math.Max(b.Min.Z, b.Max.Z)},
	}
}

func (w *World) attach(e ecs.Entity, v *volume) {
	shape := cp.NewBox2(w.space.StaticBody, footprint(v.box), 0)
	shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(v.role), Mask: cp.ALL_CATEGORIES})
	w.space.AddShape(shape)
	v.shape = shape
	w.shapes[shape] = e
}

func (w *World) detach(v *volume) {
	if v.shape == nil {
		return
	}
	w.space.RemoveShape(v.shape)
	delete(w.shapes, v.shape)
	v.shape = nil
}

// Add registers (or replaces) the volume owned by e.
func (w *World) Add(e ecs.Entity, role Role, box common.Box) {
	if w == nil || !e.Valid() {
		return
	}
	if old, ok := w.volumes[e]; ok {
		w.detach(old)
	}
	v := &volume{role: role, box: normalize(box)}
	w.attach(e, v)
	w.volumes[e] = v
}

// Move replaces the box of an existing volume. Unknown entities are ignored.
func (w *World) Move(e ecs.Entity, box common.Box) {
	if w == nil {
		return
	}
	v, ok := w.volumes[e]
	if !ok {
		return
	}
	box = normalize(box)
	if box == v.box {
		return
	}
	w.detach(v)
	v.box = box
	w.attach(e, v)
}

func (w *World) Remove(e ecs.Entity) bool {
	if w == nil {
		return false
	}
	v, ok := w.volumes[e]
	if !ok {
		return false
	}
	w.detach(v)
	delete(w.volumes, e)
	return true
}

// Volume returns the registered box and role of e.
func (w *World) Volume(e ecs.Entity) (common.Box, Role, bool) {
	if w == nil {
		return common.Box{}, 0, false
	}
	v, ok := w.volumes[e]
	if !ok {
		return common.Box{}, 0, false
	}
	return v.box, v.role, true
}

func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return len(w.volumes)
}

// Each visits every volume in entity order.
func (w *World) Each(fn func(ecs.Entity, Role, common.Box)) {
	if w == nil || fn == nil {
		return
	}
	keys := make([]ecs.Entity, 0, len(w.volumes))
	for e := range w.volumes {
		keys = append(keys, e)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, e := range keys {
		v := w.volumes[e]
		fn(e, v.role, v.box)
	}
}

// candidates runs the broad phase and returns matching entities sorted by id
// so results do not depend on the tree layout.
func (w *World) candidates(bb cp.BB, mask Role, ignore []ecs.Entity) []ecs.Entity {
	if w == nil || len(w.volumes) == 0 {
		return nil
	}
	var out []ecs.Entity
	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: uint(mask)}
	w.space.BBQuery(bb, filter, func(shape *cp.Shape, _ interface{}) {
		e, ok := w.shapes[shape]
		if !ok {
			return
		}
		if v := w.volumes[e]; v == nil || v.role&mask == 0 {
			return
		}
		for _, skip := range ignore {
			if skip == e {
				return
			}
		}
		out = append(out, e)
	}, nil)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Raycast returns the closest volume hit within maxDist.
func (w *World) Raycast(origin, dir common.Vec3, maxDist float64, mask Role, ignore ...ecs.Entity) (Hit, bool) {
	dir = dir.Normalize()
	if w == nil || maxDist <= 0 || dir.Len() == 0 {
		return Hit{}, false
	}
	end := origin.Add(dir.Scale(maxDist))
	bb := cp.BB{
		L: math.Min(origin.X, end.X), B: math.Min(origin.Z, end.Z),
		R: math.Max(origin.X, end.X), T: math.Max(origin.Z, end.Z),
	}
	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, e := range w.candidates(bb, mask, ignore) {
		v := w.volumes[e]
		t, ok := v.box.RayIntersect(origin, dir)
		if !ok || t > maxDist || t >= best.Distance {
			continue
		}
		best = Hit{Entity: e, Role: v.role, Box: v.box, Distance: t, Point: origin.Add(dir.Scale(t))}
		found = true
	}
	return best, found
}

// Overlaps lists every volume intersecting box.
func (w *World) Overlaps(box common.Box, mask Role, ignore ...ecs.Entity) []Hit {
	box = normalize(box)
	var hits []Hit
	for _, e := range w.candidates(footprint(box), mask, ignore) {
		v := w.volumes[e]
		if !v.box.Intersects(box) {
			continue
		}
		hits = append(hits, Hit{Entity: e, Role: v.role, Box: v.box, Point: v.box.Center()})
	}
	return hits
}

// OverlapsCircle lists volumes whose footprint touches a vertical cylinder.
func (w *World) OverlapsCircle(center common.Vec3, radius, height float64, mask Role, ignore ...ecs.Entity) []Hit {
	bb := cp.BB{L: center.X - radius, B: center.Z - radius, R: center.X + radius, T: center.Z + radius}
	var hits []Hit
	for _, e := range w.candidates(bb, mask, ignore) {
		v := w.volumes[e]
		if center.Y >= v.box.Max.Y || center.Y+height <= v.box.Min.Y {
			continue
		}
		if !v.box.CircleOverlapXZ(center.X, center.Z, radius) {
			continue
		}
		hits = append(hits, Hit{Entity: e, Role: v.role, Box: v.box, Point: v.box.Center()})
	}
	return hits
}

// PointInside reports whether p lies inside any selected box grown by margin.
func (w *World) PointInside(p common.Vec3, mask Role, margin float64) bool {
	bb := cp.BB{L: p.X - margin, B: p.Z - margin, R: p.X + margin, T: p.Z + margin}
	for _, e := range w.candidates(bb, mask, nil) {
		v := w.volumes[e]
		g := v.box.Expand(margin)
		if g.ContainsXZ(p.X, p.Z) && p.Y >= g.Min.Y && p.Y <= g.Max.Y {
			return true
		}
	}
	return false
}

// PointInsideXZ ignores height, for ground-plane placement checks.
func (w *World) PointInsideXZ(x, z float64, mask Role, margin float64) bool {
	bb := cp.BB{L: x - margin, B: z - margin, R: x + margin, T: z + margin}
	for _, e := range w.candidates(bb, mask, nil) {
		if w.volumes[e].box.Expand(margin).ContainsXZ(x, z) {
			return true
		}
	}
	return false
}

// GroundHeight casts straight down from (x, fromY, z) and returns the highest
// box top at or below fromY.
func (w *World) GroundHeight(x, z, fromY float64, mask Role, ignore ...ecs.Entity) (float64, bool) {
	const eps = 1e-6
	bb := cp.BB{L: x, B: z, R: x, T: z}
	best := math.Inf(-1)
	for _, e := range w.candidates(bb, mask, ignore) {
		v := w.volumes[e]
		if !v.box.ContainsXZ(x, z) {
			continue
		}
		top := v.box.Max.Y
		if top <= fromY+eps && top > best {
			best = top
		}
	}
	if math.IsInf(best, -1) {
		return 0, false
	}
	return best, true
}
