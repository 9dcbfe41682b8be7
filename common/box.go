package common

import "math"

// Box is an axis-aligned bounding box in world space.
type Box struct {
	Min Vec3
	Max Vec3
}

// BoxAt builds a box centered on c in X/Z whose bottom sits at c.Y.
func BoxAt(c Vec3, halfX, height, halfZ float64) Box {
	return Box{
		Min: Vec3{X: c.X - halfX, Y: c.Y, Z: c.Z - halfZ},
		Max: Vec3{X: c.X + halfX, Y: c.Y + height, Z: c.Z + halfZ},
	}
}

// CenteredBox builds a box of the given full size centered on c.
func CenteredBox(c, size Vec3) Box {
	h := size.Scale(0.5)
	return Box{Min: c.Sub(h), Max: c.Add(h)}
}

func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

func (b Box) Translate(d Vec3) Box {
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Expand grows the box by m on every side.
func (b Box) Expand(m float64) Box {
	d := Vec3{X: m, Y: m, Z: m}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

func (b Box) Intersects(o Box) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ContainsXZ ignores height.
func (b Box) ContainsXZ(x, z float64) bool {
	return x >= b.Min.X && x <= b.Max.X && z >= b.Min.Z && z <= b.Max.Z
}

// CircleOverlapXZ reports whether a circle in the XZ plane touches the box
// footprint, using the closest point on the footprint to the center.
func (b Box) CircleOverlapXZ(x, z, r float64) bool {
	cx := Clamp(x, b.Min.X, b.Max.X)
	cz := Clamp(z, b.Min.Z, b.Max.Z)
	dx, dz := x-cx, z-cz
	return dx*dx+dz*dz < r*r
}

// RayIntersect runs a slab test and returns the entry distance along dir.
// dir does not need to be normalized; the distance is in units of |dir|.
// A ray starting inside the box reports distance 0.
func (b Box) RayIntersect(origin, dir Vec3) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (lo[i] - o[i]) * inv
		t2 := (hi[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
