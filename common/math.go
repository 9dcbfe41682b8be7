package common

import "math"

// Vec3 is a point or direction in world space. Y is up; the ground plane is XZ.
type Vec3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64         { return math.Sqrt(a.Dot(a)) }

// Flat drops the vertical component.
func (a Vec3) Flat() Vec3 { return Vec3{a.X, 0, a.Z} }

// Normalize returns a unit vector, or the zero vector for a zero input.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

func (a Vec3) Dist(b Vec3) float64 { return b.Sub(a).Len() }

// FlatDist is the distance on the ground plane.
func (a Vec3) FlatDist(b Vec3) float64 {
	return math.Hypot(b.X-a.X, b.Z-a.Z)
}

func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Damp is the frame-rate independent interpolation factor for exponential
// smoothing with the given rate.
func Damp(rate, dt float64) float64 {
	if rate <= 0 {
		return 1
	}
	return 1 - math.Exp(-rate*dt)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Forward is the horizontal facing direction for a yaw angle. Yaw 0 faces -Z.
func Forward(yaw float64) Vec3 {
	return Vec3{X: -math.Sin(yaw), Z: -math.Cos(yaw)}
}

// Right is the horizontal right-hand direction for a yaw angle.
func Right(yaw float64) Vec3 {
	return Vec3{X: math.Cos(yaw), Z: -math.Sin(yaw)}
}

// Aim is the look direction for a yaw and pitch.
func Aim(yaw, pitch float64) Vec3 {
	c := math.Cos(pitch)
	return Vec3{X: -math.Sin(yaw) * c, Y: math.Sin(pitch), Z: -math.Cos(yaw) * c}
}

// YawTowards returns the yaw that makes Forward point from a to b.
func YawTowards(a, b Vec3) float64 {
	d := b.Sub(a)
	return math.Atan2(-d.X, -d.Z)
}

// PitchTowards returns the pitch that makes Aim point from a to b.
func PitchTowards(a, b Vec3) float64 {
	d := b.Sub(a)
	return math.Atan2(d.Y, math.Hypot(d.X, d.Z))
}
