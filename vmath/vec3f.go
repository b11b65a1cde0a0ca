package vmath

import (
	"errors"
	"math"
)

// Epsilon is the length below which a vector is treated as zero
const Epsilon = 1e-9

// ErrDegenerateGeometry reports a zero-length vector where a direction was required
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Vec3F is a float64 3D vector, +Y is up
type Vec3F struct {
	X float64 `json:"x" msgpack:"x" yaml:"x"`
	Y float64 `json:"y" msgpack:"y" yaml:"y"`
	Z float64 `json:"z" msgpack:"z" yaml:"z"`
}

// Up is the world vertical axis
var Up = Vec3F{Y: 1}

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

// V3FDist returns Euclidean distance between two points
func V3FDist(a, b Vec3F) float64 {
	return V3FMag(V3FSub(a, b))
}

// V3FLerp interpolates a→b by t without clamping
func V3FLerp(a, b Vec3F, t float64) Vec3F {
	return Vec3F{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// V3FNormalize returns the unit vector, or the zero vector for zero input
func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag == 0 {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3FDirection normalizes v, rejecting vectors shorter than Epsilon
func V3FDirection(v Vec3F) (Vec3F, error) {
	mag := V3FMag(v)
	if mag < Epsilon || math.IsNaN(mag) {
		return Vec3F{}, ErrDegenerateGeometry
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}, nil
}

// V3FNear reports component-wise equality within eps
func V3FNear(a, b Vec3F, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
