package vmath

// QuadBezier is a quadratic Bézier segment P0 → P2 bent by control point P1
type QuadBezier struct {
	P0, P1, P2 Vec3F
}

// NewArc builds the flight curve between start and target
// Control point is the midpoint lifted on +Y by 0.5 * distance * arcFactor
// Coincident endpoints produce a flat zero-length segment
func NewArc(start, target Vec3F, arcFactor float64) QuadBezier {
	mid := V3FLerp(start, target, 0.5)
	dist := V3FDist(start, target)
	if dist >= Epsilon {
		mid.Y += 0.5 * dist * arcFactor
	}
	return QuadBezier{P0: start, P1: mid, P2: target}
}

// Degenerate reports whether the segment has coincident endpoints
func (b QuadBezier) Degenerate() bool {
	return V3FDist(b.P0, b.P2) < Epsilon
}

// At evaluates the curve by De Casteljau subdivision
// t outside [0,1] is clamped
func (b QuadBezier) At(t float64) Vec3F {
	t = Clamp01(t)
	a := V3FLerp(b.P0, b.P1, t)
	c := V3FLerp(b.P1, b.P2, t)
	return V3FLerp(a, c, t)
}

// Derivative returns dB/dt = 2(1-t)(P1-P0) + 2t(P2-P1)
func (b QuadBezier) Derivative(t float64) Vec3F {
	t = Clamp01(t)
	d0 := V3FScale(V3FSub(b.P1, b.P0), 2*(1-t))
	d1 := V3FScale(V3FSub(b.P2, b.P1), 2*t)
	return V3FAdd(d0, d1)
}

// Tangent returns the unit tangent at t
// Returns ErrDegenerateGeometry where the derivative vanishes
func (b QuadBezier) Tangent(t float64) (Vec3F, error) {
	return V3FDirection(b.Derivative(t))
}
