package vmath

import (
	"errors"
	"math"
	"testing"
)

const testEps = 1e-9

// TestArcEndpoints verifies B(0) = start and B(1) = target
func TestArcEndpoints(t *testing.T) {
	cases := []struct {
		name          string
		start, target Vec3F
		arc           float64
	}{
		{"flat", Vec3F{0, 0, 0}, Vec3F{10, 0, 0}, 0.6},
		{"rising", Vec3F{-3, 1, 2}, Vec3F{4, 7, -5}, 1.2},
		{"vertical", Vec3F{0, 0, 0}, Vec3F{0, 5, 0}, 0.9},
		{"far", Vec3F{1000, -20, 3}, Vec3F{-1000, 40, 9}, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewArc(tc.start, tc.target, tc.arc)
			if got := b.At(0); !V3FNear(got, tc.start, 1e-6) {
				t.Errorf("At(0) = %+v, want %+v", got, tc.start)
			}
			if got := b.At(1); !V3FNear(got, tc.target, 1e-6) {
				t.Errorf("At(1) = %+v, want %+v", got, tc.target)
			}
		})
	}
}

// TestArcControlPointHeight verifies the control point lift
func TestArcControlPointHeight(t *testing.T) {
	b := NewArc(Vec3F{0, 0, 0}, Vec3F{10, 0, 0}, 0.8)

	wantY := 0.5 * 10 * 0.8
	if math.Abs(b.P1.Y-wantY) > testEps {
		t.Errorf("control Y = %f, want %f", b.P1.Y, wantY)
	}
	if math.Abs(b.P1.X-5) > testEps {
		t.Errorf("control X = %f, want 5", b.P1.X)
	}

	// Apex of symmetric arc sits at half the control lift
	apex := b.At(0.5)
	if math.Abs(apex.Y-wantY/2) > testEps {
		t.Errorf("apex Y = %f, want %f", apex.Y, wantY/2)
	}
}

// TestTangentFollowsCurve checks tangent direction at endpoints
func TestTangentFollowsCurve(t *testing.T) {
	b := NewArc(Vec3F{0, 0, 0}, Vec3F{10, 0, 0}, 1.0)

	t0, err := b.Tangent(0)
	if err != nil {
		t.Fatalf("Tangent(0): %v", err)
	}
	if t0.Y <= 0 || t0.X <= 0 {
		t.Errorf("launch tangent should climb forward, got %+v", t0)
	}
	if math.Abs(V3FMag(t0)-1) > 1e-9 {
		t.Errorf("tangent not unit length: %f", V3FMag(t0))
	}

	t1, err := b.Tangent(1)
	if err != nil {
		t.Fatalf("Tangent(1): %v", err)
	}
	if t1.Y >= 0 || t1.X <= 0 {
		t.Errorf("arrival tangent should descend forward, got %+v", t1)
	}
}

// TestDegenerateArc ensures zero-length segments never produce NaN
func TestDegenerateArc(t *testing.T) {
	p := Vec3F{3, 3, 3}
	b := NewArc(p, p, 1.2)

	if !b.Degenerate() {
		t.Fatal("expected degenerate segment")
	}
	if b.P1 != p {
		t.Errorf("control point should not be lifted, got %+v", b.P1)
	}

	for _, s := range []float64{0, 0.5, 1} {
		if _, err := b.Tangent(s); !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("Tangent(%f) err = %v, want ErrDegenerateGeometry", s, err)
		}
		pos := b.At(s)
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
			t.Errorf("At(%f) produced NaN", s)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tc := range cases {
		if got := Smoothstep(tc.in); math.Abs(got-tc.want) > testEps {
			t.Errorf("Smoothstep(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}

	// Monotonic on [0,1]
	prev := -1.0
	for i := 0; i <= 100; i++ {
		v := Smoothstep(float64(i) / 100)
		if v < prev {
			t.Fatalf("Smoothstep not monotonic at %d", i)
		}
		prev = v
	}
}

func TestApproach(t *testing.T) {
	if got := Approach(1, 0.5, 0.2); math.Abs(got-0.8) > testEps {
		t.Errorf("Approach down = %f, want 0.8", got)
	}
	if got := Approach(0.55, 0.5, 0.2); got != 0.5 {
		t.Errorf("Approach should snap to target, got %f", got)
	}
	if got := Approach(0, 1, 0.25); got != 0.25 {
		t.Errorf("Approach up = %f, want 0.25", got)
	}
}
