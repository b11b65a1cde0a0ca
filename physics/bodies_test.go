package physics

import (
	"math"
	"testing"

	"github.com/lixenwraith/dockstrike/engine"
	"github.com/lixenwraith/dockstrike/vmath"
)

func TestImpulseDecays(t *testing.T) {
	b := NewBodies()
	b.Add(1, vmath.Vec3F{}, 1)

	b.ApplyLinearImpulse(1, vmath.Vec3F{X: 1})
	b.Step(1.0 / 60)

	body, _ := b.Body(1)
	if body.Position.X <= 0 {
		t.Errorf("impulse should move the body, got %+v", body.Position)
	}
	if body.Velocity.X >= 1 || body.Velocity.X <= 0 {
		t.Errorf("velocity should decay toward zero, got %v", body.Velocity.X)
	}

	for i := 0; i < 6000; i++ {
		b.Step(1.0 / 60)
	}
	body, _ = b.Body(1)
	if body.Velocity.X > 1e-6 {
		t.Errorf("velocity should settle, got %v", body.Velocity.X)
	}
}

func TestAngularImpulseSign(t *testing.T) {
	b := NewBodies()
	b.Add(1, vmath.Vec3F{}, 1)

	b.ApplyAngularImpulse(1, vmath.Up, 0.8)
	b.ApplyAngularImpulse(1, vmath.V3FScale(vmath.Up, -1), 0.3)

	body, _ := b.Body(1)
	if math.Abs(body.Spin-0.5) > 1e-12 {
		t.Errorf("opposite axis should subtract, spin=%v", body.Spin)
	}

	b.ApplyAngularImpulse(1, vmath.Vec3F{}, 5) // degenerate axis ignored
	body, _ = b.Body(1)
	if math.Abs(body.Spin-0.5) > 1e-12 {
		t.Errorf("zero axis must be ignored, spin=%v", body.Spin)
	}
}

func TestOverlapSeparates(t *testing.T) {
	b := NewBodies()
	b.Add(1, vmath.Vec3F{X: 0}, 1)
	b.Add(2, vmath.Vec3F{X: 1}, 1)

	b.Step(0)

	p1, _ := b.CellPosition(1)
	p2, _ := b.CellPosition(2)
	if d := vmath.V3FDist(p1, p2); d < 2 {
		t.Errorf("bodies still overlap at distance %v", d)
	}
}

func TestUnknownCell(t *testing.T) {
	b := NewBodies()
	if _, ok := b.CellPosition(9); ok {
		t.Error("unknown cell should not resolve")
	}
	b.ApplyLinearImpulse(9, vmath.Vec3F{X: 1})
	b.Remove(9)

	b.Add(3, vmath.Vec3F{}, 1)
	b.Remove(3)
	if b.Len() != 0 {
		t.Errorf("Expected empty, got %d", b.Len())
	}
}

func TestSystemUsesTickDelta(t *testing.T) {
	w := engine.NewWorld(nil)
	b := NewBodies()
	b.Add(1, vmath.Vec3F{}, 1)
	b.ApplyLinearImpulse(1, vmath.Vec3F{Z: 6})

	s := NewSystem(w, b)
	w.AddSystem(s)
	w.Update()

	p, _ := b.CellPosition(1)
	if math.Abs(p.Z-0.1) > 1e-9 {
		t.Errorf("one tick at 60Hz should move 0.1, got %v", p.Z)
	}
}
