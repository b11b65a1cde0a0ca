package engine

import "github.com/lixenwraith/dockstrike/vmath"

// Physics is the externally owned rigid-body collaborator
// The core reads cell positions and nudges velocities; it never integrates them
type Physics interface {
	// CellPosition returns the current world-space center of a cell
	CellPosition(cellID int) (vmath.Vec3F, bool)

	// ApplyLinearImpulse adds a velocity change to a cell
	ApplyLinearImpulse(cellID int, impulse vmath.Vec3F)

	// ApplyAngularImpulse adds angular velocity about axis
	ApplyAngularImpulse(cellID int, axis vmath.Vec3F, magnitude float64)
}
