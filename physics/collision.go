package physics

import (
	"math"

	"github.com/lixenwraith/dockstrike/vmath"
)

// overlapMargin is extra separation added when pushing spheres apart
const overlapMargin = 0.0625

// elasticCollision exchanges momentum along the contact normal
// Returns false if the bodies coincide or are already separating
func elasticCollision(posA, posB, velA, velB *vmath.Vec3F, massA, massB, restitution float64) bool {
	delta := vmath.V3FSub(*posB, *posA)
	n, err := vmath.V3FDirection(delta)
	if err != nil {
		return false
	}

	vn := vmath.V3FDot(vmath.V3FSub(*velA, *velB), n)
	if vn <= 0 {
		return false
	}

	invA := 1 / massA
	invB := 1 / massB
	j := (1 + restitution) * vn / (invA + invB)

	*velA = vmath.V3FSub(*velA, vmath.V3FScale(n, j*invA))
	*velB = vmath.V3FAdd(*velB, vmath.V3FScale(n, j*invB))
	return true
}

// separateOverlap pushes overlapping spheres apart, heavier body moving less
func separateOverlap(posA, posB *vmath.Vec3F, radiusA, radiusB, massA, massB float64) bool {
	delta := vmath.V3FSub(*posB, *posA)
	distSq := vmath.V3FMagSq(delta)
	minDist := radiusA + radiusB

	if distSq >= minDist*minDist || distSq == 0 {
		return false
	}

	dist := math.Sqrt(distSq)
	n := vmath.V3FScale(delta, 1/dist)
	overlap := minDist - dist + overlapMargin

	total := massA + massB
	*posA = vmath.V3FSub(*posA, vmath.V3FScale(n, overlap*massB/total))
	*posB = vmath.V3FAdd(*posB, vmath.V3FScale(n, overlap*massA/total))
	return true
}
