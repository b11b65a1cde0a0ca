package vmath

import "math"

// goldenAngle is π(3 - √5), the angular step of a Fibonacci lattice
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// FibonacciSphere distributes n points evenly over a sphere of given radius
// Point order is deterministic for a given n
func FibonacciSphere(n int, radius float64) []Vec3F {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []Vec3F{{Y: radius}}
	}
	points := make([]Vec3F, n)
	for i := 0; i < n; i++ {
		y := 1 - 2*float64(i)/float64(n-1)
		r := math.Sqrt(math.Max(0, 1-y*y))
		theta := goldenAngle * float64(i)
		points[i] = Vec3F{
			X: math.Cos(theta) * r * radius,
			Y: y * radius,
			Z: math.Sin(theta) * r * radius,
		}
	}
	return points
}
