package vmath

// Clamp01 limits x to [0,1]
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Clamp limits x to [lo,hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Smoothstep is the cubic Hermite ease 3x² - 2x³ on clamped x
func Smoothstep(x float64) float64 {
	x = Clamp01(x)
	return x * x * (3 - 2*x)
}

// Approach moves current toward target by at most step
func Approach(current, target, step float64) float64 {
	if current < target {
		current += step
		if current > target {
			return target
		}
		return current
	}
	current -= step
	if current < target {
		return target
	}
	return current
}
