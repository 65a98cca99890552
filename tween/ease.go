package tween

// Easing maps linear progress t in [0,1] to eased progress
type Easing func(t float64) float64

// Linear is the identity easing
func Linear(t float64) float64 { return t }

// QuadraticIn accelerates from zero velocity
func QuadraticIn(t float64) float64 { return t * t }

// QuadraticOut decelerates to zero velocity
func QuadraticOut(t float64) float64 { return t * (2 - t) }

// QuadraticInOut accelerates until halfway, then decelerates
func QuadraticInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// ByName resolves an easing from its config name, falling back to QuadraticOut
func ByName(name string) Easing {
	switch name {
	case "linear":
		return Linear
	case "quad-in":
		return QuadraticIn
	case "quad-in-out":
		return QuadraticInOut
	default:
		return QuadraticOut
	}
}

// Lerp linearly interpolates between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
