package systems

import (
	"math"

	"github.com/pthm-cable/beehive/components"
)

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float32) float32 {
	a := float64(angle)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	return float32(math.Remainder(a, 2*math.Pi))
}

func isFinite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// distanceSq returns the squared distance between two positions.
func distanceSq(a, b components.Position) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the Euclidean distance between two positions.
func Distance(a, b components.Position) float32 {
	return float32(math.Sqrt(float64(distanceSq(a, b))))
}

// Touching reports whether two bodies overlap: distance < rA + rB.
func Touching(a components.Position, ra float32, b components.Position, rb float32) bool {
	r := ra + rb
	return distanceSq(a, b) < r*r
}

// length3 returns the magnitude of a vector.
func length3(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y + z*z)))
}
