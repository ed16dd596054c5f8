package pose

import (
	"math"
)

// Point is a 2-D joint coordinate. Pose models produce normalized values
// in [0, 1], but any finite coordinates are accepted.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Angle returns the unsigned angle at vertex b formed by the segments b->a and b->c,
// in degrees, within [0, 180].
// Coincident points yield whatever atan2(0, 0) gives (0), and any non-finite
// input or result yields 0.
func Angle(a, b, c Point) float64 {
	if !a.finite() || !b.finite() || !c.finite() {
		return 0
	}

	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180.0 / math.Pi)
	if angle > 180.0 {
		angle = 360 - angle
	}

	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}

	return angle
}
