package pose

// Landmark indices as produced by the 33-point body pose model.
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28

	LandmarksCount = 33
)

type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

func (l Landmark) Point() Point {
	return Point{X: l.X, Y: l.Y}
}

// Landmarks is one pose sample, indexed by the constants above.
type Landmarks []Landmark

// Joint is a (proximal, vertex, distal) triple of landmark indices.
type Joint struct {
	Proximal int
	Vertex   int
	Distal   int
}

var (
	LeftArmJoint  = Joint{Proximal: LeftShoulder, Vertex: LeftElbow, Distal: LeftWrist}
	RightArmJoint = Joint{Proximal: RightShoulder, Vertex: RightElbow, Distal: RightWrist}
	LeftLegJoint  = Joint{Proximal: LeftHip, Vertex: LeftKnee, Distal: LeftAnkle}
)

// LeftArm extracts the left shoulder, elbow and wrist, regardless of visibility.
func LeftArm(lms Landmarks) (shoulder, elbow, wrist Point, ok bool) {
	return lms.Points(LeftArmJoint, 0)
}

// Points returns the three joint coordinates. ok is false when the sample does
// not contain the joint, or when any of its landmarks is less visible than minVisibility.
func (lms Landmarks) Points(j Joint, minVisibility float64) (proximal, vertex, distal Point, ok bool) {
	maxIdx := max(j.Proximal, j.Vertex, j.Distal)
	if maxIdx >= len(lms) {
		return Point{}, Point{}, Point{}, false
	}

	for _, idx := range []int{j.Proximal, j.Vertex, j.Distal} {
		if lms[idx].Visibility < minVisibility {
			return Point{}, Point{}, Point{}, false
		}
	}

	return lms[j.Proximal].Point(), lms[j.Vertex].Point(), lms[j.Distal].Point(), true
}

// JointAngle computes the angle at the joint vertex.
func (lms Landmarks) JointAngle(j Joint, minVisibility float64) (float64, bool) {
	a, b, c, ok := lms.Points(j, minVisibility)
	if !ok {
		return 0, false
	}
	return Angle(a, b, c), true
}
