package trainer

import (
	"errors"
	"strings"

	"github.com/2beens/dadhichi/internal/pose"
)

type Exercise string

const (
	ExerciseBicepCurl Exercise = "bicep_curl"
	ExerciseSquat     Exercise = "squat"
	ExercisePushUp    Exercise = "push_up"
)

var ErrUnknownExercise = errors.New("unknown exercise")

var exercises = map[Exercise]struct {
	joint  pose.Joint
	counts bool
}{
	ExerciseBicepCurl: {joint: pose.LeftArmJoint, counts: true},
	ExerciseSquat:     {joint: pose.LeftLegJoint},
	ExercisePushUp:    {joint: pose.LeftArmJoint},
}

func ParseExercise(s string) (Exercise, error) {
	e := Exercise(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	if e == "" {
		return ExerciseBicepCurl, nil
	}
	if _, ok := exercises[e]; !ok {
		return "", ErrUnknownExercise
	}
	return e, nil
}

// CountsReps reports whether the rep counter runs for this exercise.
// Only the curl has calibrated thresholds, the rest are tracked without counting.
func (e Exercise) CountsReps() bool {
	return exercises[e].counts
}

func (e Exercise) Joint() pose.Joint {
	return exercises[e].joint
}

func Exercises() []Exercise {
	return []Exercise{ExerciseBicepCurl, ExerciseSquat, ExercisePushUp}
}
