package workouts

import (
	"errors"
	"time"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// Workout is a finished trainer session.
type Workout struct {
	ID              int       `json:"id"`
	UserID          string    `json:"userId"`
	Exercise        string    `json:"exercise"`
	Reps            int       `json:"reps"`
	FramesProcessed int       `json:"framesProcessed"`
	FramesSkipped   int       `json:"framesSkipped"`
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt"`
}

func (w Workout) Duration() time.Duration {
	if w.FinishedAt.Before(w.StartedAt) {
		return 0
	}
	return w.FinishedAt.Sub(w.StartedAt)
}
