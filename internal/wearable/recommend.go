package wearable

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

type GoalType string

const (
	GoalLoseWeight GoalType = "Lose Weight"
	GoalGainWeight GoalType = "Gain Weight"

	MinWeightChange     = 0.1
	MaxWeightChange     = 100.0
	DefaultWeightChange = 1.0
)

var (
	ErrUnknownGoal         = errors.New("unknown goal type")
	ErrInvalidWeightChange = fmt.Errorf("weight change must be within [%.1f, %.1f] kg", MinWeightChange, MaxWeightChange)
	ErrNoRows              = errors.New("no device data rows")
)

func ParseGoalType(raw string) (GoalType, error) {
	switch strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(raw))) {
	case "", "lose weight", "lose":
		return GoalLoseWeight, nil
	case "gain weight", "gain":
		return GoalGainWeight, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownGoal, raw)
}

type Recommendation struct {
	TargetWeight float64 `json:"target_weight"`
	StepsGoal    float64 `json:"steps_goal"`
	CaloriesGoal float64 `json:"calories_goal"`
	SleepGoal    float64 `json:"sleep_goal"`
}

// Recommend derives daily goals from the average activity in rows.
func Recommend(rows []Row, goal GoalType, weightChange, currentWeight float64) (*Recommendation, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if weightChange < MinWeightChange || weightChange > MaxWeightChange {
		return nil, ErrInvalidWeightChange
	}

	steps := make([]float64, len(rows))
	calories := make([]float64, len(rows))
	for i, r := range rows {
		steps[i] = float64(r.Steps)
		calories[i] = float64(r.Calories)
	}
	meanSteps := stat.Mean(steps, nil)
	meanCalories := stat.Mean(calories, nil)

	switch goal {
	case GoalLoseWeight:
		return &Recommendation{
			TargetWeight: currentWeight - weightChange,
			StepsGoal:    meanSteps + weightChange*100,
			CaloriesGoal: meanCalories + weightChange*50,
			SleepGoal:    7.5,
		}, nil
	case GoalGainWeight:
		return &Recommendation{
			TargetWeight: currentWeight + weightChange,
			StepsGoal:    meanSteps - weightChange*30,
			CaloriesGoal: meanCalories + weightChange*100,
			SleepGoal:    8,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownGoal, goal)
}

func Tips(goal GoalType) []string {
	if goal == GoalLoseWeight {
		return []string{
			"Aim to achieve your daily steps goal consistently.",
			"Maintain a calorie deficit (burning more than you consume).",
			"Ensure you get enough sleep, as rest is crucial for weight loss and recovery.",
			"Stay hydrated and focus on balanced nutrition.",
		}
	}
	return []string{
		"Focus on strength training exercises to build muscle.",
		"Ensure a calorie surplus (consume more than you burn).",
		"Get adequate sleep for muscle recovery.",
		"Stay hydrated and prioritize protein in your diet.",
	}
}
