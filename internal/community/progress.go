package community

import "fmt"

const (
	WeeklyStepsGoal  = 20000
	DefaultUserSteps = 12000
	FriendMinSteps   = 5000
	FriendMaxSteps   = 15000
)

type Progress struct {
	Steps       int     `json:"steps"`
	Goal        int     `json:"goal"`
	Ratio       float64 `json:"ratio"`
	FriendSteps int     `json:"friendSteps"`
}

// Progress compares the user's weekly steps with the goal and a friend.
func (s *Service) Progress(steps int) (*Progress, error) {
	if steps < 0 || steps > WeeklyStepsGoal {
		return nil, fmt.Errorf("%w: steps must be within [0, %d]", ErrInvalidSteps, WeeklyStepsGoal)
	}

	return &Progress{
		Steps:       steps,
		Goal:        WeeklyStepsGoal,
		Ratio:       float64(steps) / WeeklyStepsGoal,
		FriendSteps: s.randomSteps(FriendMinSteps, FriendMaxSteps),
	}, nil
}
