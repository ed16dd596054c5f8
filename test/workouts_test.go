package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/dadhichi/internal/pose"
	"github.com/2beens/dadhichi/internal/trainer"
	"github.com/2beens/dadhichi/internal/workouts"
)

func (s *IntegrationTestSuite) TestWorkoutsRepo() {
	ctx := context.Background()
	repo := workouts.NewRepo(s.dbPool)

	start := time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		w, err := repo.Add(ctx, &workouts.Workout{
			UserID:          "uid-repo",
			Exercise:        string(trainer.ExerciseBicepCurl),
			Reps:            10 + i,
			FramesProcessed: 100,
			FramesSkipped:   i,
			StartedAt:       start.Add(time.Duration(i) * time.Hour),
			FinishedAt:      start.Add(time.Duration(i)*time.Hour + 10*time.Minute),
		})
		s.Require().NoError(err)
		s.Require().Positive(w.ID)
	}

	var rowsCount int
	s.Require().NoError(s.DB.QueryRow(`SELECT COUNT(*) FROM workout WHERE user_id = 'uid-repo'`).Scan(&rowsCount))
	s.Equal(3, rowsCount)

	count, err := repo.Count(ctx, "uid-repo")
	s.Require().NoError(err)
	s.Equal(3, count)

	page, err := repo.List(ctx, "uid-repo", 1, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(12, page[0].Reps)
	s.Equal(11, page[1].Reps)
	s.Equal(10*time.Minute, page[0].Duration())

	page, err = repo.List(ctx, "uid-repo", 2, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(10, page[0].Reps)

	got, err := repo.Get(ctx, page[0].ID)
	s.Require().NoError(err)
	s.Equal("uid-repo", got.UserID)
	s.True(start.Equal(got.StartedAt))

	_, err = repo.Get(ctx, 999999)
	s.ErrorIs(err, workouts.ErrWorkoutNotFound)

	_, err = repo.List(ctx, "", 0, 10)
	s.Error(err)
	_, err = repo.List(ctx, "uid-repo", 1, workouts.MaxPageSize+1)
	s.Error(err)
}

func curlSample(angleDeg float64) pose.Landmarks {
	lms := make(pose.Landmarks, pose.LandmarksCount)
	for i := range lms {
		lms[i].Visibility = 1
	}
	// elbow at the origin, shoulder straight above it, wrist rotated by the angle
	lms[pose.LeftShoulder] = pose.Landmark{X: 0.5, Y: 0.3, Visibility: 1}
	lms[pose.LeftElbow] = pose.Landmark{X: 0.5, Y: 0.5, Visibility: 1}
	switch {
	case angleDeg >= 180:
		lms[pose.LeftWrist] = pose.Landmark{X: 0.5, Y: 0.7, Visibility: 1}
	default:
		// 30 degrees from the upper arm
		lms[pose.LeftWrist] = pose.Landmark{X: 0.6, Y: 0.3268, Visibility: 1}
	}
	return lms
}

func (s *IntegrationTestSuite) TestTrainerSessionSavesWorkout() {
	ctx := context.Background()
	token := doLogin(ctx, s.T())
	defer doLogout(ctx, s.T(), token)

	status, body := doRequest(ctx, s.T(), "POST", "/trainer/sessions", token, trainer.StartSessionRequest{
		Exercise: string(trainer.ExerciseBicepCurl),
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	var snap trainer.Snapshot
	s.Require().NoError(json.Unmarshal(body, &snap))
	s.Equal(testUserID, snap.UserID)

	samplesPath := fmt.Sprintf("/trainer/sessions/%s/samples", snap.ID)
	for _, angle := range []float64{180, 30, 180, 30} {
		status, body = doRequest(ctx, s.T(), "POST", samplesPath, token, trainer.PushSampleRequest{
			Landmarks: curlSample(angle),
		})
		s.Require().Equal(http.StatusAccepted, status, string(body))
	}

	sessionPath := fmt.Sprintf("/trainer/sessions/%s", snap.ID)
	s.Eventually(func() bool {
		status, body = doRequest(ctx, s.T(), "GET", sessionPath, token, nil)
		if status != http.StatusOK {
			return false
		}
		var current trainer.Snapshot
		if err := json.Unmarshal(body, &current); err != nil {
			return false
		}
		return current.Reps == 2
	}, 5*time.Second, 50*time.Millisecond)

	status, body = doRequest(ctx, s.T(), "DELETE", sessionPath, token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var final trainer.Snapshot
	s.Require().NoError(json.Unmarshal(body, &final))
	s.Equal(2, final.Reps)
	s.False(final.Running)
	s.Require().Positive(final.WorkoutID)

	status, body = doRequest(ctx, s.T(), "GET", fmt.Sprintf("/workouts/%d", final.WorkoutID), token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var saved workouts.Workout
	s.Require().NoError(json.Unmarshal(body, &saved))
	s.Equal(testUserID, saved.UserID)
	s.Equal(2, saved.Reps)
	s.Equal(4, saved.FramesProcessed)

	other, err := workouts.NewRepo(s.dbPool).Add(ctx, &workouts.Workout{
		UserID:     "uid-other",
		Exercise:   string(trainer.ExerciseSquat),
		Reps:       20,
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
	})
	s.Require().NoError(err)

	// the user query param does not widen the listing
	status, body = doRequest(ctx, s.T(), "GET", "/workouts/list/page/1/size/10?user=uid-other", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var list workouts.WorkoutsListResponse
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Equal(1, list.Total)
	s.Require().Len(list.Workouts, 1)
	s.Equal(final.WorkoutID, list.Workouts[0].ID)

	status, _ = doRequest(ctx, s.T(), "GET", fmt.Sprintf("/workouts/%d", other.ID), token, nil)
	s.Equal(http.StatusNotFound, status)

	status, _ = doRequest(ctx, s.T(), "GET", "/workouts/list/page/1/size/101", token, nil)
	s.Equal(http.StatusBadRequest, status)

	// the session is gone once stopped
	status, _ = doRequest(ctx, s.T(), "GET", sessionPath, token, nil)
	s.Equal(http.StatusNotFound, status)
}
