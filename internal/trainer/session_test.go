package trainer

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/2beens/dadhichi/internal/pose"
	"github.com/2beens/dadhichi/internal/reps"
	"github.com/2beens/dadhichi/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// jointSample builds landmarks whose joint angle equals the given degrees.
func jointSample(j pose.Joint, degrees, visibility float64) pose.Landmarks {
	lms := make(pose.Landmarks, pose.LandmarksCount)
	rad := degrees * math.Pi / 180
	vertex := pose.Landmark{X: 0.5, Y: 0.5, Visibility: visibility}
	lms[j.Vertex] = vertex
	lms[j.Proximal] = pose.Landmark{X: 0.5, Y: 0.3, Visibility: visibility}
	lms[j.Distal] = pose.Landmark{
		X:          vertex.X + 0.2*math.Sin(rad),
		Y:          vertex.Y - 0.2*math.Cos(rad),
		Visibility: visibility,
	}
	return lms
}

func armFrames(angles ...float64) []Frame {
	var frames []Frame
	for _, a := range angles {
		frames = append(frames, Frame{Landmarks: jointSample(pose.LeftArmJoint, a, 0.9)})
	}
	return frames
}

type estimatorFunc func(ctx context.Context, frame []byte, conf pose.Confidence) (pose.Landmarks, error)

func (f estimatorFunc) Estimate(ctx context.Context, frame []byte, conf pose.Confidence) (pose.Landmarks, error) {
	return f(ctx, frame, conf)
}

// failingSource yields its frames, then fails like an unplugged device.
type failingSource struct {
	*SliceSource
}

func (s failingSource) Read(ctx context.Context) (Frame, error) {
	frame, err := s.SliceSource.Read(ctx)
	if errors.Is(err, io.EOF) {
		return Frame{}, ErrDeviceUnavailable
	}
	return frame, err
}

func newTestSession(t *testing.T, exercise Exercise, source FrameSource, estimator PoseEstimator) (*Session, *metrics.Manager) {
	t.Helper()
	m := metrics.NewTestManager()
	s, err := NewSession(SessionParams{
		ID:         "test-session",
		UserID:     "user-1",
		Exercise:   exercise,
		Confidence: pose.DefaultConfidences(),
		Thresholds: reps.DefaultThresholds(),
		Source:     source,
		Estimator:  estimator,
		Metrics:    m,
	})
	require.NoError(t, err)
	return s, m
}

func TestJointSample(t *testing.T) {
	for _, a := range []float64{10, 30, 90, 160, 175} {
		angle, ok := jointSample(pose.LeftArmJoint, a, 1).JointAngle(pose.LeftArmJoint, 0.5)
		require.True(t, ok)
		assert.InDelta(t, a, angle, 0.0001)
	}
}

func TestSession_RunCountsReps(t *testing.T) {
	source := NewSliceSource(armFrames(160, 30, 160, 30))
	s, m := newTestSession(t, ExerciseBicepCurl, source, nil)

	require.True(t, s.Snapshot().Running)
	require.NoError(t, s.Run(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Reps)
	assert.Equal(t, "up", snap.Stage)
	assert.Equal(t, 4, snap.FramesProcessed)
	assert.Equal(t, 0, snap.FramesSkipped)
	assert.False(t, snap.Running)
	assert.NotNil(t, snap.FinishedAt)
	assert.Empty(t, snap.Error)
	assert.InDelta(t, 30, snap.LastAngle, 0.0001)
	assert.True(t, source.Closed())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterRepsCounted.WithLabelValues("bicep_curl")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CounterFramesProcessed))

	assert.ErrorIs(t, s.Run(context.Background()), ErrSessionAlreadyStarted)
}

func TestSession_SkipsBadFrames(t *testing.T) {
	frames := []Frame{
		// nothing in it
		{},
		// barely visible
		{Landmarks: jointSample(pose.LeftArmJoint, 160, 0.2)},
		{Image: []byte("nobody")},
		{Image: []byte("broken")},
		{Image: []byte("person-160")},
		{Image: []byte("person-20")},
		// joint not in sample
		{Landmarks: pose.Landmarks{{X: 1, Y: 1}}},
	}
	estimator := estimatorFunc(func(ctx context.Context, frame []byte, conf pose.Confidence) (pose.Landmarks, error) {
		assert.Equal(t, pose.DefaultConfidences(), conf)
		switch string(frame) {
		case "nobody":
			return nil, pose.ErrNoPose
		case "person-160":
			return jointSample(pose.LeftArmJoint, 160, 0.9), nil
		case "person-20":
			return jointSample(pose.LeftArmJoint, 20, 0.9), nil
		default:
			return nil, errors.New("model crashed")
		}
	})

	s, m := newTestSession(t, ExerciseBicepCurl, NewSliceSource(frames), estimator)
	require.NoError(t, s.Run(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Reps)
	assert.Equal(t, 2, snap.FramesProcessed)
	assert.Equal(t, 5, snap.FramesSkipped)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterFramesSkipped.WithLabelValues(skipNoPose)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterFramesSkipped.WithLabelValues(skipLowVisibility)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterFramesSkipped.WithLabelValues(skipEstimatorError)))
}

func TestSession_ImageWithoutEstimator(t *testing.T) {
	s, m := newTestSession(t, ExerciseBicepCurl, NewSliceSource([]Frame{{Image: []byte("img")}}), nil)
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, s.Snapshot().FramesSkipped)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterFramesSkipped.WithLabelValues(skipNoEstimator)))
}

func TestSession_DeviceUnavailable(t *testing.T) {
	source := failingSource{NewSliceSource(armFrames(170, 20))}
	s, _ := newTestSession(t, ExerciseBicepCurl, source, nil)

	err := s.Run(context.Background())
	require.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.ErrorIs(t, s.Wait(context.Background()), ErrDeviceUnavailable)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Reps)
	assert.False(t, snap.Running)
	assert.Contains(t, snap.Error, ErrDeviceUnavailable.Error())
	assert.True(t, source.Closed())
}

func TestSession_Stop(t *testing.T) {
	source := NewPushSource(4, 0)
	s, _ := newTestSession(t, ExerciseBicepCurl, source, nil)

	runErr := make(chan error, 1)
	go func() {
		runErr <- s.Run(context.Background())
	}()

	for _, f := range armFrames(165, 25) {
		require.True(t, source.Push(f))
	}
	require.Eventually(t, func() bool {
		return s.Snapshot().Reps == 1
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()

	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("capture loop did not stop")
	}

	<-s.Done()
	assert.False(t, s.Snapshot().Running)
	// source released
	assert.False(t, source.Push(armFrames(160)[0]))
}

func TestSession_StopBeforeRun(t *testing.T) {
	source := NewSliceSource(armFrames(160, 30))
	s, _ := newTestSession(t, ExerciseBicepCurl, source, nil)

	s.Stop()
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 0, s.Snapshot().FramesProcessed)
	assert.True(t, source.Closed())
}

func TestSession_ContextCancel(t *testing.T) {
	s, _ := newTestSession(t, ExerciseBicepCurl, NewPushSource(1, 0), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	require.NoError(t, s.Run(ctx))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	assert.NoError(t, s.Wait(waitCtx))
}

func TestSession_TrackedExerciseDoesNotCount(t *testing.T) {
	var frames []Frame
	for _, a := range []float64{170, 20, 170, 20} {
		frames = append(frames, Frame{Landmarks: jointSample(pose.LeftLegJoint, a, 0.9)})
	}
	s, _ := newTestSession(t, ExerciseSquat, NewSliceSource(frames), nil)
	require.NoError(t, s.Run(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Reps)
	assert.Equal(t, "unset", snap.Stage)
	assert.Equal(t, 4, snap.FramesProcessed)
}

func TestNewSession_Invalid(t *testing.T) {
	m := metrics.NewTestManager()
	base := SessionParams{
		Exercise:   ExerciseBicepCurl,
		Confidence: pose.DefaultConfidences(),
		Thresholds: reps.DefaultThresholds(),
		Source:     NewSliceSource(nil),
		Metrics:    m,
	}

	p := base
	p.Source = nil
	_, err := NewSession(p)
	assert.Error(t, err)

	p = base
	p.Exercise = "plank"
	_, err = NewSession(p)
	assert.ErrorIs(t, err, ErrUnknownExercise)

	p = base
	p.Confidence = pose.Confidence{Detection: 0, Tracking: 0.5}
	_, err = NewSession(p)
	assert.ErrorIs(t, err, pose.ErrInvalidConfidence)

	p = base
	p.Thresholds = reps.Thresholds{Down: 40, Up: 150}
	_, err = NewSession(p)
	assert.ErrorIs(t, err, reps.ErrInvalidThresholds)
}

func TestPushSource(t *testing.T) {
	source := NewPushSource(2, 0)
	assert.True(t, source.Push(Frame{Image: []byte("1")}))
	assert.True(t, source.Push(Frame{Image: []byte("2")}))
	// full, dropped
	assert.False(t, source.Push(Frame{Image: []byte("3")}))
	assert.Equal(t, 1, source.Dropped())

	require.NoError(t, source.Close())
	require.NoError(t, source.Close())
	assert.False(t, source.Push(Frame{Image: []byte("4")}))

	ctx := context.Background()
	f, err := source.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", string(f.Image))
	assert.False(t, f.CapturedAt.IsZero())
	f, err = source.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", string(f.Image))
	_, err = source.Read(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPushSource_ReadHonorsContext(t *testing.T) {
	source := NewPushSource(1, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := source.Read(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPushSource_IdleTimeout(t *testing.T) {
	source := NewPushSource(1, 20*time.Millisecond)
	require.True(t, source.Push(Frame{Image: []byte("1")}))

	f, err := source.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", string(f.Image))

	start := time.Now()
	_, err = source.Read(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	// an idle source stays closed
	assert.False(t, source.Push(Frame{Image: []byte("2")}))
}

func TestParseExercise(t *testing.T) {
	e, err := ParseExercise("")
	require.NoError(t, err)
	assert.Equal(t, ExerciseBicepCurl, e)

	e, err = ParseExercise("Push Up")
	require.NoError(t, err)
	assert.Equal(t, ExercisePushUp, e)
	assert.False(t, e.CountsReps())

	_, err = ParseExercise("deadlift")
	assert.ErrorIs(t, err, ErrUnknownExercise)
	assert.True(t, ExerciseBicepCurl.CountsReps())
}
