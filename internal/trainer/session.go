package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/2beens/dadhichi/internal/pose"
	"github.com/2beens/dadhichi/internal/reps"
	"github.com/2beens/dadhichi/internal/telemetry/metrics"
	"github.com/2beens/dadhichi/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrSessionAlreadyStarted = errors.New("session already started")

// frame skip reasons, used as metric labels
const (
	skipEstimatorError = "estimator_error"
	skipNoPose         = "no_pose"
	skipLowVisibility  = "low_visibility"
	skipNoEstimator    = "no_estimator"
)

type SessionParams struct {
	ID         string
	UserID     string
	Exercise   Exercise
	Confidence pose.Confidence
	Thresholds reps.Thresholds
	Source     FrameSource
	Estimator  PoseEstimator
	Metrics    *metrics.Manager
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId,omitempty"`
	Exercise        Exercise        `json:"exercise"`
	Confidence      pose.Confidence `json:"confidence"`
	Stage           string          `json:"stage"`
	Reps            int             `json:"reps"`
	LastAngle       float64         `json:"lastAngle"`
	FramesProcessed int             `json:"framesProcessed"`
	FramesSkipped   int             `json:"framesSkipped"`
	Running         bool            `json:"running"`
	StartedAt       time.Time       `json:"startedAt"`
	FinishedAt      *time.Time      `json:"finishedAt,omitempty"`
	Error           string          `json:"error,omitempty"`
	WorkoutID       int             `json:"workoutId,omitempty"`
}

// Session owns one capture loop. The source is released when Run returns.
type Session struct {
	id         string
	userID     string
	exercise   Exercise
	confidence pose.Confidence
	source     FrameSource
	estimator  PoseEstimator
	metrics    *metrics.Manager

	mu         sync.Mutex
	counter    *reps.Counter
	lastAngle  float64
	processed  int
	skipped    int
	started    bool
	running    bool
	stopped    bool
	startedAt  time.Time
	finishedAt time.Time
	runErr     error
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewSession(params SessionParams) (*Session, error) {
	if params.Source == nil {
		return nil, errors.New("frame source missing")
	}
	if params.Metrics == nil {
		return nil, errors.New("metrics manager missing")
	}
	if _, ok := exercises[params.Exercise]; !ok {
		return nil, ErrUnknownExercise
	}
	if err := params.Confidence.Validate(); err != nil {
		return nil, err
	}
	if err := params.Thresholds.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		id:         params.ID,
		userID:     params.UserID,
		exercise:   params.Exercise,
		confidence: params.Confidence,
		source:     params.Source,
		estimator:  params.Estimator,
		metrics:    params.Metrics,
		counter:    reps.NewCounter(params.Thresholds),
		running:    true,
		startedAt:  time.Now(),
		done:       make(chan struct{}),
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

// Run reads frames until the source is exhausted, the device fails, or the session is stopped.
// Stopping and exhausting the source are not errors.
func (s *Session) Run(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trainer.session.run")
	span.SetAttributes(
		attribute.String("session.id", s.id),
		attribute.String("exercise", string(s.exercise)),
	)

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		span.End()
		return ErrSessionAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	s.started = true
	s.cancel = cancel
	stopped := s.stopped
	s.mu.Unlock()

	defer func() {
		cancel()
		if closeErr := s.source.Close(); closeErr != nil {
			log.Errorf("session [%s]: release frame source: %s", s.id, closeErr)
		}

		s.mu.Lock()
		s.running = false
		s.finishedAt = time.Now()
		s.runErr = err
		s.mu.Unlock()
		close(s.done)

		span.SetAttributes(attribute.Int("reps", s.counter.Count()))
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if stopped {
		return nil
	}

	log.Debugf("session [%s]: capture loop started for [%s]", s.id, s.exercise)
	for {
		frame, err := s.source.Read(ctx)
		if ctx.Err() != nil {
			log.Debugf("session [%s]: stopped", s.id)
			return nil
		}
		if errors.Is(err, io.EOF) {
			log.Debugf("session [%s]: frame source exhausted", s.id)
			return nil
		}
		if err != nil {
			log.Errorf("session [%s]: read frame: %s", s.id, err)
			return fmt.Errorf("read frame: %w", err)
		}

		s.processFrame(ctx, frame)
	}
}

func (s *Session) processFrame(ctx context.Context, frame Frame) {
	landmarks := frame.Landmarks
	if len(landmarks) == 0 {
		if len(frame.Image) == 0 {
			s.skip(skipNoPose)
			return
		}
		if s.estimator == nil {
			s.skip(skipNoEstimator)
			return
		}

		var err error
		landmarks, err = s.estimator.Estimate(ctx, frame.Image, s.confidence)
		if errors.Is(err, pose.ErrNoPose) {
			s.skip(skipNoPose)
			return
		} else if err != nil {
			log.Warnf("session [%s]: estimate pose: %s", s.id, err)
			s.skip(skipEstimatorError)
			return
		}
	}

	angle, ok := landmarks.JointAngle(s.exercise.Joint(), s.confidence.Detection)
	if !ok {
		s.skip(skipLowVisibility)
		return
	}

	s.mu.Lock()
	s.processed++
	s.lastAngle = angle
	counted := s.exercise.CountsReps() && s.counter.Observe(angle)
	count := s.counter.Count()
	s.mu.Unlock()

	s.metrics.CounterFramesProcessed.Inc()
	if counted {
		s.metrics.CounterRepsCounted.WithLabelValues(string(s.exercise)).Inc()
		log.Tracef("session [%s]: rep %d counted", s.id, count)
	}
}

func (s *Session) skip(reason string) {
	s.mu.Lock()
	s.skipped++
	s.mu.Unlock()
	s.metrics.CounterFramesSkipped.WithLabelValues(reason).Inc()
	log.Tracef("session [%s]: frame skipped: %s", s.id, reason)
}

// Stop asks the capture loop to exit. Safe to call more than once, and before Run.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until Run returns, or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.runErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.counter.State()
	snap := Snapshot{
		ID:              s.id,
		UserID:          s.userID,
		Exercise:        s.exercise,
		Confidence:      s.confidence,
		Stage:           state.Stage.String(),
		Reps:            state.Count,
		LastAngle:       s.lastAngle,
		FramesProcessed: s.processed,
		FramesSkipped:   s.skipped,
		Running:         s.running,
		StartedAt:       s.startedAt,
	}
	if !s.finishedAt.IsZero() {
		finishedAt := s.finishedAt
		snap.FinishedAt = &finishedAt
	}
	if s.runErr != nil {
		snap.Error = s.runErr.Error()
	}
	return snap
}
