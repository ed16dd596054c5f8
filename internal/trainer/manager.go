package trainer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/dadhichi/internal/pose"
	"github.com/2beens/dadhichi/internal/reps"
	"github.com/2beens/dadhichi/internal/telemetry/metrics"
	"github.com/2beens/dadhichi/internal/workouts"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFinished = errors.New("session finished")
	ErrTooManySessions = errors.New("too many active sessions")
)

const (
	persistTimeout = 5 * time.Second

	DefaultIdleTimeout       = 2 * time.Minute
	DefaultFinishedRetention = 10 * time.Minute
)

type workoutSaver interface {
	Add(ctx context.Context, workout *workouts.Workout) (*workouts.Workout, error)
}

type managedSession struct {
	userID     string
	session    *Session
	source     *PushSource
	finished   chan struct{}
	workoutID  int
	finishedAt time.Time
}

type ManagerParams struct {
	MaxSessions       int
	SampleBuffer      int
	// IdleTimeout ends a session when no frame is pushed for that long.
	IdleTimeout       time.Duration
	// FinishedRetention keeps sessions that ended without Stop readable for that long.
	FinishedRetention time.Duration
	Thresholds        reps.Thresholds
	Estimator         PoseEstimator
	WorkoutSaver      workoutSaver
	Metrics           *metrics.Manager
}

// Manager runs the sessions fed by remote clients.
type Manager struct {
	maxSessions       int
	sampleBuffer      int
	idleTimeout       time.Duration
	finishedRetention time.Duration
	thresholds        reps.Thresholds
	estimator         PoseEstimator
	saver             workoutSaver
	metrics           *metrics.Manager

	mu       sync.Mutex
	sessions map[string]*managedSession
	wg       sync.WaitGroup
}

func NewManager(params ManagerParams) *Manager {
	if params.IdleTimeout <= 0 {
		params.IdleTimeout = DefaultIdleTimeout
	}
	if params.FinishedRetention <= 0 {
		params.FinishedRetention = DefaultFinishedRetention
	}
	return &Manager{
		maxSessions:       params.MaxSessions,
		sampleBuffer:      params.SampleBuffer,
		idleTimeout:       params.IdleTimeout,
		finishedRetention: params.FinishedRetention,
		thresholds:        params.Thresholds,
		estimator:         params.Estimator,
		saver:             params.WorkoutSaver,
		metrics:           params.Metrics,
		sessions:          make(map[string]*managedSession),
	}
}

type StartParams struct {
	UserID     string
	Exercise   Exercise
	Confidence pose.Confidence
}

func (m *Manager) Start(params StartParams) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneFinished(time.Now())
	if m.maxSessions > 0 && m.activeCount() >= m.maxSessions {
		return Snapshot{}, ErrTooManySessions
	}

	source := NewPushSource(m.sampleBuffer, m.idleTimeout)
	session, err := NewSession(SessionParams{
		ID:         uuid.NewString(),
		UserID:     params.UserID,
		Exercise:   params.Exercise,
		Confidence: params.Confidence,
		Thresholds: m.thresholds,
		Source:     source,
		Estimator:  m.estimator,
		Metrics:    m.metrics,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("new session: %w", err)
	}

	ms := &managedSession{
		userID:   params.UserID,
		session:  session,
		source:   source,
		finished: make(chan struct{}),
	}
	m.sessions[session.ID()] = ms
	m.metrics.GaugeTrainerSessions.Inc()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(ms.finished)
		defer m.metrics.GaugeTrainerSessions.Dec()

		if err := session.Run(context.Background()); err != nil {
			log.Errorf("trainer session [%s] ended: %s", session.ID(), err)
		}
		m.persist(ms)

		m.mu.Lock()
		ms.finishedAt = time.Now()
		m.mu.Unlock()
	}()

	log.Debugf("trainer session [%s] started, exercise [%s]", session.ID(), params.Exercise)
	return session.Snapshot(), nil
}

// activeCount expects m.mu to be held.
func (m *Manager) activeCount() int {
	active := 0
	for _, ms := range m.sessions {
		select {
		case <-ms.finished:
		default:
			active++
		}
	}
	return active
}

// pruneFinished forgets sessions that ended more than finishedRetention ago.
// Expects m.mu to be held.
func (m *Manager) pruneFinished(now time.Time) {
	for id, ms := range m.sessions {
		if !ms.finishedAt.IsZero() && now.Sub(ms.finishedAt) > m.finishedRetention {
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) persist(ms *managedSession) {
	snap := ms.session.Snapshot()
	m.metrics.HistogramSessionReps.Observe(float64(snap.Reps))

	if m.saver == nil {
		return
	}

	finishedAt := time.Now()
	if snap.FinishedAt != nil {
		finishedAt = *snap.FinishedAt
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	w, err := m.saver.Add(ctx, &workouts.Workout{
		UserID:          snap.UserID,
		Exercise:        string(snap.Exercise),
		Reps:            snap.Reps,
		FramesProcessed: snap.FramesProcessed,
		FramesSkipped:   snap.FramesSkipped,
		StartedAt:       snap.StartedAt,
		FinishedAt:      finishedAt,
	})
	if err != nil {
		log.Errorf("persist workout for session [%s]: %s", snap.ID, err)
		return
	}

	m.mu.Lock()
	ms.workoutID = w.ID
	m.mu.Unlock()
	log.Debugf("session [%s] saved as workout %d", snap.ID, w.ID)
}

// get only returns sessions owned by userID. Someone else's session is reported as not found.
func (m *Manager) get(userID, id string) (*managedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	if !ok || ms.userID != userID {
		return nil, ErrSessionNotFound
	}
	return ms, nil
}

func (m *Manager) Get(userID, id string) (Snapshot, error) {
	ms, err := m.get(userID, id)
	if err != nil {
		return Snapshot{}, err
	}
	return m.snapshot(ms), nil
}

func (m *Manager) snapshot(ms *managedSession) Snapshot {
	snap := ms.session.Snapshot()
	m.mu.Lock()
	snap.WorkoutID = ms.workoutID
	m.mu.Unlock()
	return snap
}

// PushSample feeds landmarks estimated on the client. It reports false when the frame was dropped.
func (m *Manager) PushSample(userID, id string, landmarks pose.Landmarks) (bool, error) {
	return m.push(userID, id, Frame{Landmarks: landmarks})
}

// PushFrame feeds a raw image, run through the pose estimator.
func (m *Manager) PushFrame(userID, id string, image []byte) (bool, error) {
	return m.push(userID, id, Frame{Image: image})
}

func (m *Manager) push(userID, id string, frame Frame) (bool, error) {
	ms, err := m.get(userID, id)
	if err != nil {
		return false, err
	}

	select {
	case <-ms.session.Done():
		return false, ErrSessionFinished
	default:
	}

	return ms.source.Push(frame), nil
}

// Stop ends the session, waits for it to be persisted and forgets it.
func (m *Manager) Stop(ctx context.Context, userID, id string) (Snapshot, error) {
	ms, err := m.get(userID, id)
	if err != nil {
		return Snapshot{}, err
	}

	ms.session.Stop()
	select {
	case <-ms.finished:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	return m.snapshot(ms), nil
}

// StopAll stops every session and waits for the capture loops to exit.
func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.Lock()
	for _, ms := range m.sessions {
		ms.session.Stop()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeCount()
}
