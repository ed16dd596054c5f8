package trainer

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/2beens/dadhichi/internal/pose"
)

var ErrDeviceUnavailable = errors.New("capture device unavailable")

// Frame is a single captured image, or a pose sample already estimated on the client.
type Frame struct {
	Image      []byte
	Landmarks  pose.Landmarks
	CapturedAt time.Time
}

// FrameSource is an opened capture device.
// Read blocks until a frame is available. It returns io.EOF once the source is exhausted,
// and ErrDeviceUnavailable if the device is gone.
type FrameSource interface {
	Read(ctx context.Context) (Frame, error)
	Close() error
}

// PoseEstimator turns an image into body landmarks.
type PoseEstimator interface {
	Estimate(ctx context.Context, frame []byte, conf pose.Confidence) (pose.Landmarks, error)
}

// PushSource is a FrameSource fed by remote clients. Frames pushed while the
// buffer is full are dropped. With a positive idle timeout, Read reports io.EOF
// once no frame arrived for that long, so abandoned sessions end on their own.
type PushSource struct {
	frames      chan Frame
	closed      chan struct{}
	closeOnce   sync.Once
	idleTimeout time.Duration

	mu      sync.Mutex
	dropped int
}

func NewPushSource(bufferSize int, idleTimeout time.Duration) *PushSource {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &PushSource{
		frames:      make(chan Frame, bufferSize),
		closed:      make(chan struct{}),
		idleTimeout: idleTimeout,
	}
}

// Push enqueues the frame, and reports false if it was dropped.
func (s *PushSource) Push(frame Frame) bool {
	select {
	case <-s.closed:
		return false
	default:
	}

	if frame.CapturedAt.IsZero() {
		frame.CapturedAt = time.Now()
	}

	select {
	case s.frames <- frame:
		return true
	default:
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
		return false
	}
}

func (s *PushSource) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *PushSource) Read(ctx context.Context) (Frame, error) {
	// buffered frames are still delivered after close
	select {
	case frame := <-s.frames:
		return frame, nil
	default:
	}

	var idle <-chan time.Time
	if s.idleTimeout > 0 {
		timer := time.NewTimer(s.idleTimeout)
		defer timer.Stop()
		idle = timer.C
	}

	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case frame := <-s.frames:
		return frame, nil
	case <-idle:
		_ = s.Close()
		return Frame{}, io.EOF
	case <-s.closed:
		select {
		case frame := <-s.frames:
			return frame, nil
		default:
			return Frame{}, io.EOF
		}
	}
}

func (s *PushSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	return nil
}

// SliceSource replays a fixed list of frames, then reports io.EOF.
type SliceSource struct {
	mu     sync.Mutex
	frames []Frame
	closed bool
}

func NewSliceSource(frames []Frame) *SliceSource {
	return &SliceSource{frames: frames}
}

func (s *SliceSource) Read(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Frame{}, ErrDeviceUnavailable
	}
	if len(s.frames) == 0 {
		return Frame{}, io.EOF
	}

	frame := s.frames[0]
	s.frames = s.frames[1:]
	return frame, nil
}

func (s *SliceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *SliceSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
