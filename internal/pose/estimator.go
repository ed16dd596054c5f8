package pose

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/dadhichi/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MinConfidence     = 0.1
	MaxConfidence     = 1.0
	DefaultConfidence = 0.5
)

var (
	ErrNoPose            = errors.New("no pose detected")
	ErrInvalidConfidence = fmt.Errorf("confidence must be within [%.1f, %.1f]", MinConfidence, MaxConfidence)
)

// Confidence holds the detection and tracking thresholds the pose model is run with.
type Confidence struct {
	Detection float64 `json:"detection"`
	Tracking  float64 `json:"tracking"`
}

func DefaultConfidences() Confidence {
	return Confidence{Detection: DefaultConfidence, Tracking: DefaultConfidence}
}

func (c Confidence) Validate() error {
	for _, v := range []float64{c.Detection, c.Tracking} {
		if v < MinConfidence || v > MaxConfidence {
			return ErrInvalidConfidence
		}
	}
	return nil
}

// HTTPEstimator sends image frames to a remote pose model.
// The model answers with a JSON array of landmarks, or with null when no person is visible.
type HTTPEstimator struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPEstimator(endpoint string, httpClient *http.Client) *HTTPEstimator {
	return &HTTPEstimator{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

func (e *HTTPEstimator) Estimate(ctx context.Context, frame []byte, conf Confidence) (_ Landmarks, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pose.httpEstimator.estimate")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("frame.size", len(frame)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	q := req.URL.Query()
	q.Set("min_detection_confidence", strconv.FormatFloat(conf.Detection, 'f', 2, 64))
	q.Set("min_tracking_confidence", strconv.FormatFloat(conf.Tracking, 'f', 2, 64))
	req.URL.RawQuery = q.Encode()

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read estimator response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Debugf("pose estimator responded %d: %s", resp.StatusCode, respBytes)
		return nil, fmt.Errorf("pose estimator status: %d", resp.StatusCode)
	}

	var landmarks Landmarks
	if err := json.Unmarshal(respBytes, &landmarks); err != nil {
		return nil, fmt.Errorf("unmarshal landmarks: %w", err)
	}

	if len(landmarks) == 0 {
		return nil, ErrNoPose
	}

	span.SetAttributes(attribute.Int("landmarks", len(landmarks)))
	return landmarks, nil
}
