package trainer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/2beens/dadhichi/internal/pose"
	"github.com/2beens/dadhichi/internal/telemetry/tracing"
	"github.com/2beens/dadhichi/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=trainer_mocks_test.go -package=trainer_test

const maxFrameBytes = 4 << 20

type sessionsManager interface {
	Start(params StartParams) (Snapshot, error)
	Get(userID, id string) (Snapshot, error)
	PushSample(userID, id string, landmarks pose.Landmarks) (bool, error)
	PushFrame(userID, id string, image []byte) (bool, error)
	Stop(ctx context.Context, userID, id string) (Snapshot, error)
}

type StartSessionRequest struct {
	Exercise            string   `json:"exercise"`
	DetectionConfidence *float64 `json:"detectionConfidence,omitempty"`
	TrackingConfidence  *float64 `json:"trackingConfidence,omitempty"`
}

type PushSampleRequest struct {
	Landmarks pose.Landmarks `json:"landmarks"`
}

type PushResponse struct {
	Accepted bool `json:"accepted"`
}

type Handler struct {
	manager sessionsManager
}

func NewHandler(manager sessionsManager) *Handler {
	return &Handler{
		manager: manager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/trainer/exercises", handler.HandleExercises).Methods("GET", "OPTIONS")
	r.HandleFunc("/trainer/sessions", handler.HandleStart).Methods("POST", "OPTIONS")
	r.HandleFunc("/trainer/sessions/{id}", handler.HandleGet).Methods("GET", "OPTIONS")
	r.HandleFunc("/trainer/sessions/{id}", handler.HandleStop).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/trainer/sessions/{id}/samples", handler.HandlePushSample).Methods("POST", "OPTIONS")
	r.HandleFunc("/trainer/sessions/{id}/frames", handler.HandlePushFrame).Methods("POST", "OPTIONS")
}

func (handler *Handler) HandleExercises(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainer.exercises")
	defer span.End()

	type exerciseInfo struct {
		Name       Exercise `json:"name"`
		CountsReps bool     `json:"countsReps"`
	}
	var list []exerciseInfo
	for _, e := range Exercises() {
		list = append(list, exerciseInfo{Name: e, CountsReps: e.CountsReps()})
	}

	respJson, err := json.Marshal(list)
	if err != nil {
		log.Errorf("marshal exercises: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainer.start")
	defer span.End()

	var req StartSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Errorf("start session, unmarshal json params: %s", err)
			http.Error(w, "start session failed", http.StatusBadRequest)
			return
		}
	}

	exercise, err := ParseExercise(req.Exercise)
	if err != nil {
		http.Error(w, "error, unknown exercise", http.StatusBadRequest)
		return
	}

	conf := pose.DefaultConfidences()
	if req.DetectionConfidence != nil {
		conf.Detection = *req.DetectionConfidence
	}
	if req.TrackingConfidence != nil {
		conf.Tracking = *req.TrackingConfidence
	}
	if err := conf.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := handler.manager.Start(StartParams{
		UserID:     pkg.UserIDFromContext(ctx),
		Exercise:   exercise,
		Confidence: conf,
	})
	if errors.Is(err, ErrTooManySessions) {
		http.Error(w, "too many active sessions, try again later", http.StatusServiceUnavailable)
		return
	} else if err != nil {
		log.Errorf("start trainer session: %s", err)
		http.Error(w, "start session failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("session.id", snap.ID))
	handler.writeSnapshot(w, snap, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainer.get")
	defer span.End()

	snap, err := handler.manager.Get(pkg.UserIDFromContext(ctx), mux.Vars(r)["id"])
	if err != nil {
		handler.writeSessionErr(w, err)
		return
	}
	handler.writeSnapshot(w, snap, http.StatusOK)
}

func (handler *Handler) HandleStop(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainer.stop")
	defer span.End()

	snap, err := handler.manager.Stop(ctx, pkg.UserIDFromContext(ctx), mux.Vars(r)["id"])
	if err != nil {
		handler.writeSessionErr(w, err)
		return
	}

	log.Debugf("trainer session [%s] stopped with %d reps", snap.ID, snap.Reps)
	handler.writeSnapshot(w, snap, http.StatusOK)
}

func (handler *Handler) HandlePushSample(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainer.sample")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req PushSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("push sample, unmarshal json params: %s", err)
		http.Error(w, "push sample failed", http.StatusBadRequest)
		return
	}

	accepted, err := handler.manager.PushSample(pkg.UserIDFromContext(ctx), mux.Vars(r)["id"], req.Landmarks)
	if err != nil {
		handler.writeSessionErr(w, err)
		return
	}
	handler.writePushResponse(w, accepted)
}

func (handler *Handler) HandlePushFrame(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainer.frame")
	defer span.End()

	if r.Body == nil {
		http.Error(w, "error, empty frame", http.StatusBadRequest)
		return
	}

	image, err := io.ReadAll(io.LimitReader(r.Body, maxFrameBytes+1))
	if err != nil {
		log.Errorf("push frame, read body: %s", err)
		http.Error(w, "push frame failed", http.StatusBadRequest)
		return
	}
	if len(image) == 0 {
		http.Error(w, "error, empty frame", http.StatusBadRequest)
		return
	}
	if len(image) > maxFrameBytes {
		http.Error(w, "error, frame too large", http.StatusRequestEntityTooLarge)
		return
	}

	accepted, err := handler.manager.PushFrame(pkg.UserIDFromContext(ctx), mux.Vars(r)["id"], image)
	if err != nil {
		handler.writeSessionErr(w, err)
		return
	}
	handler.writePushResponse(w, accepted)
}

func (handler *Handler) writeSessionErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrSessionFinished):
		http.Error(w, "session finished", http.StatusGone)
	default:
		log.Errorf("trainer session error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (handler *Handler) writePushResponse(w http.ResponseWriter, accepted bool) {
	respJson, err := json.Marshal(PushResponse{Accepted: accepted})
	if err != nil {
		log.Errorf("marshal push response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusAccepted)
}

func (handler *Handler) writeSnapshot(w http.ResponseWriter, snap Snapshot, status int) {
	snapJson, err := json.Marshal(snap)
	if err != nil {
		log.Errorf("marshal session snapshot: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, snapJson, status)
}
