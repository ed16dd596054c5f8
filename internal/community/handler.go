package community

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/dadhichi/internal/telemetry/tracing"
	"github.com/2beens/dadhichi/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type StepsRequest struct {
	Name  string `json:"name"`
	Steps int64  `json:"steps"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	communityRouter := router.PathPrefix("/community").Subrouter()
	communityRouter.HandleFunc("/steps", handler.HandleSetSteps).Methods("POST", "OPTIONS").Name("community-steps")
	communityRouter.HandleFunc("/leaderboard", handler.HandleLeaderboard).Methods("GET").Name("community-leaderboard")
	communityRouter.HandleFunc("/leaderboard/{name}", handler.HandleRank).Methods("GET").Name("community-rank")
	communityRouter.HandleFunc("/progress", handler.HandleProgress).Methods("GET").Name("community-progress")
	communityRouter.HandleFunc("/highlights", handler.HandleHighlights).Methods("GET").Name("community-highlights")
}

func (handler *Handler) HandleSetSteps(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.community.setSteps")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req StepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("community set steps, decode: %s", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := handler.service.SetSteps(ctx, req.Name, req.Steps); err != nil {
		if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidSteps) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("community set steps for %s: %s", req.Name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	handler.writeJson(w, http.StatusCreated, req)
}

func (handler *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.community.leaderboard")
	defer span.End()

	limit, err := pkg.IntQueryParam(r.URL.Query().Get("limit"), DefaultLeaderboardSize)
	if err != nil || limit < 1 {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	entries, err := handler.service.Leaderboard(ctx, limit)
	if err != nil {
		log.Errorf("get leaderboard: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	handler.writeJson(w, http.StatusOK, entries)
}

func (handler *Handler) HandleRank(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.community.rank")
	defer span.End()

	name := mux.Vars(r)["name"]
	entry, err := handler.service.Rank(ctx, name)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Errorf("get leaderboard rank for %s: %s", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	handler.writeJson(w, http.StatusOK, entry)
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.community.progress")
	defer span.End()

	steps, err := pkg.IntQueryParam(r.URL.Query().Get("steps"), DefaultUserSteps)
	if err != nil {
		http.Error(w, "invalid steps", http.StatusBadRequest)
		return
	}

	progress, err := handler.service.Progress(steps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	handler.writeJson(w, http.StatusOK, progress)
}

func (handler *Handler) HandleHighlights(w http.ResponseWriter, r *http.Request) {
	handler.writeJson(w, http.StatusOK, CurrentHighlights())
}

func (handler *Handler) writeJson(w http.ResponseWriter, status int, v any) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal community response: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
