package plan

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/dadhichi/internal/telemetry/tracing"
	"github.com/2beens/dadhichi/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (handler *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.options")
	defer span.End()

	optionsJson, err := json.Marshal(Options())
	if err != nil {
		log.Errorf("marshal plan options: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, optionsJson, http.StatusOK)
}

func (handler *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.generate")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("generate plan, unmarshal json params: %s", err)
		http.Error(w, "generate plan failed", http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.String("goal", req.Goal),
		attribute.String("location", req.Location),
	)

	p, err := Build(req)
	if errors.Is(err, ErrInvalidSelection) {
		http.Error(w, ErrInvalidSelection.Error(), http.StatusBadRequest)
		return
	} else if err != nil {
		log.Errorf("generate plan: %s", err)
		http.Error(w, "generate plan failed", http.StatusInternalServerError)
		return
	}

	planJson, err := json.Marshal(p)
	if err != nil {
		log.Errorf("marshal plan: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, planJson, http.StatusOK)
}
