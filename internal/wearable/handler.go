package wearable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/dadhichi/internal/telemetry/tracing"
	"github.com/2beens/dadhichi/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=wearable_mocks_test.go -package=wearable_test

type deviceClient interface {
	DailyActivity(ctx context.Context, date string) (*DailyActivity, error)
	HeartRate(ctx context.Context, date string) (*HeartRate, error)
	Profile(ctx context.Context) (*Profile, error)
}

const (
	sampleRows         = 5
	profileMissingText = "Could not fetch user profile."
)

type Dashboard struct {
	Profile        *Profile        `json:"profile"`
	Message        string          `json:"message,omitempty"`
	Activity       *DailyActivity  `json:"activity"`
	HeartRate      *HeartRate      `json:"heartRate"`
	Sample         []Row           `json:"sample"`
	Goal           GoalType        `json:"goal"`
	WeightChange   float64         `json:"weightChange"`
	CurrentWeight  float64         `json:"currentWeight"`
	Recommendation *Recommendation `json:"recommendation"`
	Tips           []string        `json:"tips"`
	Models         ModelMetrics    `json:"models"`
	Charts         Charts          `json:"charts"`
}

type Handler struct {
	device        deviceClient
	syntheticRows int
	seed          func() int64
}

func NewHandler(device deviceClient, syntheticRows int) *Handler {
	if syntheticRows <= 0 {
		syntheticRows = DefaultSyntheticRows
	}
	return &Handler{
		device:        device,
		syntheticRows: syntheticRows,
		seed: func() int64 {
			return time.Now().UnixNano()
		},
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/tracker/dashboard", handler.HandleDashboard).Methods("GET").Name("tracker-dashboard")
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.wearable.dashboard")
	defer span.End()

	goal, err := ParseGoalType(r.URL.Query().Get("goal"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	weightChange, err := pkg.FloatQueryParam(r.URL.Query().Get("change"), DefaultWeightChange)
	if err != nil {
		http.Error(w, "parse weight change", http.StatusBadRequest)
		return
	}

	seed := handler.seed()
	if rawSeed := r.URL.Query().Get("seed"); rawSeed != "" {
		if seed, err = strconv.ParseInt(rawSeed, 10, 64); err != nil {
			http.Error(w, "parse seed", http.StatusBadRequest)
			return
		}
	}
	span.SetAttributes(attribute.String("goal", string(goal)))

	dashboard := Dashboard{
		Goal:         goal,
		WeightChange: weightChange,
	}
	handler.fillDeviceData(ctx, &dashboard)

	rows := Synthesize(handler.syntheticRows, seed)
	dashboard.Sample = rows[:min(sampleRows, len(rows))]
	dashboard.CurrentWeight = rows[0].Weight
	dashboard.Charts = ChartSeries(rows)
	dashboard.Tips = Tips(goal)

	dashboard.Recommendation, err = Recommend(rows, goal, weightChange, dashboard.CurrentWeight)
	if err != nil {
		if errors.Is(err, ErrInvalidWeightChange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("recommend fitness goals: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	dashboard.Models, err = EvaluateWeightModels(rows)
	if err != nil {
		log.Errorf("evaluate weight models: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	dashboardJson, err := json.Marshal(dashboard)
	if err != nil {
		log.Errorf("marshal dashboard: %s", err)
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, dashboardJson, http.StatusOK)
}

// fillDeviceData leaves fields nil when the device api has no data.
func (handler *Handler) fillDeviceData(ctx context.Context, dashboard *Dashboard) {
	dashboard.Message = profileMissingText
	if handler.device == nil {
		return
	}

	if profile, err := handler.device.Profile(ctx); err != nil {
		log.Debugf("wearable profile: %s", err)
	} else {
		dashboard.Profile = profile
		dashboard.Message = ""
	}

	if activity, err := handler.device.DailyActivity(ctx, "today"); err != nil {
		log.Debugf("wearable daily activity: %s", err)
	} else {
		dashboard.Activity = activity
	}

	if heartRate, err := handler.device.HeartRate(ctx, "today"); err != nil {
		log.Debugf("wearable heart rate: %s", err)
	} else {
		dashboard.HeartRate = heartRate
	}
}
