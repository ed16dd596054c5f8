package plan

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	LocationGym  = "Gym"
	LocationYoga = "Yoga"

	MinDuration     = 15
	MaxDuration     = 120
	DefaultDuration = 30

	DefaultIntensity = "low"
)

var ErrInvalidSelection = errors.New("Please select a valid option!")

var intensities = []string{"low", "medium", "high"}

//go:embed plans.yaml
var plansYaml []byte

type goalPlans struct {
	Gym  []string            `yaml:"gym"`
	Yoga map[string][]string `yaml:"yoga"`
}

// table is read once and never handed out, Lookup returns copies
var (
	table      map[string]goalPlans
	goalsOrder []string
)

func init() {
	var doc yaml.Node
	if err := yaml.Unmarshal(plansYaml, &doc); err != nil {
		panic(fmt.Sprintf("parse embedded plans: %s", err))
	}
	if err := doc.Decode(&table); err != nil {
		panic(fmt.Sprintf("decode embedded plans: %s", err))
	}

	// mapping node content alternates key, value
	root := doc.Content[0]
	for i := 0; i < len(root.Content); i += 2 {
		goalsOrder = append(goalsOrder, root.Content[i].Value)
	}
}

// Lookup returns the exercises for the given goal and location. The yoga location
// additionally needs a track. Goal, location and track are matched case-insensitively.
func Lookup(goal, location, track string) ([]string, error) {
	plans, ok := table[strings.ToLower(strings.TrimSpace(goal))]
	if !ok {
		return nil, ErrInvalidSelection
	}

	var exercises []string
	switch normalizeLocation(location) {
	case LocationGym:
		exercises = plans.Gym
	case LocationYoga:
		if track == "" || plans.Yoga == nil {
			return nil, ErrInvalidSelection
		}
		exercises, ok = plans.Yoga[strings.ToLower(strings.TrimSpace(track))]
		if !ok {
			return nil, ErrInvalidSelection
		}
	default:
		return nil, ErrInvalidSelection
	}

	if len(exercises) == 0 {
		return nil, ErrInvalidSelection
	}

	return slices.Clone(exercises), nil
}

func normalizeLocation(location string) string {
	switch strings.ToLower(strings.TrimSpace(location)) {
	case "gym":
		return LocationGym
	case "yoga":
		return LocationYoga
	default:
		return ""
	}
}

type Request struct {
	Goal      string `json:"goal"`
	Duration  int    `json:"duration"`
	Intensity string `json:"intensity"`
	Location  string `json:"location"`
	Track     string `json:"track,omitempty"`
}

// withDefaults fills in the zero duration and intensity.
func (r Request) withDefaults() Request {
	if r.Duration == 0 {
		r.Duration = DefaultDuration
	}
	if r.Intensity == "" {
		r.Intensity = DefaultIntensity
	}
	r.Goal = strings.ToLower(strings.TrimSpace(r.Goal))
	r.Intensity = strings.ToLower(strings.TrimSpace(r.Intensity))
	return r
}

type Plan struct {
	Request   Request  `json:"request"`
	Exercises []string `json:"exercises"`
	Text      string   `json:"text"`
}

// Build validates the request and resolves its exercises.
func Build(req Request) (*Plan, error) {
	req = req.withDefaults()
	if req.Duration < MinDuration || req.Duration > MaxDuration {
		return nil, ErrInvalidSelection
	}
	if !slices.Contains(intensities, req.Intensity) {
		return nil, ErrInvalidSelection
	}

	exercises, err := Lookup(req.Goal, req.Location, req.Track)
	if err != nil {
		return nil, err
	}
	req.Location = normalizeLocation(req.Location)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Your %s workout plan for %d minutes at %s:\n\n", req.Goal, req.Duration, req.Location)
	intensity := strings.ToUpper(req.Intensity[:1]) + req.Intensity[1:]
	for i, exercise := range exercises {
		fmt.Fprintf(&sb, "%d. %s - %s intensity - 3 sets of 10-12 reps\n", i+1, exercise, intensity)
	}

	return &Plan{
		Request:   req,
		Exercises: exercises,
		Text:      sb.String(),
	}, nil
}

// Render returns the plain text plan.
func Render(req Request) (string, error) {
	p, err := Build(req)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

type OptionsList struct {
	Goals       []string `json:"goals"`
	Locations   []string `json:"locations"`
	Tracks      []string `json:"tracks"`
	Intensities []string `json:"intensities"`
	MinDuration int      `json:"minDuration"`
	MaxDuration int      `json:"maxDuration"`
	Duration    int      `json:"defaultDuration"`
}

// Options lists the valid choices, goals in table order.
func Options() OptionsList {
	tracksSet := map[string]struct{}{}
	for _, p := range table {
		for track := range p.Yoga {
			tracksSet[track] = struct{}{}
		}
	}
	tracks := make([]string, 0, len(tracksSet))
	for track := range tracksSet {
		tracks = append(tracks, track)
	}
	slices.Sort(tracks)

	return OptionsList{
		Goals:       slices.Clone(goalsOrder),
		Locations:   []string{LocationGym, LocationYoga},
		Tracks:      tracks,
		Intensities: slices.Clone(intensities),
		MinDuration: MinDuration,
		MaxDuration: MaxDuration,
		Duration:    DefaultDuration,
	}
}
