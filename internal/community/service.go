package community

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/dadhichi/internal/telemetry/tracing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	leaderboardKeyPrefix = "dadhichi-leaderboard||"
	// boards outlive their week so last week's winners can still be read
	leaderboardTTL = 14 * 24 * time.Hour

	DefaultLeaderboardSize = 10
	DemoMinSteps           = 7000
	DemoMaxSteps           = 15000
	maxNameLength          = 64
)

var DemoParticipants = []string{"Aarush", "Neha", "Raj", "Simran", "Aditya"}

var (
	ErrInvalidSteps        = errors.New("steps must not be negative")
	ErrInvalidName         = errors.New("participant name must not be empty")
	ErrParticipantNotFound = errors.New("participant not found")
)

type Entry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Steps int64  `json:"steps"`
}

// Service keeps the weekly step leaderboard in a redis sorted set per ISO week.
type Service struct {
	redisClient *redis.Client
	now         func() time.Time

	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewService seeds the demo data generator with seed, 0 picks a random seed.
func NewService(redisClient *redis.Client, seed int64) *Service {
	return &Service{
		redisClient: redisClient,
		now:         time.Now,
		faker:       gofakeit.New(seed),
	}
}

func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%s%d-W%02d", leaderboardKeyPrefix, year, week)
}

func (s *Service) randomSteps(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Number(lo, hi)
}

// SetSteps sets the participant's steps for the current week.
func (s *Service) SetSteps(ctx context.Context, name string, steps int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "community.setSteps")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return ErrInvalidName
	}
	if steps < 0 {
		return ErrInvalidSteps
	}

	key := WeekKey(s.now())
	_, err = s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, &redis.Z{Score: float64(steps), Member: name})
		pipe.Expire(ctx, key, leaderboardTTL)
		return nil
	})
	return err
}

// Leaderboard returns the top limit participants of the current week, highest steps first.
// An empty week is filled with demo participants.
func (s *Service) Leaderboard(ctx context.Context, limit int) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "community.leaderboard")
	span.SetAttributes(attribute.Int("limit", limit))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	key := WeekKey(s.now())
	count, err := s.redisClient.ZCard(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if err := s.seedDemo(ctx, key); err != nil {
			return nil, fmt.Errorf("seed demo leaderboard: %w", err)
		}
	}

	zs, err := s.redisClient.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(zs))
	for i, z := range zs {
		name, _ := z.Member.(string)
		entries = append(entries, Entry{
			Rank:  i + 1,
			Name:  name,
			Steps: int64(z.Score),
		})
	}

	return entries, nil
}

func (s *Service) Rank(ctx context.Context, name string) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "community.rank")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	key := WeekKey(s.now())
	rank, err := s.redisClient.ZRevRank(ctx, key, name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrParticipantNotFound
	} else if err != nil {
		return nil, err
	}

	steps, err := s.redisClient.ZScore(ctx, key, name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrParticipantNotFound
	} else if err != nil {
		return nil, err
	}

	return &Entry{
		Rank:  int(rank) + 1,
		Name:  name,
		Steps: int64(steps),
	}, nil
}

func (s *Service) seedDemo(ctx context.Context, key string) error {
	members := make([]*redis.Z, 0, len(DemoParticipants))
	for _, name := range DemoParticipants {
		members = append(members, &redis.Z{
			Score:  float64(s.randomSteps(DemoMinSteps, DemoMaxSteps)),
			Member: name,
		})
	}

	log.Debugf("seeding demo leaderboard %s", key)
	_, err := s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// NX keeps real entries written between the check and the seed
		pipe.ZAddNX(ctx, key, members...)
		pipe.Expire(ctx, key, leaderboardTTL)
		return nil
	})
	return err
}
