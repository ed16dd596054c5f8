package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/dadhichi/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout *Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout
				(user_id, exercise, reps, frames_processed, frames_skipped, started_at, finished_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
		workout.UserID, workout.Exercise, workout.Reps,
		workout.FramesProcessed, workout.FramesSkipped,
		workout.StartedAt, workout.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	workout.ID = id
	return workout, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, exercise, reps, frames_processed, frames_skipped, started_at, finished_at
			FROM workout
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &workouts[0], nil
}

// List returns one page of workouts, newest first. An empty userID lists every user.
func (r *Repo) List(ctx context.Context, userID string, page, size int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))

	if page < 1 || size < 1 || size > MaxPageSize || page-1 > MaxOffset/size {
		return nil, fmt.Errorf("invalid page [%d] or size [%d]", page, size)
	}

	log.Tracef("getting workouts, user [%s], page %d, size %d", userID, page, size)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, exercise, reps, frames_processed, frames_skipped, started_at, finished_at
			FROM workout
				WHERE ($1::text = '' OR user_id = $1)
			ORDER BY finished_at DESC
			LIMIT $2 OFFSET $3;`,
		userID, size, (page-1)*size,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2workouts(rows)
}

func (r *Repo) Count(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout WHERE ($1::text = '' OR user_id = $1);`,
		userID,
	).Scan(&count); err != nil {
		return -1, fmt.Errorf("count workouts: %w", err)
	}
	return count, nil
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Exercise, &w.Reps,
			&w.FramesProcessed, &w.FramesSkipped,
			&w.StartedAt, &w.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}
