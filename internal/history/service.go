package history

import (
	"context"

	"backend-fitsquad/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Record(ctx context.Context, input Activity) (Activity, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO activities (id, user_id, workout_id, title, distance_m, duration_sec, avg_pace, units, started_at, ended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at
	`, input.ID, input.UserID, input.WorkoutID, input.Title, input.DistanceM, input.DurationSec, input.AvgPace, input.Units, input.StartedAt, input.EndedAt)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Activity{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Activity, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, workout_id, title, distance_m, duration_sec, avg_pace, units, started_at, ended_at, created_at
		FROM activities WHERE id=$1
	`, id)
	var a Activity
	err := row.Scan(&a.ID, &a.UserID, &a.WorkoutID, &a.Title, &a.DistanceM, &a.DurationSec, &a.AvgPace, &a.Units, &a.StartedAt, &a.EndedAt, &a.CreatedAt)
	if err != nil {
		return Activity{}, err
	}
	return a, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Activity, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, workout_id, title, distance_m, duration_sec, avg_pace, units, started_at, ended_at, created_at
		FROM activities WHERE user_id=$1
		ORDER BY ended_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.WorkoutID, &a.Title, &a.DistanceM, &a.DurationSec, &a.AvgPace, &a.Units, &a.StartedAt, &a.EndedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// Delete removes an activity owned by the user. Deleting someone
// else's record is a no-op.
func (s *Service) Delete(ctx context.Context, id, userID string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM activities WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
