package history

import "time"

// Activity is the durable record of a finished workout or tracked run.
type Activity struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	WorkoutID   string    `json:"workout_id,omitempty"`
	Title       string    `json:"title"`
	DistanceM   float64   `json:"distance_m"`
	DurationSec float64   `json:"duration_sec"`
	AvgPace     float64   `json:"avg_pace"`
	Units       string    `json:"units"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	CreatedAt   time.Time `json:"created_at"`
}
