package groupsession

import "time"

// Status of a shared training session. Completed and cancelled are
// terminal.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusReady      Status = "ready"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Participant is one member of a session. Participants are never removed
// from the list; leaving only sets the flag, preserving history.
type Participant struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	JoinedAt                 time.Time `json:"joined_at"`
	Ready                    bool      `json:"ready"`
	CurrentExerciseCompleted bool      `json:"current_exercise_completed"`
	LeftSession              bool      `json:"left_session"`
}

// Session is the shared workout document. The remote copy is
// authoritative; clients treat their local value as a cache invalidated
// by the next change notification.
type Session struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`

	CreatorID   string `json:"creator_id"`
	CreatorName string `json:"creator_name"`

	Participants    []Participant `json:"participants"`
	MaxParticipants int           `json:"max_participants"`

	WorkoutID    string `json:"workout_id,omitempty"`
	WorkoutTitle string `json:"workout_title"`

	CurrentPartIndex      int `json:"current_part_index"`
	CurrentComponentIndex int `json:"current_component_index"`

	Status Status `json:"status"`

	RequireAllToComplete bool `json:"require_all_to_complete"`
	AllowLateJoin        bool `json:"allow_late_join"`
}
