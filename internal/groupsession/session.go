package groupsession

import "time"

const (
	// Sessions expire two hours after creation, started or not.
	sessionTTL = 2 * time.Hour
	// Up to four people can train together.
	defaultMaxParticipants = 4
)

// Every transition in this file is a pure function: it takes a session
// value and returns a new one, never mutating its input. The store applies
// these against the authoritative remote copy.

// New creates a session in the waiting state with the creator as its
// first participant, already marked ready.
func New(creatorID, creatorName, workoutTitle, workoutID string, now time.Time) Session {
	return Session{
		Code:        GenerateCode(),
		CreatedAt:   now,
		ExpiresAt:   now.Add(sessionTTL),
		CreatorID:   creatorID,
		CreatorName: creatorName,
		Participants: []Participant{{
			ID:       creatorID,
			Name:     creatorName,
			JoinedAt: now,
			Ready:    true,
		}},
		MaxParticipants:      defaultMaxParticipants,
		WorkoutID:            workoutID,
		WorkoutTitle:         workoutTitle,
		Status:               StatusWaiting,
		RequireAllToComplete: true,
		AllowLateJoin:        false,
	}
}

// IsExpired reports whether the session's code has lapsed. Expired
// sessions are inert even when still in progress.
func IsExpired(s Session, now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsFull reports whether the active participant count has reached the cap.
func IsFull(s Session) bool {
	return ActiveCount(s) >= s.MaxParticipants
}

// ActiveCount counts participants who have not left.
func ActiveCount(s Session) int {
	n := 0
	for _, p := range s.Participants {
		if !p.LeftSession {
			n++
		}
	}
	return n
}

// AllCompleted reports whether every active participant has finished the
// current exercise.
func AllCompleted(s Session) bool {
	for _, p := range s.Participants {
		if !p.LeftSession && !p.CurrentExerciseCompleted {
			return false
		}
	}
	return true
}

// CompletionCounts returns how many active participants are done out of
// the active total.
func CompletionCounts(s Session) (completed, total int) {
	for _, p := range s.Participants {
		if p.LeftSession {
			continue
		}
		total++
		if p.CurrentExerciseCompleted {
			completed++
		}
	}
	return completed, total
}

// AddParticipant joins a participant, or reactivates one who previously
// left. Rejects full sessions, started sessions without late join, and
// participants who are already active.
func AddParticipant(s Session, id, name string, now time.Time) (Session, error) {
	for _, p := range s.Participants {
		if p.ID == id && !p.LeftSession {
			return Session{}, ErrAlreadyJoined
		}
	}
	if IsFull(s) {
		return Session{}, ErrSessionFull
	}
	if s.Status == StatusInProgress && !s.AllowLateJoin {
		return Session{}, ErrAlreadyStarted
	}

	out := clone(s)
	for i, p := range out.Participants {
		if p.ID == id {
			out.Participants[i].LeftSession = false
			out.Participants[i].Ready = false
			out.Participants[i].CurrentExerciseCompleted = false
			out.Participants[i].JoinedAt = now
			return out, nil
		}
	}
	out.Participants = append(out.Participants, Participant{
		ID:       id,
		Name:     name,
		JoinedAt: now,
	})
	return out, nil
}

// Leave marks a participant as gone. When the creator leaves, the whole
// session is cancelled regardless of anyone else's state.
func Leave(s Session, participantID string, now time.Time) Session {
	out := clone(s)
	for i, p := range out.Participants {
		if p.ID == participantID {
			out.Participants[i].LeftSession = true
		}
	}
	if participantID == s.CreatorID {
		out = Cancel(out, now)
	}
	return out
}

// SetReady flips a participant's ready flag. When every active
// participant is ready a waiting session becomes ready; un-readying moves
// it back.
func SetReady(s Session, participantID string, ready bool) Session {
	out := clone(s)
	for i, p := range out.Participants {
		if p.ID == participantID {
			out.Participants[i].Ready = ready
		}
	}
	if out.Status == StatusWaiting || out.Status == StatusReady {
		allReady := true
		for _, p := range out.Participants {
			if !p.LeftSession && !p.Ready {
				allReady = false
				break
			}
		}
		if allReady {
			out.Status = StatusReady
		} else {
			out.Status = StatusWaiting
		}
	}
	return out
}

// SetCompleted flips a participant's completion flag for the current
// exercise.
func SetCompleted(s Session, participantID string, completed bool) Session {
	out := clone(s)
	for i, p := range out.Participants {
		if p.ID == participantID {
			out.Participants[i].CurrentExerciseCompleted = completed
		}
	}
	return out
}

// Start moves the session into progress and records the start time.
func Start(s Session, now time.Time) Session {
	out := clone(s)
	out.Status = StatusInProgress
	out.StartedAt = &now
	return out
}

// Advance moves the shared cursor to the next part/component. The barrier:
// with requireAllToComplete set, every active participant must have
// completed first. On success every active participant's completion flag
// resets, so nobody sprints ahead of the group.
func Advance(s Session, nextPartIndex, nextComponentIndex int) (Session, error) {
	if s.RequireAllToComplete && !AllCompleted(s) {
		return Session{}, ErrAdvanceNotReady
	}
	out := clone(s)
	out.CurrentPartIndex = nextPartIndex
	out.CurrentComponentIndex = nextComponentIndex
	for i := range out.Participants {
		out.Participants[i].CurrentExerciseCompleted = false
	}
	return out, nil
}

// Complete ends the workout.
func Complete(s Session, now time.Time) Session {
	out := clone(s)
	out.Status = StatusCompleted
	out.EndedAt = &now
	return out
}

// Cancel aborts the session from any non-terminal state.
func Cancel(s Session, now time.Time) Session {
	out := clone(s)
	out.Status = StatusCancelled
	out.EndedAt = &now
	return out
}

func clone(s Session) Session {
	out := s
	out.Participants = make([]Participant, len(s.Participants))
	copy(out.Participants, s.Participants)
	return out
}
