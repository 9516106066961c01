package groupsession

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backend-fitsquad/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Broadcaster delivers the updated session document to subscribed
// clients. The stream hub satisfies it.
type Broadcaster interface {
	Broadcast(sessionID string, payload []byte)
}

// Store applies the pure session transitions against the authoritative
// Postgres copy and broadcasts every successful mutation. The session
// document lives in a jsonb column; code, status, expiry and the progress
// cursor are mirrored into columns for lookup and the conditional
// advance.
type Store struct {
	db  db.Querier
	hub Broadcaster
	now func() time.Time
}

func NewStore(db db.Querier, hub Broadcaster) *Store {
	return &Store{db: db, hub: hub, now: time.Now}
}

// Create inserts a new session for the creator.
func (s *Store) Create(ctx context.Context, creatorID, creatorName, workoutTitle, workoutID string) (Session, error) {
	session := New(creatorID, creatorName, workoutTitle, workoutID, s.now())
	session.ID = uuid.NewString()

	doc, err := json.Marshal(session)
	if err != nil {
		return Session{}, err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO group_sessions (id, code, status, expires_at, current_part_index, current_component_index, doc, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
	`, session.ID, session.Code, session.Status, session.ExpiresAt, 0, 0, doc, session.CreatedAt)
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

// Get loads a session by id.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	return s.scanOne(s.db.QueryRow(ctx, `SELECT doc FROM group_sessions WHERE id=$1`, id))
}

// FindByCode looks a session up by its join code. An expired session is
// deleted as a side effect of the lookup and reported as expired.
func (s *Store) FindByCode(ctx context.Context, code string) (Session, error) {
	sanitized := SanitizeCode(code)
	if !ValidCodeFormat(sanitized) {
		return Session{}, ErrInvalidCode
	}

	session, err := s.scanOne(s.db.QueryRow(ctx, `SELECT doc FROM group_sessions WHERE code=$1`, sanitized))
	if err != nil {
		return Session{}, err
	}
	if IsExpired(session, s.now()) {
		_, _ = s.db.Exec(ctx, `DELETE FROM group_sessions WHERE id=$1`, session.ID)
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

// Join adds a participant to the session behind a code.
func (s *Store) Join(ctx context.Context, code, participantID, participantName string) (Session, error) {
	session, err := s.FindByCode(ctx, code)
	if err != nil {
		return Session{}, err
	}
	updated, err := AddParticipant(session, participantID, participantName, s.now())
	if err != nil {
		return Session{}, err
	}
	return s.save(ctx, updated)
}

// Leave is unconditional: it succeeds whenever the session exists, even
// mid-flight of other writes.
func (s *Store) Leave(ctx context.Context, sessionID, participantID string) (Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	return s.save(ctx, Leave(session, participantID, s.now()))
}

func (s *Store) SetReady(ctx context.Context, sessionID, participantID string, ready bool) (Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	return s.save(ctx, SetReady(session, participantID, ready))
}

func (s *Store) SetCompleted(ctx context.Context, sessionID, participantID string, completed bool) (Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	return s.save(ctx, SetCompleted(session, participantID, completed))
}

func (s *Store) Start(ctx context.Context, sessionID string) (Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	return s.save(ctx, Start(session, s.now()))
}

// MoveToNext advances the shared cursor. Two clients observing the same
// "all completed" state may both call this; the conditional update on the
// index columns lets exactly one win, the other gets ErrAdvanceConflict
// and should re-fetch.
func (s *Store) MoveToNext(ctx context.Context, sessionID string, nextPart, nextComponent int) (Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	updated, err := Advance(session, nextPart, nextComponent)
	if err != nil {
		return Session{}, err
	}

	doc, err := json.Marshal(updated)
	if err != nil {
		return Session{}, err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE group_sessions
		SET doc=$2, status=$3, current_part_index=$4, current_component_index=$5, updated_at=$6
		WHERE id=$1 AND current_part_index=$7 AND current_component_index=$8
	`, updated.ID, doc, updated.Status, nextPart, nextComponent, s.now(),
		session.CurrentPartIndex, session.CurrentComponentIndex)
	if err != nil {
		return Session{}, err
	}
	if tag.RowsAffected() == 0 {
		return Session{}, ErrAdvanceConflict
	}

	s.broadcast(updated, doc)
	return updated, nil
}

func (s *Store) Complete(ctx context.Context, sessionID string) (Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	return s.save(ctx, Complete(session, s.now()))
}

func (s *Store) Cancel(ctx context.Context, sessionID string) (Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	return s.save(ctx, Cancel(session, s.now()))
}

// ActiveSessionsFor lists unexpired, non-terminal sessions where the user
// is still an active participant.
func (s *Store) ActiveSessionsFor(ctx context.Context, userID string) ([]Session, error) {
	rows, err := s.db.Query(ctx, `
		SELECT doc FROM group_sessions
		WHERE status IN ('waiting','ready','in_progress') AND expires_at > $1
	`, s.now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var session Session
		if err := json.Unmarshal(doc, &session); err != nil {
			return nil, err
		}
		for _, p := range session.Participants {
			if p.ID == userID && !p.LeftSession {
				sessions = append(sessions, session)
				break
			}
		}
	}
	return sessions, rows.Err()
}

// Cleanup deletes expired sessions and terminal sessions that ended more
// than a day ago. Returns how many rows went away.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	now := s.now()
	tag, err := s.db.Exec(ctx, `
		DELETE FROM group_sessions
		WHERE expires_at < $1
		   OR (status IN ('completed','cancelled') AND ended_at < $2)
	`, now, now.Add(-24*time.Hour))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) save(ctx context.Context, session Session) (Session, error) {
	doc, err := json.Marshal(session)
	if err != nil {
		return Session{}, err
	}
	_, err = s.db.Exec(ctx, `
		UPDATE group_sessions
		SET doc=$2, status=$3, ended_at=$4, current_part_index=$5, current_component_index=$6, updated_at=$7
		WHERE id=$1
	`, session.ID, doc, session.Status, session.EndedAt, session.CurrentPartIndex, session.CurrentComponentIndex, s.now())
	if err != nil {
		return Session{}, err
	}

	s.broadcast(session, doc)
	return session, nil
}

func (s *Store) broadcast(session Session, doc []byte) {
	if s.hub != nil {
		s.hub.Broadcast(session.ID, doc)
	}
}

func (s *Store) scanOne(row pgx.Row) (Session, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	var session Session
	if err := json.Unmarshal(doc, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}
