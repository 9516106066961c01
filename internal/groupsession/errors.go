package groupsession

import "errors"

var (
	ErrInvalidCode     = errors.New("invalid session code")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
	ErrSessionFull     = errors.New("session is full")
	ErrAlreadyStarted  = errors.New("session has already started")
	ErrAlreadyJoined   = errors.New("already joined this session")
	// ErrAdvanceNotReady means the advance barrier is not satisfied: at
	// least one active participant has not completed the current exercise.
	ErrAdvanceNotReady = errors.New("not all participants have completed")
	// ErrAdvanceConflict means another client advanced the session first.
	// The caller should re-fetch and retry against the updated document.
	ErrAdvanceConflict = errors.New("session advanced concurrently")
)
