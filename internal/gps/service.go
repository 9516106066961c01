package gps

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrTrackNotFound means the track id is unknown on this instance and
	// no suspended buffer exists for it.
	ErrTrackNotFound = errors.New("track not found")
	// ErrLocationDenied disables GPS features for the session; the workout
	// continues without distance tracking.
	ErrLocationDenied = errors.New("location permission denied")
	// ErrLocationUnavailable means the device has no location capability.
	ErrLocationUnavailable = errors.New("location unavailable")
)

const bufferTTL = 24 * time.Hour

// Service owns the live trackers and persists suspended ones to Redis so
// a backgrounded app resumes its track instead of starting over.
type Service struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
	redis    *redis.Client
	now      func() time.Time
}

func NewService(redisClient *redis.Client) *Service {
	return &Service{
		trackers: make(map[string]*Tracker),
		redis:    redisClient,
		now:      time.Now,
	}
}

// Start creates a tracker for a new run. Denied and unavailable devices
// are rejected with distinct errors; a signal timeout is not a denial and
// tracking proceeds, degraded until fixes arrive.
func (s *Service) Start(units Units, capability Capability) (string, error) {
	switch capability {
	case CapabilityDenied:
		return "", ErrLocationDenied
	case CapabilityUnavailable:
		return "", ErrLocationUnavailable
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.trackers[id] = NewTracker(units, s.now)
	s.mu.Unlock()
	return id, nil
}

// AddFix feeds one sample to a track and returns the updated snapshot.
// The accepted flag tells the client whether the fix passed the accuracy
// filter.
func (s *Service) AddFix(id string, fix Fix) (Stats, bool, error) {
	tracker, err := s.get(id)
	if err != nil {
		return Stats{}, false, err
	}
	stats, accepted := tracker.AddFix(fix)
	return stats, accepted, nil
}

// Stats returns the current snapshot and whether the signal is weak.
func (s *Service) Stats(id string) (Stats, bool, error) {
	tracker, err := s.get(id)
	if err != nil {
		return Stats{}, false, err
	}
	return tracker.Stats(), tracker.WeakSignal(), nil
}

// Suspend persists the track buffer and drops the live tracker; Resume
// restores it. Used when the app is backgrounded mid-run.
func (s *Service) Suspend(ctx context.Context, id string) error {
	tracker, err := s.get(id)
	if err != nil {
		return err
	}
	if s.redis == nil {
		return nil
	}

	payload, err := json.Marshal(tracker.State())
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, bufferKey(id), payload, bufferTTL).Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.trackers, id)
	s.mu.Unlock()
	return nil
}

func (s *Service) Resume(ctx context.Context, id string) (Stats, error) {
	s.mu.Lock()
	if tracker, ok := s.trackers[id]; ok {
		s.mu.Unlock()
		return tracker.Stats(), nil
	}
	s.mu.Unlock()

	if s.redis == nil {
		return Stats{}, ErrTrackNotFound
	}

	payload, err := s.redis.Get(ctx, bufferKey(id)).Bytes()
	if err != nil {
		return Stats{}, ErrTrackNotFound
	}
	var state TrackerState
	if err := json.Unmarshal(payload, &state); err != nil {
		return Stats{}, err
	}

	tracker := Restore(state, s.now)
	s.mu.Lock()
	s.trackers[id] = tracker
	s.mu.Unlock()
	_ = s.redis.Del(ctx, bufferKey(id)).Err()

	return tracker.Stats(), nil
}

// Stop is idempotent: it returns a best-effort final snapshot even when
// the track is already gone or never accepted a fix.
func (s *Service) Stop(ctx context.Context, id string) Stats {
	s.mu.Lock()
	tracker, ok := s.trackers[id]
	if ok {
		delete(s.trackers, id)
	}
	s.mu.Unlock()

	if s.redis != nil {
		_ = s.redis.Del(ctx, bufferKey(id)).Err()
	}
	if !ok {
		return Stats{Units: UnitsMetric}
	}
	return tracker.Stop()
}

func (s *Service) get(id string) (*Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tracker, ok := s.trackers[id]
	if !ok {
		return nil, ErrTrackNotFound
	}
	return tracker, nil
}

func bufferKey(id string) string {
	return "gps:buffer:" + id
}
