package gps

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestServiceCapabilityErrors(t *testing.T) {
	svc := NewService(nil)

	if _, err := svc.Start(UnitsMetric, CapabilityDenied); err != ErrLocationDenied {
		t.Fatalf("expected ErrLocationDenied, got %v", err)
	}
	if _, err := svc.Start(UnitsMetric, CapabilityUnavailable); err != ErrLocationUnavailable {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
	// Timeout is a weak signal, not a denial: tracking still starts.
	if _, err := svc.Start(UnitsMetric, CapabilityTimeout); err != nil {
		t.Fatalf("timeout should not block tracking: %v", err)
	}
}

func TestServiceTrackLifecycle(t *testing.T) {
	svc := NewService(nil)
	id, err := svc.Start(UnitsMetric, CapabilityGranted)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	now := time.Now()
	_, accepted, err := svc.AddFix(id, Fix{Lat: 32.08, Lng: 34.78, AccuracyM: 5, Timestamp: now})
	if err != nil || !accepted {
		t.Fatalf("add fix: %v accepted=%v", err, accepted)
	}
	stats, accepted, err := svc.AddFix(id, Fix{Lat: 32.09, Lng: 34.78, AccuracyM: 5, Timestamp: now.Add(10 * time.Second)})
	if err != nil || !accepted {
		t.Fatalf("add fix: %v", err)
	}
	if stats.DistanceM < 1000 {
		t.Fatalf("distance not accumulating: %v", stats.DistanceM)
	}

	final := svc.Stop(context.Background(), id)
	if final.DistanceM < 1000 {
		t.Fatalf("final stats lost: %+v", final)
	}

	// Stop again: idempotent, best-effort empty snapshot.
	again := svc.Stop(context.Background(), id)
	if again.DistanceM != 0 {
		t.Fatalf("second stop should be empty: %+v", again)
	}

	if _, _, err := svc.AddFix(id, Fix{Lat: 32.1, Lng: 34.78, AccuracyM: 5}); err != ErrTrackNotFound {
		t.Fatalf("expected ErrTrackNotFound after stop, got %v", err)
	}
}

func TestServiceSuspendResume(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewService(client)
	id, err := svc.Start(UnitsMetric, CapabilityGranted)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	now := time.Now()
	svc.AddFix(id, Fix{Lat: 32.08, Lng: 34.78, AccuracyM: 5, Timestamp: now})
	svc.AddFix(id, Fix{Lat: 32.09, Lng: 34.78, AccuracyM: 5, Timestamp: now.Add(10 * time.Second)})

	if err := svc.Suspend(context.Background(), id); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if _, _, err := svc.Stats(id); err != ErrTrackNotFound {
		t.Fatalf("suspended track should be out of memory, got %v", err)
	}

	stats, err := svc.Resume(context.Background(), id)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if stats.DistanceM < 1000 {
		t.Fatalf("resume lost the buffer: %+v", stats)
	}

	// The buffer is consumed on resume.
	if mr.Exists(bufferKey(id)) {
		t.Fatalf("buffer should be deleted after resume")
	}
}

func TestServiceResumeUnknown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewService(client)
	if _, err := svc.Resume(context.Background(), "nope"); err != ErrTrackNotFound {
		t.Fatalf("expected ErrTrackNotFound, got %v", err)
	}
}
