package gps

import (
	"log"
	"sync"
	"time"

	"backend-fitsquad/internal/shared/geo"
)

const (
	// Fixes with worse horizontal accuracy are dropped outright.
	maxAccuracyM = 50.0
	// Pace is computed over this trailing window of accepted fixes.
	paceWindow = 30 * time.Second
	// How long signal acquisition may take before the track reports a
	// weak signal. Indoor and urban starts are slow, so be generous.
	acquisitionWindow = 30 * time.Second
)

const (
	milesPerMeter = 0.000621371
	msToKmh       = 3.6
	msToMph       = 2.23694
)

// Tracker accumulates accepted fixes for one running track. It owns its
// state explicitly: create, feed fixes, stop. Nothing is global.
type Tracker struct {
	mu        sync.Mutex
	units     Units
	fixes     []Fix
	startTime time.Time
	tracking  bool
	now       func() time.Time
}

// NewTracker creates a started tracker. now may be nil outside tests.
func NewTracker(units Units, now func() time.Time) *Tracker {
	if units != UnitsImperial {
		units = UnitsMetric
	}
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		units:     units,
		startTime: now(),
		tracking:  true,
		now:       now,
	}
}

// AddFix filters and records one location sample. Rejected fixes are
// logged and never stored. The returned bool reports acceptance.
func (t *Tracker) AddFix(fix Fix) (Stats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tracking {
		return t.statsLocked(), false
	}
	if fix.AccuracyM > maxAccuracyM {
		log.Printf("gps: accuracy %.0fm too low, fix dropped", fix.AccuracyM)
		return t.statsLocked(), false
	}
	if fix.Timestamp.IsZero() {
		fix.Timestamp = t.now()
	}
	t.fixes = append(t.fixes, fix)
	return t.statsLocked(), true
}

// Stats returns the current snapshot.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statsLocked()
}

// WeakSignal reports whether no fix has been accepted within the
// acquisition window. It is a retryable condition, not a failure.
func (t *Tracker) WeakSignal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tracking {
		return false
	}
	last := t.startTime
	if n := len(t.fixes); n > 0 {
		last = t.fixes[n-1].Timestamp
	}
	return t.now().Sub(last) > acquisitionWindow
}

// Stop returns the final snapshot and clears the fix buffer and start
// time so a subsequent track starts fresh. Calling it again is a no-op
// that returns empty stats.
func (t *Tracker) Stop() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	final := t.statsLocked()
	t.tracking = false
	t.fixes = nil
	t.startTime = time.Time{}
	return final
}

// TrackerState is the persisted form of an interrupted track, saved when
// the app goes to background and restored on resume.
type TrackerState struct {
	Units     Units     `json:"units"`
	StartTime time.Time `json:"start_time"`
	Fixes     []Fix     `json:"fixes"`
}

// State snapshots the tracker for persistence.
func (t *Tracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	fixes := make([]Fix, len(t.fixes))
	copy(fixes, t.fixes)
	return TrackerState{Units: t.units, StartTime: t.startTime, Fixes: fixes}
}

// Restore rebuilds a running tracker from persisted state, so distance
// and duration continue rather than resetting.
func Restore(state TrackerState, now func() time.Time) *Tracker {
	t := NewTracker(state.Units, now)
	if !state.StartTime.IsZero() {
		t.startTime = state.StartTime
	}
	t.fixes = append(t.fixes, state.Fixes...)
	return t
}

func (t *Tracker) statsLocked() Stats {
	return Stats{
		DistanceM:   t.totalDistanceLocked(),
		Pace:        t.windowPaceLocked(),
		Speed:       t.currentSpeedLocked(),
		DurationSec: t.durationLocked(),
		Units:       t.units,
	}
}

func (t *Tracker) totalDistanceLocked() float64 {
	total := 0.0
	for i := 1; i < len(t.fixes); i++ {
		total += geo.HaversineM(t.fixes[i-1].Lat, t.fixes[i-1].Lng, t.fixes[i].Lat, t.fixes[i].Lng)
	}
	return total
}

// windowPaceLocked computes pace over the trailing window; with fewer
// than two fixes in the window it falls back to the lifetime average.
func (t *Tracker) windowPaceLocked() float64 {
	if len(t.fixes) < 2 {
		return 0
	}

	cutoff := t.now().Add(-paceWindow)
	start := len(t.fixes)
	for i, fix := range t.fixes {
		if !fix.Timestamp.Before(cutoff) {
			start = i
			break
		}
	}
	recent := t.fixes[start:]
	if len(recent) < 2 {
		return t.averagePaceLocked()
	}

	dist := 0.0
	for i := 1; i < len(recent); i++ {
		dist += geo.HaversineM(recent[i-1].Lat, recent[i-1].Lng, recent[i].Lat, recent[i].Lng)
	}
	elapsed := recent[len(recent)-1].Timestamp.Sub(recent[0].Timestamp).Seconds()
	if dist == 0 || elapsed == 0 {
		return 0
	}
	return (elapsed / 60) / t.convertDistance(dist)
}

func (t *Tracker) averagePaceLocked() float64 {
	dist := t.totalDistanceLocked()
	dur := t.durationLocked()
	if dist == 0 || dur == 0 {
		return 0
	}
	return (dur / 60) / t.convertDistance(dist)
}

func (t *Tracker) currentSpeedLocked() float64 {
	n := len(t.fixes)
	if n < 2 {
		return 0
	}
	a, b := t.fixes[n-2], t.fixes[n-1]
	dt := b.Timestamp.Sub(a.Timestamp).Seconds()
	if dt == 0 {
		return 0
	}
	ms := geo.HaversineM(a.Lat, a.Lng, b.Lat, b.Lng) / dt
	if t.units == UnitsImperial {
		return ms * msToMph
	}
	return ms * msToKmh
}

func (t *Tracker) durationLocked() float64 {
	if t.startTime.IsZero() {
		return 0
	}
	return t.now().Sub(t.startTime).Seconds()
}

func (t *Tracker) convertDistance(meters float64) float64 {
	if t.units == UnitsImperial {
		return meters * milesPerMeter
	}
	return meters / 1000
}
