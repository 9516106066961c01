package gps

import "time"

// Units selects the measurement system for reported stats.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Fix is one raw location sample from the device.
type Fix struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	AccuracyM float64   `json:"accuracy_m"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats is the snapshot recomputed on every accepted fix. Distance stays
// in meters; pace and speed are converted to the selected units.
type Stats struct {
	DistanceM   float64 `json:"distance_m"`
	Pace        float64 `json:"pace"`  // minutes per km or per mile
	Speed       float64 `json:"speed"` // km/h or mph
	DurationSec float64 `json:"duration_sec"`
	Units       Units   `json:"units"`
}

// Capability is the device's answer to the location permission request.
type Capability string

const (
	CapabilityGranted     Capability = "granted"
	CapabilityDenied      Capability = "denied"
	CapabilityUnavailable Capability = "unavailable"
	// A timeout while acquiring signal still counts as granted: the user
	// may have allowed access while standing somewhere with no sky view.
	CapabilityTimeout Capability = "timeout"
)
