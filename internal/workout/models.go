package workout

import "backend-fitsquad/internal/levels"

// Category of a workout template / part.
type Category string

const (
	CategoryWarmup   Category = "warmup"
	CategoryCardio   Category = "cardio"
	CategoryStrength Category = "strength"
	CategorySpecial  Category = "special"
)

// Pattern names the overall workout shape.
type Pattern string

const (
	PatternClassic Pattern = "classic"
	PatternSpecial Pattern = "special"
	PatternShort   Pattern = "short"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyElite        Difficulty = "elite"
)

// TemplateExercise is one exercise inside a template, with its per-level
// value table as authored.
type TemplateExercise struct {
	Name        string            `json:"name"`
	Kind        levels.ValueKind  `json:"type"`
	Values      levels.ValueTable `json:"values"`
	RestSeconds int               `json:"rest_seconds"`
}

// Template is the shape the template store returns per category.
type Template struct {
	ID               string             `json:"id"`
	Category         Category           `json:"category"`
	Title            string             `json:"title"`
	Difficulty       Difficulty         `json:"difficulty"`
	Instructions     string             `json:"instructions"`
	TargetAttributes []string           `json:"target_attributes"`
	Rounds           int                `json:"rounds"`
	Exercises        []TemplateExercise `json:"exercises"`
}

// PrescriptionKind discriminates what a component's value means.
type PrescriptionKind string

const (
	PrescriptionReps     PrescriptionKind = "rep"
	PrescriptionDuration PrescriptionKind = "time"
	PrescriptionDistance PrescriptionKind = "distance"
	PrescriptionOpen     PrescriptionKind = "open"
)

// Prescription carries exactly one resolved value, interpreted by Kind:
// reps, seconds, or meters. Open prescriptions (untimed rest) carry none.
type Prescription struct {
	Kind  PrescriptionKind `json:"kind"`
	Value int              `json:"value,omitempty"`
}

type ComponentKind string

const (
	ComponentWarmup   ComponentKind = "warmup"
	ComponentCardio   ComponentKind = "cardio"
	ComponentStrength ComponentKind = "strength"
	ComponentSpecial  ComponentKind = "special"
	ComponentRest     ComponentKind = "rest"
)

// Component is one exercise or rest instruction. Immutable once composed.
type Component struct {
	ID           string        `json:"id"`
	Kind         ComponentKind `json:"kind"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Prescription Prescription  `json:"prescription"`
	RestAfter    int           `json:"rest_after"`
	RequiresGPS  bool          `json:"requires_gps"`
	Instructions string        `json:"instructions,omitempty"`
}

// Part is a named phase of a workout with its ordered components.
type Part struct {
	ID          string      `json:"id"`
	Kind        Category    `json:"kind"`
	Name        string      `json:"name"`
	Components  []Component `json:"components"`
	RequiresGPS bool        `json:"requires_gps"`
}

// Workout is the fully personalized, ready-to-execute composition.
type Workout struct {
	ID               string     `json:"id"`
	Pattern          Pattern    `json:"pattern"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Parts            []Part     `json:"parts"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Difficulty       Difficulty `json:"difficulty"`
	TargetAttributes []string   `json:"target_attributes"`
}

// Attributes holds a user's 0-10 skill level per physical attribute.
type Attributes map[string]float64
