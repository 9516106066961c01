package workout

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"backend-fitsquad/internal/levels"

	"github.com/google/uuid"
)

// ErrNoTemplates is returned when a required template category is empty.
// Callers surface it to the user and may retry; it is never fatal.
var ErrNoTemplates = errors.New("no workout templates available")

// TemplateSet holds the available templates per category, as returned by
// the template store.
type TemplateSet struct {
	Warmup   []Template
	Cardio   []Template
	Strength []Template
	Special  []Template
}

// Compose assembles a personalized workout. An empty pattern is resolved
// with a 50/50 draw between classic and special; within classic the order
// of the cardio and strength parts is shuffled 50/50. All randomness comes
// from rng so composition is deterministic under test.
func Compose(pattern Pattern, set TemplateSet, attrs Attributes, rng *rand.Rand) (Workout, error) {
	if pattern == "" {
		if rng.Intn(2) == 0 {
			pattern = PatternClassic
		} else {
			pattern = PatternSpecial
		}
	}

	switch pattern {
	case PatternClassic:
		warmup, err := pick(set.Warmup, rng)
		if err != nil {
			return Workout{}, err
		}
		cardio, err := pick(set.Cardio, rng)
		if err != nil {
			return Workout{}, err
		}
		strength, err := pick(set.Strength, rng)
		if err != nil {
			return Workout{}, err
		}
		mains := []Template{cardio, strength}
		if rng.Intn(2) == 1 {
			mains[0], mains[1] = mains[1], mains[0]
		}
		return assemble(PatternClassic,
			fmt.Sprintf("Full workout: %s + %s + %s", warmup.Title, mains[0].Title, mains[1].Title),
			"Warmup, cardio and strength",
			[]Template{warmup, mains[0], mains[1]}, attrs), nil

	case PatternSpecial:
		warmup, err := pick(set.Warmup, rng)
		if err != nil {
			return Workout{}, err
		}
		special, err := pick(set.Special, rng)
		if err != nil {
			return Workout{}, err
		}
		return assemble(PatternSpecial,
			fmt.Sprintf("Special workout: %s", special.Title),
			special.Instructions,
			[]Template{warmup, special}, attrs), nil

	case PatternShort:
		pool := append(append(append([]Template{}, set.Cardio...), set.Strength...), set.Special...)
		main, err := pick(pool, rng)
		if err != nil {
			return Workout{}, err
		}
		return assemble(PatternShort,
			fmt.Sprintf("Short workout: %s", main.Title),
			main.Instructions,
			[]Template{main}, attrs), nil

	default:
		return Workout{}, fmt.Errorf("unknown workout pattern %q", pattern)
	}
}

func pick(pool []Template, rng *rand.Rand) (Template, error) {
	if len(pool) == 0 {
		return Template{}, ErrNoTemplates
	}
	return pool[rng.Intn(len(pool))], nil
}

func assemble(pattern Pattern, title, description string, templates []Template, attrs Attributes) Workout {
	parts := make([]Part, 0, len(templates))
	difficulties := make([]Difficulty, 0, len(templates))
	var targets []string
	for _, tpl := range templates {
		parts = append(parts, BuildPart(tpl, attrs))
		difficulties = append(difficulties, tpl.Difficulty)
		targets = mergeAttributes(targets, tpl.TargetAttributes)
	}

	return Workout{
		ID:               uuid.NewString(),
		Pattern:          pattern,
		Title:            title,
		Description:      description,
		Parts:            parts,
		EstimatedMinutes: EstimateMinutes(parts),
		Difficulty:       aggregateDifficulty(difficulties),
		TargetAttributes: targets,
	}
}

// BuildPart resolves a template into a concrete part at the user's
// part-relevant level: the mean of the attribute levels named by the
// template's target attributes (1 when none match).
func BuildPart(tpl Template, attrs Attributes) Part {
	level := relevantLevel(attrs, tpl.TargetAttributes)
	overall := meanLevel(attrs)

	rounds := tpl.Rounds
	if rounds < 1 {
		rounds = 1
	}

	exercises := tpl.Exercises
	if len(exercises) == 0 {
		// Templates shipped without structured exercises become a single
		// timed block of the template itself.
		exercises = []TemplateExercise{{
			Name: tpl.Title,
			Kind: levels.TimeBased,
		}}
	}

	var components []Component
	for round := 0; round < rounds; round++ {
		for i, ex := range exercises {
			table := levels.Repair(ex.Values, ex.Kind)
			value := table.Resolve(level)

			name := ex.Name
			if rounds > 1 {
				name = fmt.Sprintf("%s (%d/%d)", ex.Name, round+1, rounds)
			}

			restAfter := adjustRest(defaultRest(ex.RestSeconds, tpl.Category), overall)
			lastOfPart := round == rounds-1 && i == len(exercises)-1
			if lastOfPart && (tpl.Category == CategoryStrength || tpl.Category == CategorySpecial) {
				restAfter = 0
			}

			components = append(components, Component{
				ID:           fmt.Sprintf("%s-r%d-e%d", tpl.Category, round, i),
				Kind:         componentKind(tpl.Category),
				Name:         name,
				Description:  describeValue(ex.Kind, value),
				Prescription: prescribe(ex.Kind, value),
				RestAfter:    restAfter,
				RequiresGPS:  requiresGPS(tpl.Category, ex.Kind),
				Instructions: tpl.Instructions,
			})
		}
	}

	partGPS := false
	for _, c := range components {
		if c.RequiresGPS {
			partGPS = true
			break
		}
	}

	return Part{
		ID:          fmt.Sprintf("part-%s", tpl.Category),
		Kind:        tpl.Category,
		Name:        tpl.Title,
		Components:  components,
		RequiresGPS: partGPS,
	}
}

func componentKind(cat Category) ComponentKind {
	switch cat {
	case CategoryWarmup:
		return ComponentWarmup
	case CategoryCardio:
		return ComponentCardio
	case CategoryStrength:
		return ComponentStrength
	case CategorySpecial:
		return ComponentSpecial
	}
	return ComponentRest
}

func requiresGPS(cat Category, kind levels.ValueKind) bool {
	if cat == CategoryCardio {
		return true
	}
	return kind == levels.DistanceBased
}

func prescribe(kind levels.ValueKind, value int) Prescription {
	switch kind {
	case levels.TimeBased:
		return Prescription{Kind: PrescriptionDuration, Value: value}
	case levels.DistanceBased:
		return Prescription{Kind: PrescriptionDistance, Value: value}
	default:
		return Prescription{Kind: PrescriptionReps, Value: value}
	}
}

func describeValue(kind levels.ValueKind, value int) string {
	switch kind {
	case levels.TimeBased:
		return fmt.Sprintf("%d sec", value)
	case levels.DistanceBased:
		return fmt.Sprintf("%.2f km", float64(value)/1000)
	default:
		return fmt.Sprintf("%d reps", value)
	}
}

func defaultRest(restSeconds int, cat Category) int {
	if restSeconds > 0 {
		return restSeconds
	}
	if cat == CategoryWarmup {
		return 30
	}
	return 60
}

// adjustRest scales the base rest by overall fitness: fitter users rest
// less, beginners rest longer.
func adjustRest(base int, overall float64) int {
	switch {
	case overall >= 8:
		return int(math.Round(float64(base) * 0.8))
	case overall >= 6:
		return int(math.Round(float64(base) * 0.9))
	case overall <= 3:
		return int(math.Round(float64(base) * 1.2))
	}
	return base
}

func relevantLevel(attrs Attributes, targets []string) float64 {
	sum, n := 0.0, 0
	for _, target := range targets {
		if v, ok := attrs[target]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}

func meanLevel(attrs Attributes) float64 {
	if len(attrs) == 0 {
		return 1
	}
	sum := 0.0
	for _, v := range attrs {
		sum += v
	}
	return sum / float64(len(attrs))
}

// EstimateMinutes sums per-component work time plus rest: seconds for
// timed work, distance at ~3 m/s, 3 seconds per rep, 30 seconds when the
// prescription is open.
func EstimateMinutes(parts []Part) int {
	total := 0.0
	for _, part := range parts {
		for _, c := range part.Components {
			switch c.Prescription.Kind {
			case PrescriptionDuration:
				total += float64(c.Prescription.Value)
			case PrescriptionDistance:
				total += float64(c.Prescription.Value) / 3
			case PrescriptionReps:
				total += float64(c.Prescription.Value) * 3
			default:
				total += 30
			}
			total += float64(c.RestAfter)
		}
	}
	return int(math.Ceil(total / 60))
}

var difficultyOrdinal = map[Difficulty]float64{
	DifficultyBeginner:     1,
	DifficultyIntermediate: 2,
	DifficultyAdvanced:     3,
	DifficultyElite:        4,
}

func aggregateDifficulty(difficulties []Difficulty) Difficulty {
	if len(difficulties) == 0 {
		return DifficultyIntermediate
	}
	sum := 0.0
	for _, d := range difficulties {
		ord, ok := difficultyOrdinal[d]
		if !ok {
			ord = 2
		}
		sum += ord
	}
	avg := sum / float64(len(difficulties))
	switch {
	case avg >= 3.5:
		return DifficultyElite
	case avg >= 2.5:
		return DifficultyAdvanced
	case avg >= 1.5:
		return DifficultyIntermediate
	}
	return DifficultyBeginner
}

func mergeAttributes(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, a := range dst {
		seen[a] = struct{}{}
	}
	for _, a := range src {
		if _, ok := seen[a]; !ok {
			dst = append(dst, a)
			seen[a] = struct{}{}
		}
	}
	return dst
}
