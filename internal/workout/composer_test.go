package workout

import (
	"math/rand"
	"testing"

	"backend-fitsquad/internal/levels"
)

func repTable(low, high int) levels.ValueTable {
	var t levels.ValueTable
	t = t.Set(0, low).Set(levels.MaxLevel, high)
	return t
}

func testSet() TemplateSet {
	return TemplateSet{
		Warmup: []Template{{
			ID: "w1", Category: CategoryWarmup, Title: "Dynamic warmup",
			Difficulty: DifficultyBeginner, TargetAttributes: []string{"mobility"},
			Exercises: []TemplateExercise{
				{Name: "Jumping jacks", Kind: levels.TimeBased, Values: repTable(30, 60), RestSeconds: 20},
				{Name: "Arm circles", Kind: levels.RepBased, Values: repTable(10, 20)},
			},
		}},
		Cardio: []Template{{
			ID: "c1", Category: CategoryCardio, Title: "Interval run",
			Difficulty: DifficultyIntermediate, TargetAttributes: []string{"cardio_endurance"},
			Exercises: []TemplateExercise{
				{Name: "Run", Kind: levels.DistanceBased, Values: repTable(400, 1200), RestSeconds: 60},
			},
		}},
		Strength: []Template{{
			ID: "s1", Category: CategoryStrength, Title: "Push circuit",
			Difficulty: DifficultyAdvanced, TargetAttributes: []string{"push_strength"},
			Rounds: 3,
			Exercises: []TemplateExercise{
				{Name: "Push-ups", Kind: levels.RepBased, Values: repTable(10, 40), RestSeconds: 45},
				{Name: "Dips", Kind: levels.RepBased, Values: repTable(5, 25), RestSeconds: 60},
			},
		}},
		Special: []Template{{
			ID: "x1", Category: CategorySpecial, Title: "Hill sprints",
			Difficulty: DifficultyElite, TargetAttributes: []string{"explosiveness"},
			Exercises: []TemplateExercise{
				{Name: "Sprint", Kind: levels.DistanceBased, Values: repTable(100, 300), RestSeconds: 90},
			},
		}},
	}
}

func flatAttrs(level float64) Attributes {
	return Attributes{
		"cardio_endurance": level,
		"push_strength":    level,
		"mobility":         level,
		"explosiveness":    level,
	}
}

func TestComposeClassicShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w, err := Compose(PatternClassic, testSet(), flatAttrs(5), rng)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if w.Pattern != PatternClassic || len(w.Parts) != 3 {
		t.Fatalf("unexpected shape: %v parts", len(w.Parts))
	}
	if w.Parts[0].Kind != CategoryWarmup {
		t.Fatalf("expected warmup first, got %s", w.Parts[0].Kind)
	}
	seen := map[Category]bool{w.Parts[1].Kind: true, w.Parts[2].Kind: true}
	if !seen[CategoryCardio] || !seen[CategoryStrength] {
		t.Fatalf("expected cardio and strength parts, got %v", seen)
	}
	if w.ID == "" || w.EstimatedMinutes <= 0 {
		t.Fatalf("missing metadata: %+v", w)
	}
}

func TestComposeComponentsWellFormed(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	w, err := Compose(PatternClassic, testSet(), flatAttrs(5), rng)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	for _, part := range w.Parts {
		for _, c := range part.Components {
			if c.Kind == ComponentRest {
				continue
			}
			if c.Prescription.Kind == PrescriptionOpen {
				t.Fatalf("non-rest component %s has open prescription", c.ID)
			}
			if c.Prescription.Value <= 0 {
				t.Fatalf("component %s has value %d", c.ID, c.Prescription.Value)
			}
		}
	}
}

func TestClassicOrderShuffleIsSeeded(t *testing.T) {
	orders := map[Category]bool{}
	for seed := int64(0); seed < 16; seed++ {
		rng := rand.New(rand.NewSource(seed))
		w, err := Compose(PatternClassic, testSet(), flatAttrs(5), rng)
		if err != nil {
			t.Fatalf("compose: %v", err)
		}
		orders[w.Parts[1].Kind] = true

		again := rand.New(rand.NewSource(seed))
		w2, err := Compose(PatternClassic, testSet(), flatAttrs(5), again)
		if err != nil {
			t.Fatalf("compose: %v", err)
		}
		if w2.Parts[1].Kind != w.Parts[1].Kind {
			t.Fatalf("same seed produced different order")
		}
	}
	if !orders[CategoryCardio] || !orders[CategoryStrength] {
		t.Fatalf("shuffle never flipped across seeds: %v", orders)
	}
}

func TestRandomPatternDraw(t *testing.T) {
	patterns := map[Pattern]bool{}
	for seed := int64(0); seed < 16; seed++ {
		rng := rand.New(rand.NewSource(seed))
		w, err := Compose("", testSet(), flatAttrs(5), rng)
		if err != nil {
			t.Fatalf("compose: %v", err)
		}
		patterns[w.Pattern] = true
	}
	if !patterns[PatternClassic] || !patterns[PatternSpecial] {
		t.Fatalf("random draw never produced both patterns: %v", patterns)
	}
}

func TestRoundsExpandWithSuffix(t *testing.T) {
	part := BuildPart(testSet().Strength[0], flatAttrs(5))
	if len(part.Components) != 6 {
		t.Fatalf("expected 3 rounds x 2 exercises, got %d", len(part.Components))
	}
	if part.Components[0].Name != "Push-ups (1/3)" {
		t.Fatalf("unexpected first name %q", part.Components[0].Name)
	}
	last := part.Components[len(part.Components)-1]
	if last.Name != "Dips (3/3)" {
		t.Fatalf("unexpected last name %q", last.Name)
	}
	if last.RestAfter != 0 {
		t.Fatalf("last component of last round should have no rest, got %d", last.RestAfter)
	}
	for _, c := range part.Components[:len(part.Components)-1] {
		if c.RestAfter == 0 {
			t.Fatalf("only the final component should drop its rest")
		}
	}
}

func TestRestScalingByFitness(t *testing.T) {
	cases := []struct {
		mean float64
		want int
	}{
		{9, 48},  // 60 * 0.8
		{6, 54},  // 60 * 0.9
		{5, 60},  // unchanged
		{2, 72},  // 60 * 1.2
	}
	for _, tc := range cases {
		part := BuildPart(testSet().Cardio[0], flatAttrs(tc.mean))
		if got := part.Components[0].RestAfter; got != tc.want {
			t.Fatalf("mean %v: rest %d, want %d", tc.mean, got, tc.want)
		}
	}
}

func TestRelevantLevelDefaultsToOne(t *testing.T) {
	attrs := Attributes{"something_else": 9}
	part := BuildPart(testSet().Strength[0], attrs)
	// Level 1 on a 10..40 ramp resolves to 13.
	if got := part.Components[0].Prescription.Value; got != 13 {
		t.Fatalf("expected level-1 prescription 13, got %d", got)
	}
}

func TestGPSFlags(t *testing.T) {
	cardio := BuildPart(testSet().Cardio[0], flatAttrs(5))
	if !cardio.RequiresGPS || !cardio.Components[0].RequiresGPS {
		t.Fatalf("cardio part should require GPS")
	}
	strength := BuildPart(testSet().Strength[0], flatAttrs(5))
	if strength.RequiresGPS {
		t.Fatalf("strength part should not require GPS")
	}
	special := BuildPart(testSet().Special[0], flatAttrs(5))
	if !special.RequiresGPS {
		t.Fatalf("distance-based special part should require GPS")
	}
}

func TestComposeEmptyCategoryFails(t *testing.T) {
	set := testSet()
	set.Strength = nil
	rng := rand.New(rand.NewSource(3))
	if _, err := Compose(PatternClassic, set, flatAttrs(5), rng); err != ErrNoTemplates {
		t.Fatalf("expected ErrNoTemplates, got %v", err)
	}
}

func TestAggregateDifficulty(t *testing.T) {
	cases := []struct {
		in   []Difficulty
		want Difficulty
	}{
		{[]Difficulty{DifficultyElite, DifficultyElite, DifficultyAdvanced}, DifficultyElite},
		{[]Difficulty{DifficultyAdvanced, DifficultyIntermediate, DifficultyAdvanced}, DifficultyAdvanced},
		{[]Difficulty{DifficultyBeginner, DifficultyIntermediate}, DifficultyIntermediate},
		{[]Difficulty{DifficultyBeginner, DifficultyBeginner}, DifficultyBeginner},
	}
	for _, tc := range cases {
		if got := aggregateDifficulty(tc.in); got != tc.want {
			t.Fatalf("%v: got %s want %s", tc.in, got, tc.want)
		}
	}
}

func TestEstimateMinutes(t *testing.T) {
	parts := []Part{{
		Components: []Component{
			{Prescription: Prescription{Kind: PrescriptionDuration, Value: 60}, RestAfter: 30},
			{Prescription: Prescription{Kind: PrescriptionReps, Value: 10}, RestAfter: 0},
			{Prescription: Prescription{Kind: PrescriptionDistance, Value: 300}},
		},
	}}
	// 60 + 30 + 30 + 100 = 220s -> ceil(220/60) = 4 min
	if got := EstimateMinutes(parts); got != 4 {
		t.Fatalf("expected 4 minutes, got %d", got)
	}
}
