package workout

import (
	"context"
	"encoding/json"

	"backend-fitsquad/internal/db"
)

// Store reads workout templates from Postgres. Exercises are stored as a
// jsonb column in the shape the content pipeline exports.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) ListByCategory(ctx context.Context, category Category) ([]Template, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, category, title, difficulty, COALESCE(instructions,''), target_attributes, COALESCE(rounds,1), exercises
		FROM workout_templates WHERE category=$1
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var tpl Template
		var exercises []byte
		if err := rows.Scan(&tpl.ID, &tpl.Category, &tpl.Title, &tpl.Difficulty, &tpl.Instructions, &tpl.TargetAttributes, &tpl.Rounds, &exercises); err != nil {
			return nil, err
		}
		if len(exercises) > 0 {
			if err := json.Unmarshal(exercises, &tpl.Exercises); err != nil {
				return nil, err
			}
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// LoadSet fetches the categories a pattern needs. Missing categories are
// reported by Compose, not here.
func (s *Store) LoadSet(ctx context.Context, pattern Pattern) (TemplateSet, error) {
	var set TemplateSet
	var err error

	load := func(cat Category, dst *[]Template) {
		if err != nil {
			return
		}
		*dst, err = s.ListByCategory(ctx, cat)
	}

	switch pattern {
	case PatternClassic:
		load(CategoryWarmup, &set.Warmup)
		load(CategoryCardio, &set.Cardio)
		load(CategoryStrength, &set.Strength)
	case PatternSpecial:
		load(CategoryWarmup, &set.Warmup)
		load(CategorySpecial, &set.Special)
	case PatternShort:
		load(CategoryCardio, &set.Cardio)
		load(CategoryStrength, &set.Strength)
		load(CategorySpecial, &set.Special)
	default:
		load(CategoryWarmup, &set.Warmup)
		load(CategoryCardio, &set.Cardio)
		load(CategoryStrength, &set.Strength)
		load(CategorySpecial, &set.Special)
	}
	return set, err
}
