package levels

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MaxLevel is the top of the 0-10 skill scale.
const MaxLevel = 10

const tableSize = MaxLevel + 1

// ValueKind declares what an exercise prescription counts.
type ValueKind string

const (
	RepBased      ValueKind = "rep_based"
	TimeBased     ValueKind = "time_based"
	DistanceBased ValueKind = "distance_based"
)

// ValueTable maps each skill level 0-10 to a prescribed value. Entries may
// be nil for levels the content author never filled in; Repair fills them.
type ValueTable [tableSize]*int

// Set returns a copy of the table with the given level filled in.
func (t ValueTable) Set(level, value int) ValueTable {
	t[level] = &value
	return t
}

// Resolve returns the prescription for a continuous level. The level is
// clamped to [0,10] and rounded to the nearest integer; a missing entry
// falls back to the lowest defined level, then to 1.
func (t ValueTable) Resolve(level float64) int {
	idx := int(math.Round(math.Max(0, math.Min(MaxLevel, level))))
	if v := t[idx]; v != nil && *v > 0 {
		return *v
	}
	for i := 0; i < tableSize; i++ {
		if v := t[i]; v != nil && *v > 0 {
			return *v
		}
	}
	return 1
}

// Repair fills the gaps of a sparse table:
//   - below the lowest known level the value ramps up toward the anchor,
//     never dropping under 1;
//   - above the highest known level the value is clamped to that anchor;
//   - between two known anchors the value is linearly interpolated and
//     rounded to the nearest integer.
//
// A table with no known values at all is replaced by the default ramp for
// the declared kind.
func Repair(t ValueTable, kind ValueKind) ValueTable {
	var known []int
	for i := 0; i < tableSize; i++ {
		if t[i] != nil {
			known = append(known, i)
		}
	}
	if len(known) == 0 {
		return DefaultTable(kind)
	}

	lowest, highest := known[0], known[len(known)-1]
	for i := 0; i < tableSize; i++ {
		if t[i] != nil {
			continue
		}
		var v int
		switch {
		case i < lowest:
			v = int(math.Floor(float64(*t[lowest]) * (0.5 + 0.5*float64(i)/float64(lowest))))
			if v < 1 {
				v = 1
			}
		case i > highest:
			v = *t[highest]
		default:
			lo, hi := lowest, highest
			for _, k := range known {
				if k < i && k > lo {
					lo = k
				}
				if k > i && k < hi {
					hi = k
				}
			}
			progress := float64(i-lo) / float64(hi-lo)
			v = int(math.Round(float64(*t[lo]) + progress*float64(*t[hi]-*t[lo])))
		}
		t[i] = &v
	}
	return t
}

// DefaultTable synthesizes a full ramp for templates shipped without any
// level data: reps 10-20, seconds 30-60, meters 100-200.
func DefaultTable(kind ValueKind) ValueTable {
	var t ValueTable
	for i := 0; i < tableSize; i++ {
		var v int
		switch kind {
		case TimeBased:
			v = 30 + i*3
		case DistanceBased:
			v = 100 + i*10
		default:
			v = 10 + i
		}
		t[i] = &v
	}
	return t
}

// UnmarshalJSON accepts both the array form ([10,null,...]) and the legacy
// object form keyed by stringified levels ({"0":10,"5":null,...}).
func (t *ValueTable) UnmarshalJSON(data []byte) error {
	var arr []*int
	if err := json.Unmarshal(data, &arr); err == nil {
		var out ValueTable
		for i := 0; i < tableSize && i < len(arr); i++ {
			out[i] = arr[i]
		}
		*t = out
		return nil
	}

	var obj map[string]*int
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("value table: %w", err)
	}
	var out ValueTable
	for key, v := range obj {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx > MaxLevel {
			continue
		}
		out[idx] = v
	}
	*t = out
	return nil
}

func (t ValueTable) MarshalJSON() ([]byte, error) {
	arr := make([]*int, tableSize)
	copy(arr, t[:])
	return json.Marshal(arr)
}
