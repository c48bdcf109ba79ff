package aggregation

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// Filter is an equality filter keyed by dotted field path. Values are either
// plain values compared for equality or one of the condition types below.
type Filter map[string]interface{}

// InCondition matches when the field equals any of Values.
type InCondition struct {
	Values []interface{}
}

// NotEqualCondition matches when the field differs from Value.
type NotEqualCondition struct {
	Value interface{}
}

// In builds an InCondition.
func In(values ...interface{}) InCondition {
	return InCondition{Values: values}
}

// Ne builds a NotEqualCondition.
func Ne(value interface{}) NotEqualCondition {
	return NotEqualCondition{Value: value}
}

// BSON renders the filter with keys in sorted order.
func (f Filter) BSON() bson.D {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		var v interface{}
		switch c := f[k].(type) {
		case InCondition:
			v = bson.D{{Key: "$in", Value: bson.A(c.Values)}}
		case NotEqualCondition:
			v = bson.D{{Key: "$ne", Value: c.Value}}
		default:
			v = c
		}
		d = append(d, bson.E{Key: k, Value: v})
	}
	return d
}

// Matches reports whether doc satisfies every condition in f. Array fields
// match when any element does.
func (f Filter) Matches(doc Document) bool {
	for path, want := range f {
		candidates := matchCandidates(doc, splitPath(path))
		switch c := want.(type) {
		case InCondition:
			found := false
			for _, v := range c.Values {
				if containsEqual(candidates, Normalize(v)) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case NotEqualCondition:
			if containsEqual(candidates, Normalize(c.Value)) {
				return false
			}
		default:
			if !containsEqual(candidates, Normalize(want)) {
				return false
			}
		}
	}
	return true
}

// Merge combines f and other. It fails when both constrain the same path.
func (f Filter) Merge(other Filter) (Filter, bool) {
	out := make(Filter, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		if _, exists := out[k]; exists {
			return nil, false
		}
		out[k] = v
	}
	return out, true
}

func containsEqual(candidates []interface{}, want interface{}) bool {
	for _, c := range candidates {
		if valuesEqual(c, want) {
			return true
		}
	}
	return false
}
