package query

import (
	"strconv"
	"strings"
	"time"
)

// Result is one page of a listing together with its counts.
type Result[T any] struct {
	Items    []T
	Total    int64 // documents matching the base restriction
	Filtered int64 // documents matching every restriction, before pagination
	Page     int64
	PageSize int64
}

// Matches evaluates c against a document value in memory. v may be a string,
// a number, a bool, a time.Time or a []string; a slice matches when any
// element does, like an array field in a document store.
func (c Condition) Matches(v any) bool {
	if xs, ok := v.([]string); ok {
		for _, x := range xs {
			if c.Matches(x) {
				return true
			}
		}
		return false
	}

	switch c.Op {
	case OpEq:
		return equal(v, c.Value())
	case OpIn:
		for _, want := range c.Values {
			if equal(v, want) {
				return true
			}
		}
		return false
	case OpContains:
		s, ok := v.(string)
		if !ok {
			return false
		}
		s = strings.ToLower(s)
		for _, want := range c.Values {
			if strings.Contains(s, strings.ToLower(want)) {
				return true
			}
		}
		return false
	case OpGt, OpGte, OpLt, OpLte:
		cmp, ok := compare(v, c)
		if !ok {
			return false
		}
		switch c.Op {
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		case OpLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	}
	return false
}

// Match reports whether a document satisfies every condition of q. lookup
// returns the document's value for a field, or nil when it has none.
func (q *Query) Match(lookup func(field string) any) bool {
	for _, c := range q.conds {
		if !c.Matches(lookup(c.Field)) {
			return false
		}
	}
	return true
}

// Window applies q's pagination to an already filtered and sorted slice.
func Window[T any](q *Query, items []T) []T {
	if !q.paginated {
		return items
	}
	if q.skip >= int64(len(items)) {
		return []T{}
	}
	end := int64(len(items))
	if q.limit > 0 && q.skip+q.limit < end {
		end = q.skip + q.limit
	}
	return items[q.skip:end]
}

func equal(v any, want string) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x == want
	case bool:
		b, err := strconv.ParseBool(want)
		return err == nil && b == x
	case time.Time:
		t, ok := parseTime(want)
		return ok && t.Equal(x)
	}
	f, ok := toFloat(v)
	if !ok {
		return false
	}
	w, ok := parseNumber(want)
	return ok && f == w
}

// compare orders v against the condition value. Values of different kinds
// are not comparable.
func compare(v any, c Condition) (int, bool) {
	switch x := v.(type) {
	case time.Time:
		t, ok := c.Time()
		if !ok {
			return 0, false
		}
		return x.Compare(t), true
	case string:
		if _, numeric := c.Number(); numeric {
			return 0, false
		}
		return strings.Compare(x, c.Value()), true
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	w, ok := c.Number()
	if !ok {
		return 0, false
	}
	switch {
	case f < w:
		return -1, true
	case f > w:
		return 1, true
	}
	return 0, true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
