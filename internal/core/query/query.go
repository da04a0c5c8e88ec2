// Package query narrows a base collection query with untrusted request
// parameters. The steps are applied in a fixed order: keyword search, field
// filter, sort, pagination.
//
// A Query is immutable. Every step returns a copy, so callers keep the
// restricted-but-unpaginated query around to count filtered results:
//
//	q := query.New(base...).Search(p, "title").Filter(p)
//	page := q.Paginate(p, 15)
//	filtered := repo.Count(ctx, q) // not page
package query

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Reserved control keys. They steer the query and are never field filters.
const (
	KeyKeyword = "keyword"
	KeyPage    = "page"
	KeyLimit   = "limit"
	KeySort    = "sort"
)

// Params is the raw request mapping. url.Values is assignable to it.
type Params = map[string][]string

// IsReserved reports whether key is a control key.
func IsReserved(key string) bool {
	switch key {
	case KeyKeyword, KeyPage, KeyLimit, KeySort:
		return true
	}
	return false
}

// Op is the comparison a Condition applies to its field.
type Op string

const (
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpContains Op = "contains" // case-insensitive substring, any of Values
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
)

// IsRange reports whether op compares by order.
func (op Op) IsRange() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// Condition restricts one field. Values are kept as the raw request strings;
// typed interpretation happens in Number, Time and the store adapters.
type Condition struct {
	Field  string
	Op     Op
	Values []string
}

func Eq(field, value string) Condition {
	return Condition{Field: field, Op: OpEq, Values: []string{value}}
}

func In(field string, values ...string) Condition {
	return Condition{Field: field, Op: OpIn, Values: values}
}

func Contains(field string, values ...string) Condition {
	return Condition{Field: field, Op: OpContains, Values: values}
}

// Value returns the first value, or "".
func (c Condition) Value() string {
	if len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}

// Number parses the first value as a float.
func (c Condition) Number() (float64, bool) {
	return parseNumber(c.Value())
}

// Time parses the first value as an RFC 3339 timestamp or a plain date.
func (c Condition) Time() (time.Time, bool) {
	return parseTime(c.Value())
}

// SortField orders results by one field.
type SortField struct {
	Field string
	Desc  bool
}

func Asc(field string) SortField  { return SortField{Field: field} }
func Desc(field string) SortField { return SortField{Field: field, Desc: true} }

// Query is a base restriction plus everything derived from request params.
type Query struct {
	conds     []Condition
	base      int
	sort      []SortField
	page      int64
	skip      int64
	limit     int64
	paginated bool
}

// New starts a query restricted by base. Base conditions are what the total
// count of a listing is computed against.
func New(base ...Condition) *Query {
	conds := make([]Condition, len(base))
	copy(conds, base)
	return &Query{conds: conds, base: len(base), page: 1}
}

func (q *Query) clone() *Query {
	c := *q
	c.conds = make([]Condition, len(q.conds))
	copy(c.conds, q.conds)
	c.sort = make([]SortField, len(q.sort))
	copy(c.sort, q.sort)
	return &c
}

// Where adds a restriction.
func (q *Query) Where(conds ...Condition) *Query {
	c := q.clone()
	c.conds = append(c.conds, conds...)
	return c
}

// Search restricts field to documents containing the keyword param as a
// case-insensitive substring. A missing or blank keyword is the identity.
func (q *Query) Search(p Params, field string) *Query {
	kw := strings.TrimSpace(first(p, KeyKeyword))
	if kw == "" {
		return q
	}
	return q.Where(Contains(field, kw))
}

// FilterOption tunes how Filter reads params.
type FilterOption func(*filterConfig)

type filterConfig struct {
	insensitive map[string]string
	ignore      map[string]struct{}
}

// CaseInsensitive makes the named params match their field by
// case-insensitive substring instead of equality. Blank values are skipped.
func CaseInsensitive(fields ...string) FilterOption {
	return func(cfg *filterConfig) {
		for _, f := range fields {
			cfg.insensitive[f] = f
		}
	}
}

// CaseInsensitiveAs is CaseInsensitive for a param whose document field has a
// different name.
func CaseInsensitiveAs(param, field string) FilterOption {
	return func(cfg *filterConfig) {
		cfg.insensitive[param] = field
	}
}

// Ignore drops params the caller has already consumed or must never filter
// on. A name also covers its range forms ("password" drops "password[gte]").
func Ignore(keys ...string) FilterOption {
	return func(cfg *filterConfig) {
		for _, k := range keys {
			cfg.ignore[k] = struct{}{}
		}
	}
}

// Filter turns every non-reserved param into an AND-ed restriction:
//
//	field=v            equality
//	field=a&field=b    membership
//	field[gte]=10      range (gt, gte, lt, lte)
//
// Unknown fields pass through unchanged and simply match nothing. Keys that
// look like store operators ("$where", "a.$b") are not field names and are
// dropped.
func (q *Query) Filter(p Params, opts ...FilterOption) *Query {
	cfg := filterConfig{
		insensitive: map[string]string{},
		ignore:      map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		if IsReserved(k) {
			continue
		}
		if _, skip := cfg.ignore[k]; skip {
			continue
		}
		field := k
		if f, _, ok := rangeKey(k); ok {
			field = f
		}
		if _, skip := cfg.ignore[field]; skip || isOperatorKey(field) {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return q
	}
	sort.Strings(keys)

	c := q.clone()
	for _, k := range keys {
		values := p[k]
		if len(values) == 0 {
			continue
		}

		if field, ok := cfg.insensitive[k]; ok {
			nonBlank := make([]string, 0, len(values))
			for _, v := range values {
				if v = strings.TrimSpace(v); v != "" {
					nonBlank = append(nonBlank, v)
				}
			}
			if len(nonBlank) > 0 {
				c.conds = append(c.conds, Contains(field, nonBlank...))
			}
			continue
		}

		if field, op, ok := rangeKey(k); ok {
			for _, v := range values {
				c.conds = append(c.conds, Condition{Field: field, Op: op, Values: []string{v}})
			}
			continue
		}

		if len(values) == 1 {
			c.conds = append(c.conds, Eq(k, values[0]))
		} else {
			c.conds = append(c.conds, In(k, values...))
		}
	}
	return c
}

// Sort orders by the comma separated sort param ("-postedAt,title"), falling
// back to defaults when it is absent.
func (q *Query) Sort(p Params, defaults ...SortField) *Query {
	c := q.clone()
	c.sort = c.sort[:0]
	for _, part := range strings.Split(first(p, KeySort), ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			c.sort = append(c.sort, Desc(part[1:]))
		} else {
			c.sort = append(c.sort, Asc(strings.TrimPrefix(part, "+")))
		}
	}
	if len(c.sort) == 0 {
		c.sort = append(c.sort, defaults...)
	}
	return c
}

// Paginate restricts the result to one page of pageSize items. The page param
// is coerced: anything below 1 or non-numeric becomes 1. There is no upper
// bound; a page past the end is simply empty.
func (q *Query) Paginate(p Params, pageSize int64) *Query {
	if pageSize < 1 {
		pageSize = 1
	}
	page := PageOf(p)

	c := q.clone()
	c.page = page
	c.limit = pageSize
	c.paginated = true
	if page-1 > math.MaxInt64/pageSize {
		c.skip = math.MaxInt64
	} else {
		c.skip = (page - 1) * pageSize
	}
	return c
}

// Unpaginated drops any pagination, keeping every restriction and the sort.
func (q *Query) Unpaginated() *Query {
	c := q.clone()
	c.page, c.skip, c.limit, c.paginated = 1, 0, 0, false
	return c
}

// Base returns the query restricted only by the conditions given to New.
func (q *Query) Base() *Query {
	return New(q.conds[:q.base]...)
}

// PageOf returns the 1-based page requested by p.
func PageOf(p Params) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(first(p, KeyPage)), 64)
	if err != nil || math.IsNaN(f) || f < 1 {
		return 1
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}

func (q *Query) Conditions() []Condition {
	out := make([]Condition, len(q.conds))
	copy(out, q.conds)
	return out
}

func (q *Query) SortFields() []SortField {
	out := make([]SortField, len(q.sort))
	copy(out, q.sort)
	return out
}

func (q *Query) Page() int64     { return q.page }
func (q *Query) Skip() int64     { return q.skip }
func (q *Query) Limit() int64    { return q.limit }
func (q *Query) Paginated() bool { return q.paginated }

func isOperatorKey(key string) bool {
	return strings.HasPrefix(key, "$") || strings.Contains(key, ".$")
}

// rangeKey splits "salary[gte]" into ("salary", OpGte).
func rangeKey(key string) (string, Op, bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	op := Op(key[open+1 : len(key)-1])
	if !op.IsRange() {
		return "", "", false
	}
	return key[:open], op, true
}

func first(p Params, key string) string {
	if vs := p[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
