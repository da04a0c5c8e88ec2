package mongo

import (
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

var rangeOps = map[query.Op]string{
	query.OpGt:  "$gt",
	query.OpGte: "$gte",
	query.OpLt:  "$lt",
	query.OpLte: "$lte",
}

// filterOf renders the conditions of q as a find filter.
func filterOf(q *query.Query) bson.D {
	conds := q.Conditions()
	switch len(conds) {
	case 0:
		return bson.D{}
	case 1:
		return conditionOf(conds[0])
	}
	all := make(bson.A, 0, len(conds))
	for _, c := range conds {
		all = append(all, conditionOf(c))
	}
	return bson.D{{Key: "$and", Value: all}}
}

func conditionOf(c query.Condition) bson.D {
	switch c.Op {
	case query.OpContains:
		patterns := make(bson.A, 0, len(c.Values))
		for _, v := range c.Values {
			patterns = append(patterns, primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"})
		}
		return bson.D{{Key: c.Field, Value: bson.D{{Key: "$in", Value: patterns}}}}

	case query.OpGt, query.OpGte, query.OpLt, query.OpLte:
		return bson.D{{Key: c.Field, Value: bson.D{{Key: rangeOps[c.Op], Value: rangeValue(c)}}}}
	}

	// Request values are strings; a stored number or boolean still has to
	// match "5" or "true".
	values := make(bson.A, 0, len(c.Values)*2)
	for _, v := range c.Values {
		values = append(values, typedValues(v)...)
	}
	return bson.D{{Key: c.Field, Value: bson.D{{Key: "$in", Value: values}}}}
}

func typedValues(v string) bson.A {
	out := bson.A{v}
	s := strings.TrimSpace(v)
	if s == "true" || s == "false" {
		out = append(out, s == "true")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		out = append(out, f)
	}
	return out
}

func rangeValue(c query.Condition) any {
	if f, ok := c.Number(); ok {
		return f
	}
	if t, ok := c.Time(); ok {
		return t
	}
	return c.Value()
}

// findOptionsOf renders the sort and page window of q.
func findOptionsOf(q *query.Query) *options.FindOptions {
	opts := options.Find()

	sortFields := q.SortFields()
	sort := make(bson.D, 0, len(sortFields)+1)
	hasID := false
	for _, s := range sortFields {
		dir := 1
		if s.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: s.Field, Value: dir})
		hasID = hasID || s.Field == "_id"
	}
	if !hasID {
		// stable order across pages
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	opts.SetSort(sort)

	if q.Paginated() {
		opts.SetSkip(q.Skip()).SetLimit(q.Limit())
	}
	return opts
}
