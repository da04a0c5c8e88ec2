package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(raw string) Params {
	v, err := url.ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPaginate_CoercesPage(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantPage int64
		wantSkip int64
	}{
		{"missing", "", 1, 0},
		{"one", "page=1", 1, 0},
		{"negative", "page=-5", 1, 0},
		{"zero", "page=0", 1, 0},
		{"non numeric", "page=abc", 1, 0},
		{"fraction truncates", "page=2.7", 2, 15},
		{"third page", "page=3", 3, 30},
		{"padded", "page=%202%20", 2, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New().Paginate(params(tt.raw), 15)
			assert.Equal(t, tt.wantPage, q.Page())
			assert.Equal(t, tt.wantSkip, q.Skip())
			assert.Equal(t, int64(15), q.Limit())
			assert.True(t, q.Paginated())
		})
	}
}

func TestPaginate_NegativeEqualsFirstPage(t *testing.T) {
	base := New(Eq("status", "Open"))
	neg := base.Paginate(params("page=-5"), 15)
	one := base.Paginate(params("page=1"), 15)
	assert.Equal(t, one, neg)
}

func TestPaginate_HugePageClampsInsteadOfOverflowing(t *testing.T) {
	q := New().Paginate(params("page=1e30"), 15)
	assert.Equal(t, int64(math.MaxInt64), q.Page())
	assert.Equal(t, int64(math.MaxInt64), q.Skip())
	assert.Empty(t, Window(q, []int{1, 2, 3}))
}

func TestFilter_ReservedKeysOnlyIsNoop(t *testing.T) {
	q := New(Eq("status", "Open"))
	got := q.Filter(params("page=2&limit=10&keyword=go&sort=-title"))
	assert.Same(t, q, got)
}

func TestFilter_EqualityMembershipAndRanges(t *testing.T) {
	q := New().Filter(params("department=IT&city=Pune&city=Delhi&salary[gte]=1000&salary[lt]=5000&bogus[ne]=1"))

	assert.Equal(t, []Condition{
		{Field: "bogus[ne]", Op: OpEq, Values: []string{"1"}},
		In("city", "Pune", "Delhi"),
		Eq("department", "IT"),
		{Field: "salary", Op: OpGte, Values: []string{"1000"}},
		{Field: "salary", Op: OpLt, Values: []string{"5000"}},
	}, q.Conditions())
}

func TestFilter_CaseInsensitiveFields(t *testing.T) {
	p := params("employmentTypeCategory=full-time&location=pune&location=DELHI&locationType=")
	q := New().Filter(p,
		CaseInsensitive("employmentTypeCategory", "locationType"),
		CaseInsensitiveAs("location", "city"),
	)

	assert.Equal(t, []Condition{
		Contains("employmentTypeCategory", "full-time"),
		Contains("city", "pune", "DELHI"),
	}, q.Conditions())
}

func TestFilter_Ignore(t *testing.T) {
	q := New().Filter(params("title=x&owner=me"), Ignore("owner"))
	assert.Equal(t, []Condition{Eq("title", "x")}, q.Conditions())
}

func TestFilter_IgnoreCoversRangeForms(t *testing.T) {
	q := New().Filter(params("password[gte]=%242a%2410%24M&password=x&otp=123456&designation=nurse"), Ignore("password", "otp"))
	assert.Equal(t, []Condition{Eq("designation", "nurse")}, q.Conditions())
}

func TestFilter_DropsOperatorKeys(t *testing.T) {
	q := New(Eq("verified", "true")).Filter(params("%24where=x&profile.%24ne=1&%24or[gt]=1&city=Pune"))
	assert.Equal(t, []Condition{Eq("verified", "true"), Eq("city", "Pune")}, q.Conditions())
}

func TestSearch(t *testing.T) {
	q := New().Search(params("keyword=Eng"), "title")
	require.Len(t, q.Conditions(), 1)

	match := func(title string) bool {
		return q.Match(func(string) any { return title })
	}
	assert.True(t, match("Engineer"))
	assert.True(t, match("Software engineering lead"))
	assert.False(t, match("Marketing"))
}

func TestSearch_MissingOrBlankKeywordIsIdentity(t *testing.T) {
	q := New(Eq("status", "Open"))
	assert.Same(t, q, q.Search(params(""), "title"))
	assert.Same(t, q, q.Search(params("keyword=%20%20"), "title"))
}

func TestSearch_KeywordIsLiteral(t *testing.T) {
	q := New().Search(params("keyword=c%2B%2B"), "title")
	assert.True(t, q.Match(func(string) any { return "Senior C++ Developer" }))
	assert.False(t, q.Match(func(string) any { return "Senior C Developer" }))
}

func TestSort(t *testing.T) {
	q := New().Sort(params("sort=-salary,title"), Desc("postedAt"))
	assert.Equal(t, []SortField{Desc("salary"), Asc("title")}, q.SortFields())

	q = New().Sort(params(""), Desc("postedAt"))
	assert.Equal(t, []SortField{Desc("postedAt")}, q.SortFields())
}

func TestImmutability(t *testing.T) {
	base := New(Eq("status", "Open"))
	filtered := base.Filter(params("department=IT"))
	paged := filtered.Paginate(params("page=2"), 15)

	assert.Len(t, base.Conditions(), 1)
	assert.Len(t, filtered.Conditions(), 2)
	assert.False(t, filtered.Paginated())
	assert.True(t, paged.Paginated())

	un := paged.Unpaginated()
	assert.False(t, un.Paginated())
	assert.Equal(t, filtered.Conditions(), un.Conditions())
	assert.Equal(t, base.Conditions(), paged.Base().Conditions())
}

func TestConditionMatches(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		v    any
		want bool
	}{
		{"eq string", Eq("a", "x"), "x", true},
		{"eq string miss", Eq("a", "x"), "y", false},
		{"eq number", Eq("a", "10"), 10.0, true},
		{"eq bool", Eq("a", "true"), true, true},
		{"eq nil", Eq("a", "x"), nil, false},
		{"in", In("a", "x", "y"), "y", true},
		{"array any", Eq("a", "go"), []string{"java", "go"}, true},
		{"contains ci", Contains("a", "REMOTE"), "Fully remote", true},
		{"gte number", Condition{Field: "a", Op: OpGte, Values: []string{"1000"}}, int64(1000), true},
		{"gt number miss", Condition{Field: "a", Op: OpGt, Values: []string{"1000"}}, 999.0, false},
		{"lt number", Condition{Field: "a", Op: OpLt, Values: []string{"5000"}}, 4000, true},
		{"range on text vs number", Condition{Field: "a", Op: OpGt, Values: []string{"5"}}, "abc", false},
		{"range on strings", Condition{Field: "a", Op: OpLte, Values: []string{"m"}}, "c", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Matches(tt.v))
		})
	}
}

func TestWindow_SecondPageHoldsRemainder(t *testing.T) {
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}
	q := New().Paginate(params("page=2"), 15)
	assert.Equal(t, []int{15, 16, 17, 18, 19}, Window(q, items))
	assert.Len(t, Window(New(), items), 20)
}
