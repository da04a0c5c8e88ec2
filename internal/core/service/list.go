package service

import (
	"context"
	"fmt"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// ResultPerPage is the page size of every listing endpoint.
const ResultPerPage = 15

// hideCredentials keeps account listings from filtering on credential
// fields, which would let callers probe hashes and codes by range.
var hideCredentials = query.Ignore(
	"password",
	"otp",
	"otp_expiry",
	"reset_password_token",
	"reset_password_expire",
)

type lister[T any] interface {
	Find(ctx context.Context, q *query.Query) ([]T, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
}

// list runs q one page at a time. The filtered count is taken from the
// unpaginated query, never from the page itself.
func list[T any](ctx context.Context, repo lister[T], q *query.Query, p query.Params) (query.Result[T], error) {
	total, err := repo.Count(ctx, q.Base())
	if err != nil {
		return query.Result[T]{}, fmt.Errorf("count all: %w", err)
	}
	filtered, err := repo.Count(ctx, q.Unpaginated())
	if err != nil {
		return query.Result[T]{}, fmt.Errorf("count filtered: %w", err)
	}

	page := q.Paginate(p, ResultPerPage)
	items, err := repo.Find(ctx, page)
	if err != nil {
		return query.Result[T]{}, fmt.Errorf("find: %w", err)
	}
	if items == nil {
		items = []T{}
	}

	return query.Result[T]{
		Items:    items,
		Total:    total,
		Filtered: filtered,
		Page:     page.Page(),
		PageSize: ResultPerPage,
	}, nil
}
