// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch drives sequential pagination against a study catalog into an
// in-memory study set, enforcing a total-count quota and cooperative
// cancellation between pages.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/trialmatch/pkg/types"
)

// Query holds the catalog search parameters. Fields map directly onto the
// catalog's query and filter parameters; empty fields are omitted.
type Query struct {
	// Condition is the condition/disease search expression.
	Condition string

	// Terms is an additional free-text search expression.
	Terms string

	// RecruitingOnly restricts the query to actively recruiting studies.
	RecruitingOnly bool

	// PageSize is the number of studies requested per page. Accumulate
	// fills it in from Options; zero lets the source use its default.
	PageSize int
}

// Page is one page of catalog results. HasTotal reports whether the catalog
// included a total count; the count only appears when requested, so pages
// after the first normally carry HasTotal=false.
type Page struct {
	Studies    []types.Study
	TotalCount int
	HasTotal   bool
	NextToken  string
}

// Source returns one page of studies. The first page is requested with an
// empty pageToken; later pages pass the opaque continuation token from the
// previous page. Implementations own request timeouts and any retry policy;
// errors they return are propagated unchanged by Accumulate.
type Source interface {
	FetchPage(ctx context.Context, q Query, pageToken string) (Page, error)
}

// Options bounds an accumulation run.
type Options struct {
	// PageSize is the number of studies requested per page, carried to the
	// source on every FetchPage call.
	PageSize int

	// Quota aborts the run when the catalog reports more studies than this.
	// Zero means unlimited.
	Quota int

	// PageDelay is the fixed pacing pause before each page after the first.
	PageDelay time.Duration
}

// Result is the accumulated study set. HasTotal and TotalCount echo the
// catalog's reported total from the first page, when present.
type Result struct {
	Studies    []types.Study
	TotalCount int
	HasTotal   bool
}

// QuotaError reports that the catalog's total count exceeds the configured
// quota. It is raised after the first page and before any further request.
type QuotaError struct {
	TotalCount int
	Quota      int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("catalog reports %d studies, exceeding the quota of %d; narrow the query", e.TotalCount, e.Quota)
}

// Accumulate fetches pages from src until the continuation token runs out or
// the accumulated count reaches the catalog's reported total.
//
// Cancellation is observed synchronously before each pacing pause, and the
// pause itself aborts on ctx.Done(); once the context is cancelled no further
// catalog request is issued and no partial study set is returned. A reported
// total of zero returns an empty result after exactly one catalog call.
func Accumulate(ctx context.Context, src Source, q Query, opts Options) (Result, error) {
	if opts.PageSize > 0 {
		q.PageSize = opts.PageSize
	}

	page, err := src.FetchPage(ctx, q, "")
	if err != nil {
		return Result{}, fmt.Errorf("fetching first page: %w", err)
	}

	if opts.Quota > 0 && page.HasTotal && page.TotalCount > opts.Quota {
		return Result{}, &QuotaError{TotalCount: page.TotalCount, Quota: opts.Quota}
	}

	res := Result{
		Studies:    page.Studies,
		TotalCount: page.TotalCount,
		HasTotal:   page.HasTotal,
	}

	token := page.NextToken
	for token != "" {
		if res.HasTotal && len(res.Studies) >= res.TotalCount {
			break
		}

		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if opts.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(opts.PageDelay):
			}
		}

		page, err = src.FetchPage(ctx, q, token)
		if err != nil {
			return Result{}, fmt.Errorf("fetching page: %w", err)
		}
		res.Studies = append(res.Studies, page.Studies...)
		token = page.NextToken
	}

	return res, nil
}
