package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/query"
	"github.com/project-shkedia/media-db-service/pkg/schema"
	"github.com/project-shkedia/media-db-service/pkg/search"
)

// searchPage runs a filtered, paged select through view. Bounded pages carry
// the total across all pages.
func searchPage[T any](ctx context.Context, e *crud.Engine, logger *zap.Logger, view *schema.View[T], spec query.FilterSpec, page search.PageRequest) (search.PageResult[T], error) {
	search.LogFindings(logger, search.Inspect(spec))

	spec = spec.Clone()
	page.Bound(&spec)
	rows, err := crud.Select(ctx, e, view, spec)
	if err != nil {
		return search.PageResult[T]{}, err
	}

	result := search.FormatPage(rows, page.PageSize, page.PageNumber)
	if page.PageSize == nil {
		return result, nil
	}
	total, err := crud.Count(ctx, e, view.Entity, spec, view.Columns()...)
	if err != nil {
		return search.PageResult[T]{}, err
	}
	return result.WithTotal(total), nil
}
