package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// FiltersInput identifies the session whose filter state is requested.
type FiltersInput struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

type filtersService interface {
	Filters(ctx context.Context, session kol.Session) ([]kol.Condition, error)
}

// FiltersQuery returns the session's current condition list, restored from
// the filter store when the session reloads.
type FiltersQuery struct {
	service filtersService
}

// NewFiltersQuery builds the query.
func NewFiltersQuery(service filtersService) *FiltersQuery {
	return &FiltersQuery{service: service}
}

var _ gocommand.Querier[FiltersInput, []kol.Condition] = (*FiltersQuery)(nil)

// Query resolves the session's filter conditions.
func (q *FiltersQuery) Query(ctx context.Context, input FiltersInput) ([]kol.Condition, error) {
	return q.service.Filters(ctx, kol.Session{ID: input.SessionID, UserID: input.UserID})
}
