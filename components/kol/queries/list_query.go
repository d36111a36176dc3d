package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// ListKOLsInput identifies a page request for a session. When Conditions is
// nil the session's committed filters apply.
type ListKOLsInput struct {
	SessionID  string          `json:"session_id"`
	UserID     string          `json:"user_id"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	Conditions []kol.Condition `json:"conditions,omitempty"`
}

type listService interface {
	ListKOLs(ctx context.Context, session kol.Session, opts kol.ListOptions) (kol.ListResult, error)
}

// ListKOLsQuery fetches one page of records through the service.
type ListKOLsQuery struct {
	service listService
}

// NewListKOLsQuery builds the query.
func NewListKOLsQuery(service listService) *ListKOLsQuery {
	return &ListKOLsQuery{service: service}
}

var _ gocommand.Querier[ListKOLsInput, kol.ListResult] = (*ListKOLsQuery)(nil)

// Query resolves a page of KOL records.
func (q *ListKOLsQuery) Query(ctx context.Context, input ListKOLsInput) (kol.ListResult, error) {
	session := kol.Session{ID: input.SessionID, UserID: input.UserID}
	return q.service.ListKOLs(ctx, session, kol.ListOptions{
		Page:       input.Page,
		Size:       input.Size,
		Conditions: input.Conditions,
	})
}
