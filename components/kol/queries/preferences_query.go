package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// PreferencesInput identifies the viewer whose preferences are requested.
type PreferencesInput struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

type preferencesService interface {
	TablePreferences(ctx context.Context, session kol.Session) (kol.TablePreferences, error)
}

// PreferencesQuery fetches per-viewer table preferences.
type PreferencesQuery struct {
	service preferencesService
}

// NewPreferencesQuery builds the query.
func NewPreferencesQuery(service preferencesService) *PreferencesQuery {
	return &PreferencesQuery{service: service}
}

var _ gocommand.Querier[PreferencesInput, kol.TablePreferences] = (*PreferencesQuery)(nil)

// Query resolves the viewer's table preferences.
func (q *PreferencesQuery) Query(ctx context.Context, input PreferencesInput) (kol.TablePreferences, error) {
	return q.service.TablePreferences(ctx, kol.Session{ID: input.SessionID, UserID: input.UserID})
}
