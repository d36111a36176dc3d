package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// SavePreferencesInput captures per-viewer table preference updates.
type SavePreferencesInput struct {
	SessionID   string               `json:"session_id"`
	UserID      string               `json:"user_id"`
	Preferences kol.TablePreferences `json:"preferences"`
}

type preferencesService interface {
	SaveTablePreferences(ctx context.Context, session kol.Session, prefs kol.TablePreferences) error
}

// SavePreferencesCommand wraps Service.SaveTablePreferences.
type SavePreferencesCommand struct {
	service   preferencesService
	telemetry Telemetry
}

// NewSavePreferencesCommand creates the command.
func NewSavePreferencesCommand(service preferencesService, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute persists the viewer's table preferences.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.service == nil {
		return errors.New("save preferences command requires service")
	}
	if msg.UserID == "" {
		return errors.New("save preferences command requires user id")
	}
	session := kol.Session{ID: msg.SessionID, UserID: msg.UserID}
	if err := c.service.SaveTablePreferences(ctx, session, msg.Preferences); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kol.command.preferences.save", map[string]any{"user_id": msg.UserID})
	return nil
}
