package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// CommitFiltersInput carries the filter panel's accumulated edits for one
// session, shipped when the panel closes.
type CommitFiltersInput struct {
	SessionID  string          `json:"session_id"`
	UserID     string          `json:"user_id"`
	Conditions []kol.Condition `json:"conditions"`
}

type filterService interface {
	CommitFilters(ctx context.Context, session kol.Session, conds []kol.Condition) error
	ClearFilters(ctx context.Context, session kol.Session) error
}

// CommitFiltersCommand wraps Service.CommitFilters.
type CommitFiltersCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewCommitFiltersCommand creates the command.
func NewCommitFiltersCommand(service filterService, telemetry Telemetry) *CommitFiltersCommand {
	return &CommitFiltersCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CommitFiltersInput] = (*CommitFiltersCommand)(nil)

// Execute replaces and commits the session's filter conditions.
func (c *CommitFiltersCommand) Execute(ctx context.Context, msg CommitFiltersInput) error {
	if c.service == nil {
		return errors.New("commit filters command requires service")
	}
	if msg.SessionID == "" {
		return errors.New("commit filters command requires session id")
	}
	session := kol.Session{ID: msg.SessionID, UserID: msg.UserID}
	if err := c.service.CommitFilters(ctx, session, msg.Conditions); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kol.command.filters.commit", map[string]any{
		"session_id": msg.SessionID,
		"count":      len(msg.Conditions),
	})
	return nil
}

// ClearFiltersInput identifies the session whose filters should be removed.
type ClearFiltersInput struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// ClearFiltersCommand wraps Service.ClearFilters.
type ClearFiltersCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewClearFiltersCommand creates the command.
func NewClearFiltersCommand(service filterService, telemetry Telemetry) *ClearFiltersCommand {
	return &ClearFiltersCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ClearFiltersInput] = (*ClearFiltersCommand)(nil)

// Execute empties the session's filters and drops the persisted entry.
func (c *ClearFiltersCommand) Execute(ctx context.Context, msg ClearFiltersInput) error {
	if c.service == nil {
		return errors.New("clear filters command requires service")
	}
	if msg.SessionID == "" {
		return errors.New("clear filters command requires session id")
	}
	session := kol.Session{ID: msg.SessionID, UserID: msg.UserID}
	if err := c.service.ClearFilters(ctx, session); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kol.command.filters.clear", map[string]any{"session_id": msg.SessionID})
	return nil
}
