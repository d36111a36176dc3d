package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// DeleteKOLInput identifies the record to delete.
type DeleteKOLInput struct {
	ID string `json:"id"`
}

type deleteService interface {
	DeleteKOL(ctx context.Context, id string) error
}

// DeleteKOLCommand wraps Service.DeleteKOL.
type DeleteKOLCommand struct {
	service   deleteService
	telemetry Telemetry
}

// NewDeleteKOLCommand builds a command instance.
func NewDeleteKOLCommand(service deleteService, telemetry Telemetry) *DeleteKOLCommand {
	return &DeleteKOLCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteKOLInput] = (*DeleteKOLCommand)(nil)

// Execute deletes the record.
func (c *DeleteKOLCommand) Execute(ctx context.Context, msg DeleteKOLInput) error {
	if c.service == nil {
		return errors.New("delete command requires service")
	}
	if msg.ID == "" {
		return errors.New("delete command requires record id")
	}
	if err := c.service.DeleteKOL(ctx, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kol.command.delete", map[string]any{"id": msg.ID})
	return nil
}
