package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// UpdateKOLInput captures a full-object replace payload.
type UpdateKOLInput struct {
	KOLID  string  `json:"kol_id"`
	Record kol.KOL `json:"record"`
}

type updateService interface {
	UpdateKOL(ctx context.Context, kolID string, k kol.KOL) (kol.KOL, error)
}

// UpdateKOLCommand wraps Service.UpdateKOL.
type UpdateKOLCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewUpdateKOLCommand creates the command.
func NewUpdateKOLCommand(service updateService, telemetry Telemetry) *UpdateKOLCommand {
	return &UpdateKOLCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateKOLInput] = (*UpdateKOLCommand)(nil)

// Execute replaces the record.
func (c *UpdateKOLCommand) Execute(ctx context.Context, msg UpdateKOLInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	if msg.KOLID == "" {
		return errors.New("update command requires kol id")
	}
	if _, err := c.service.UpdateKOL(ctx, msg.KOLID, msg.Record); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kol.command.update", map[string]any{"kol_id": msg.KOLID})
	return nil
}
