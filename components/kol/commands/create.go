package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// CreateKOLInput captures a create payload. The server assigns identity; the
// browser refetches the list after the command succeeds.
type CreateKOLInput struct {
	Record kol.KOL `json:"record"`
}

type createService interface {
	CreateKOL(ctx context.Context, k kol.KOL) (kol.KOL, error)
}

// CreateKOLCommand wraps Service.CreateKOL.
type CreateKOLCommand struct {
	service   createService
	telemetry Telemetry
}

// NewCreateKOLCommand creates the command.
func NewCreateKOLCommand(service createService, telemetry Telemetry) *CreateKOLCommand {
	return &CreateKOLCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateKOLInput] = (*CreateKOLCommand)(nil)

// Execute validates and creates the record.
func (c *CreateKOLCommand) Execute(ctx context.Context, msg CreateKOLInput) error {
	if c.service == nil {
		return errors.New("create command requires service")
	}
	created, err := c.service.CreateKOL(ctx, msg.Record)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "kol.command.create", map[string]any{"kol_id": created.KOLID})
	return nil
}
