package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	kol "github.com/goliatone/go-kol-admin/components/kol"
	"github.com/goliatone/go-kol-admin/pkg/kolapi"
)

type cli struct {
	BaseURL string `help:"KOL API base URL." env:"KOL_API_URL" default:"http://localhost:8000"`
	APIKey  string `help:"Bearer token for the KOL API." env:"KOL_API_KEY"`
	Mock    bool   `help:"Use an in-memory mock backend instead of the REST API."`

	List    listCmd    `cmd:"" help:"List KOL records, optionally filtered."`
	Create  createCmd  `cmd:"" help:"Create a KOL record from a JSON file."`
	Update  updateCmd  `cmd:"" help:"Update a KOL record from a JSON file."`
	Delete  deleteCmd  `cmd:"" help:"Delete a KOL record by id."`
	Columns columnsCmd `cmd:"" help:"Print the column catalog with allowed operators."`
	Export  exportCmd  `cmd:"" help:"Export the column catalog as a YAML manifest."`
}

type application struct {
	client  kol.Client
	catalog *kol.Catalog
}

func main() {
	root := &cli{}
	kctx := kong.Parse(root,
		kong.Description("Admin utility for the KOL influencer directory."),
		kong.UsageOnError(),
	)
	client, err := root.buildClient()
	kctx.FatalIfErrorf(err)
	app := &application{client: client, catalog: kol.NewCatalog()}
	kctx.FatalIfErrorf(kctx.Run(context.Background(), app))
}

func (c *cli) buildClient() (kol.Client, error) {
	if c.Mock {
		return kolapi.NewMockClient(), nil
	}
	return kolapi.NewHTTPClient(kolapi.Config{
		BaseURL: c.BaseURL,
		APIKey:  c.APIKey,
	})
}

type listCmd struct {
	Page         int      `default:"1" help:"Page number (1-based)."`
	Size         int      `default:"10" help:"Page size."`
	Name         string   `help:"Filter by name substring."`
	Gender       string   `help:"Filter by gender (MALE, FEMALE, LGBT)."`
	Level        string   `help:"Filter by influencer level."`
	Location     string   `help:"Filter by location."`
	Source       string   `help:"Filter by source (Collabstr, Manual, Creable, Heepsy)."`
	Platform     string   `help:"Filter by platform (TikTok, Instagram, YouTube)."`
	SendStatus   string   `help:"Filter by outreach round."`
	MinFollowers *float64 `help:"Only records with more followers (in thousands)."`
	MaxFollowers *float64 `help:"Only records with fewer followers (in thousands)."`
	Format       string   `default:"table" enum:"table,json,csv" help:"Output format."`
}

func (cmd *listCmd) Run(ctx context.Context, app *application) error {
	conditions := cmd.conditions()
	result, err := app.client.List(ctx, kol.ListRequest{
		Page:   cmd.Page,
		Size:   cmd.Size,
		Params: kol.ListParams(conditions, app.catalog),
	})
	if err != nil {
		return fmt.Errorf("koladmin: list: %w", err)
	}
	switch cmd.Format {
	case "json":
		return writeJSON(os.Stdout, result)
	case "csv":
		return writeCSV(os.Stdout, result.Items)
	default:
		return writeTable(os.Stdout, result)
	}
}

func (cmd *listCmd) conditions() []kol.Condition {
	var conds []kol.Condition
	equal := func(column, value string) {
		if value != "" {
			conds = append(conds, kol.Condition{Column: column, Operator: kol.OpEqual, Value: value})
		}
	}
	equal("name", cmd.Name)
	equal("gender", cmd.Gender)
	equal("level", cmd.Level)
	equal("location", cmd.Location)
	equal("source", cmd.Source)
	equal("platform", cmd.Platform)
	equal("sendStatus", cmd.SendStatus)
	if cmd.MinFollowers != nil {
		conds = append(conds, kol.Condition{Column: "followersK", Operator: kol.OpGreater, Value: *cmd.MinFollowers})
	}
	if cmd.MaxFollowers != nil {
		conds = append(conds, kol.Condition{Column: "followersK", Operator: kol.OpLess, Value: *cmd.MaxFollowers})
	}
	return conds
}

type createCmd struct {
	File string `arg:"" type:"path" help:"Path to a JSON file with the record payload."`
}

func (cmd *createCmd) Run(ctx context.Context, app *application) error {
	record, err := readRecord(cmd.File)
	if err != nil {
		return err
	}
	created, err := app.client.Create(ctx, record.ToKOL())
	if err != nil {
		return fmt.Errorf("koladmin: create: %w", err)
	}
	fmt.Fprintf(os.Stdout, "✓ Created %s (%s)\n", created.Name, created.KOLID)
	return nil
}

type updateCmd struct {
	KOLID string `arg:"" help:"Stable kol_id of the record to update."`
	File  string `arg:"" type:"path" help:"Path to a JSON file with the record payload."`
}

func (cmd *updateCmd) Run(ctx context.Context, app *application) error {
	record, err := readRecord(cmd.File)
	if err != nil {
		return err
	}
	updated, err := app.client.Update(ctx, cmd.KOLID, record.ToKOL())
	if err != nil {
		return fmt.Errorf("koladmin: update: %w", err)
	}
	fmt.Fprintf(os.Stdout, "✓ Updated %s (%s)\n", updated.Name, updated.KOLID)
	return nil
}

type deleteCmd struct {
	ID string `arg:"" help:"Numeric id of the record to delete."`
}

func (cmd *deleteCmd) Run(ctx context.Context, app *application) error {
	if err := app.client.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("koladmin: delete: %w", err)
	}
	fmt.Fprintf(os.Stdout, "✓ Deleted %s\n", cmd.ID)
	return nil
}

type columnsCmd struct{}

func (cmd *columnsCmd) Run(_ context.Context, app *application) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTITLE\tKIND\tREMOTE\tOPERATORS")
	for _, col := range app.catalog.Columns() {
		ops := make([]string, 0, 6)
		for _, op := range kol.OperatorsFor(col.Kind) {
			ops = append(ops, string(op))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", col.Key, col.Title, col.Kind, col.RemoteKey(), strings.Join(ops, ","))
	}
	return w.Flush()
}

type exportCmd struct {
	Out  string `required:"" type:"path" help:"Path for the generated column manifest YAML."`
	Name string `default:"kol-columns" help:"Manifest name recorded in the document."`
}

func (cmd *exportCmd) Run(_ context.Context, app *application) error {
	doc := kol.ColumnManifestDocument{
		Version: kol.ManifestVersion,
		Name:    cmd.Name,
		Columns: app.catalog.Columns(),
	}
	if err := os.MkdirAll(filepath.Dir(cmd.Out), 0o755); err != nil {
		return fmt.Errorf("koladmin: mkdir %s: %w", filepath.Dir(cmd.Out), err)
	}
	file, err := os.Create(cmd.Out) //nolint:gosec
	if err != nil {
		return fmt.Errorf("koladmin: create manifest %s: %w", cmd.Out, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("koladmin: write manifest: %w", err)
	}
	fmt.Fprintf(os.Stdout, "✓ Wrote %d columns to %s\n", app.catalog.Len(), cmd.Out)
	return nil
}

func readRecord(path string) (kolapi.Record, error) {
	var record kolapi.Record
	data, err := os.ReadFile(path)
	if err != nil {
		return record, fmt.Errorf("koladmin: read record file: %w", err)
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("koladmin: parse record JSON: %w", err)
	}
	return record, nil
}

func writeJSON(w *os.File, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeTable(w *os.File, result kol.ListResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KOL_ID\tNAME\tPLATFORM\tFOLLOWERS_K\tLEVEL\tLOCATION\tSEND_STATUS")
	for _, item := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.KOLID, item.Name, item.Platform,
			strconv.FormatFloat(item.Metrics.FollowersK, 'f', -1, 64),
			item.Operational.Level, item.Location, item.Operational.SendStatus)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "page %d of %d (%d records)\n", result.Page, result.Pages, result.Total)
	return nil
}

func writeCSV(w *os.File, items []kol.KOL) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"kol_id", "name", "platform", "followers_k", "level", "location", "send_status"}); err != nil {
		return err
	}
	for _, item := range items {
		row := []string{
			item.KOLID, item.Name, item.Platform,
			strconv.FormatFloat(item.Metrics.FollowersK, 'f', -1, 64),
			item.Operational.Level, item.Location, item.Operational.SendStatus,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
