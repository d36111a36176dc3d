package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	kol "github.com/goliatone/go-kol-admin/components/kol"
	"github.com/goliatone/go-kol-admin/components/kol/commands"
	"github.com/goliatone/go-kol-admin/components/kol/queries"
)

// Executor bundles command/query execution so transports depend on one
// surface instead of individual commanders.
type Executor interface {
	List(ctx context.Context, input queries.ListKOLsInput) (kol.ListResult, error)
	Create(ctx context.Context, input commands.CreateKOLInput) error
	Update(ctx context.Context, input commands.UpdateKOLInput) error
	Delete(ctx context.Context, input commands.DeleteKOLInput) error
	CommitFilters(ctx context.Context, input commands.CommitFiltersInput) error
	ClearFilters(ctx context.Context, input commands.ClearFiltersInput) error
	Filters(ctx context.Context, input queries.FiltersInput) ([]kol.Condition, error)
	Columns(ctx context.Context) ([]queries.ColumnDescriptor, error)
	Preferences(ctx context.Context, input queries.PreferencesInput) (kol.TablePreferences, error)
	SavePreferences(ctx context.Context, input commands.SavePreferencesInput) error
}

// CommandExecutor implements Executor over shared commands/queries.
type CommandExecutor struct {
	ListQuery       gocommand.Querier[queries.ListKOLsInput, kol.ListResult]
	CreateCommander gocommand.Commander[commands.CreateKOLInput]
	UpdateCommander gocommand.Commander[commands.UpdateKOLInput]
	DeleteCommander gocommand.Commander[commands.DeleteKOLInput]
	CommitCommander gocommand.Commander[commands.CommitFiltersInput]
	ClearCommander  gocommand.Commander[commands.ClearFiltersInput]
	FiltersQuery    gocommand.Querier[queries.FiltersInput, []kol.Condition]
	ColumnsQuery    gocommand.Querier[queries.ColumnsInput, []queries.ColumnDescriptor]
	PrefsQuery      gocommand.Querier[queries.PreferencesInput, kol.TablePreferences]
	PrefsCommander  gocommand.Commander[commands.SavePreferencesInput]
}

var _ Executor = (*CommandExecutor)(nil)

var errNotConfigured = errors.New("httpapi: handler not configured")

func (e *CommandExecutor) List(ctx context.Context, input queries.ListKOLsInput) (kol.ListResult, error) {
	if e.ListQuery == nil {
		return kol.ListResult{}, errNotConfigured
	}
	return e.ListQuery.Query(ctx, input)
}

func (e *CommandExecutor) Create(ctx context.Context, input commands.CreateKOLInput) error {
	if e.CreateCommander == nil {
		return errNotConfigured
	}
	return e.CreateCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Update(ctx context.Context, input commands.UpdateKOLInput) error {
	if e.UpdateCommander == nil {
		return errNotConfigured
	}
	return e.UpdateCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Delete(ctx context.Context, input commands.DeleteKOLInput) error {
	if e.DeleteCommander == nil {
		return errNotConfigured
	}
	return e.DeleteCommander.Execute(ctx, input)
}

func (e *CommandExecutor) CommitFilters(ctx context.Context, input commands.CommitFiltersInput) error {
	if e.CommitCommander == nil {
		return errNotConfigured
	}
	return e.CommitCommander.Execute(ctx, input)
}

func (e *CommandExecutor) ClearFilters(ctx context.Context, input commands.ClearFiltersInput) error {
	if e.ClearCommander == nil {
		return errNotConfigured
	}
	return e.ClearCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Filters(ctx context.Context, input queries.FiltersInput) ([]kol.Condition, error) {
	if e.FiltersQuery == nil {
		return nil, errNotConfigured
	}
	return e.FiltersQuery.Query(ctx, input)
}

func (e *CommandExecutor) Columns(ctx context.Context) ([]queries.ColumnDescriptor, error) {
	if e.ColumnsQuery == nil {
		return nil, errNotConfigured
	}
	return e.ColumnsQuery.Query(ctx, queries.ColumnsInput{})
}

func (e *CommandExecutor) Preferences(ctx context.Context, input queries.PreferencesInput) (kol.TablePreferences, error) {
	if e.PrefsQuery == nil {
		return kol.TablePreferences{}, errNotConfigured
	}
	return e.PrefsQuery.Query(ctx, input)
}

func (e *CommandExecutor) SavePreferences(ctx context.Context, input commands.SavePreferencesInput) error {
	if e.PrefsCommander == nil {
		return errNotConfigured
	}
	return e.PrefsCommander.Execute(ctx, input)
}

// Handlers exposes plain net/http endpoints backed by an Executor, for hosts
// that do not mount the go-router surface.
type Handlers struct {
	API Executor
}

func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	var payload queries.ListKOLsInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.API.List(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var payload commands.CreateKOLInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.Create(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request, kolID string) {
	var payload commands.UpdateKOLInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.KOLID = kolID
	if err := h.API.Update(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.API.Delete(r.Context(), commands.DeleteKOLInput{ID: id}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleCommitFilters(w http.ResponseWriter, r *http.Request) {
	var payload commands.CommitFiltersInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.CommitFilters(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps validation failures to 422 so field errors land next to the
// offending inputs; everything else is a 500 the UI surfaces as a toast.
func writeError(w http.ResponseWriter, err error) {
	var vErr *kol.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": vErr.Error(),
			"fields": vErr.Fields,
		})
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
