package kol

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	errMissingClient = errors.New("kol: api client not configured")
	errMissingKOLID  = errors.New("kol: kol id is required")
	errMissingID     = errors.New("kol: record id is required")
)

// Options configures the Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Client      Client
	Catalog     *Catalog
	FilterStore FilterStore
	Preferences PreferenceStore
	Validator   RecordValidator
	RefreshHook RefreshHook
	Notifier    Notifier
	Telemetry   Telemetry
}

// Service orchestrates the admin table: listing with translated filters,
// mutations against the external API, filter-panel state, and preferences.
type Service struct {
	opts Options

	mu     sync.Mutex
	panels map[string]*ConditionSet
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Catalog == nil {
		opts.Catalog = NewCatalog()
	}
	if opts.FilterStore == nil {
		opts.FilterStore = NewInMemoryFilterStore()
	}
	if opts.Preferences == nil {
		opts.Preferences = NewInMemoryPreferenceStore(opts.Catalog)
	}
	if opts.Validator == nil {
		opts.Validator = NewSchemaValidator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Notifier = normalizeNotifier(opts.Notifier)
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts, panels: map[string]*ConditionSet{}}
}

// Catalog exposes the column metadata registry.
func (s *Service) Catalog() *Catalog { return s.opts.Catalog }

// Pages returns the static page descriptors for the admin shell.
func (s *Service) Pages() []PageDescriptor { return DefaultPages() }

// ListOptions carries pagination plus an optional explicit condition list.
// When Conditions is nil the session's committed filters apply.
type ListOptions struct {
	Page       int
	Size       int
	Conditions []Condition
}

// ListKOLs fetches one page of records, translating committed filter
// conditions into the listing endpoint's query parameters. Invalid conditions
// are dropped, never errors.
func (s *Service) ListKOLs(ctx context.Context, session Session, opts ListOptions) (ListResult, error) {
	client, err := s.client()
	if err != nil {
		return ListResult{}, err
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Size < 1 {
		opts.Size = defaultPageSize
	}
	conds := opts.Conditions
	if conds == nil {
		conds, err = s.opts.FilterStore.Load(ctx, session)
		if err != nil {
			return ListResult{}, err
		}
	}
	result, err := client.List(ctx, ListRequest{
		Page:   opts.Page,
		Size:   opts.Size,
		Params: ListParams(conds, s.opts.Catalog),
	})
	if err != nil {
		s.notifyError(ctx, "Failed to load KOL list")
		return ListResult{}, fmt.Errorf("kol: list: %w", err)
	}
	s.opts.Telemetry.Record(ctx, "kol.list", map[string]any{
		"page": opts.Page, "size": opts.Size, "filters": len(conds),
	})
	return result, nil
}

// CreateKOL validates and creates a record. Validation errors return as
// *ValidationError for inline display; network errors surface as a
// notification and a wrapped error, with no retry.
func (s *Service) CreateKOL(ctx context.Context, k KOL) (KOL, error) {
	client, err := s.client()
	if err != nil {
		return KOL{}, err
	}
	if err := s.opts.Validator.Validate(k); err != nil {
		return KOL{}, err
	}
	created, err := client.Create(ctx, k)
	if err != nil {
		s.notifyError(ctx, "Failed to create KOL")
		return KOL{}, fmt.Errorf("kol: create: %w", err)
	}
	s.recordChanged(ctx, ChangeEvent{KOLID: created.KOLID, Reason: "create"})
	s.notifySuccess(ctx, "KOL created")
	s.opts.Telemetry.Record(ctx, "kol.create", map[string]any{"kol_id": created.KOLID})
	return created, nil
}

// UpdateKOL replaces the record identified by kolID. Full-object semantics:
// the mapper nulls out anything the client left unset.
func (s *Service) UpdateKOL(ctx context.Context, kolID string, k KOL) (KOL, error) {
	client, err := s.client()
	if err != nil {
		return KOL{}, err
	}
	if kolID == "" {
		return KOL{}, errMissingKOLID
	}
	if err := s.opts.Validator.Validate(k); err != nil {
		return KOL{}, err
	}
	updated, err := client.Update(ctx, kolID, k)
	if err != nil {
		s.notifyError(ctx, "Failed to update KOL")
		return KOL{}, fmt.Errorf("kol: update %s: %w", kolID, err)
	}
	s.recordChanged(ctx, ChangeEvent{KOLID: kolID, Reason: "update"})
	s.notifySuccess(ctx, "KOL updated")
	s.opts.Telemetry.Record(ctx, "kol.update", map[string]any{"kol_id": kolID})
	return updated, nil
}

// DeleteKOL removes a record.
func (s *Service) DeleteKOL(ctx context.Context, id string) error {
	client, err := s.client()
	if err != nil {
		return err
	}
	if id == "" {
		return errMissingID
	}
	if err := client.Delete(ctx, id); err != nil {
		s.notifyError(ctx, "Failed to delete KOL")
		return fmt.Errorf("kol: delete %s: %w", id, err)
	}
	s.recordChanged(ctx, ChangeEvent{KOLID: id, Reason: "delete"})
	s.notifySuccess(ctx, "KOL deleted")
	s.opts.Telemetry.Record(ctx, "kol.delete", map[string]any{"id": id})
	return nil
}

// FilterPanel returns (lazily creating) the filter panel model for a session.
// Committed filters broadcast a refresh so open tables refetch.
func (s *Service) FilterPanel(session Session) (*ConditionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if panel, ok := s.panels[session.ID]; ok {
		return panel, nil
	}
	panel, err := NewConditionSet(s.opts.Catalog, s.opts.FilterStore, session, func(conds []Condition) {
		ctx := context.Background()
		_ = s.opts.RefreshHook.RecordChanged(ctx, ChangeEvent{Reason: "filters"})
		s.opts.Telemetry.Record(ctx, "kol.filters.commit", map[string]any{"count": len(conds)})
	})
	if err != nil {
		return nil, err
	}
	s.panels[session.ID] = panel
	return panel, nil
}

// CommitFilters replaces the session's condition list with the panel's
// accumulated edits and closes the panel, triggering validation, persistence,
// and propagation in one transition.
func (s *Service) CommitFilters(ctx context.Context, session Session, conds []Condition) error {
	panel, err := s.FilterPanel(session)
	if err != nil {
		return err
	}
	panel.Open()
	if err := panel.Replace(ctx, conds); err != nil {
		return err
	}
	return panel.Close(ctx)
}

// ClearFilters empties the session's filters and removes the persisted entry.
func (s *Service) ClearFilters(ctx context.Context, session Session) error {
	panel, err := s.FilterPanel(session)
	if err != nil {
		return err
	}
	return panel.ClearAll(ctx)
}

// Filters returns the session's current condition list.
func (s *Service) Filters(ctx context.Context, session Session) ([]Condition, error) {
	panel, err := s.FilterPanel(session)
	if err != nil {
		return nil, err
	}
	return panel.Conditions(), nil
}

// TablePreferences returns the viewer's table preferences.
func (s *Service) TablePreferences(ctx context.Context, session Session) (TablePreferences, error) {
	return s.opts.Preferences.TablePreferences(ctx, session)
}

// SaveTablePreferences persists the viewer's table preferences.
func (s *Service) SaveTablePreferences(ctx context.Context, session Session, prefs TablePreferences) error {
	if err := s.opts.Preferences.SaveTablePreferences(ctx, session, prefs); err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "kol.preferences.save", map[string]any{
		"user_id": session.UserID, "columns": len(prefs.VisibleColumns),
	})
	return nil
}

func (s *Service) client() (Client, error) {
	if s.opts.Client == nil {
		return nil, errMissingClient
	}
	return s.opts.Client, nil
}

func (s *Service) recordChanged(ctx context.Context, event ChangeEvent) {
	_ = s.opts.RefreshHook.RecordChanged(ctx, event)
}

func (s *Service) notifyError(ctx context.Context, msg string) {
	_ = s.opts.Notifier.Notify(ctx, Notification{Level: NotifyError, Message: msg})
}

func (s *Service) notifySuccess(ctx context.Context, msg string) {
	_ = s.opts.Notifier.Notify(ctx, Notification{Level: NotifySuccess, Message: msg})
}
