package kol

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
)

type fakeClient struct {
	mu       sync.Mutex
	lastReq  ListRequest
	listErr  error
	items    []KOL
	created  []KOL
	updated  map[string]KOL
	deleted  []string
	writeErr error
}

func newFakeClient(items ...KOL) *fakeClient {
	return &fakeClient{items: items, updated: map[string]KOL{}}
}

func (f *fakeClient) List(_ context.Context, req ListRequest) (ListResult, error) {
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()
	if f.listErr != nil {
		return ListResult{}, f.listErr
	}
	return ListResult{
		Total: len(f.items),
		Page:  req.Page,
		Size:  req.Size,
		Pages: 1,
		Items: f.items,
	}, nil
}

func (f *fakeClient) Create(_ context.Context, k KOL) (KOL, error) {
	if f.writeErr != nil {
		return KOL{}, f.writeErr
	}
	k.KOLID = "kol_1"
	f.mu.Lock()
	f.created = append(f.created, k)
	f.mu.Unlock()
	return k, nil
}

func (f *fakeClient) Update(_ context.Context, kolID string, k KOL) (KOL, error) {
	if f.writeErr != nil {
		return KOL{}, f.writeErr
	}
	f.mu.Lock()
	f.updated[kolID] = k
	f.mu.Unlock()
	return k, nil
}

func (f *fakeClient) Delete(_ context.Context, id string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) lastParams() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq.Params
}

type collectingHook struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (h *collectingHook) RecordChanged(_ context.Context, event ChangeEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *collectingHook) byReason(reason string) []ChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []ChangeEvent
	for _, e := range h.events {
		if e.Reason == reason {
			out = append(out, e)
		}
	}
	return out
}

type collectingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
}

func (n *collectingNotifier) Notify(_ context.Context, notification Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
	return nil
}

func (n *collectingNotifier) last() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notifications) == 0 {
		return Notification{}, false
	}
	return n.notifications[len(n.notifications)-1], true
}

func TestListKOLsTranslatesCommittedFilters(t *testing.T) {
	client := newFakeClient(KOL{Name: "Ava"})
	service := NewService(Options{Client: client})
	session := Session{ID: "s1", UserID: "u1"}

	err := service.CommitFilters(context.Background(), session, []Condition{
		{Column: "followersK", Operator: OpGreater, Value: float64(100)},
		{Column: "platform", Operator: OpEqual, Value: "TikTok"},
	})
	if err != nil {
		t.Fatalf("CommitFilters: %v", err)
	}

	result, err := service.ListKOLs(context.Background(), session, ListOptions{Page: 2, Size: 20})
	if err != nil {
		t.Fatalf("ListKOLs: %v", err)
	}
	if result.Page != 2 {
		t.Fatalf("expected page 2, got %d", result.Page)
	}
	params := client.lastParams()
	if params.Get("min_followers") != "100" {
		t.Fatalf("expected min_followers=100, got %q", params.Get("min_followers"))
	}
	if params.Get("platform") != "TikTok" {
		t.Fatalf("expected platform=TikTok, got %q", params.Get("platform"))
	}
}

func TestListKOLsExplicitConditionsBypassStore(t *testing.T) {
	client := newFakeClient()
	service := NewService(Options{Client: client})
	session := Session{ID: "s1"}

	_, err := service.ListKOLs(context.Background(), session, ListOptions{
		Conditions: []Condition{{Column: "name", Operator: OpEqual, Value: "Jonas"}},
	})
	if err != nil {
		t.Fatalf("ListKOLs: %v", err)
	}
	if client.lastParams().Get("name") != "Jonas" {
		t.Fatalf("expected explicit condition applied, got %v", client.lastParams())
	}
}

func TestListKOLsDefaultsPagination(t *testing.T) {
	client := newFakeClient()
	service := NewService(Options{Client: client})
	if _, err := service.ListKOLs(context.Background(), Session{ID: "s"}, ListOptions{}); err != nil {
		t.Fatalf("ListKOLs: %v", err)
	}
	if client.lastReq.Page != 1 || client.lastReq.Size != 10 {
		t.Fatalf("expected defaults page=1 size=10, got %d/%d", client.lastReq.Page, client.lastReq.Size)
	}
}

func TestListKOLsNotifiesOnFailure(t *testing.T) {
	client := newFakeClient()
	client.listErr = errors.New("boom")
	notifier := &collectingNotifier{}
	service := NewService(Options{Client: client, Notifier: notifier})
	if _, err := service.ListKOLs(context.Background(), Session{ID: "s"}, ListOptions{}); err == nil {
		t.Fatalf("expected error")
	}
	note, ok := notifier.last()
	if !ok || note.Level != NotifyError {
		t.Fatalf("expected error notification, got %#v", note)
	}
}

func TestCreateKOLRejectsInvalidRecord(t *testing.T) {
	client := newFakeClient()
	service := NewService(Options{Client: client})
	_, err := service.CreateKOL(context.Background(), KOL{Email: "nope"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(client.created) != 0 {
		t.Fatalf("invalid record must not reach the API")
	}
}

func TestCreateKOLEmitsRefreshAndNotification(t *testing.T) {
	client := newFakeClient()
	hook := &collectingHook{}
	notifier := &collectingNotifier{}
	service := NewService(Options{Client: client, RefreshHook: hook, Notifier: notifier})

	created, err := service.CreateKOL(context.Background(), KOL{Name: "Ava", Email: "ava@example.com"})
	if err != nil {
		t.Fatalf("CreateKOL: %v", err)
	}
	if created.KOLID != "kol_1" {
		t.Fatalf("expected server-assigned kol id, got %q", created.KOLID)
	}
	if len(hook.byReason("create")) != 1 {
		t.Fatalf("expected a create refresh event, got %#v", hook.events)
	}
	note, ok := notifier.last()
	if !ok || note.Level != NotifySuccess {
		t.Fatalf("expected success notification, got %#v", note)
	}
}

func TestUpdateKOLRequiresID(t *testing.T) {
	service := NewService(Options{Client: newFakeClient()})
	if _, err := service.UpdateKOL(context.Background(), "", KOL{}); err == nil {
		t.Fatalf("expected error without kol id")
	}
}

func TestUpdateKOLSurfacesClientFailure(t *testing.T) {
	client := newFakeClient()
	client.writeErr = errors.New("boom")
	notifier := &collectingNotifier{}
	service := NewService(Options{Client: client, Notifier: notifier})
	if _, err := service.UpdateKOL(context.Background(), "kol_1", KOL{Name: "Ava"}); err == nil {
		t.Fatalf("expected error")
	}
	note, ok := notifier.last()
	if !ok || note.Level != NotifyError {
		t.Fatalf("expected error notification, got %#v", note)
	}
}

func TestDeleteKOLEmitsRefresh(t *testing.T) {
	client := newFakeClient()
	hook := &collectingHook{}
	service := NewService(Options{Client: client, RefreshHook: hook})
	if err := service.DeleteKOL(context.Background(), "7"); err != nil {
		t.Fatalf("DeleteKOL: %v", err)
	}
	if len(client.deleted) != 1 || client.deleted[0] != "7" {
		t.Fatalf("expected delete forwarded, got %v", client.deleted)
	}
	if len(hook.byReason("delete")) != 1 {
		t.Fatalf("expected a delete refresh event")
	}
}

func TestServiceRequiresClient(t *testing.T) {
	service := NewService(Options{})
	if _, err := service.ListKOLs(context.Background(), Session{ID: "s"}, ListOptions{}); err == nil {
		t.Fatalf("expected missing client error")
	}
}

func TestCommitFiltersBroadcastsRefresh(t *testing.T) {
	hook := &collectingHook{}
	service := NewService(Options{Client: newFakeClient(), RefreshHook: hook})
	session := Session{ID: "s1"}
	err := service.CommitFilters(context.Background(), session, []Condition{
		{Column: "name", Operator: OpEqual, Value: "Ava"},
	})
	if err != nil {
		t.Fatalf("CommitFilters: %v", err)
	}
	if len(hook.byReason("filters")) != 1 {
		t.Fatalf("expected a filters refresh event, got %#v", hook.events)
	}
	conds, err := service.Filters(context.Background(), session)
	if err != nil {
		t.Fatalf("Filters: %v", err)
	}
	if len(conds) != 1 || conds[0].Value != "Ava" {
		t.Fatalf("expected committed condition, got %#v", conds)
	}
}

func TestClearFiltersEmptiesSession(t *testing.T) {
	store := NewInMemoryFilterStore()
	service := NewService(Options{Client: newFakeClient(), FilterStore: store})
	session := Session{ID: "s1"}
	err := service.CommitFilters(context.Background(), session, []Condition{
		{Column: "name", Operator: OpEqual, Value: "Ava"},
	})
	if err != nil {
		t.Fatalf("CommitFilters: %v", err)
	}
	if !store.Has(session) {
		t.Fatalf("expected persisted filters")
	}
	if err := service.ClearFilters(context.Background(), session); err != nil {
		t.Fatalf("ClearFilters: %v", err)
	}
	if store.Has(session) {
		t.Fatalf("expected persisted entry removed")
	}
	conds, _ := service.Filters(context.Background(), session)
	if len(conds) != 0 {
		t.Fatalf("expected empty conditions, got %#v", conds)
	}
}

func TestFilterPanelIsPerSession(t *testing.T) {
	service := NewService(Options{Client: newFakeClient()})
	a, err := service.FilterPanel(Session{ID: "a"})
	if err != nil {
		t.Fatalf("FilterPanel: %v", err)
	}
	b, err := service.FilterPanel(Session{ID: "b"})
	if err != nil {
		t.Fatalf("FilterPanel: %v", err)
	}
	if a == b {
		t.Fatalf("sessions must not share panels")
	}
	again, _ := service.FilterPanel(Session{ID: "a"})
	if a != again {
		t.Fatalf("expected the same panel for the same session")
	}
}

func TestSaveTablePreferencesRoundTrip(t *testing.T) {
	service := NewService(Options{Client: newFakeClient()})
	session := Session{ID: "s1", UserID: "u1"}
	err := service.SaveTablePreferences(context.Background(), session, TablePreferences{
		VisibleColumns: []string{"name"},
		PageSize:       20,
	})
	if err != nil {
		t.Fatalf("SaveTablePreferences: %v", err)
	}
	prefs, err := service.TablePreferences(context.Background(), session)
	if err != nil {
		t.Fatalf("TablePreferences: %v", err)
	}
	if len(prefs.VisibleColumns) != 1 || prefs.PageSize != 20 {
		t.Fatalf("unexpected preferences %#v", prefs)
	}
}
