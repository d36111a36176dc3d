package commands

import (
	"context"
	"testing"

	kol "github.com/goliatone/go-kol-admin/components/kol"
)

type stubService struct {
	createCalls int
	updateCalls int
	deleteCalls int
	commitCalls int
	clearCalls  int
	prefCalls   int

	lastKOLID   string
	lastSession kol.Session
	lastConds   []kol.Condition
}

func (s *stubService) CreateKOL(_ context.Context, k kol.KOL) (kol.KOL, error) {
	s.createCalls++
	k.KOLID = "kol_1"
	return k, nil
}

func (s *stubService) UpdateKOL(_ context.Context, kolID string, k kol.KOL) (kol.KOL, error) {
	s.updateCalls++
	s.lastKOLID = kolID
	return k, nil
}

func (s *stubService) DeleteKOL(_ context.Context, id string) error {
	s.deleteCalls++
	s.lastKOLID = id
	return nil
}

func (s *stubService) CommitFilters(_ context.Context, session kol.Session, conds []kol.Condition) error {
	s.commitCalls++
	s.lastSession = session
	s.lastConds = conds
	return nil
}

func (s *stubService) ClearFilters(_ context.Context, session kol.Session) error {
	s.clearCalls++
	s.lastSession = session
	return nil
}

func (s *stubService) SaveTablePreferences(_ context.Context, session kol.Session, _ kol.TablePreferences) error {
	s.prefCalls++
	s.lastSession = session
	return nil
}

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

func TestCreateKOLCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewCreateKOLCommand(service, telemetry)
	err := cmd.Execute(context.Background(), CreateKOLInput{Record: kol.KOL{Name: "Ava"}})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.createCalls != 1 {
		t.Fatalf("expected create call")
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "kol.command.create" {
		t.Fatalf("expected telemetry event, got %v", telemetry.events)
	}
}

func TestCreateKOLCommandRequiresService(t *testing.T) {
	cmd := NewCreateKOLCommand(nil, nil)
	if err := cmd.Execute(context.Background(), CreateKOLInput{}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestUpdateKOLCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewUpdateKOLCommand(service, nil)
	err := cmd.Execute(context.Background(), UpdateKOLInput{KOLID: "kol_7", Record: kol.KOL{Name: "Ava"}})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.updateCalls != 1 || service.lastKOLID != "kol_7" {
		t.Fatalf("expected update call for kol_7, got %s", service.lastKOLID)
	}
}

func TestUpdateKOLCommandRequiresID(t *testing.T) {
	cmd := NewUpdateKOLCommand(&stubService{}, nil)
	if err := cmd.Execute(context.Background(), UpdateKOLInput{Record: kol.KOL{}}); err == nil {
		t.Fatalf("expected error without kol id")
	}
}

func TestDeleteKOLCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewDeleteKOLCommand(service, nil)
	if err := cmd.Execute(context.Background(), DeleteKOLInput{ID: "7"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.deleteCalls != 1 || service.lastKOLID != "7" {
		t.Fatalf("expected delete call for 7")
	}
}

func TestDeleteKOLCommandRequiresID(t *testing.T) {
	cmd := NewDeleteKOLCommand(&stubService{}, nil)
	if err := cmd.Execute(context.Background(), DeleteKOLInput{}); err == nil {
		t.Fatalf("expected error without id")
	}
}

func TestCommitFiltersCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewCommitFiltersCommand(service, nil)
	conds := []kol.Condition{{Column: "name", Operator: kol.OpEqual, Value: "Ava"}}
	err := cmd.Execute(context.Background(), CommitFiltersInput{
		SessionID:  "s1",
		UserID:     "u1",
		Conditions: conds,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.commitCalls != 1 {
		t.Fatalf("expected commit call")
	}
	if service.lastSession.ID != "s1" || service.lastSession.UserID != "u1" {
		t.Fatalf("unexpected session %#v", service.lastSession)
	}
	if len(service.lastConds) != 1 {
		t.Fatalf("expected conditions forwarded")
	}
}

func TestCommitFiltersCommandRequiresSession(t *testing.T) {
	cmd := NewCommitFiltersCommand(&stubService{}, nil)
	if err := cmd.Execute(context.Background(), CommitFiltersInput{}); err == nil {
		t.Fatalf("expected error without session id")
	}
}

func TestClearFiltersCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewClearFiltersCommand(service, nil)
	if err := cmd.Execute(context.Background(), ClearFiltersInput{SessionID: "s1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.clearCalls != 1 {
		t.Fatalf("expected clear call")
	}
}

func TestSavePreferencesCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewSavePreferencesCommand(service, nil)
	err := cmd.Execute(context.Background(), SavePreferencesInput{
		UserID:      "u1",
		Preferences: kol.TablePreferences{PageSize: 20},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.prefCalls != 1 || service.lastSession.UserID != "u1" {
		t.Fatalf("expected save call for u1")
	}
}

func TestSavePreferencesCommandRequiresUser(t *testing.T) {
	cmd := NewSavePreferencesCommand(&stubService{}, nil)
	if err := cmd.Execute(context.Background(), SavePreferencesInput{}); err == nil {
		t.Fatalf("expected error without user id")
	}
}
