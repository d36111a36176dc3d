package kol

import (
	"context"
	"testing"
)

func TestPreferencesDefaultToAllColumnsVisible(t *testing.T) {
	catalog := NewCatalog()
	store := NewInMemoryPreferenceStore(catalog)
	prefs, err := store.TablePreferences(context.Background(), Session{UserID: "u1"})
	if err != nil {
		t.Fatalf("TablePreferences: %v", err)
	}
	if len(prefs.VisibleColumns) != catalog.Len() {
		t.Fatalf("expected all %d columns visible, got %d", catalog.Len(), len(prefs.VisibleColumns))
	}
	if prefs.PageSize != 10 {
		t.Fatalf("expected default page size 10, got %d", prefs.PageSize)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	store := NewInMemoryPreferenceStore(NewCatalog())
	session := Session{UserID: "u1"}
	saved := TablePreferences{
		VisibleColumns:   []string{"name", "followersK"},
		PageSize:         50,
		SidebarCollapsed: true,
	}
	if err := store.SaveTablePreferences(context.Background(), session, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}
	prefs, err := store.TablePreferences(context.Background(), session)
	if err != nil {
		t.Fatalf("TablePreferences: %v", err)
	}
	if len(prefs.VisibleColumns) != 2 || prefs.PageSize != 50 || !prefs.SidebarCollapsed {
		t.Fatalf("unexpected preferences %#v", prefs)
	}
}

func TestPreferencesDropUnknownColumns(t *testing.T) {
	store := NewInMemoryPreferenceStore(NewCatalog())
	session := Session{UserID: "u1"}
	saved := TablePreferences{VisibleColumns: []string{"name", "ghost"}, PageSize: 20}
	if err := store.SaveTablePreferences(context.Background(), session, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}
	prefs, _ := store.TablePreferences(context.Background(), session)
	if len(prefs.VisibleColumns) != 1 || prefs.VisibleColumns[0] != "name" {
		t.Fatalf("expected unknown column dropped, got %v", prefs.VisibleColumns)
	}
}

func TestPreferencesClampPageSize(t *testing.T) {
	store := NewInMemoryPreferenceStore(NewCatalog())
	session := Session{UserID: "u1"}
	if err := store.SaveTablePreferences(context.Background(), session, TablePreferences{PageSize: 33}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	prefs, _ := store.TablePreferences(context.Background(), session)
	if prefs.PageSize != 10 {
		t.Fatalf("expected page size reset to default, got %d", prefs.PageSize)
	}
}

func TestPreferencesRequireUserID(t *testing.T) {
	store := NewInMemoryPreferenceStore(NewCatalog())
	err := store.SaveTablePreferences(context.Background(), Session{}, TablePreferences{})
	if err == nil {
		t.Fatalf("expected error without user id")
	}
}
