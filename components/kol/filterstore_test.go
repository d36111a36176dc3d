package kol

import (
	"context"
	"testing"
)

func TestFilterStoreRoundTrip(t *testing.T) {
	store := NewInMemoryFilterStore()
	session := Session{ID: "s1"}
	conds := []Condition{
		{ID: "c1", Column: "name", Operator: OpEqual, Value: "Ava"},
		{ID: "c2", Column: "followersK", Operator: OpGreater, Value: float64(100)},
	}
	if err := store.Save(context.Background(), session, conds); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(context.Background(), session)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(loaded))
	}
	if loaded[0].ID != "c1" || loaded[0].Value != "Ava" {
		t.Fatalf("unexpected first condition %#v", loaded[0])
	}
	// JSON round-trip keeps numbers as float64
	if v, ok := loaded[1].Value.(float64); !ok || v != 100 {
		t.Fatalf("expected float64 value, got %#v", loaded[1].Value)
	}
}

func TestFilterStoreLoadMissingReturnsNil(t *testing.T) {
	store := NewInMemoryFilterStore()
	loaded, err := store.Load(context.Background(), Session{ID: "nobody"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil for missing entry, got %#v", loaded)
	}
}

func TestFilterStoreSaveEmptyRemovesEntry(t *testing.T) {
	store := NewInMemoryFilterStore()
	session := Session{ID: "s1"}
	conds := []Condition{{ID: "c1", Column: "name", Operator: OpEqual, Value: "Ava"}}
	if err := store.Save(context.Background(), session, conds); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(context.Background(), session, nil); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	if store.Has(session) {
		t.Fatalf("expected entry removed")
	}
}

func TestFilterStoreRequiresSessionID(t *testing.T) {
	store := NewInMemoryFilterStore()
	err := store.Save(context.Background(), Session{}, []Condition{{ID: "c1"}})
	if err == nil {
		t.Fatalf("expected error without session id")
	}
}

func TestFilterStoreScopesBySession(t *testing.T) {
	store := NewInMemoryFilterStore()
	a := Session{ID: "a"}
	b := Session{ID: "b"}
	if err := store.Save(context.Background(), a, []Condition{{ID: "c1", Column: "name", Operator: OpEqual}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(context.Background(), b)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Fatalf("session b should not see session a's filters")
	}
	if err := store.Clear(context.Background(), b); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if !store.Has(a) {
		t.Fatalf("clearing b should not remove a's entry")
	}
}
