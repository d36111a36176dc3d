package kol

import (
	"context"
	"sync"
	"testing"
	"time"
)

type collectingConsumer struct {
	mu    sync.Mutex
	calls [][]Condition
	ch    chan []Condition
}

func newCollectingConsumer() *collectingConsumer {
	return &collectingConsumer{ch: make(chan []Condition, 8)}
}

func (c *collectingConsumer) consume(conds []Condition) {
	c.mu.Lock()
	c.calls = append(c.calls, conds)
	c.mu.Unlock()
	c.ch <- conds
}

func (c *collectingConsumer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *collectingConsumer) wait(t *testing.T) []Condition {
	t.Helper()
	select {
	case conds := <-c.ch:
		return conds
	case <-time.After(time.Second):
		t.Fatalf("consumer was not invoked")
		return nil
	}
}

func newTestConditionSet(t *testing.T) (*ConditionSet, *InMemoryFilterStore, *collectingConsumer, Session) {
	t.Helper()
	store := NewInMemoryFilterStore()
	consumer := newCollectingConsumer()
	session := Session{ID: "session-1", UserID: "user-1"}
	cs, err := NewConditionSet(NewCatalog(), store, session, consumer.consume)
	if err != nil {
		t.Fatalf("NewConditionSet: %v", err)
	}
	return cs, store, consumer, session
}

func TestAddDefaultsToFirstColumnEqualEmpty(t *testing.T) {
	cs, _, _, _ := newTestConditionSet(t)
	cond, err := cs.Add(context.Background())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if cond.Column != "name" {
		t.Fatalf("expected first catalog column, got %s", cond.Column)
	}
	if cond.Operator != OpEqual {
		t.Fatalf("expected equal operator, got %s", cond.Operator)
	}
	if cond.Value != "" {
		t.Fatalf("expected empty value, got %#v", cond.Value)
	}
	if cond.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestAddFailsOnEmptyCatalog(t *testing.T) {
	cs, err := NewConditionSet(NewEmptyCatalog(), NewInMemoryFilterStore(), Session{ID: "s"}, nil)
	if err != nil {
		t.Fatalf("NewConditionSet: %v", err)
	}
	if _, err := cs.Add(context.Background()); err == nil {
		t.Fatalf("expected error adding condition with no columns")
	}
}

func TestUpdateColumnResetsOperatorAndValue(t *testing.T) {
	cs, _, _, _ := newTestConditionSet(t)
	ctx := context.Background()
	cond, _ := cs.Add(ctx)
	if err := cs.Update(ctx, cond.ID, FieldOperator, OpNotEqual); err != nil {
		t.Fatalf("Update operator: %v", err)
	}
	if err := cs.Update(ctx, cond.ID, FieldValue, "Ava"); err != nil {
		t.Fatalf("Update value: %v", err)
	}
	if err := cs.Update(ctx, cond.ID, FieldColumn, "followersK"); err != nil {
		t.Fatalf("Update column: %v", err)
	}
	got := cs.Conditions()[0]
	if got.Column != "followersK" {
		t.Fatalf("expected column change, got %s", got.Column)
	}
	if got.Operator != DefaultOperator() {
		t.Fatalf("expected operator reset to default, got %s", got.Operator)
	}
	if got.Value != "" {
		t.Fatalf("expected value cleared on column change, got %#v", got.Value)
	}
}

func TestUpdateNullCheckClearsValue(t *testing.T) {
	cs, _, _, _ := newTestConditionSet(t)
	ctx := context.Background()
	cond, _ := cs.Add(ctx)
	if err := cs.Update(ctx, cond.ID, FieldValue, "Ava"); err != nil {
		t.Fatalf("Update value: %v", err)
	}
	if err := cs.Update(ctx, cond.ID, FieldOperator, OpIsNull); err != nil {
		t.Fatalf("Update operator: %v", err)
	}
	if got := cs.Conditions()[0]; got.Value != "" {
		t.Fatalf("expected value cleared for null check, got %#v", got.Value)
	}
}

func TestUpdateCoercesNumericValues(t *testing.T) {
	cs, _, _, _ := newTestConditionSet(t)
	ctx := context.Background()
	cond, _ := cs.Add(ctx)
	if err := cs.Update(ctx, cond.ID, FieldColumn, "followersK"); err != nil {
		t.Fatalf("Update column: %v", err)
	}
	if err := cs.Update(ctx, cond.ID, FieldValue, "100"); err != nil {
		t.Fatalf("Update value: %v", err)
	}
	got := cs.Conditions()[0]
	if v, ok := got.Value.(float64); !ok || v != 100 {
		t.Fatalf("expected float64 100, got %#v", got.Value)
	}
}

func TestUpdateRejectsUnknownColumnAndOperator(t *testing.T) {
	cs, _, _, _ := newTestConditionSet(t)
	ctx := context.Background()
	cond, _ := cs.Add(ctx)
	if err := cs.Update(ctx, cond.ID, FieldColumn, "nope"); err == nil {
		t.Fatalf("expected unknown column error")
	}
	if err := cs.Update(ctx, cond.ID, FieldOperator, "between"); err == nil {
		t.Fatalf("expected unknown operator error")
	}
	if err := cs.Update(ctx, "missing", FieldValue, "x"); err == nil {
		t.Fatalf("expected condition-not-found error")
	}
}

func TestCloseWithoutEditsDoesNotPropagate(t *testing.T) {
	cs, _, consumer, _ := newTestConditionSet(t)
	ctx := context.Background()
	cs.Open()
	if err := cs.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if consumer.count() != 0 {
		t.Fatalf("expected no propagation without edits, got %d calls", consumer.count())
	}
	if cs.State() != StateCommitted {
		t.Fatalf("expected committed state, got %s", cs.State())
	}
}

func TestCloseAfterEditsPropagatesValidSubset(t *testing.T) {
	cs, store, consumer, session := newTestConditionSet(t)
	ctx := context.Background()
	cs.Open()
	cond, _ := cs.Add(ctx)
	_ = cs.Update(ctx, cond.ID, FieldColumn, "followersK")
	_ = cs.Update(ctx, cond.ID, FieldOperator, OpGreater)
	_ = cs.Update(ctx, cond.ID, FieldValue, "100")

	bad, _ := cs.Add(ctx)
	_ = cs.Update(ctx, bad.ID, FieldColumn, "sendDate")
	_ = cs.Update(ctx, bad.ID, FieldValue, "not-a-date")

	if err := cs.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	applied := consumer.wait(t)
	if len(applied) != 1 || applied[0].Column != "followersK" {
		t.Fatalf("expected only the valid condition applied, got %#v", applied)
	}
	// the raw list, malformed entry included, survives for the next reload
	persisted, err := store.Load(ctx, session)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(persisted) != 2 {
		t.Fatalf("expected both conditions persisted, got %d", len(persisted))
	}
}

func TestCloseTwiceCommitsOnce(t *testing.T) {
	cs, _, consumer, _ := newTestConditionSet(t)
	ctx := context.Background()
	cs.Open()
	cond, _ := cs.Add(ctx)
	_ = cs.Update(ctx, cond.ID, FieldValue, "Ava")
	if err := cs.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	consumer.wait(t)
	if err := cs.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if consumer.count() != 1 {
		t.Fatalf("expected a single propagation, got %d", consumer.count())
	}
}

func TestMutationsPersistImmediately(t *testing.T) {
	cs, store, _, session := newTestConditionSet(t)
	ctx := context.Background()
	cond, _ := cs.Add(ctx)
	if !store.Has(session) {
		t.Fatalf("expected entry after add")
	}
	if err := cs.Remove(ctx, cond.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Has(session) {
		t.Fatalf("expected entry removed when the list empties")
	}
}

func TestRestorePropagatesPersistedConditions(t *testing.T) {
	store := NewInMemoryFilterStore()
	session := Session{ID: "session-2"}
	saved := []Condition{{ID: "c1", Column: "name", Operator: OpEqual, Value: "Ava"}}
	if err := store.Save(context.Background(), session, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}
	consumer := newCollectingConsumer()
	cs, err := NewConditionSet(NewCatalog(), store, session, consumer.consume)
	if err != nil {
		t.Fatalf("NewConditionSet: %v", err)
	}
	applied := consumer.wait(t)
	if len(applied) != 1 || applied[0].Value != "Ava" {
		t.Fatalf("expected restored condition applied, got %#v", applied)
	}
	if len(cs.Conditions()) != 1 {
		t.Fatalf("expected restored list, got %#v", cs.Conditions())
	}
}

func TestClearAllEmptiesAndNotifies(t *testing.T) {
	cs, store, consumer, session := newTestConditionSet(t)
	ctx := context.Background()
	cs.Open()
	if _, err := cs.Add(ctx); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := cs.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	applied := consumer.wait(t)
	if len(applied) != 0 {
		t.Fatalf("expected empty set propagated, got %#v", applied)
	}
	if store.Has(session) {
		t.Fatalf("expected persisted entry removed")
	}
	if cs.State() != StateCommitted {
		t.Fatalf("expected panel closed, got %s", cs.State())
	}
	if len(cs.Conditions()) != 0 {
		t.Fatalf("expected empty list")
	}
}

func TestReplaceAssignsIDsAndCoerces(t *testing.T) {
	cs, _, _, _ := newTestConditionSet(t)
	ctx := context.Background()
	err := cs.Replace(ctx, []Condition{
		{Column: "followersK", Operator: OpGreater, Value: "250"},
		{Column: "email", Operator: OpIsNotNull, Value: "stale"},
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	conds := cs.Conditions()
	if len(conds) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(conds))
	}
	if conds[0].ID == "" || conds[1].ID == "" {
		t.Fatalf("expected ids assigned")
	}
	if v, ok := conds[0].Value.(float64); !ok || v != 250 {
		t.Fatalf("expected numeric coercion, got %#v", conds[0].Value)
	}
	if conds[1].Value != "" {
		t.Fatalf("expected null-check value cleared, got %#v", conds[1].Value)
	}
}
