package kol

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// ConditionField names an editable part of a condition.
type ConditionField string

const (
	FieldColumn   ConditionField = "column"
	FieldOperator ConditionField = "operator"
	FieldValue    ConditionField = "value"
)

// Condition is one (column, operator, value) predicate. Value holds a string
// or a float64 depending on the column kind.
type Condition struct {
	ID       string   `json:"id"`
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// StringValue renders the operand as a string. Nil becomes the empty string.
func (c Condition) StringValue() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// NumberValue returns the operand as a float64 when it parses as one.
func (c Condition) NumberValue() (float64, bool) {
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// PanelState tracks whether the filter panel is accumulating edits or has
// committed them.
type PanelState string

const (
	StateEditing   PanelState = "editing"
	StateCommitted PanelState = "committed"
)

var (
	errConditionNotFound = errors.New("kol: condition not found")
	errEmptyCatalog      = errors.New("kol: catalog has no columns")
)

// ConditionSet is the filter panel model for one session. Edits accumulate
// locally while the panel is open; the validated set is propagated to the
// consumer and persisted when the panel closes, provided an edit occurred.
type ConditionSet struct {
	mu       sync.Mutex
	catalog  *Catalog
	store    FilterStore
	session  Session
	consumer func([]Condition)
	conds    []Condition
	state    PanelState
	dirty    bool
}

// NewConditionSet restores any persisted conditions for the session and
// schedules their propagation on a fresh goroutine, so the consumer applies
// restored filters without a user action but never re-enters the constructor.
func NewConditionSet(catalog *Catalog, store FilterStore, session Session, consumer func([]Condition)) (*ConditionSet, error) {
	if catalog == nil {
		catalog = NewCatalog()
	}
	if store == nil {
		store = NewInMemoryFilterStore()
	}
	if consumer == nil {
		consumer = func([]Condition) {}
	}
	cs := &ConditionSet{
		catalog:  catalog,
		store:    store,
		session:  session,
		consumer: consumer,
		state:    StateCommitted,
	}
	restored, err := store.Load(context.Background(), session)
	if err != nil {
		return nil, fmt.Errorf("kol: restore filters: %w", err)
	}
	if len(restored) > 0 {
		cs.conds = restored
		go cs.propagate(cs.validSubset(restored))
	}
	return cs, nil
}

// Open transitions the panel into Editing. Edits made before the next Close
// are buffered.
func (cs *ConditionSet) Open() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.state = StateEditing
	cs.dirty = false
}

// Close commits the panel: when at least one edit occurred since Open, the
// list is persisted and the validated subset propagated to the consumer.
func (cs *ConditionSet) Close(ctx context.Context) error {
	cs.mu.Lock()
	if cs.state != StateEditing {
		cs.mu.Unlock()
		return nil
	}
	cs.state = StateCommitted
	if !cs.dirty {
		cs.mu.Unlock()
		return nil
	}
	cs.dirty = false
	conds := cs.snapshot()
	valid := cs.validSubset(conds)
	cs.mu.Unlock()

	if err := cs.persist(ctx, conds); err != nil {
		return err
	}
	cs.propagate(valid)
	return nil
}

// Add appends a condition defaulting to the first catalog column, the equal
// operator, and an empty value.
func (cs *ConditionSet) Add(ctx context.Context) (Condition, error) {
	first, ok := cs.catalog.First()
	if !ok {
		return Condition{}, errEmptyCatalog
	}
	cs.mu.Lock()
	cond := Condition{
		ID:       uuid.NewString(),
		Column:   first.Key,
		Operator: DefaultOperator(),
		Value:    "",
	}
	cs.conds = append(cs.conds, cond)
	cs.dirty = true
	conds := cs.snapshot()
	cs.mu.Unlock()
	return cond, cs.persist(ctx, conds)
}

// Update edits one field of a condition. Changing the column resets the
// operator and clears the value, because operator legality and value shape
// depend on the new column's kind. Selecting a null-check operator clears the
// value. Numeric columns coerce non-empty values to float64.
func (cs *ConditionSet) Update(ctx context.Context, id string, field ConditionField, value any) error {
	cs.mu.Lock()
	idx := cs.indexOf(id)
	if idx < 0 {
		cs.mu.Unlock()
		return errConditionNotFound
	}
	cond := cs.conds[idx]
	switch field {
	case FieldColumn:
		key := fmt.Sprintf("%v", value)
		if _, ok := cs.catalog.Column(key); !ok {
			cs.mu.Unlock()
			return fmt.Errorf("kol: unknown column %q", key)
		}
		cond.Column = key
		cond.Operator = DefaultOperator()
		cond.Value = ""
	case FieldOperator:
		op := Operator(fmt.Sprintf("%v", value))
		if !op.Known() {
			cs.mu.Unlock()
			return fmt.Errorf("kol: unknown operator %q", op)
		}
		cond.Operator = op
		if op.IsNullCheck() {
			cond.Value = ""
		}
	case FieldValue:
		cond.Value = cs.coerce(cond.Column, value)
	default:
		cs.mu.Unlock()
		return fmt.Errorf("kol: unknown condition field %q", field)
	}
	cs.conds[idx] = cond
	cs.dirty = true
	conds := cs.snapshot()
	cs.mu.Unlock()
	return cs.persist(ctx, conds)
}

// Replace swaps the whole list in one edit, assigning ids to conditions that
// lack one. Transports use it when the browser ships the panel's accumulated
// edits in a single payload.
func (cs *ConditionSet) Replace(ctx context.Context, conds []Condition) error {
	cs.mu.Lock()
	next := make([]Condition, 0, len(conds))
	for _, cond := range conds {
		if cond.ID == "" {
			cond.ID = uuid.NewString()
		}
		if cond.Operator == "" {
			cond.Operator = DefaultOperator()
		}
		if cond.Operator.IsNullCheck() {
			cond.Value = ""
		}
		cond.Value = cs.coerce(cond.Column, cond.Value)
		next = append(next, cond)
	}
	cs.conds = next
	cs.dirty = true
	snapshot := cs.snapshot()
	cs.mu.Unlock()
	return cs.persist(ctx, snapshot)
}

// Remove deletes the condition with the given id.
func (cs *ConditionSet) Remove(ctx context.Context, id string) error {
	cs.mu.Lock()
	idx := cs.indexOf(id)
	if idx < 0 {
		cs.mu.Unlock()
		return errConditionNotFound
	}
	cs.conds = append(cs.conds[:idx], cs.conds[idx+1:]...)
	cs.dirty = true
	conds := cs.snapshot()
	cs.mu.Unlock()
	return cs.persist(ctx, conds)
}

// ClearAll empties the list, removes the persisted entry, notifies the
// consumer with an empty set, and closes the panel.
func (cs *ConditionSet) ClearAll(ctx context.Context) error {
	cs.mu.Lock()
	cs.conds = nil
	cs.dirty = false
	cs.state = StateCommitted
	cs.mu.Unlock()
	if err := cs.store.Clear(ctx, cs.session); err != nil {
		return fmt.Errorf("kol: clear filters: %w", err)
	}
	cs.propagate(nil)
	return nil
}

// Conditions returns a copy of the current list.
func (cs *ConditionSet) Conditions() []Condition {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.snapshot()
}

// State returns the panel state.
func (cs *ConditionSet) State() PanelState {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.state
}

func (cs *ConditionSet) indexOf(id string) int {
	for i, cond := range cs.conds {
		if cond.ID == id {
			return i
		}
	}
	return -1
}

func (cs *ConditionSet) snapshot() []Condition {
	out := make([]Condition, len(cs.conds))
	copy(out, cs.conds)
	return out
}

func (cs *ConditionSet) coerce(columnKey string, value any) any {
	col, ok := cs.catalog.Column(columnKey)
	if !ok || col.Kind != KindNumber {
		return value
	}
	s, isString := value.(string)
	if !isString || s == "" {
		return value
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value
	}
	return f
}

// persist mirrors the list to the session store: non-empty lists are saved,
// an empty list removes the entry.
func (cs *ConditionSet) persist(ctx context.Context, conds []Condition) error {
	if len(conds) == 0 {
		if err := cs.store.Clear(ctx, cs.session); err != nil {
			return fmt.Errorf("kol: clear filters: %w", err)
		}
		return nil
	}
	if err := cs.store.Save(ctx, cs.session, conds); err != nil {
		return fmt.Errorf("kol: persist filters: %w", err)
	}
	return nil
}

func (cs *ConditionSet) validSubset(conds []Condition) []Condition {
	valid := make([]Condition, 0, len(conds))
	for _, cond := range conds {
		col, ok := cs.catalog.Column(cond.Column)
		if !ValidCondition(cond, col, ok) {
			continue
		}
		valid = append(valid, cond)
	}
	return valid
}

func (cs *ConditionSet) propagate(conds []Condition) {
	cs.consumer(conds)
}
