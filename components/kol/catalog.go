package kol

import (
	"fmt"
	"sync"

	"github.com/ettle/strcase"
)

// Kind is the semantic type of a column. It decides which comparison
// operators are legal and how condition values are validated and coerced.
type Kind string

const (
	KindString Kind = "string"
	KindEnum   Kind = "enum"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
)

// EnumOption is a legal value/label pair for an enum column.
type EnumOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Column describes one displayable/filterable field.
type Column struct {
	Key         string       `json:"key" yaml:"key"`
	Title       string       `json:"title" yaml:"title"`
	Tooltip     string       `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Kind        Kind         `json:"kind" yaml:"kind"`
	EnumOptions []EnumOption `json:"enum_options,omitempty" yaml:"enum_options,omitempty"`
	// ServerKey overrides the derived snake_case key when the API naming
	// diverges from a mechanical conversion.
	ServerKey string `json:"server_key,omitempty" yaml:"server_key,omitempty"`
}

// RemoteKey returns the query-parameter/field name the API expects.
func (c Column) RemoteKey() string {
	if c.ServerKey != "" {
		return c.ServerKey
	}
	return strcase.ToSnake(c.Key)
}

// HasEnumValue reports whether v is a member of the column's option set.
func (c Column) HasEnumValue(v string) bool {
	for _, opt := range c.EnumOptions {
		if opt.Value == v {
			return true
		}
	}
	return false
}

// CatalogHook lets packages register columns during init().
type CatalogHook func(c *Catalog) error

var (
	globalHookMu sync.Mutex
	globalHooks  []CatalogHook
)

// RegisterCatalogHook registers a hook executed against new catalogs.
func RegisterCatalogHook(h CatalogHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Catalog is the field metadata registry. Columns keep registration order so
// "the first column" is well defined for new filter conditions.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	columns map[string]Column
}

// NewCatalog builds a catalog pre-loaded with the default KOL columns and
// applies global hooks.
func NewCatalog() *Catalog {
	c := &Catalog{columns: map[string]Column{}}
	for _, col := range DefaultColumns() {
		_ = c.Register(col)
	}
	_ = c.ApplyHooks()
	return c
}

// NewEmptyCatalog builds a catalog without defaults, for manifest-driven setups.
func NewEmptyCatalog() *Catalog {
	return &Catalog{columns: map[string]Column{}}
}

// ApplyHooks executes registered catalog hooks.
func (c *Catalog) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(c); err != nil {
			return err
		}
	}
	return nil
}

// Register stores column metadata. Re-registering a key replaces the column
// in place without changing its position.
func (c *Catalog) Register(col Column) error {
	if col.Key == "" {
		return fmt.Errorf("kol: column key is required")
	}
	switch col.Kind {
	case KindString, KindEnum, KindNumber, KindDate:
	default:
		return fmt.Errorf("kol: column %s has unknown kind %q", col.Key, col.Kind)
	}
	if col.Kind == KindEnum && len(col.EnumOptions) == 0 {
		return fmt.Errorf("kol: enum column %s requires options", col.Key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.columns[col.Key]; !exists {
		c.order = append(c.order, col.Key)
	}
	c.columns[col.Key] = col
	return nil
}

// Column fetches a column definition by key.
func (c *Catalog) Column(key string) (Column, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, ok := c.columns[key]
	return col, ok
}

// Columns returns all columns in registration order.
func (c *Catalog) Columns() []Column {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cols := make([]Column, 0, len(c.order))
	for _, key := range c.order {
		cols = append(cols, c.columns[key])
	}
	return cols
}

// First returns the first registered column, the default for new conditions.
func (c *Catalog) First() (Column, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.order) == 0 {
		return Column{}, false
	}
	return c.columns[c.order[0]], true
}

// Len returns the number of registered columns.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
