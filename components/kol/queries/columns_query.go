package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// ColumnsInput is empty today; the catalog is global, not per-viewer.
type ColumnsInput struct{}

// ColumnDescriptor pairs a column with the operators legal for its kind, so
// the filter panel can render its selectors without re-deriving the rules.
type ColumnDescriptor struct {
	kol.Column
	Operators []kol.Operator `json:"operators"`
}

type catalogService interface {
	Catalog() *kol.Catalog
}

// ColumnsQuery lists catalog columns with their operator sets.
type ColumnsQuery struct {
	service catalogService
}

// NewColumnsQuery builds the query.
func NewColumnsQuery(service catalogService) *ColumnsQuery {
	return &ColumnsQuery{service: service}
}

var _ gocommand.Querier[ColumnsInput, []ColumnDescriptor] = (*ColumnsQuery)(nil)

// Query returns the catalog in registration order.
func (q *ColumnsQuery) Query(ctx context.Context, _ ColumnsInput) ([]ColumnDescriptor, error) {
	cols := q.service.Catalog().Columns()
	out := make([]ColumnDescriptor, 0, len(cols))
	for _, col := range cols {
		out = append(out, ColumnDescriptor{
			Column:    col,
			Operators: kol.OperatorsFor(col.Kind),
		})
	}
	return out, nil
}
