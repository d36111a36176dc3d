package kol

// Operator is a filter comparison predicate.
type Operator string

const (
	OpGreater   Operator = "greater"
	OpLess      Operator = "less"
	OpEqual     Operator = "equal"
	OpNotEqual  Operator = "not_equal"
	OpIsNull    Operator = "is_null"
	OpIsNotNull Operator = "is_not_null"
)

// NotNullSentinel is the value emitted for is_not_null conditions. The
// operator name carries the meaning; the value channel only holds this token.
const NotNullSentinel = "not_null"

var fullOperatorSet = []Operator{OpGreater, OpLess, OpEqual, OpNotEqual, OpIsNull, OpIsNotNull}

var restrictedOperatorSet = []Operator{OpEqual, OpNotEqual, OpIsNull, OpIsNotNull}

// DefaultOperator is the operator assigned to new conditions and after a
// column change.
func DefaultOperator() Operator { return OpEqual }

// OperatorsFor returns the legal operators for a column kind. Ordering and
// magnitude comparisons only apply to numbers and dates.
func OperatorsFor(kind Kind) []Operator {
	switch kind {
	case KindNumber, KindDate:
		out := make([]Operator, len(fullOperatorSet))
		copy(out, fullOperatorSet)
		return out
	default:
		out := make([]Operator, len(restrictedOperatorSet))
		copy(out, restrictedOperatorSet)
		return out
	}
}

// AllowedFor reports whether the operator is legal for the column kind.
func (o Operator) AllowedFor(kind Kind) bool {
	for _, op := range OperatorsFor(kind) {
		if op == o {
			return true
		}
	}
	return false
}

// IsNullCheck reports whether the operator tests presence/absence and
// therefore carries no operand.
func (o Operator) IsNullCheck() bool {
	return o == OpIsNull || o == OpIsNotNull
}

// NeedsOperand is the inverse of IsNullCheck, kept for readable call sites.
func (o Operator) NeedsOperand() bool { return !o.IsNullCheck() }

// Known reports whether o is one of the fixed operator set.
func (o Operator) Known() bool {
	switch o {
	case OpGreater, OpLess, OpEqual, OpNotEqual, OpIsNull, OpIsNotNull:
		return true
	}
	return false
}
