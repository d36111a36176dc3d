package kol

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Param is one translated filter triple for endpoints that accept a
// structured condition list.
type Param struct {
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Translate is the generic, type-driven translator strategy: conditions that
// fail validation are silently dropped, column keys are remapped to their
// server names, and values are coerced by kind. Null-check operators
// repurpose the value channel for a fixed sentinel; the operator name itself
// signals which check is meant.
func Translate(conds []Condition, catalog *Catalog) []Param {
	params := make([]Param, 0, len(conds))
	for _, cond := range conds {
		col, ok := catalog.Column(cond.Column)
		if !ValidCondition(cond, col, ok) {
			continue
		}
		key := cond.Column
		var value any
		if ok {
			key = col.RemoteKey()
			value = coerceValue(cond, col)
		} else {
			// null-check on an uncataloged column passes through unchanged
			value = cond.StringValue()
		}
		switch cond.Operator {
		case OpIsNull:
			value = ""
		case OpIsNotNull:
			value = NotNullSentinel
		}
		params = append(params, Param{Column: key, Operator: cond.Operator, Value: value})
	}
	return params
}

func coerceValue(cond Condition, col Column) any {
	switch col.Kind {
	case KindNumber:
		f, _ := cond.NumberValue()
		return f
	case KindDate:
		s := cond.StringValue()
		if s == "" {
			return ""
		}
		t, err := ParseDate(s)
		if err != nil {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	default:
		return cond.StringValue()
	}
}

// ListParams is the narrow translator strategy for the listing endpoint,
// which only understands a fixed set of simple filters: a followers range
// plus direct equality on a handful of profile columns. Everything else is
// skipped; a malformed-but-uncommitted filter must never block listing.
func ListParams(conds []Condition, catalog *Catalog) url.Values {
	params := url.Values{}
	for _, cond := range conds {
		col, ok := catalog.Column(cond.Column)
		if !ValidCondition(cond, col, ok) {
			continue
		}
		switch cond.Column {
		case "followersK":
			f, isNum := cond.NumberValue()
			if !isNum {
				continue
			}
			s := strconv.FormatFloat(f, 'f', -1, 64)
			switch cond.Operator {
			case OpGreater:
				params.Set("min_followers", s)
			case OpLess:
				params.Set("max_followers", s)
			}
		case "name", "level", "gender", "location", "source", "platform", "sendStatus":
			key := listParamKey(cond.Column)
			if v := cond.StringValue(); v != "" {
				params.Set(key, v)
			}
		}
	}
	return params
}

func listParamKey(column string) string {
	if column == "sendStatus" {
		return "send_status"
	}
	// the remaining passthrough columns are single words; lowercasing is
	// the identity for them but matches the endpoint contract
	return strings.ToLower(column)
}
