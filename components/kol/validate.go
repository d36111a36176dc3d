package kol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidCondition reports whether a condition's value is well-formed for its
// column. Null-check operators carry no operand and are always valid; a
// condition whose column has no definition never is. Enum values must be
// members of the column's option set (the lenient presence-only check let
// stale selections through after catalog edits).
func ValidCondition(cond Condition, col Column, found bool) bool {
	if cond.Operator.IsNullCheck() {
		return true
	}
	if !found {
		return false
	}
	switch col.Kind {
	case KindNumber:
		f, ok := cond.NumberValue()
		return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
	case KindDate:
		s := cond.StringValue()
		if s == "" {
			return true
		}
		_, err := ParseDate(s)
		return err == nil
	case KindEnum:
		s := cond.StringValue()
		return s == "" || col.HasEnumValue(s)
	default:
		return true
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly}

// ParseDate accepts the calendar formats the dashboard round-trips: RFC 3339,
// the API's space-delimited timestamp, and a bare date.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("kol: unrecognized date %q", s)
}

// FieldErrors maps field names to inline error messages. Errors on one field
// never block unrelated fields.
type FieldErrors map[string]string

// ValidationError wraps field-level errors for create/update payloads.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "kol: invalid record: " + strings.Join(parts, "; ")
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// ValidURL reports whether s is an absolute http(s) URL.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateKOL runs the per-field detail-form checks: email and URL formats,
// enum membership, and bounded numeric ranges. Returns nil when clean.
func ValidateKOL(k KOL) FieldErrors {
	errs := FieldErrors{}
	if k.Email != "" && !ValidEmail(k.Email) {
		errs["email"] = "invalid email address"
	}
	if k.AccountLink != "" && !ValidURL(k.AccountLink) {
		errs["accountLink"] = "invalid URL"
	}
	checkEnum(errs, "gender", k.Gender, genderOptions)
	checkEnum(errs, "source", k.Source, sourceOptions)
	checkEnum(errs, "platform", k.Platform, platformOptions)
	checkEnum(errs, "operational.level", k.Operational.Level, levelOptions)
	checkEnum(errs, "operational.sendStatus", k.Operational.SendStatus, sendStatusOptions)

	metrics := map[string]float64{
		"metrics.followersK":       k.Metrics.FollowersK,
		"metrics.likesK":           k.Metrics.LikesK,
		"metrics.meanViewsK":       k.Metrics.MeanViewsK,
		"metrics.medianViewsK":     k.Metrics.MedianViewsK,
		"metrics.averageViewsK":    k.Metrics.AverageViewsK,
		"metrics.averageLikesK":    k.Metrics.AverageLikesK,
		"metrics.averageCommentsK": k.Metrics.AverageCommentsK,
	}
	for field, v := range metrics {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			errs[field] = "must be a non-negative number"
		}
	}
	if k.Metrics.EngagementRate < 0 || k.Metrics.EngagementRate > 100 {
		errs["metrics.engagementRate"] = "must be between 0 and 100"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkEnum(errs FieldErrors, field, value string, opts []EnumOption) {
	if value == "" {
		return
	}
	for _, opt := range opts {
		if opt.Value == value {
			return
		}
	}
	errs[field] = fmt.Sprintf("%q is not a recognized value", value)
}

// SchemaValidator checks full record payloads against a JSON schema before
// they are sent upstream, mirroring the 422 contract of the API.
type SchemaValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewSchemaValidator builds a validator; the schema compiles lazily on first use.
func NewSchemaValidator() *SchemaValidator { return &SchemaValidator{} }

// Validate ensures the record satisfies the payload schema and the per-field
// checks. Field errors are reported together as a *ValidationError.
func (v *SchemaValidator) Validate(k KOL) error {
	if errs := ValidateKOL(k); errs != nil {
		return &ValidationError{Fields: errs}
	}
	schema, err := v.compiled()
	if err != nil {
		return err
	}
	data, err := json.Marshal(k)
	if err != nil {
		return fmt.Errorf("kol: marshal record for validation: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("kol: normalize record for validation: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("kol: record failed validation: %w", err)
	}
	return nil
}

func (v *SchemaValidator) compiled() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		data, err := json.Marshal(recordSchema())
		if err != nil {
			v.err = fmt.Errorf("kol: marshal record schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("kol.json", bytes.NewReader(data)); err != nil {
			v.err = fmt.Errorf("kol: load record schema: %w", err)
			return
		}
		v.schema, v.err = compiler.Compile("kol.json")
	})
	return v.schema, v.err
}

func recordSchema() map[string]any {
	metricProps := map[string]any{}
	for _, key := range []string{
		"followersK", "likesK", "meanViewsK", "medianViewsK",
		"averageViewsK", "averageLikesK", "averageCommentsK",
	} {
		metricProps[key] = map[string]any{"type": "number", "minimum": 0}
	}
	metricProps["engagementRate"] = map[string]any{"type": "number", "minimum": 0, "maximum": 100}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kolId":       map[string]any{"type": "string"},
			"name":        map[string]any{"type": "string"},
			"email":       map[string]any{"type": "string"},
			"bio":         map[string]any{"type": "string"},
			"gender":      enumSchema(genderOptions),
			"language":    map[string]any{"type": "string"},
			"location":    map[string]any{"type": "string"},
			"source":      enumSchema(sourceOptions),
			"platform":    enumSchema(platformOptions),
			"tag":         map[string]any{"type": "string"},
			"filter":      map[string]any{"type": "string"},
			"accountLink": map[string]any{"type": "string"},
			"slug":        map[string]any{"type": "string"},
			"creatorId":   map[string]any{"type": "string"},
			"metrics": map[string]any{
				"type":       "object",
				"properties": metricProps,
			},
			"operational": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"level":            enumSchema(levelOptions),
					"sendStatus":       enumSchema(sendStatusOptions),
					"keywordsAI":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"mostUsedHashtags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			},
		},
	}
}

func enumSchema(opts []EnumOption) map[string]any {
	values := make([]string, 0, len(opts)+1)
	// empty string means "not set"; the API treats it as null
	values = append(values, "")
	for _, opt := range opts {
		values = append(values, opt.Value)
	}
	return map[string]any{"type": "string", "enum": values}
}
