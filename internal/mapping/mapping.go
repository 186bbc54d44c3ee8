// Package mapping copies fields from decoded remote JSON records onto local
// entities using declarative, ordered mapping tables.
//
// A table is a list of rules. A Field rule copies one source key onto one
// target field through a Converter; a Nested rule descends into a source key
// whose value is a JSON object and applies a sub-table to the same target.
// Apply reports which target fields ended up with a different value, which is
// what the reconciler uses to decide whether a write is needed.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Record is a remote object decoded with json.Decoder.UseNumber.
type Record map[string]any

// ID returns the record's "id" as a string, or "" when absent or null.
func (r Record) ID() string {
	id, _ := ID.Convert(r["id"])
	return id
}

// Has reports whether key is declared on the record, even if null.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Object returns the nested object under key, if the value is one.
func (r Record) Object(key string) (Record, bool) {
	return asObject(r[key])
}

// Objects returns the nested objects under key. Non-object elements are dropped.
func (r Record) Objects(key string) []Record {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, v := range list {
		if obj, ok := asObject(v); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Int64 returns the numeric value under key.
func (r Record) Int64(key string) (int64, bool) {
	v, err := Int64.Convert(r[key])
	if err != nil || r[key] == nil {
		return 0, false
	}
	return v, true
}

func asObject(v any) (Record, bool) {
	switch obj := v.(type) {
	case Record:
		return obj, true
	case map[string]any:
		return Record(obj), true
	}
	return nil, false
}

// Presence selects when a source key counts as present.
type Presence int

const (
	// Declared maps a key whenever it exists on the record. A JSON null is
	// copied as the target's empty value.
	Declared Presence = iota
	// NonNull maps a key only when it exists and is not null.
	NonNull
)

// Table is an ordered list of rules applied to a *T.
type Table[T any] struct {
	presence Presence
	rules    []Rule[T]
}

// NewTable builds a table with the Declared presence policy.
func NewTable[T any](rules ...Rule[T]) Table[T] {
	return Table[T]{rules: rules}
}

// WithPresence returns a copy of the table using p for its own Field rules.
// Nested tables keep their own policy.
func (t Table[T]) WithPresence(p Presence) Table[T] {
	t.presence = p
	return t
}

// Targets lists every target field name the table can write, in order.
func (t Table[T]) Targets() []string {
	var out []string
	for _, r := range t.rules {
		if r.nested != nil {
			out = append(out, r.nested.Targets()...)
			continue
		}
		out = append(out, r.target)
	}
	return out
}

// Rule maps a single source key.
type Rule[T any] struct {
	source string
	target string
	assign func(dst *T, raw any) (bool, error)
	nested *Table[T]
}

// Field maps source onto the field returned by accessor.
func Field[T, V any](source, target string, accessor func(*T) *V, conv Converter[V]) Rule[T] {
	return Rule[T]{
		source: source,
		target: target,
		assign: func(dst *T, raw any) (bool, error) {
			value, err := conv.Convert(raw)
			if err != nil {
				return false, err
			}
			field := accessor(dst)
			if conv.Equal(*field, value) {
				return false, nil
			}
			*field = value
			return true, nil
		},
	}
}

// Nested applies sub to the same target when source holds a JSON object.
func Nested[T any](source string, sub Table[T]) Rule[T] {
	return Rule[T]{source: source, nested: &sub}
}

// FieldError is a single source value the target refused.
type FieldError struct {
	Source string
	Target string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s -> %s: %v", e.Source, e.Target, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Apply copies every present source key of rec onto dst. Absent keys are left
// untouched. All rules are attempted; refusals are joined into the error.
func Apply[T any](table Table[T], dst *T, rec Record) (Changes, error) {
	var changes Changes
	err := apply(table, dst, rec, &changes)
	return changes, err
}

func apply[T any](table Table[T], dst *T, rec Record, changes *Changes) error {
	var errs []error
	for _, rule := range table.rules {
		raw, ok := rec[rule.source]
		if !ok {
			continue
		}

		if rule.nested != nil {
			if obj, isObj := asObject(raw); isObj {
				if err := apply(*rule.nested, dst, obj, changes); err != nil {
					errs = append(errs, err)
				}
			}
			continue
		}

		if raw == nil && table.presence == NonNull {
			continue
		}

		changed, err := rule.assign(dst, raw)
		if err != nil {
			errs = append(errs, &FieldError{Source: rule.source, Target: rule.target, Err: err})
			continue
		}
		if changed {
			changes.Mark(rule.target)
		}
	}
	return errors.Join(errs...)
}

// Changes is the set of target fields that received a new value.
type Changes struct {
	fields []string
}

// Mark records name as changed.
func (c *Changes) Mark(name string) {
	if c.Has(name) {
		return
	}
	c.fields = append(c.fields, name)
}

func (c Changes) Has(name string) bool {
	for _, f := range c.fields {
		if f == name {
			return true
		}
	}
	return false
}

func (c Changes) Any() bool { return len(c.fields) > 0 }

func (c Changes) Fields() []string {
	return append([]string(nil), c.fields...)
}

// Assign sets *dst to value and marks name when the value differs.
func Assign[V comparable](dst *V, value V, name string, changes *Changes) {
	if *dst == value {
		return
	}
	*dst = value
	changes.Mark(name)
}

func numberString(raw any) (string, bool) {
	switch v := raw.(type) {
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	}
	return "", false
}
