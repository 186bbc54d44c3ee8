package mapping

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Converter turns a raw JSON value into a field value and compares field values.
// A nil raw value converts to the field's empty value.
type Converter[V any] struct {
	Convert func(raw any) (V, error)
	Equal   func(a, b V) bool
}

func equal[V comparable](a, b V) bool { return a == b }

func typeError(want string, raw any) error {
	return fmt.Errorf("expected %s, got %T", want, raw)
}

var String = Converter[string]{
	Convert: func(raw any) (string, error) {
		switch v := raw.(type) {
		case nil:
			return "", nil
		case string:
			return v, nil
		}
		return "", typeError("string", raw)
	},
	Equal: equal[string],
}

// ID accepts numeric or string identifiers and normalises them to a string.
var ID = Converter[string]{
	Convert: func(raw any) (string, error) {
		if raw == nil {
			return "", nil
		}
		if s, ok := raw.(string); ok {
			return s, nil
		}
		if s, ok := numberString(raw); ok {
			return s, nil
		}
		return "", typeError("identifier", raw)
	},
	Equal: equal[string],
}

var Int64 = Converter[int64]{
	Convert: func(raw any) (int64, error) {
		if raw == nil {
			return 0, nil
		}
		s, ok := numberString(raw)
		if !ok {
			return 0, typeError("integer", raw)
		}
		return strconv.ParseInt(s, 10, 64)
	},
	Equal: equal[int64],
}

var Int = Converter[int]{
	Convert: func(raw any) (int, error) {
		v, err := Int64.Convert(raw)
		return int(v), err
	},
	Equal: equal[int],
}

var Float = Converter[float64]{
	Convert: func(raw any) (float64, error) {
		if raw == nil {
			return 0, nil
		}
		s, ok := numberString(raw)
		if !ok {
			return 0, typeError("number", raw)
		}
		return strconv.ParseFloat(s, 64)
	},
	Equal: equal[float64],
}

var Bool = Converter[bool]{
	Convert: func(raw any) (bool, error) {
		switch v := raw.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		}
		return false, typeError("boolean", raw)
	},
	Equal: equal[bool],
}

// Time parses RFC 3339 timestamps.
var Time = Converter[time.Time]{
	Convert: func(raw any) (time.Time, error) {
		switch v := raw.(type) {
		case nil:
			return time.Time{}, nil
		case string:
			if v == "" {
				return time.Time{}, nil
			}
			return time.Parse(time.RFC3339, v)
		}
		return time.Time{}, typeError("timestamp", raw)
	},
	Equal: func(a, b time.Time) bool { return a.Equal(b) },
}

// Decimal accepts prices sent either as strings ("19.99") or numbers.
var Decimal = Converter[decimal.Decimal]{
	Convert: func(raw any) (decimal.Decimal, error) {
		switch v := raw.(type) {
		case nil:
			return decimal.Zero, nil
		case string:
			return decimal.NewFromString(v)
		}
		if s, ok := numberString(raw); ok {
			return decimal.NewFromString(s)
		}
		return decimal.Zero, typeError("decimal", raw)
	},
	Equal: func(a, b decimal.Decimal) bool { return a.Equal(b) },
}

var NullDecimal = Converter[decimal.NullDecimal]{
	Convert: func(raw any) (decimal.NullDecimal, error) {
		if raw == nil {
			return decimal.NullDecimal{}, nil
		}
		d, err := Decimal.Convert(raw)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NewNullDecimal(d), nil
	},
	Equal: func(a, b decimal.NullDecimal) bool {
		if a.Valid != b.Valid {
			return false
		}
		return !a.Valid || a.Decimal.Equal(b.Decimal)
	},
}

// TagList splits a comma separated tag string into trimmed, non-empty tags.
var TagList = Converter[datatypes.JSONSlice[string]]{
	Convert: func(raw any) (datatypes.JSONSlice[string], error) {
		s, err := String.Convert(raw)
		if err != nil {
			return nil, err
		}
		tags := datatypes.JSONSlice[string]{}
		for _, tag := range strings.Split(s, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		return tags, nil
	},
	Equal: func(a, b datatypes.JSONSlice[string]) bool { return slices.Equal(a, b) },
}
