package ras

import (
	"errors"
	"strconv"
	"strings"
)

// ValueKind is the tag of a coerced header value.
type ValueKind int

const (
	KindText ValueKind = iota
	KindInt
	KindFloat
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "text"
	}
}

// Value is one header field after coercion. Exactly one of Int, Float or
// Text is meaningful, selected by Kind. Raw always holds the unquoted text
// as it appeared in the file.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
	Raw   string
}

// alternateSeparator splits the localized and reference spellings of a
// value, e.g. "<local>|Ka1".
const alternateSeparator = "|"

// Coerce converts the unquoted text of a header line into a Value.
// Conversions are attempted in a fixed order: integer, float, then the
// reference half of a "local|reference" pair (itself tried as integer and
// float), then the original text. Coerce never fails.
func Coerce(raw string) Value {
	if v, ok := parseNumber(raw); ok {
		v.Raw = raw
		return v
	}

	parts := strings.Split(raw, alternateSeparator)
	if len(parts) == 2 {
		if v, ok := parseNumber(parts[1]); ok {
			v.Raw = raw
			return v
		}
		return Value{Kind: KindText, Text: parts[1], Raw: raw}
	}

	return Value{Kind: KindText, Text: raw, Raw: raw}
}

func parseNumber(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Value{Kind: KindInt, Int: i}, true
	}
	// Out-of-range floats saturate to ±Inf.
	if f, err := strconv.ParseFloat(s, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return Value{Kind: KindFloat, Float: f}, true
	}
	return Value{}, false
}

// IsNumeric returns true for integer and float values.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// Number returns the value as a float64 and whether it is numeric.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	}
	return 0, false
}

// String returns the text form: the coerced text for text values and the
// original spelling for numbers.
func (v Value) String() string {
	if v.Kind == KindText {
		return v.Text
	}
	return v.Raw
}

// Equal reports whether two values have the same kind and payload.
// Float payloads are compared bit for bit so NaN equals NaN.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return sameFloat(v.Float, o.Float)
	}
	return v.Text == o.Text
}
