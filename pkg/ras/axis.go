package ras

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	rasErrors "mercator-hq/xrdscan/pkg/ras/errors"
)

// PositionKind tags the decoded position of an instrument axis.
type PositionKind int

const (
	// PositionNumber is a numeric position.
	PositionNumber PositionKind = iota
	// PositionNull marks an axis whose position does not apply ("None").
	PositionNull
	// PositionNaN marks a position that is present but unspecified ("-").
	PositionNaN
	// PositionText is a named setting such as a crystal or optics name.
	PositionText
)

// Position is the decoded position of an instrument axis.
type Position struct {
	Kind   PositionKind
	Number float64 // NaN for PositionNaN
	Text   string
}

// NumberPosition returns a numeric position.
func NumberPosition(v float64) Position {
	return Position{Kind: PositionNumber, Number: v}
}

// String renders the position for display.
func (p Position) String() string {
	switch p.Kind {
	case PositionNumber:
		return strconv.FormatFloat(p.Number, 'g', -1, 64)
	case PositionNull:
		return "None"
	case PositionNaN:
		return "NaN"
	}
	return p.Text
}

// Equal reports whether two positions are identical. Numbers compare with
// ==, so a NaN number never equals anything.
func (p Position) Equal(o Position) bool {
	if p.Kind != o.Kind {
		return false
	}
	switch p.Kind {
	case PositionNumber:
		return p.Number == o.Number
	case PositionText:
		return p.Text == o.Text
	}
	return p.Kind != PositionNaN
}

// AxisEntry describes one instrument axis.
type AxisEntry struct {
	Label    string
	Unit     string
	Position Position
	Offset   float64 // NaN when unspecified
}

// AxisTable maps internal axis names (e.g. "Attenuator",
// "IncidentMonochromator") to their entries.
type AxisTable map[string]AxisEntry

// Internal names with dedicated decoding or lookups.
const (
	AxisAttenuator            = "Attenuator"
	AxisIncidentMonochromator = "IncidentMonochromator"
)

const (
	axisNamePrefix   = "MEAS_COND_AXIS_NAME-"
	axisUnitKey      = "MEAS_COND_AXIS_UNIT-%d"
	axisInternalKey  = "MEAS_COND_AXIS_NAME_INTERNAL-%d"
	axisMagicKey     = "MEAS_COND_AXIS_NAME_MAGICNO-%d"
	axisOffsetKey    = "MEAS_COND_AXIS_OFFSET-%d"
	axisPositionKey  = "MEAS_COND_AXIS_POSITION-%d"
	millimeterSuffix = "mm"
)

// axisCount returns the number of contiguous axis groups, i.e. the first
// index n for which MEAS_COND_AXIS_NAME-n is absent.
func axisCount(header map[string]Value) int {
	present := make(map[int]bool)
	for key := range header {
		suffix, ok := strings.CutPrefix(key, axisNamePrefix)
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(suffix)
		if err != nil || idx < 0 || strconv.Itoa(idx) != suffix {
			continue
		}
		present[idx] = true
	}
	n := 0
	for present[n] {
		n++
	}
	return n
}

// buildAxisTable assembles the axis table of a segment.
func buildAxisTable(seg *Segment) (AxisTable, error) {
	n := axisCount(seg.Header)
	table := make(AxisTable, n)
	for idx := 0; idx < n; idx++ {
		fields, err := axisFields(seg, idx)
		if err != nil {
			return nil, err
		}
		name := fields[2].String()

		unit := fields[1].String()
		position, unit, err := decodePosition(name, fields[5], unit)
		if err != nil {
			return nil, rasErrors.NewFormatError(seg.KeyLine(fmt.Sprintf(axisPositionKey, idx)),
				"axis %q: %v", name, err)
		}
		offset, err := decodeOffset(fields[4])
		if err != nil {
			return nil, rasErrors.NewFormatError(seg.KeyLine(fmt.Sprintf(axisOffsetKey, idx)),
				"axis %q: %v", name, err)
		}

		table[name] = AxisEntry{
			Label:    fields[0].String(),
			Unit:     unit,
			Position: position,
			Offset:   offset,
		}
	}
	return table, nil
}

// axisFields reads the six header fields of axis idx in the order
// label, unit, internal name, magic number, offset, position.
func axisFields(seg *Segment, idx int) ([6]Value, error) {
	var out [6]Value
	keys := [6]string{
		axisNamePrefix + strconv.Itoa(idx),
		fmt.Sprintf(axisUnitKey, idx),
		fmt.Sprintf(axisInternalKey, idx),
		fmt.Sprintf(axisMagicKey, idx),
		fmt.Sprintf(axisOffsetKey, idx),
		fmt.Sprintf(axisPositionKey, idx),
	}
	for i, key := range keys {
		v, ok := seg.Header[key]
		if !ok {
			err := rasErrors.NewFormatError(seg.HeaderLine(), "missing header field %s", key)
			err.Suggestion = rasErrors.SuggestHeaderKey(key, sortedKeys(seg.Header))
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

// decodePosition applies the position rules in order; the first match wins:
// attenuator fractions and blanks, millimeter suffixes, "None", "-".
func decodePosition(name string, v Value, unit string) (Position, string, error) {
	if name == AxisAttenuator {
		if v.Kind != KindText {
			num, _ := v.Number()
			return NumberPosition(num), unit, nil
		}
		switch {
		case strings.Contains(v.Text, "/"):
			f, err := parseFraction(v.Text)
			if err != nil {
				return Position{}, unit, err
			}
			return NumberPosition(f), unit, nil
		case v.Text == "" || v.Text == "-" || v.Text == "None":
			return NumberPosition(1.0), unit, nil
		}
		return Position{Kind: PositionText, Text: v.Text}, unit, nil
	}

	if num, ok := v.Number(); ok {
		return NumberPosition(num), unit, nil
	}

	switch {
	case strings.HasSuffix(v.Text, millimeterSuffix):
		prefix := strings.TrimSpace(strings.TrimSuffix(v.Text, millimeterSuffix))
		f, err := strconv.ParseFloat(prefix, 64)
		if err != nil {
			return Position{}, unit, fmt.Errorf("position %q is not a length in mm", v.Text)
		}
		return NumberPosition(f), millimeterSuffix, nil
	case v.Text == "None":
		return Position{Kind: PositionNull}, unit, nil
	case v.Text == "-":
		return Position{Kind: PositionNaN, Number: math.NaN()}, unit, nil
	}
	return Position{Kind: PositionText, Text: v.Text}, unit, nil
}

// parseFraction parses "n/d" as n divided by d.
func parseFraction(s string) (float64, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("attenuator position %q is not a fraction", s)
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("attenuator position %q is not a fraction", s)
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("attenuator position %q is not a fraction", s)
	}
	if den == 0 {
		return 0, fmt.Errorf("attenuator position %q divides by zero", s)
	}
	return num / den, nil
}

// decodeOffset returns NaN for "-" and the numeric value otherwise.
func decodeOffset(v Value) (float64, error) {
	if num, ok := v.Number(); ok {
		return num, nil
	}
	if v.Text == "-" {
		return math.NaN(), nil
	}
	return 0, fmt.Errorf("offset %q is neither a number nor '-'", v.Text)
}
