package ras

import (
	"math"
	"slices"
)

// HeaderDifference lists the values one header key takes across segments.
// A segment without the key has a nil entry.
type HeaderDifference struct {
	Key    string
	Values []*Value
}

// HeaderDiff returns the header keys whose values are not the same in every
// dataset, sorted by key. Useful for spotting what changed between the
// segments of a multi-segment scan.
func HeaderDiff(datasets []*Dataset) []HeaderDifference {
	keys := make(map[string]struct{})
	for _, d := range datasets {
		for k := range d.Header {
			keys[k] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	slices.Sort(sorted)

	var diffs []HeaderDifference
	for _, key := range sorted {
		values := make([]*Value, len(datasets))
		for i, d := range datasets {
			if v, ok := d.Header[key]; ok {
				values[i] = &v
			}
		}
		if !allSame(values) {
			diffs = append(diffs, HeaderDifference{Key: key, Values: values})
		}
	}
	return diffs
}

func allSame(values []*Value) bool {
	for _, v := range values[1:] {
		switch {
		case v == nil && values[0] == nil:
			continue
		case v == nil || values[0] == nil:
			return false
		case !sameValue(*v, *values[0]):
			return false
		}
	}
	return true
}

// sameValue compares coerced values. Numbers compare by magnitude across
// kinds, so "1" and "1.0" match; NaN matches NaN.
func sameValue(a, b Value) bool {
	x, aNum := a.Number()
	y, bNum := b.Number()
	if aNum && bNum {
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	}
	return a.Equal(b)
}
