package ras

import (
	"errors"
	"maps"

	rasErrors "mercator-hq/xrdscan/pkg/ras/errors"
)

// ErrNoDatasets is returned when Join is called without datasets.
var ErrNoDatasets = errors.New("ras: no datasets to join")

// Join combines the segments of a scan into one continuous dataset.
// All segments must share the scan axis and the attenuator position.
// The inputs are left untouched; the result owns all of its data.
func Join(datasets []*Dataset) (*Dataset, error) {
	if len(datasets) == 0 {
		return nil, ErrNoDatasets
	}
	if err := checkJoinable(datasets); err != nil {
		return nil, err
	}

	first := datasets[0]
	out := *first
	out.Axis = maps.Clone(first.Axis)
	out.Header = maps.Clone(first.Header)

	total := 0
	for _, d := range datasets {
		total += d.Len()
	}
	out.X = make([]float64, 0, total)
	out.Y = make([]float64, 0, total)
	out.YErr = make([]float64, 0, total)
	out.CountTimes = make([]float64, 0, total)

	for _, d := range datasets {
		out.X = append(out.X, d.X...)
		out.Y = append(out.Y, d.Y...)
		out.YErr = append(out.YErr, d.YErr...)
		out.CountTimes = append(out.CountTimes, d.CountTimes...)
		if d.StartTime.Before(out.StartTime) {
			out.StartTime = d.StartTime
		}
		if d.EndTime.After(out.EndTime) {
			out.EndTime = d.EndTime
		}
	}
	return &out, nil
}

// checkJoinable validates every dataset against the first before anything
// is concatenated.
func checkJoinable(datasets []*Dataset) error {
	first := datasets[0]
	for i, d := range datasets[1:] {
		if d.ScanAxis != first.ScanAxis {
			return &rasErrors.IncompatibilityError{
				Field:   "scan_axis",
				Segment: i + 1,
				Want:    first.ScanAxis,
				Got:     d.ScanAxis,
			}
		}
	}

	want, wantOK := first.Attenuation()
	for i, d := range datasets[1:] {
		got, gotOK := d.Attenuation()
		if gotOK != wantOK || (wantOK && !got.Equal(want)) {
			return &rasErrors.IncompatibilityError{
				Field:   "attenuator",
				Segment: i + 1,
				Want:    attenuationString(want, wantOK),
				Got:     attenuationString(got, gotOK),
			}
		}
	}
	return nil
}

func attenuationString(p Position, ok bool) string {
	if !ok {
		return "<absent>"
	}
	return p.String()
}
