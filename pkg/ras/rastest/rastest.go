// Package rastest builds RAS scan files for tests of packages that consume
// the ras package.
package rastest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/xrdscan/pkg/ras"
)

// Field is one "*KEY "value"" header line.
type Field struct {
	Key   string
	Value string
}

// Segment is the header and data rows of one scan segment.
type Segment struct {
	Header []Field
	Rows   []string
}

// DefaultSegment returns a complete two-row segment: a 2Theta/Omega step
// scan with a 1/10000 attenuator and a Ge(220)x2 monochromator.
func DefaultSegment() Segment {
	return Segment{
		Header: []Field{
			{"FILE_SAMPLE", "Si wafer"},
			{"FILE_COMMENT", "reflectivity test"},
			{"MEAS_SCAN_AXIS_X", "2Theta/Omega"},
			{"MEAS_SCAN_UNIT_X", "deg"},
			{"MEAS_SCAN_RESOLUTION_X", "0.01"},
			{"DISP_TITLE_Y", "Intensity"},
			{"MEAS_SCAN_UNIT_Y", "counts"},
			{"MEAS_SCAN_SPEED", "1.5"},
			{"MEAS_SCAN_SPEED_UNIT", "sec"},
			{"MEAS_SCAN_START_TIME", "03/14/17 10:20:30"},
			{"MEAS_SCAN_END_TIME", "03/14/17 10:25:00"},
			{"MEAS_SCAN_AXIS_X_INTERNAL", "TwoThetaOmega"},
			{"MEAS_SCAN_MODE", "STEP"},
			{"HW_XG_WAVE_LENGTH_ALPHA1", "1.540593"},
			{"HW_XG_WAVE_LENGTH_ALPHA2", "1.544414"},
			{"HW_XG_WAVE_LENGTH_BETA", "1.392250"},
			{"MEAS_COND_AXIS_NAME-0", "Attenuator"},
			{"MEAS_COND_AXIS_UNIT-0", ""},
			{"MEAS_COND_AXIS_NAME_INTERNAL-0", "Attenuator"},
			{"MEAS_COND_AXIS_NAME_MAGICNO-0", "0"},
			{"MEAS_COND_AXIS_OFFSET-0", "-"},
			{"MEAS_COND_AXIS_POSITION-0", "1/10000"},
			{"MEAS_COND_AXIS_NAME-1", "Incident Monochromator"},
			{"MEAS_COND_AXIS_UNIT-1", ""},
			{"MEAS_COND_AXIS_NAME_INTERNAL-1", "IncidentMonochromator"},
			{"MEAS_COND_AXIS_NAME_MAGICNO-1", "12"},
			{"MEAS_COND_AXIS_OFFSET-1", "0"},
			{"MEAS_COND_AXIS_POSITION-1", "Ge(220)x2"},
		},
		Rows: []string{
			"10.0000 100 1.0000",
			"10.5000 400 2.5000",
		},
	}
}

// With returns a copy of s with key set to value, appending the key when
// it is not present.
func (s Segment) With(key, value string) Segment {
	header := make([]Field, 0, len(s.Header)+1)
	found := false
	for _, f := range s.Header {
		if f.Key == key {
			f.Value = value
			found = true
		}
		header = append(header, f)
	}
	if !found {
		header = append(header, Field{key, value})
	}
	return Segment{Header: header, Rows: s.Rows}
}

// WithRows returns a copy of s with the given data rows.
func (s Segment) WithRows(rows ...string) Segment {
	return Segment{Header: s.Header, Rows: rows}
}

// File renders a complete RAS file with CRLF line endings.
func File(segments ...Segment) []byte {
	lines := []string{ras.MarkerFileStart}
	for _, s := range segments {
		lines = append(lines, ras.MarkerHeaderStart)
		for _, f := range s.Header {
			lines = append(lines, "*"+f.Key+` "`+f.Value+`"`)
		}
		lines = append(lines, ras.MarkerHeaderEnd, ras.MarkerIntStart)
		lines = append(lines, s.Rows...)
		lines = append(lines, ras.MarkerIntEnd)
	}
	lines = append(lines, ras.MarkerFileEnd, "")
	return []byte(strings.Join(lines, "\r\n"))
}

// WriteFile writes data to name inside a per-test temporary directory and
// returns the path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
