package ras

import (
	"strings"
)

// field is one header line of a test fixture.
type field struct {
	key   string
	value string
}

type fixtureSegment struct {
	header []field
	rows   []string
}

func defaultHeader() []field {
	return []field{
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
		{"MEAS_COND_AXIS_NAME-2", "Receiving Slit 1"},
		{"MEAS_COND_AXIS_UNIT-2", ""},
		{"MEAS_COND_AXIS_NAME_INTERNAL-2", "RS1"},
		{"MEAS_COND_AXIS_NAME_MAGICNO-2", "3"},
		{"MEAS_COND_AXIS_OFFSET-2", "0.05"},
		{"MEAS_COND_AXIS_POSITION-2", "12.5mm"},
	}
}

func defaultRows() []string {
	return []string{
		"10.0000 100 1.0000",
		"10.5000 400 2.5000",
	}
}

func defaultSegment() fixtureSegment {
	return fixtureSegment{header: defaultHeader(), rows: defaultRows()}
}

// with returns a copy of the segment with key set to value, appending the
// key when it is not present.
func (s fixtureSegment) with(key, value string) fixtureSegment {
	header := make([]field, 0, len(s.header)+1)
	found := false
	for _, f := range s.header {
		if f.key == key {
			f.value = value
			found = true
		}
		header = append(header, f)
	}
	if !found {
		header = append(header, field{key, value})
	}
	return fixtureSegment{header: header, rows: s.rows}
}

// without returns a copy of the segment without key.
func (s fixtureSegment) without(key string) fixtureSegment {
	header := make([]field, 0, len(s.header))
	for _, f := range s.header {
		if f.key != key {
			header = append(header, f)
		}
	}
	return fixtureSegment{header: header, rows: s.rows}
}

func (s fixtureSegment) withRows(rows ...string) fixtureSegment {
	return fixtureSegment{header: s.header, rows: rows}
}

// segmentLines renders the header and data blocks of one segment.
func (s fixtureSegment) lines() []string {
	lines := []string{MarkerHeaderStart}
	for _, f := range s.header {
		lines = append(lines, "*"+f.key+` "`+f.value+`"`)
	}
	lines = append(lines, MarkerHeaderEnd, MarkerIntStart)
	lines = append(lines, s.rows...)
	return append(lines, MarkerIntEnd)
}

// buildFile renders a complete RAS file with CRLF line endings.
func buildFile(segments ...fixtureSegment) []byte {
	lines := []string{MarkerFileStart}
	for _, s := range segments {
		lines = append(lines, s.lines()...)
	}
	lines = append(lines, MarkerFileEnd, "")
	return []byte(strings.Join(lines, lineTerminator))
}

// buildLines renders raw lines with CRLF line endings.
func buildLines(lines ...string) []byte {
	return []byte(strings.Join(lines, lineTerminator))
}
