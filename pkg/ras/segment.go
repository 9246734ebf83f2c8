package ras

import (
	"strconv"
	"strings"

	rasErrors "mercator-hq/xrdscan/pkg/ras/errors"
)

// Row is one line of a data block.
type Row struct {
	X         float64
	Intensity float64
	Scale     float64
}

// Segment is one header block and the data block that follows it.
// Segments are built once by the parser and not modified afterwards.
type Segment struct {
	Header map[string]Value
	Rows   []Row

	// headerLine is the 1-based line of *RAS_HEADER_START.
	headerLine int
	// keyLines maps each header key to its 1-based line.
	keyLines map[string]int
}

// HeaderLine returns the 1-based line number of the segment's header start marker.
func (s *Segment) HeaderLine() int {
	return s.headerLine
}

// KeyLine returns the 1-based line of a header key, falling back to the
// header start line when the key is absent.
func (s *Segment) KeyLine(key string) int {
	if line, ok := s.keyLines[key]; ok {
		return line
	}
	return s.headerLine
}

type parseState int

const (
	stateExpectFileStart parseState = iota
	stateExpectHeaderStart
	stateInHeader
	stateExpectIntStart
	stateInIntBlock
	stateSegmentDone
)

// segmentParser walks the lines of one file. index is 0-based; errors
// report index+1.
type segmentParser struct {
	lines    []string
	index    int
	state    parseState
	segments []*Segment
	current  *Segment
}

// parseSegments runs the state machine over all lines and returns one
// Segment per header/data block. Any structural violation aborts the parse.
func parseSegments(lines []string) ([]*Segment, error) {
	p := &segmentParser{lines: lines, state: stateExpectFileStart}
	for {
		done, err := p.step()
		if err != nil {
			return nil, rasErrors.AddContextToError(err, lines)
		}
		if done {
			return p.segments, nil
		}
	}
}

func (p *segmentParser) errorf(suggestion, format string, args ...any) *rasErrors.FormatError {
	err := rasErrors.NewFormatError(p.index+1, format, args...)
	err.Suggestion = suggestion
	return err
}

// step consumes input for the current state and advances to the next one.
// It returns true once the file end marker has been read.
func (p *segmentParser) step() (bool, *rasErrors.FormatError) {
	switch p.state {
	case stateExpectFileStart:
		if p.lines[0] != MarkerFileStart {
			return false, p.errorf(rasErrors.SuggestMarker(MarkerFileStart),
				"not a Rigaku RAS file: first line is %q", truncate(p.lines[0]))
		}
		p.index = 1
		p.state = stateExpectHeaderStart

	case stateExpectHeaderStart:
		if p.index >= len(p.lines) {
			return false, p.errorf(rasErrors.SuggestMarker(MarkerHeaderStart),
				"corrupt file: missing %s", MarkerHeaderStart)
		}
		if p.lines[p.index] != MarkerHeaderStart {
			return false, p.errorf(rasErrors.SuggestMarker(MarkerHeaderStart),
				"corrupt file: missing %s, found %q", MarkerHeaderStart, truncate(p.lines[p.index]))
		}
		p.current = &Segment{
			Header:     make(map[string]Value),
			headerLine: p.index + 1,
			keyLines:   make(map[string]int),
		}
		p.index++
		p.state = stateInHeader

	case stateInHeader:
		for {
			if p.index >= len(p.lines) {
				return false, p.errorf(rasErrors.SuggestMarker(MarkerHeaderEnd),
					"corrupt file: missing %s", MarkerHeaderEnd)
			}
			line := p.lines[p.index]
			if line == MarkerHeaderEnd {
				p.index++
				p.state = stateExpectIntStart
				break
			}
			key, raw, ok := splitHeaderLine(line)
			if !ok {
				return false, p.errorf(`header lines have the form *KEY "value"`,
					"corrupt file: line %d is not '*KEY \"value\"'", p.index+1)
			}
			p.current.Header[key] = Coerce(raw)
			p.current.keyLines[key] = p.index + 1
			p.index++
		}

	case stateExpectIntStart:
		if p.index >= len(p.lines) || p.lines[p.index] != MarkerIntStart {
			return false, p.errorf(rasErrors.SuggestMarker(MarkerIntStart),
				"corrupt file: missing %s", MarkerIntStart)
		}
		p.index++
		p.state = stateInIntBlock

	case stateInIntBlock:
		for {
			if p.index >= len(p.lines) {
				return false, p.errorf(rasErrors.SuggestMarker(MarkerIntEnd),
					"corrupt file: missing %s", MarkerIntEnd)
			}
			line := p.lines[p.index]
			if line == MarkerIntEnd {
				p.index++
				p.state = stateSegmentDone
				break
			}
			row, ok := parseRow(line)
			if !ok {
				return false, p.errorf("data lines hold three numbers: x, intensity, scale",
					"corrupt file: line %d is not a set of values", p.index+1)
			}
			p.current.Rows = append(p.current.Rows, row)
			p.index++
		}

	case stateSegmentDone:
		p.segments = append(p.segments, p.current)
		p.current = nil
		if p.index < len(p.lines) && p.lines[p.index] == MarkerFileEnd {
			return true, nil
		}
		if p.index < len(p.lines) && p.lines[p.index] == MarkerHeaderStart {
			p.state = stateExpectHeaderStart
			return false, nil
		}
		return false, p.errorf(rasErrors.SuggestMarker(MarkerFileEnd),
			"corrupt file: expected %s or %s", MarkerHeaderStart, MarkerFileEnd)
	}
	return false, nil
}

// splitHeaderLine splits `*KEY "value"` into KEY and value.
func splitHeaderLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, " ")
	if !found || !strings.HasPrefix(key, "*") {
		return "", "", false
	}
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return "", "", false
	}
	return key[1:], value[1 : len(value)-1], true
}

// parseRow parses "x intensity scale".
func parseRow(line string) (Row, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Row{}, false
	}
	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Row{}, false
		}
		vals[i] = v
	}
	return Row{X: vals[0], Intensity: vals[1], Scale: vals[2]}, true
}

func truncate(s string) string {
	const maxLen = 40
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
