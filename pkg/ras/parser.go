package ras

import (
	stderrors "errors"
	"log/slog"

	rasErrors "mercator-hq/xrdscan/pkg/ras/errors"
)

// Parser parses RAS file contents into datasets. A Parser holds no mutable
// state; the same bytes always produce identical datasets, so one Parser
// may be shared by concurrent callers.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser that logs to the default logger.
func NewParser() *Parser {
	return &Parser{
		logger: slog.Default().With("component", "ras.parser"),
	}
}

// WithLogger sets the logger used for diagnostics.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Parse parses the contents of a RAS file into one Dataset per segment.
// Any structural problem aborts the whole parse with a *errors.FormatError.
func (p *Parser) Parse(data []byte) ([]*Dataset, error) {
	segments, err := p.ParseSegments(data)
	if err != nil {
		return nil, err
	}

	var lines []string
	datasets := make([]*Dataset, 0, len(segments))
	for i, seg := range segments {
		d, err := interpret(seg)
		if err != nil {
			var fe *rasErrors.FormatError
			if stderrors.As(err, &fe) {
				if lines == nil {
					lines = splitLines(data)
				}
				rasErrors.AddContextToError(fe, lines)
			}
			return nil, err
		}
		if isUnknownCrystal(d.Monochromator()) {
			p.logger.Debug("unknown monochromator configuration",
				"segment", i,
				"monochromator", d.Monochromator(),
			)
		}
		datasets = append(datasets, d)
	}
	return datasets, nil
}

// ParseSegments runs only the structural pass, returning the raw header
// and rows of every segment.
func (p *Parser) ParseSegments(data []byte) ([]*Segment, error) {
	return parseSegments(splitLines(data))
}

func isUnknownCrystal(crystal string) bool {
	_, ok := monochromatorAngularDivergence[crystal]
	return !ok
}

var defaultParser = NewParser()

// Parse parses the contents of a RAS file with the default parser.
func Parse(data []byte) ([]*Dataset, error) {
	return defaultParser.Parse(data)
}
