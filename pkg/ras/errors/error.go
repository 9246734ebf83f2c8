package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType categorizes the type of error encountered while loading a scan.
type ErrorType string

const (
	ErrorTypeFormat       ErrorType = "format"       // Structural violation of the RAS container
	ErrorTypeIncompatible ErrorType = "incompatible" // Segments cannot be joined
	ErrorTypeIO           ErrorType = "io"           // File I/O error
)

// Location identifies a line in a scan file. Line is 1-based; zero means unknown.
type Location struct {
	File string
	Line int
}

// String returns "file:line", omitting whichever part is unknown.
func (l Location) String() string {
	switch {
	case l.File == "" && l.Line == 0:
		return "<unknown>"
	case l.File == "":
		return fmt.Sprintf("line %d", l.Line)
	case l.Line == 0:
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsValid returns true if the location has line information.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// FormatError reports a structural violation of the RAS format.
// The whole parse is aborted; no partial dataset accompanies it.
type FormatError struct {
	Location   Location
	Message    string
	Context    string // Surrounding lines of the file (optional)
	Suggestion string // Suggested fix (optional)
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", ErrorTypeFormat, e.Message))

	if e.Location.IsValid() || e.Location.File != "" {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// Line returns the 1-based line number of the offending line.
func (e *FormatError) Line() int {
	return e.Location.Line
}

// NewFormatError creates a FormatError at the given 1-based line.
func NewFormatError(line int, format string, args ...any) *FormatError {
	return &FormatError{
		Location: Location{Line: line},
		Message:  fmt.Sprintf(format, args...),
	}
}

// IncompatibilityError reports segments that disagree on a field that
// must be identical for them to form one continuous scan.
type IncompatibilityError struct {
	Field   string // Conflicting field, e.g. "scan_axis"
	Segment int    // Index of the first segment that disagrees with segment 0
	Want    string // Value in segment 0
	Got     string // Value in the conflicting segment
}

// Error implements the error interface.
func (e *IncompatibilityError) Error() string {
	return fmt.Sprintf("[%s] segment %d has %s %s, segment 0 has %s",
		ErrorTypeIncompatible, e.Segment, e.Field, e.Got, e.Want)
}

// IOError reports a failure to read a scan file.
type IOError struct {
	File string
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("[%s] %s %s: %v", ErrorTypeIO, e.Op, e.File, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// WithFile attaches the source file path to a FormatError so the message
// reads "while loading <path>". Other errors are wrapped with the path.
// A nil error returns nil.
func WithFile(err error, path string) error {
	if err == nil {
		return nil
	}

	var fe *FormatError
	if stderrors.As(err, &fe) {
		annotated := *fe
		annotated.Location.File = path
		return &annotated
	}

	var ioe *IOError
	if stderrors.As(err, &ioe) {
		return err
	}

	return fmt.Errorf("while loading %q: %w", path, err)
}

// IsFormat reports whether err is, or wraps, a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return stderrors.As(err, &fe)
}

// IsIncompatible reports whether err is, or wraps, an IncompatibilityError.
func IsIncompatible(err error) bool {
	var ie *IncompatibilityError
	return stderrors.As(err, &ie)
}

// IsIO reports whether err is, or wraps, an IOError.
func IsIO(err error) bool {
	var ioe *IOError
	return stderrors.As(err, &ioe)
}
