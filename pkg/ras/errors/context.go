package errors

import (
	"fmt"
	"strings"
)

// ExtractContext formats the lines surrounding the 1-based line number
// taken from an in-memory copy of the file. The offending line is marked
// with "->".
func ExtractContext(lines []string, line int, contextLines int) string {
	if line <= 0 || line > len(lines) {
		return ""
	}

	errorLine := line - 1
	startLine := errorLine - contextLines
	endLine := errorLine + contextLines

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, maxLineNumWidth, i+1, lines[i]))
	}

	return sb.String()
}

// WithContext fills in the Context of a FormatError from the file lines.
func WithContext(err *FormatError, lines []string, contextLines int) *FormatError {
	if err.Location.IsValid() {
		err.Context = ExtractContext(lines, err.Location.Line, contextLines)
	}
	return err
}

// AddContextToError adds two lines of context on either side of the error.
func AddContextToError(err *FormatError, lines []string) *FormatError {
	return WithContext(err, lines, 2)
}
