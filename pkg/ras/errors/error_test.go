package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestFormatError_Error(t *testing.T) {
	err := &FormatError{
		Location:   Location{File: "scan.ras", Line: 12},
		Message:    "corrupt file: missing *RAS_HEADER_END",
		Suggestion: "expected the line '*RAS_HEADER_END'",
	}
	got := err.Error()
	for _, want := range []string{"[format] corrupt file", "--> scan.ras:12", "= suggestion:"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, want it to contain %q", got, want)
		}
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{}, "<unknown>"},
		{Location{Line: 3}, "line 3"},
		{Location{File: "a.ras"}, "a.ras"},
		{Location{File: "a.ras", Line: 3}, "a.ras:3"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestWithFile(t *testing.T) {
	fe := NewFormatError(4, "bad line")
	annotated := WithFile(fe, "/data/scan.ras")

	var got *FormatError
	if !stderrors.As(annotated, &got) {
		t.Fatalf("expected FormatError, got %T", annotated)
	}
	if got.Location.File != "/data/scan.ras" || got.Line() != 4 {
		t.Errorf("Location = %+v", got.Location)
	}
	if fe.Location.File != "" {
		t.Error("WithFile must not modify the original error")
	}

	wrapped := WithFile(fmt.Errorf("boom"), "x.ras")
	if !strings.Contains(wrapped.Error(), `while loading "x.ras"`) {
		t.Errorf("wrapped = %q", wrapped.Error())
	}

	if WithFile(nil, "x.ras") != nil {
		t.Error("WithFile(nil) should be nil")
	}
}

func TestIOError_Unwrap(t *testing.T) {
	err := &IOError{File: "x.ras", Op: "read", Err: os.ErrNotExist}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestIsFormatAndIncompatible(t *testing.T) {
	if !IsFormat(fmt.Errorf("ctx: %w", NewFormatError(1, "x"))) {
		t.Error("IsFormat should see wrapped FormatError")
	}
	ie := &IncompatibilityError{Field: "scan_axis", Segment: 2, Want: "Omega", Got: "TwoTheta"}
	if !IsIncompatible(ie) || IsFormat(ie) {
		t.Error("IsIncompatible/IsFormat mismatch")
	}
	if want := "[incompatible] segment 2 has scan_axis TwoTheta, segment 0 has Omega"; ie.Error() != want {
		t.Errorf("Error() = %q, want %q", ie.Error(), want)
	}
}

func TestExtractContext(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}
	got := ExtractContext(lines, 3, 1)
	want := "   2 | b\n-> 3 | c\n   4 | d\n"
	if got != want {
		t.Errorf("ExtractContext() = %q, want %q", got, want)
	}
	if ExtractContext(lines, 0, 1) != "" || ExtractContext(lines, 9, 1) != "" {
		t.Error("out of range lines should give no context")
	}
}

func TestSuggestHeaderKey(t *testing.T) {
	got := SuggestHeaderKey("MEAS_SCAN_SPED", []string{"MEAS_SCAN_SPEED", "FILE_SAMPLE"})
	if got != "did you mean 'MEAS_SCAN_SPEED'?" {
		t.Errorf("SuggestHeaderKey() = %q", got)
	}
	if got := SuggestHeaderKey("FILE_SAMPLE", nil); !strings.Contains(got, "add '*FILE_SAMPLE") {
		t.Errorf("SuggestHeaderKey(no keys) = %q", got)
	}
}
