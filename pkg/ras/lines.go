package ras

import "strings"

// Format markers. Comparisons are byte exact.
const (
	MarkerFileStart   = "*RAS_DATA_START"
	MarkerHeaderStart = "*RAS_HEADER_START"
	MarkerHeaderEnd   = "*RAS_HEADER_END"
	MarkerIntStart    = "*RAS_INT_START"
	MarkerIntEnd      = "*RAS_INT_END"
	MarkerFileEnd     = "*RAS_DATA_END"
)

// lineTerminator is the two-byte line ending written by the instrument.
const lineTerminator = "\r\n"

// splitLines splits the file into lines. A trailing terminator yields a
// final empty line, which the segment parser never reaches on valid input.
func splitLines(data []byte) []string {
	return strings.Split(string(data), lineTerminator)
}
