package errors

import (
	"fmt"
)

// SuggestHeaderKey suggests the closest present header key when a required
// key is missing, e.g. a typo or a key renamed by a firmware update.
func SuggestHeaderKey(missing string, present []string) string {
	minDistance := 1000
	var bestMatch string

	for _, key := range present {
		dist := levenshteinDistance(missing, key)
		if dist < minDistance || (dist == minDistance && key < bestMatch) {
			minDistance = dist
			bestMatch = key
		}
	}

	// Only suggest if the distance is reasonable (< 4 edits)
	if minDistance < 4 {
		return fmt.Sprintf("did you mean '%s'?", bestMatch)
	}
	return fmt.Sprintf("add '*%s \"...\"' to the segment header", missing)
}

// SuggestMarker suggests the marker that closes or opens a block.
func SuggestMarker(marker string) string {
	return fmt.Sprintf("expected the line '%s'", marker)
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
