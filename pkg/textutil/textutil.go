// Package textutil provides small text helpers shared by the log parser and
// the status report: line counting, binary sniffing, and markdown list cleanup.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// emphasisMarkers are the markdown markers stripped by TrimEmphasis.
var emphasisMarkers = []string{"**", "__", "*", "_"}

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of newline-delimited lines in text.
// A non-empty text without a trailing newline counts the last partial line.
func CountLines(text string) int {
	if text == "" {
		return 0
	}

	lines := strings.Count(text, "\n")

	if !strings.HasSuffix(text, "\n") {
		lines++
	}

	return lines
}

// TrimEmphasis trims surrounding whitespace and one layer of markdown
// emphasis ("**bold**", "_italic_") from s.
func TrimEmphasis(s string) string {
	trimmed := strings.TrimSpace(s)

	for _, marker := range emphasisMarkers {
		if len(trimmed) >= 2*len(marker) && strings.HasPrefix(trimmed, marker) && strings.HasSuffix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker) : len(trimmed)-len(marker)])
		}
	}

	return trimmed
}

// SplitList splits s on sep, trims each item, and drops empty items.
// Returns nil when no items remain.
func SplitList(s, sep string) []string {
	var items []string

	for part := range strings.SplitSeq(s, sep) {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		items = append(items, item)
	}

	return items
}
