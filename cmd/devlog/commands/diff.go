package commands

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContextLines is how many unchanged lines are kept on each side of a change.
const diffContextLines = 2

// writeLineDiff prints a line-oriented diff of before and after. Long runs of
// unchanged lines collapse to a marker.
func writeLineDiff(out *errWriter, before, after string) {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	faint := color.New(color.Faint)

	for i, d := range diffs {
		chunk := splitLines(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range chunk {
				out.colorf(removed, "- %s\n", line)
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range chunk {
				out.colorf(added, "+ %s\n", line)
			}
		case diffmatchpatch.DiffEqual:
			writeContext(out, faint, chunk, i > 0, i < len(diffs)-1)
		}
	}
}

func writeContext(out *errWriter, faint *color.Color, chunk []string, afterChange, beforeChange bool) {
	head, tail := 0, 0
	if afterChange {
		head = diffContextLines
	}

	if beforeChange {
		tail = diffContextLines
	}

	if head+tail >= len(chunk) {
		for _, line := range chunk {
			out.printf("  %s\n", line)
		}

		return
	}

	for _, line := range chunk[:head] {
		out.printf("  %s\n", line)
	}

	out.colorf(faint, "  ... %d unchanged lines\n", len(chunk)-head-tail)

	for _, line := range chunk[len(chunk)-tail:] {
		out.printf("  %s\n", line)
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
