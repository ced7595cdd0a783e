// Package dailylog reads and writes the daily progress log: a flat markdown
// file made of dated entries that each list the issues worked on that day.
//
// Parsing is deliberately tolerant. Headings, module sections, and issue lines
// that do not match the fixed template are skipped rather than reported, so a
// hand-edited file never stops a run.
package dailylog

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the heading date format, e.g. "November 4, 2025".
const DateLayout = "January 2, 2006"

// HeadingSuffix terminates every entry heading.
const HeadingSuffix = " - Daily Progress Report"

const headingPrefix = "# "

// headingPattern matches one entry heading line and captures its date text.
// The date text is not validated here so that entries with malformed dates
// still delimit the document and survive a rewrite.
var headingPattern = regexp.MustCompile(`(?m)^# (.+?) - Daily Progress Report[ \t\r]*$`)

// Entry is one dated block of the daily log.
type Entry struct {
	// Heading is the heading line without the leading "# " and without the line break.
	Heading string
	// DateText is the date portion of the heading, uninterpreted.
	DateText string
	// Body is every byte after the heading line up to the next heading.
	Body string
}

// Document is a parsed log: the entries plus any text before the first heading.
type Document struct {
	Preamble string
	Entries  []Entry
}

// Date parses the entry's date text. ok is false when the text does not
// follow DateLayout.
func (e Entry) Date() (date time.Time, ok bool) {
	parsed, err := time.Parse(DateLayout, e.DateText)
	if err != nil {
		return time.Time{}, false
	}

	return parsed, true
}

// Render re-emits the entry exactly as heading line plus original body.
func (e Entry) Render() string {
	return headingPrefix + e.Heading + "\n" + e.Body
}

// Parse splits a log into its entries. Content before the first heading is dropped.
func Parse(text string) []Entry {
	return ParseDocument(text).Entries
}

// ParseDocument splits a log into entries and keeps the leading content separately.
func ParseDocument(text string) Document {
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return Document{Preamble: text}
	}

	doc := Document{
		Preamble: text[:matches[0][0]],
		Entries:  make([]Entry, 0, len(matches)),
	}

	for i, match := range matches {
		lineStart, lineEnd := match[0], match[1]

		bodyStart := lineEnd
		if bodyStart < len(text) && text[bodyStart] == '\n' {
			bodyStart++
		}

		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}

		doc.Entries = append(doc.Entries, Entry{
			Heading:  text[lineStart+len(headingPrefix) : lineEnd],
			DateText: strings.TrimSpace(text[match[2]:match[3]]),
			Body:     text[bodyStart:bodyEnd],
		})
	}

	return doc
}

// RenderEntries concatenates the rendered form of entries in order.
func RenderEntries(entries []Entry) string {
	var sb strings.Builder

	for _, entry := range entries {
		sb.WriteString(entry.Render())
	}

	return sb.String()
}

// FormatDate formats t as an entry heading date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
