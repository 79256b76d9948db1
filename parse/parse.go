// Package parse turns flat briefing text into the glyph-delimited hierarchy
// used by both templates: □ opens a section, ○/● opens an item under it,
// and -/–/— appends a sub-item line. Parsing is best effort: malformed
// lines are dropped, never fatal.
package parse

import (
	"regexp"
	"strings"
)

// Item is a level-2 entry with its level-3 sub-item lines.
type Item struct {
	Text     string
	SubItems []string
}

// Section is a level-1 entry with the glyph stripped from its title.
type Section struct {
	Title string
	Items []Item
}

var (
	sectionRe = regexp.MustCompile(`^□\s*(.+)$`)
	itemRe    = regexp.MustCompile(`^[○●]\s*(.+)$`)
	subItemRe = regexp.MustCompile(`^[-–—]\s*(.+)$`)
)

// Hierarchy parses text into ordered sections. Lines are trimmed, blank
// lines skipped. A new section or item marker flushes whatever is open;
// end of input flushes the rest. Level-3 lines without an open item and
// plain lines without an open item are dropped.
func Hierarchy(text string) []Section {
	var sections []Section
	var current *Section
	var item *Item

	flushItem := func() {
		if current != nil && item != nil {
			current.Items = append(current.Items, *item)
		}
		item = nil
	}
	flushSection := func() {
		flushItem()
		if current != nil {
			sections = append(sections, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			flushSection()
			current = &Section{Title: strings.TrimSpace(m[1])}
			continue
		}

		if m := itemRe.FindStringSubmatch(line); m != nil {
			flushItem()
			item = &Item{Text: strings.TrimSpace(m[1])}
			continue
		}

		if m := subItemRe.FindStringSubmatch(line); m != nil {
			if item != nil {
				item.SubItems = append(item.SubItems, strings.TrimSpace(m[1]))
			}
			continue
		}

		// Continuation of the open item, space-joined.
		if item != nil {
			item.Text += " " + line
		}
	}

	flushSection()
	return sections
}

// Flatten re-serializes a parsed tree back into marker-prefixed text.
// Hierarchy(Flatten(sections)) reproduces the tree for well-formed input.
func Flatten(sections []Section) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString("□ " + s.Title + "\n")
		for _, it := range s.Items {
			b.WriteString("○ " + it.Text + "\n")
			for _, sub := range it.SubItems {
				b.WriteString("- " + sub + "\n")
			}
		}
	}
	return b.String()
}
