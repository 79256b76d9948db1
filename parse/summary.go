package parse

import (
	"regexp"
	"strings"

	"pdfcon/config"
)

// Extracted is a summary block isolated from the surrounding text.
type Extracted struct {
	Summary  string
	MainText string
}

// summaryMatcher is one labeled-summary convention. Matchers are tried in
// priority order; each captures up to the next top-level marker or end of
// text.
type summaryMatcher struct {
	name string
	re   *regexp.Regexp
}

// The boundary lookahead of the source patterns (□ ■ ● ○ [ 【 at the start
// of a line) is expressed as a non-capturing terminator group, since Go's
// regexp has no lookahead. \z keeps the anchor at end-of-text even where a
// matcher needs multiline ^.
const boundary = `(?:\n\s*[□■●○◇\[【][\s\S]*)?\z`

var summaryMatchers = []summaryMatcher{
	{"bracket", regexp.MustCompile(`\[요지\]\s*\n([\s\S]*?)` + boundary)},
	{"lenticular", regexp.MustCompile(`【요지】\s*\n([\s\S]*?)` + boundary)},
	{"diamond", regexp.MustCompile(`◇\s*요지\s*\n([\s\S]*?)` + boundary)},
	{"colon", regexp.MustCompile(`요지\s*[:：]\s*\n([\s\S]*?)` + boundary)},
	{"bare", regexp.MustCompile(`(?m:^요지[ \t]*\n)([\s\S]*?)` + boundary)},
}

// ExtractSummary tries each summary convention in order and returns the
// first captured block whose trimmed length lies within the accepted
// bounds, together with the text that remains once the block is removed.
// It returns ok=false when no matcher produces an acceptable block; the
// caller then treats the entire input as main text.
func ExtractSummary(text string) (Extracted, bool) {
	for _, m := range summaryMatchers {
		loc := m.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}

		// Capture group 1 spans loc[2]:loc[3]; the boundary group, when it
		// matched, consumed the rest of the text, so only the label plus the
		// captured block (loc[0]:loc[3]) is removed.
		matched := text[loc[0]:loc[3]]
		captured := strings.TrimSpace(text[loc[2]:loc[3]])
		if n := len([]rune(captured)); n < config.SummaryMinLen || n > config.SummaryMaxLen {
			continue
		}

		main := strings.TrimSpace(strings.Replace(text, matched, "", 1))
		return Extracted{Summary: captured, MainText: main}, true
	}
	return Extracted{}, false
}
