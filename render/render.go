// Package render turns validated documents into self-contained HTML pages.
// Output is deterministic for a given document: no clocks, no randomness,
// every dynamic value escaped.
package render

import (
	"fmt"
	"strings"
	"time"

	"pdfcon/types"
)

// htmlEscaper covers the characters that can break out of attribute or
// element context. Single quotes become &#039; so output is safe inside
// single-quoted attributes too.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escape(s string) string {
	return htmlEscaper.Replace(s)
}

// kst is used to display the processing timestamp the way the briefing
// audience reads it. Fixed offset, no tzdata dependency.
var kst = time.FixedZone("KST", 9*60*60)

func formatProcessedAt(iso string) string {
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return ts.In(kst).Format("2006. 1. 2. 15:04:05")
}

// Document renders either variant of a document.
func Document(doc types.Document) (string, error) {
	switch doc.Variant {
	case types.VariantForeignPress:
		if doc.Foreign == nil {
			return "", fmt.Errorf("render: foreign document payload is nil")
		}
		return Foreign(doc.Foreign), nil
	case types.VariantDomestic:
		if doc.Domestic == nil {
			return "", fmt.Errorf("render: domestic document payload is nil")
		}
		return Domestic(doc.Domestic), nil
	default:
		return "", fmt.Errorf("render: unknown document variant %q", doc.Variant)
	}
}
