package render

import (
	"fmt"
	"strings"

	"pdfcon/types"
)

// contentStyle carries the per-variant markup hooks for the shared body
// renderer: section and blockquote class names, base indentation, the
// per-level indent step, and whether paragraphs sit inside an
// article-body wrapper.
type contentStyle struct {
	sectionClass    string
	blockquoteClass string
	wrapBody        bool
	indent          string
	step            string
}

var (
	foreignContent = contentStyle{
		sectionClass: foreignClassPrefix + "-main-section",
		indent:       "    ",
		step:         "  ",
	}
	domesticContent = contentStyle{
		sectionClass:    "main-section",
		blockquoteClass: "editorial",
		wrapBody:        true,
		indent:          "        ",
		step:            "    ",
	}
)

// writeContentSections renders the body sections both page variants
// share: an <h2> per category, one <article> per article, and the
// paragraph type driving the tag. Empty content emits nothing.
func writeContentSections(b *strings.Builder, sections []types.ContentSection, style contentStyle) {
	if len(sections) == 0 {
		return
	}

	in1 := style.indent + style.step
	in2 := in1 + style.step
	in3 := in2 + style.step

	b.WriteString(style.indent + "<main>\n")
	for _, section := range sections {
		fmt.Fprintf(b, "%s<section class=%q>\n", in1, style.sectionClass)
		fmt.Fprintf(b, "%s<h2>%s</h2>\n", in2, escape(section.Category))
		for _, article := range section.Articles {
			b.WriteString(in2 + "<article>\n")
			fmt.Fprintf(b, "%s<h3>%s</h3>\n", in3, escape(article.Title))
			body := in3
			if style.wrapBody {
				b.WriteString(in3 + "<div class=\"article-body\">\n")
				body = in3 + style.step
			}
			for _, paragraph := range article.Paragraphs {
				writeParagraph(b, paragraph, body, style)
			}
			if style.wrapBody {
				b.WriteString(in3 + "</div>\n")
			}
			b.WriteString(in2 + "</article>\n")
		}
		b.WriteString(in1 + "</section>\n")
	}
	b.WriteString(style.indent + "</main>\n")
}

// writeParagraph picks the tag for one paragraph: blockquote for
// quotes, <ul> for lists that carry items, <p> otherwise. A list
// paragraph without items degrades to a plain paragraph.
func writeParagraph(b *strings.Builder, paragraph types.Paragraph, indent string, style contentStyle) {
	switch {
	case paragraph.Type == types.ParagraphQuote && style.blockquoteClass != "":
		fmt.Fprintf(b, "%s<blockquote class=%q>%s</blockquote>\n", indent, style.blockquoteClass, escape(paragraph.Content))
	case paragraph.Type == types.ParagraphQuote:
		fmt.Fprintf(b, "%s<blockquote>%s</blockquote>\n", indent, escape(paragraph.Content))
	case paragraph.Type == types.ParagraphList && len(paragraph.Items) > 0:
		b.WriteString(indent + "<ul>\n")
		for _, item := range paragraph.Items {
			fmt.Fprintf(b, "%s%s<li>%s</li>\n", indent, style.step, escape(item))
		}
		b.WriteString(indent + "</ul>\n")
	default:
		fmt.Fprintf(b, "%s<p>%s</p>\n", indent, escape(paragraph.Content))
	}
}
