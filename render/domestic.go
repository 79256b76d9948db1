package render

import (
	"fmt"
	"strings"

	"pdfcon/types"
)

// Domestic renders a domestic policy briefing: compact header, two-level
// 종합 요약, the day's 사설 box, then body sections.
func Domestic(doc *types.DomesticDocument) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"ko\">\n<head>\n")
	b.WriteString("    <meta charset=\"UTF-8\">\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", escape(doc.Header.Title))
	b.WriteString("    <link href=\"https://fonts.googleapis.com/css2?family=Noto+Serif+KR:wght@400;600;700&display=swap\" rel=\"stylesheet\">\n")
	b.WriteString(domesticCSS)
	b.WriteString("</head>\n<body>\n")
	b.WriteString("    <div class=\"container\">\n")

	writeDomesticHeader(&b, doc.Header)
	b.WriteString("        <div class=\"content-wrapper\">\n")
	writeDomesticSummary(&b, doc.Summary)
	writeEditorials(&b, doc.Editorials)
	writeContentSections(&b, doc.Content, domesticContent)
	b.WriteString("        </div>\n")

	b.WriteString("    </div>\n</body>\n</html>")
	return b.String()
}

func writeDomesticHeader(b *strings.Builder, header types.DomesticHeader) {
	b.WriteString("        <header>\n")
	fmt.Fprintf(b, "            <h1>%s</h1>\n", escape(header.Title))
	b.WriteString("            <div class=\"report-meta\">\n")
	for _, m := range header.Meta {
		fmt.Fprintf(b, "                <p>%s</p>\n", escape(m))
	}
	b.WriteString("            </div>\n")
	b.WriteString("        </header>\n")
}

func writeDomesticSummary(b *strings.Builder, summary []types.DomesticSummaryCategory) {
	if len(summary) == 0 {
		return
	}

	b.WriteString("        <section class=\"summary\">\n")
	b.WriteString("            <h2>종합 요약</h2>\n")
	b.WriteString("            <ul>\n")
	for _, cat := range summary {
		b.WriteString("                <li class=\"category\">\n")
		fmt.Fprintf(b, "                    %s\n", escape(cat.Category))
		b.WriteString("                    <ul>\n")
		for _, item := range cat.Items {
			fmt.Fprintf(b, "                        <li class=\"detail-item\">%s</li>\n", escape(item.Content))
		}
		b.WriteString("                    </ul>\n")
		b.WriteString("                </li>\n")
	}
	b.WriteString("            </ul>\n")
	b.WriteString("        </section>\n")
}

func writeEditorials(b *strings.Builder, editorials []types.Editorial) {
	if len(editorials) == 0 {
		return
	}

	b.WriteString("        <section class=\"editorials-summary\">\n")
	b.WriteString("            <h2>금일 사설</h2>\n")
	b.WriteString("            <ul>\n")
	for _, ed := range editorials {
		fmt.Fprintf(b, "                <li class=\"editorial-category\"><strong>%s</strong> %s</li>\n",
			escape(ed.Category), escape(ed.Content))
	}
	b.WriteString("            </ul>\n")
	b.WriteString("        </section>\n")
}

const domesticCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: 'Noto Serif KR', 'Noto Sans KR', -apple-system, sans-serif;
            line-height: 1.65;
            background: linear-gradient(135deg, #1e3a8a 0%, #3b82f6 100%);
            color: #1f2937;
            padding: 16px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: #ffffff;
            border-radius: 12px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.2);
            overflow: hidden;
        }

        header {
            background: linear-gradient(135deg, #1e3a8a 0%, #2563eb 100%);
            color: white;
            padding: 24px 32px;
            text-align: center;
        }

        h1 {
            font-size: 1.75em;
            font-weight: 700;
            margin-bottom: 8px;
            letter-spacing: -0.3px;
        }

        .report-meta {
            font-size: 0.85em;
            opacity: 0.9;
            line-height: 1.4;
        }
        .report-meta p { margin: 2px 0; }

        .content-wrapper {
            padding: 28px 32px;
        }

        h2 {
            font-size: 1.35em;
            font-weight: 700;
            color: #1e3a8a;
            margin: 32px 0 16px 0;
            padding-bottom: 8px;
            border-bottom: 2px solid #e5e7eb;
        }

        h2:first-of-type { margin-top: 0; }

        .summary ul { list-style: none; padding: 0; }

        .summary li.category {
            background: #eff6ff;
            border-left: 3px solid #3b82f6;
            padding: 10px 14px;
            margin: 8px 0;
            border-radius: 3px;
            font-weight: 600;
            font-size: 0.95em;
            color: #1e40af;
        }

        .summary li.category ul {
            margin-top: 6px;
            padding-left: 16px;
        }

        .summary li.detail-item {
            position: relative;
            padding: 4px 0 4px 14px;
            color: #374151;
            font-size: 0.88em;
            line-height: 1.5;
        }

        .summary li.detail-item::before {
            content: "·";
            position: absolute;
            left: 0;
            color: #3b82f6;
            font-weight: bold;
            font-size: 1.2em;
        }

        .editorials-summary ul {
            list-style: none;
            padding: 0;
        }

        .editorials-summary li.editorial-category {
            background: #fef9c3;
            border-left: 3px solid #eab308;
            padding: 10px 14px;
            margin-bottom: 8px;
            border-radius: 3px;
            line-height: 1.5;
            font-size: 0.9em;
        }

        .editorials-summary strong {
            color: #a16207;
            font-weight: 700;
            margin-right: 6px;
        }

        article {
            background: #f9fafb;
            border: 1px solid #e5e7eb;
            border-radius: 4px;
            padding: 16px 18px;
            margin-bottom: 14px;
        }

        h3 {
            font-size: 1.05em;
            font-weight: 700;
            color: #1e40af;
            margin-bottom: 10px;
            padding-left: 10px;
            border-left: 3px solid #3b82f6;
        }

        .article-body p {
            margin: 6px 0;
            line-height: 1.6;
            color: #374151;
            font-size: 0.9em;
        }

        blockquote.editorial {
            background: #fef3c7;
            border-left: 4px solid #f59e0b;
            margin: 12px 0;
            padding: 10px 14px;
            font-style: italic;
            color: #78350f;
            border-radius: 3px;
            font-size: 0.9em;
        }

        @media (max-width: 768px) {
            body { padding: 8px; }
            .container { border-radius: 8px; }
            header { padding: 20px 16px; }
            .content-wrapper { padding: 20px 16px; }
            h1 { font-size: 1.5em; }
            h2 { font-size: 1.2em; }
            article { padding: 14px; }
        }

        @media print {
            body { background: white; padding: 0; }
            .container { box-shadow: none; }
            header { background: white; color: #1e3a8a; border-bottom: 2px solid #1e3a8a; }
            article { page-break-inside: avoid; }
        }
    </style>
`
