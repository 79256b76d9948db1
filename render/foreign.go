package render

import (
	"fmt"
	"strings"

	"pdfcon/types"
)

const foreignClassPrefix = "doc"

// Foreign renders a foreign-press briefing as a standalone HTML page:
// header, three-level 요지 summary, body sections, metadata footer.
func Foreign(doc *types.ForeignDocument) string {
	prefix := foreignClassPrefix
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"ko\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"UTF-8\">\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "  <title>%s</title>\n", escape(doc.Header.Title))
	b.WriteString("  <link href=\"https://fonts.googleapis.com/css2?family=Noto+Sans+KR:wght@400;500;600;700&display=swap\" rel=\"stylesheet\">\n")
	b.WriteString(foreignStyles(prefix))
	b.WriteString("\n</head>\n")
	b.WriteString("<body>\n")
	fmt.Fprintf(&b, "  <div class=\"%s-container\">\n", prefix)

	writeForeignHeader(&b, doc.Header, prefix)
	writeForeignSummary(&b, doc.Summary, prefix)
	writeContentSections(&b, doc.Content, foreignContent)
	writeForeignFooter(&b, doc.Metadata, prefix)

	b.WriteString("  </div>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>")

	return b.String()
}

func writeForeignHeader(b *strings.Builder, header types.ForeignHeader, prefix string) {
	fmt.Fprintf(b, "    <header class=\"%s-header\">\n", prefix)
	fmt.Fprintf(b, "      <h1>%s</h1>\n", escape(header.Title))
	if header.Date != "" || header.Subtitle != "" {
		var meta []string
		if header.Date != "" {
			meta = append(meta, header.Date)
		}
		if header.Subtitle != "" {
			meta = append(meta, header.Subtitle)
		}
		fmt.Fprintf(b, "      <p class=\"%s-meta\">%s</p>\n", prefix, escape(strings.Join(meta, " | ")))
	}
	b.WriteString("    </header>\n")
}

func writeForeignSummary(b *strings.Builder, summary []types.SummaryCategory, prefix string) {
	if len(summary) == 0 {
		return
	}
	fmt.Fprintf(b, "    <section class=\"%s-summary\">\n", prefix)
	b.WriteString("      <h2>요지</h2>\n")
	b.WriteString("      <ul>\n")
	for _, category := range summary {
		fmt.Fprintf(b, "        <li class=\"category\">%s</li>\n", escape(category.Category))
		b.WriteString("        <ul>\n")
		for _, article := range category.Articles {
			fmt.Fprintf(b, "          <li class=\"article-title\">%s</li>\n", escape(article.Title))
			if article.Summary == nil {
				continue
			}
			// Multi-line summaries become one <p> per non-blank line.
			for _, line := range strings.Split(*article.Summary, "\n") {
				if strings.TrimSpace(line) == "" {
					continue
				}
				fmt.Fprintf(b, "          <p class=\"article-summary\">%s</p>\n", escape(line))
			}
		}
		b.WriteString("        </ul>\n")
	}
	b.WriteString("      </ul>\n")
	b.WriteString("    </section>\n")
}

func writeForeignFooter(b *strings.Builder, meta types.Metadata, prefix string) {
	fmt.Fprintf(b, "    <footer class=\"%s-footer\" style=\"margin-top: 3rem; padding-top: 2rem; border-top: 1px solid #e2e8f0; text-align: center; color: #94a3b8; font-size: 0.9rem;\">\n", prefix)
	fmt.Fprintf(b, "      <p>생성: %s</p>\n", escape(formatProcessedAt(meta.ProcessedAt)))
	fmt.Fprintf(b, "      <p>모델: %s | 원본: %s</p>\n", escape(meta.Model), escape(meta.OriginalFileName))
	b.WriteString("    </footer>\n")
}

func foreignStyles(prefix string) string {
	return strings.ReplaceAll(foreignCSS, "{prefix}", prefix)
}

const foreignCSS = `
<style>
  :root {
    --primary-color: #3b82f6;
    --secondary-color: #8b5cf6;
    --bg-light: #f8fafc;
    --bg-dark: #1e293b;
    --text-light: #0f172a;
    --text-dark: #f1f5f9;
    --border-light: #e2e8f0;
    --border-dark: #334155;
  }

  * {
    margin: 0;
    padding: 0;
    box-sizing: border-box;
  }

  body {
    font-family: 'Noto Sans KR', -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
    line-height: 1.6;
    color: var(--text-light);
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    padding: 2rem;
  }

  .{prefix}-container {
    max-width: 1200px;
    margin: 0 auto;
    background: white;
    border-radius: 16px;
    box-shadow: 0 20px 60px rgba(0, 0, 0, 0.3);
    padding: 3rem;
  }

  .{prefix}-header {
    text-align: center;
    margin-bottom: 3rem;
    padding-bottom: 2rem;
    border-bottom: 3px solid var(--primary-color);
  }

  .{prefix}-header h1 {
    font-size: 2.5rem;
    color: var(--primary-color);
    margin-bottom: 1rem;
    font-weight: 700;
  }

  .{prefix}-meta {
    font-size: 1.1rem;
    color: #64748b;
    margin-top: 0.5rem;
  }

  .{prefix}-summary {
    background: linear-gradient(135deg, #667eea15 0%, #764ba215 100%);
    border-left: 4px solid var(--secondary-color);
    border-radius: 8px;
    padding: 2rem;
    margin-bottom: 3rem;
  }

  .{prefix}-summary h2 {
    font-size: 1.8rem;
    color: var(--secondary-color);
    margin-bottom: 1.5rem;
    font-weight: 600;
  }

  .{prefix}-summary ul {
    list-style: none;
    padding-left: 0;
  }

  .{prefix}-summary .category {
    font-size: 1.2rem;
    font-weight: 600;
    color: #1e293b;
    margin: 1.5rem 0 1rem 0;
    padding: 0.5rem;
    background: linear-gradient(90deg, #3b82f620 0%, transparent 100%);
    border-radius: 4px;
  }

  .{prefix}-summary .article-title {
    font-size: 1.05rem;
    font-weight: 500;
    color: #334155;
    margin: 0.8rem 0 0.5rem 1.5rem;
  }

  .{prefix}-summary .article-summary {
    font-size: 0.95rem;
    color: #64748b;
    margin: 0.3rem 0 0.3rem 3rem;
    line-height: 1.5;
  }

  main {
    margin-top: 3rem;
  }

  .{prefix}-main-section {
    margin-bottom: 3rem;
  }

  .{prefix}-main-section h2 {
    font-size: 1.8rem;
    color: var(--primary-color);
    margin-bottom: 1.5rem;
    padding-bottom: 0.5rem;
    border-bottom: 2px solid #e2e8f0;
    font-weight: 600;
  }

  article {
    margin-bottom: 2rem;
    padding: 1.5rem;
    background: #f8fafc;
    border-radius: 8px;
    border-left: 3px solid #cbd5e1;
  }

  article h3 {
    font-size: 1.3rem;
    color: #1e293b;
    margin-bottom: 1rem;
    font-weight: 600;
  }

  article p {
    font-size: 1rem;
    line-height: 1.7;
    color: #475569;
    margin-bottom: 0.8rem;
  }

  blockquote {
    border-left: 4px solid #94a3b8;
    padding-left: 1rem;
    margin: 1rem 0;
    color: #64748b;
    font-style: italic;
  }

  @media (prefers-color-scheme: dark) {
    body {
      background: linear-gradient(135deg, #1e1b4b 0%, #312e81 100%);
    }

    .{prefix}-container {
      background: var(--bg-dark);
      color: var(--text-dark);
    }

    .{prefix}-header h1 {
      color: #60a5fa;
    }

    .{prefix}-summary {
      background: linear-gradient(135deg, #1e40af15 0%, #7c3aed15 100%);
      border-left-color: #a78bfa;
    }

    .{prefix}-summary h2 {
      color: #a78bfa;
    }

    .{prefix}-summary .category {
      color: #f1f5f9;
      background: linear-gradient(90deg, #60a5fa20 0%, transparent 100%);
    }

    .{prefix}-summary .article-title {
      color: #cbd5e1;
    }

    .{prefix}-summary .article-summary {
      color: #94a3b8;
    }

    .{prefix}-main-section h2 {
      color: #60a5fa;
      border-bottom-color: #334155;
    }

    article {
      background: #0f172a;
      border-left-color: #475569;
    }

    article h3 {
      color: #f1f5f9;
    }

    article p {
      color: #cbd5e1;
    }

    blockquote {
      border-left-color: #64748b;
      color: #94a3b8;
    }
  }

  @media print {
    body {
      background: white;
      padding: 0;
    }

    .{prefix}-container {
      box-shadow: none;
      padding: 1rem;
    }

    article {
      page-break-inside: avoid;
    }
  }

  @media (max-width: 768px) {
    body {
      padding: 1rem;
    }

    .{prefix}-container {
      padding: 1.5rem;
    }

    .{prefix}-header h1 {
      font-size: 1.8rem;
    }

    .{prefix}-summary,
    .{prefix}-main-section h2 {
      font-size: 1.3rem;
    }
  }
</style>`
