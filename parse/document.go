package parse

import (
	"strings"

	"pdfcon/types"
)

// AssembleForeign maps a parsed tree onto the foreign-press document shape.
// The foreign template keeps its glyphs verbatim, so the markers stripped
// during parsing are restored on every level. The summary block, when
// present, is itself hierarchical and parsed with the same grammar.
func AssembleForeign(summary string, sections []Section, header types.ForeignHeader, meta types.Metadata) *types.ForeignDocument {
	doc := &types.ForeignDocument{
		Header:   header,
		Summary:  []types.SummaryCategory{},
		Content:  []types.ContentSection{},
		Metadata: meta,
	}

	if summary != "" {
		doc.Summary = foreignSummary(summary)
	}

	for _, s := range sections {
		sec := types.ContentSection{Category: "□ " + s.Title}
		for _, it := range s.Items {
			art := types.ContentArticle{Title: "○ " + it.Text, Paragraphs: []types.Paragraph{}}
			for _, sub := range it.SubItems {
				art.Paragraphs = append(art.Paragraphs, types.Paragraph{
					Type:    types.ParagraphText,
					Content: "- " + sub,
				})
			}
			sec.Articles = append(sec.Articles, art)
		}
		doc.Content = append(doc.Content, sec)
	}

	return doc
}

// foreignSummary parses the isolated summary block. When the block carries
// the full three-level grammar it maps directly; otherwise every non-empty
// line becomes an article title under a single 요지 category.
func foreignSummary(summary string) []types.SummaryCategory {
	tree := Hierarchy(summary)
	if len(tree) > 0 {
		cats := make([]types.SummaryCategory, 0, len(tree))
		for _, s := range tree {
			cat := types.SummaryCategory{Category: "□ " + s.Title}
			for _, it := range s.Items {
				art := types.SummaryArticle{Title: "○ " + it.Text}
				if len(it.SubItems) > 0 {
					joined := "- " + strings.Join(it.SubItems, "\n- ")
					art.Summary = &joined
				}
				cat.Articles = append(cat.Articles, art)
			}
			cats = append(cats, cat)
		}
		return cats
	}

	cat := types.SummaryCategory{Category: "요지"}
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cat.Articles = append(cat.Articles, types.SummaryArticle{Title: line})
	}
	return []types.SummaryCategory{cat}
}

// AssembleDomestic maps a parsed tree onto the domestic document shape.
// The domestic template strips its glyphs everywhere. The summary block
// uses the two-level ○/- grammar and 금일 사설 lines are pulled out of it
// by their ■ marker.
func AssembleDomestic(summary string, sections []Section, header types.DomesticHeader, meta types.Metadata) *types.DomesticDocument {
	doc := &types.DomesticDocument{
		Header:     header,
		Summary:    []types.DomesticSummaryCategory{},
		Editorials: []types.Editorial{},
		Content:    []types.ContentSection{},
		Metadata:   meta,
	}

	if summary != "" {
		doc.Summary, doc.Editorials = domesticSummary(summary)
	}

	for _, s := range sections {
		sec := types.ContentSection{Category: s.Title}
		for _, it := range s.Items {
			art := types.ContentArticle{Title: it.Text, Paragraphs: []types.Paragraph{}}
			for _, sub := range it.SubItems {
				art.Paragraphs = append(art.Paragraphs, types.Paragraph{
					Type:    types.ParagraphText,
					Content: sub,
				})
			}
			sec.Articles = append(sec.Articles, art)
		}
		doc.Content = append(doc.Content, sec)
	}

	return doc
}

// domesticSummary walks the summary block line by line: ○ opens a category,
// - adds a detail item under it, ■ lines become editorials. Orphan detail
// lines are dropped, matching the tolerance of the main grammar.
func domesticSummary(summary string) ([]types.DomesticSummaryCategory, []types.Editorial) {
	var cats []types.DomesticSummaryCategory
	var editorials []types.Editorial
	var current *types.DomesticSummaryCategory

	flush := func() {
		if current != nil {
			cats = append(cats, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := itemRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &types.DomesticSummaryCategory{Category: strings.TrimSpace(m[1])}
			continue
		}

		if strings.HasPrefix(line, "■") {
			flush()
			body := strings.TrimSpace(strings.TrimPrefix(line, "■"))
			category, content, _ := strings.Cut(body, " ")
			editorials = append(editorials, types.Editorial{
				Category: category,
				Content:  strings.TrimSpace(content),
			})
			continue
		}

		if m := subItemRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				current.Items = append(current.Items, types.DomesticItem{Content: strings.TrimSpace(m[1])})
			}
			continue
		}

		if current != nil {
			current.Items = append(current.Items, types.DomesticItem{Content: line})
		}
	}

	flush()
	if cats == nil {
		cats = []types.DomesticSummaryCategory{}
	}
	if editorials == nil {
		editorials = []types.Editorial{}
	}
	return cats, editorials
}
