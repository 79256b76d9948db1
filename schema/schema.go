// Package schema defines the two closed document shapes and validates
// untrusted extraction JSON against them. Validation never panics: it
// returns the decoded document or a ValidationError carrying the dotted
// path of the offending field.
//
// Policy notes (the source schemas disagreed between revisions):
//   - summary/content arrays may be empty for both variants; an empty
//     report is a legitimate empty result.
//   - Paragraph.items is nullable and optional for every paragraph type;
//     a list paragraph without items is accepted and the renderer falls
//     back to its content text.
//   - Unknown fields are rejected at every object level.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"pdfcon/types"
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func fail(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)}
}

type object = map[string]any

// ValidateForeign validates raw JSON against the foreign-press shape.
func ValidateForeign(raw []byte) (*types.ForeignDocument, *ValidationError) {
	root, verr := decodeObject(raw)
	if verr != nil {
		return nil, verr
	}
	if verr := checkKeys(root, "", "header", "summary", "content", "metadata"); verr != nil {
		return nil, verr
	}

	hdr, verr := requireObject(root, "", "header")
	if verr != nil {
		return nil, verr
	}
	if verr := checkKeys(hdr, "header", "title", "date", "subtitle"); verr != nil {
		return nil, verr
	}
	if verr := requireString(hdr, "header", "title"); verr != nil {
		return nil, verr
	}
	if verr := optionalString(hdr, "header", "date"); verr != nil {
		return nil, verr
	}
	if verr := optionalString(hdr, "header", "subtitle"); verr != nil {
		return nil, verr
	}

	summary, verr := requireArray(root, "", "summary")
	if verr != nil {
		return nil, verr
	}
	for i, el := range summary {
		path := fmt.Sprintf("summary[%d]", i)
		cat, verr := asObject(el, path)
		if verr != nil {
			return nil, verr
		}
		if verr := checkKeys(cat, path, "category", "articles"); verr != nil {
			return nil, verr
		}
		if verr := requireString(cat, path, "category"); verr != nil {
			return nil, verr
		}
		articles, verr := requireArray(cat, path, "articles")
		if verr != nil {
			return nil, verr
		}
		for j, ael := range articles {
			apath := fmt.Sprintf("%s.articles[%d]", path, j)
			art, verr := asObject(ael, apath)
			if verr != nil {
				return nil, verr
			}
			if verr := checkKeys(art, apath, "title", "summary"); verr != nil {
				return nil, verr
			}
			if verr := requireString(art, apath, "title"); verr != nil {
				return nil, verr
			}
			if verr := nullableString(art, apath, "summary"); verr != nil {
				return nil, verr
			}
		}
	}

	if verr := validateContent(root); verr != nil {
		return nil, verr
	}
	if verr := validateMetadata(root); verr != nil {
		return nil, verr
	}

	var doc types.ForeignDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fail("", "decode: %v", err)
	}
	return &doc, nil
}

// ValidateDomestic validates raw JSON against the domestic policy shape.
func ValidateDomestic(raw []byte) (*types.DomesticDocument, *ValidationError) {
	root, verr := decodeObject(raw)
	if verr != nil {
		return nil, verr
	}
	if verr := checkKeys(root, "", "header", "summary", "editorials", "content", "metadata"); verr != nil {
		return nil, verr
	}

	hdr, verr := requireObject(root, "", "header")
	if verr != nil {
		return nil, verr
	}
	if verr := checkKeys(hdr, "header", "title", "meta"); verr != nil {
		return nil, verr
	}
	if verr := requireString(hdr, "header", "title"); verr != nil {
		return nil, verr
	}
	meta, verr := requireArray(hdr, "header", "meta")
	if verr != nil {
		return nil, verr
	}
	for i, el := range meta {
		if _, ok := el.(string); !ok {
			return nil, fail(fmt.Sprintf("header.meta[%d]", i), "expected string")
		}
	}

	summary, verr := requireArray(root, "", "summary")
	if verr != nil {
		return nil, verr
	}
	for i, el := range summary {
		path := fmt.Sprintf("summary[%d]", i)
		cat, verr := asObject(el, path)
		if verr != nil {
			return nil, verr
		}
		if verr := checkKeys(cat, path, "category", "items"); verr != nil {
			return nil, verr
		}
		if verr := requireString(cat, path, "category"); verr != nil {
			return nil, verr
		}
		items, verr := requireArray(cat, path, "items")
		if verr != nil {
			return nil, verr
		}
		for j, iel := range items {
			ipath := fmt.Sprintf("%s.items[%d]", path, j)
			item, verr := asObject(iel, ipath)
			if verr != nil {
				return nil, verr
			}
			if verr := checkKeys(item, ipath, "content"); verr != nil {
				return nil, verr
			}
			if verr := requireString(item, ipath, "content"); verr != nil {
				return nil, verr
			}
		}
	}

	editorials, verr := requireArray(root, "", "editorials")
	if verr != nil {
		return nil, verr
	}
	for i, el := range editorials {
		path := fmt.Sprintf("editorials[%d]", i)
		ed, verr := asObject(el, path)
		if verr != nil {
			return nil, verr
		}
		if verr := checkKeys(ed, path, "category", "content"); verr != nil {
			return nil, verr
		}
		if verr := requireString(ed, path, "category"); verr != nil {
			return nil, verr
		}
		if verr := requireString(ed, path, "content"); verr != nil {
			return nil, verr
		}
	}

	if verr := validateContent(root); verr != nil {
		return nil, verr
	}
	if verr := validateMetadata(root); verr != nil {
		return nil, verr
	}

	var doc types.DomesticDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fail("", "decode: %v", err)
	}
	return &doc, nil
}

// validateContent checks the body sections shared by both variants.
func validateContent(root object) *ValidationError {
	content, verr := requireArray(root, "", "content")
	if verr != nil {
		return verr
	}
	for i, el := range content {
		path := fmt.Sprintf("content[%d]", i)
		sec, verr := asObject(el, path)
		if verr != nil {
			return verr
		}
		if verr := checkKeys(sec, path, "category", "articles"); verr != nil {
			return verr
		}
		if verr := requireString(sec, path, "category"); verr != nil {
			return verr
		}
		articles, verr := requireArray(sec, path, "articles")
		if verr != nil {
			return verr
		}
		for j, ael := range articles {
			apath := fmt.Sprintf("%s.articles[%d]", path, j)
			art, verr := asObject(ael, apath)
			if verr != nil {
				return verr
			}
			if verr := checkKeys(art, apath, "title", "paragraphs"); verr != nil {
				return verr
			}
			if verr := requireString(art, apath, "title"); verr != nil {
				return verr
			}
			paragraphs, verr := requireArray(art, apath, "paragraphs")
			if verr != nil {
				return verr
			}
			for k, pel := range paragraphs {
				ppath := fmt.Sprintf("%s.paragraphs[%d]", apath, k)
				if verr := validateParagraph(pel, ppath); verr != nil {
					return verr
				}
			}
		}
	}
	return nil
}

func validateParagraph(el any, path string) *ValidationError {
	para, verr := asObject(el, path)
	if verr != nil {
		return verr
	}
	if verr := checkKeys(para, path, "type", "content", "items"); verr != nil {
		return verr
	}

	typ, ok := para["type"].(string)
	if !ok {
		return fail(path+".type", "required string")
	}
	switch types.ParagraphType(typ) {
	case types.ParagraphText, types.ParagraphList, types.ParagraphQuote:
	default:
		return fail(path+".type", "must be one of text, list, quote")
	}

	if verr := requireString(para, path, "content"); verr != nil {
		return verr
	}

	// items: nullable and optional for every type.
	if items, present := para["items"]; present && items != nil {
		arr, ok := items.([]any)
		if !ok {
			return fail(path+".items", "expected array of strings")
		}
		for i, el := range arr {
			if _, ok := el.(string); !ok {
				return fail(fmt.Sprintf("%s.items[%d]", path, i), "expected string")
			}
		}
	}
	return nil
}

func validateMetadata(root object) *ValidationError {
	md, verr := requireObject(root, "", "metadata")
	if verr != nil {
		return verr
	}
	if verr := checkKeys(md, "metadata", "originalFileName", "processedAt", "model", "totalPages", "language"); verr != nil {
		return verr
	}
	if verr := requireString(md, "metadata", "originalFileName"); verr != nil {
		return verr
	}
	if verr := requireString(md, "metadata", "model"); verr != nil {
		return verr
	}

	processedAt, ok := md["processedAt"].(string)
	if !ok {
		return fail("metadata.processedAt", "required string")
	}
	if _, err := time.Parse(time.RFC3339, processedAt); err != nil {
		return fail("metadata.processedAt", "must be an ISO 8601 timestamp")
	}

	if v, present := md["totalPages"]; present && v != nil {
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) || n <= 0 {
			return fail("metadata.totalPages", "must be a positive integer")
		}
	}
	if v, present := md["language"]; present && v != nil {
		if _, ok := v.(string); !ok {
			return fail("metadata.language", "expected string")
		}
	}
	return nil
}

func decodeObject(raw []byte) (object, *ValidationError) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fail("", "invalid JSON: %v", err)
	}
	obj, ok := v.(object)
	if !ok {
		return nil, fail("", "expected a JSON object")
	}
	return obj, nil
}

func asObject(v any, path string) (object, *ValidationError) {
	obj, ok := v.(object)
	if !ok {
		return nil, fail(path, "expected object")
	}
	return obj, nil
}

func requireObject(obj object, path, key string) (object, *ValidationError) {
	v, present := obj[key]
	if !present {
		return nil, fail(join(path, key), "required")
	}
	return asObject(v, join(path, key))
}

func requireArray(obj object, path, key string) ([]any, *ValidationError) {
	v, present := obj[key]
	if !present {
		return nil, fail(join(path, key), "required")
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fail(join(path, key), "expected array")
	}
	return arr, nil
}

func requireString(obj object, path, key string) *ValidationError {
	v, present := obj[key]
	if !present {
		return fail(join(path, key), "required")
	}
	s, ok := v.(string)
	if !ok {
		return fail(join(path, key), "required string")
	}
	if strings.TrimSpace(s) == "" {
		return fail(join(path, key), "must not be empty")
	}
	return nil
}

func optionalString(obj object, path, key string) *ValidationError {
	v, present := obj[key]
	if !present {
		return nil
	}
	if _, ok := v.(string); !ok {
		return fail(join(path, key), "expected string")
	}
	return nil
}

// nullableString accepts absent, null, or string.
func nullableString(obj object, path, key string) *ValidationError {
	v, present := obj[key]
	if !present || v == nil {
		return nil
	}
	if _, ok := v.(string); !ok {
		return fail(join(path, key), "expected string or null")
	}
	return nil
}

func checkKeys(obj object, path string, allowed ...string) *ValidationError {
	var unknown []string
	for key := range obj {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fail(join(path, unknown[0]), "unknown field")
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
