// Package extract holds the vendor clients that pull content out of an
// uploaded PDF. Two shapes of result exist: structured JSON constrained
// by a response schema (Gemini) and plain text (Adobe Extract, Claude
// vision). All clients are plain REST over net/http; base URLs are
// injectable so tests can point them at httptest servers.
package extract

import (
	"context"
	"errors"

	"pdfcon/types"
)

// TextResult is raw briefing text recovered from a PDF.
type TextResult struct {
	Text   string
	Method string
	Tokens int
}

// StructuredResult is schema-constrained JSON recovered from a PDF. The
// payload is NOT trusted; callers must run it through the schema validator.
type StructuredResult struct {
	JSON   []byte
	Method string
	Tokens int
}

// TextExtractor recovers the plain text of a PDF.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (*TextResult, error)
}

// StructuredExtractor recovers a structured document as JSON, shaped by
// the variant's response schema.
type StructuredExtractor interface {
	ExtractStructured(ctx context.Context, pdf []byte, variant types.Variant) (*StructuredResult, error)
}

// ErrPollTimeout is returned when a vendor job does not finish within the
// bounded polling window.
var ErrPollTimeout = errors.New("extract: job polling timed out")

// ErrEmptyResult is returned when a vendor call succeeds but yields no
// usable content.
var ErrEmptyResult = errors.New("extract: vendor returned no content")
