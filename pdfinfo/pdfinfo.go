// Package pdfinfo validates uploaded PDFs and reads their page count.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdfcon/config"
)

var (
	ErrNotPDF   = errors.New("file is not a PDF")
	ErrTooLarge = fmt.Errorf("file exceeds the %dMB upload limit", config.MaxUploadSize/(1024*1024))
	ErrEmpty    = errors.New("file is empty")
)

var pdfMagic = []byte("%PDF-")

// Validate checks an uploaded file before any paid extraction call runs.
// The declared content type is checked alongside the magic bytes because
// some browsers upload PDFs as application/octet-stream.
func Validate(data []byte, contentType string) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if int64(len(data)) > config.MaxUploadSize {
		return ErrTooLarge
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return ErrNotPDF
	}
	if contentType != "" && contentType != config.PDFContentType && contentType != "application/octet-stream" {
		return fmt.Errorf("%w: content type %q", ErrNotPDF, contentType)
	}
	return nil
}

// PageCount parses the PDF and returns its page count. A zero count with
// a nil error never happens; parse failures return 0 and the error so
// callers can treat the page count as best-effort metadata.
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}
