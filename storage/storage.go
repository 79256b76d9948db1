// Package storage persists conversion artifacts (input PDFs, rendered
// HTML). Two implementations exist: a local-filesystem store for
// development, served back through the API, and an S3 store for
// production. Both are addressed by key; keys are timestamped so repeated
// uploads of the same file never collide.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("storage: object not found")

// UploadResult reports where an uploaded object ended up.
type UploadResult struct {
	// URL is what gets written on the conversion record and handed to
	// clients. For the local store this is an API path.
	URL string
	// Key addresses the object inside the store.
	Key string
}

// BlobStore is the artifact store used by the conversion pipeline.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// PDFKey builds the storage key for an uploaded PDF.
func PDFKey(fileName string, now time.Time) string {
	return fmt.Sprintf("pdfs/%d-%s", now.UnixMilli(), sanitizeFileName(fileName))
}

// HTMLKey builds the storage key for a rendered HTML report.
func HTMLKey(fileName string, now time.Time) string {
	name := sanitizeFileName(fileName)
	name = strings.TrimSuffix(name, ".pdf") + ".html"
	return fmt.Sprintf("html/%d-%s", now.UnixMilli(), name)
}

// sanitizeFileName strips any path component an upload might smuggle in.
func sanitizeFileName(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "document.pdf"
	}
	return name
}
