// Package convert runs the conversion pipeline: validate the upload,
// record the job, store the PDF, extract, build the document, render
// and store the HTML, then close the job out.
package convert

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfcon/config"
	"pdfcon/dedupe"
	"pdfcon/events"
	"pdfcon/extract"
	"pdfcon/parse"
	"pdfcon/pdfinfo"
	"pdfcon/render"
	"pdfcon/schema"
	"pdfcon/storage"
	"pdfcon/store"
	"pdfcon/types"
)

// Fault classifies which kind of stage failed. Handlers map it to a
// response status.
type Fault string

const (
	FaultValidation Fault = "validation"
	FaultExtraction Fault = "extraction"
	FaultRender     Fault = "render"
	FaultStorage    Fault = "storage"
)

// StageError wraps a stage failure with its fault class and stage name.
type StageError struct {
	Fault Fault
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Stage, e.Fault, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Request is one upload to convert.
type Request struct {
	FileName    string
	ContentType string
	Data        []byte
	Variant     types.Variant
}

// Result is returned on success.
type Result struct {
	Conversion *types.Conversion
	Document   *types.Document
	OutputURL  string
	// Duplicate is advisory: the same PDF bytes were uploaded before.
	Duplicate bool
}

// Pipeline wires the collaborators for one deployment. Structured and
// Text may each be nil when the vendor is not configured; Dedupe and
// Events are optional.
type Pipeline struct {
	Conversions store.ConversionStore
	Documents   store.DocumentStore
	Blobs       storage.BlobStore
	Structured  extract.StructuredExtractor
	Text        extract.TextExtractor
	Dedupe      dedupe.Checker
	Events      *events.Publisher

	now func() time.Time
}

// New builds a pipeline over the required collaborators. Optional ones
// are set on the returned value directly.
func New(conversions store.ConversionStore, documents store.DocumentStore, blobs storage.BlobStore) *Pipeline {
	return &Pipeline{
		Conversions: conversions,
		Documents:   documents,
		Blobs:       blobs,
		now:         time.Now,
	}
}

// Convert runs every stage in order. Any failure after the job exists
// moves it to failed; there is no partial output and no retry.
func (p *Pipeline) Convert(ctx context.Context, req Request) (*Result, error) {
	if err := pdfinfo.Validate(req.Data, req.ContentType); err != nil {
		return nil, &StageError{Fault: FaultValidation, Stage: "validate upload", Err: err}
	}

	conv := &types.Conversion{
		ID:       uuid.NewString(),
		FileName: req.FileName,
		FileSize: int64(len(req.Data)),
		Status:   types.StatusPending,
	}
	if err := p.Conversions.Create(ctx, conv); err != nil {
		return nil, &StageError{Fault: FaultStorage, Stage: "create job", Err: err}
	}
	log.Printf("[Convert] %s: job created for %s (%d bytes, %s)",
		conv.ID, req.FileName, conv.FileSize, req.Variant)

	duplicate := p.checkDuplicate(ctx, req.Data)

	now := p.now()
	pdfKey := storage.PDFKey(req.FileName, now)
	uploaded, err := p.Blobs.Put(ctx, pdfKey, req.Data, config.PDFContentType)
	if err != nil {
		return nil, p.fail(ctx, conv, FaultStorage, "upload pdf", err)
	}
	if err := p.Conversions.MarkProcessing(ctx, conv.ID, uploaded.URL); err != nil {
		return nil, p.fail(ctx, conv, FaultStorage, "mark processing", err)
	}

	// Best effort; extraction decides whether the PDF is usable.
	totalPages, err := pdfinfo.PageCount(req.Data)
	if err != nil {
		log.Printf("[Convert] %s: page count unavailable: %v", conv.ID, err)
	}

	doc, method, tokens, stageErr := p.extractDocument(ctx, req, now, totalPages)
	if stageErr != nil {
		return nil, p.fail(ctx, conv, stageErr.Fault, stageErr.Stage, stageErr.Err)
	}
	record := &types.DocumentRecord{
		ID:           uuid.NewString(),
		ConversionID: conv.ID,
		Document:     *doc,
	}
	if err := p.Documents.Save(ctx, record); err != nil {
		return nil, p.fail(ctx, conv, FaultStorage, "save document", err)
	}

	html, err := render.Document(*doc)
	if err != nil {
		return nil, p.fail(ctx, conv, FaultRender, "render html", err)
	}

	htmlKey := storage.HTMLKey(req.FileName, now)
	output, err := p.Blobs.Put(ctx, htmlKey, []byte(html), "text/html; charset=utf-8")
	if err != nil {
		return nil, p.fail(ctx, conv, FaultStorage, "upload html", err)
	}

	// Both extraction paths persist a document record, so the stored
	// flag tracks document availability.
	completed, err := p.Conversions.Complete(ctx, conv.ID, output.URL, method, tokens, true)
	if err != nil {
		return nil, p.fail(ctx, conv, FaultStorage, "complete job", err)
	}

	p.recordUpload(ctx, req.Data)
	p.publish(ctx, completed, string(req.Variant))
	log.Printf("[Convert] %s: completed via %s (%d tokens)", conv.ID, method, tokens)

	return &Result{
		Conversion: completed,
		Document:   doc,
		OutputURL:  output.URL,
		Duplicate:  duplicate,
	}, nil
}

// extractDocument runs the configured extraction path and returns the
// assembled document plus the method tag and token count.
func (p *Pipeline) extractDocument(ctx context.Context, req Request, now time.Time, totalPages int) (*types.Document, string, int, *StageError) {
	if p.Structured != nil {
		res, err := p.Structured.ExtractStructured(ctx, req.Data, req.Variant)
		if err != nil {
			return nil, "", 0, &StageError{Fault: FaultExtraction, Stage: "structured extraction", Err: err}
		}
		doc, stageErr := p.validateStructured(res.JSON, req.Variant)
		if stageErr != nil {
			return nil, "", 0, stageErr
		}
		stampMetadata(doc, req.FileName, now, modelFor(res.Method), totalPages)
		return doc, res.Method, res.Tokens, nil
	}

	if p.Text != nil {
		res, err := p.Text.ExtractText(ctx, req.Data)
		if err != nil {
			return nil, "", 0, &StageError{Fault: FaultExtraction, Stage: "text extraction", Err: err}
		}
		doc := assembleFromText(res.Text, req.Variant, req.FileName, now, modelFor(res.Method), totalPages)
		return doc, res.Method, res.Tokens, nil
	}

	return nil, "", 0, &StageError{
		Fault: FaultExtraction,
		Stage: "select extractor",
		Err:   fmt.Errorf("no extraction service configured for variant %q", req.Variant),
	}
}

// validateStructured checks the vendor JSON against the document schema
// and wraps it into the tagged union.
func (p *Pipeline) validateStructured(raw []byte, variant types.Variant) (*types.Document, *StageError) {
	switch variant {
	case types.VariantForeignPress:
		parsed, verr := schema.ValidateForeign(raw)
		if verr != nil {
			return nil, &StageError{Fault: FaultValidation, Stage: "validate document", Err: verr}
		}
		doc := types.NewForeign(parsed)
		return &doc, nil
	case types.VariantDomestic:
		parsed, verr := schema.ValidateDomestic(raw)
		if verr != nil {
			return nil, &StageError{Fault: FaultValidation, Stage: "validate document", Err: verr}
		}
		doc := types.NewDomestic(parsed)
		return &doc, nil
	}
	return nil, &StageError{
		Fault: FaultValidation,
		Stage: "validate document",
		Err:   fmt.Errorf("unknown variant %q", variant),
	}
}

// assembleFromText builds a document for the requested variant out of
// plain extracted text. The summary block is pulled out first; the rest
// goes through the hierarchy grammar. Assembly output is trusted, no
// schema pass.
func assembleFromText(text string, variant types.Variant, fileName string, now time.Time, model string, totalPages int) *types.Document {
	summary := ""
	mainText := text
	if extracted, ok := parse.ExtractSummary(text); ok {
		summary = extracted.Summary
		mainText = extracted.MainText
	}

	sections := parse.Hierarchy(mainText)
	title := strings.TrimSuffix(fileName, ".pdf")
	meta := types.Metadata{
		OriginalFileName: fileName,
		ProcessedAt:      now.UTC().Format(time.RFC3339),
		Model:            model,
		TotalPages:       totalPages,
	}

	if variant == types.VariantDomestic {
		header := types.DomesticHeader{Title: title, Meta: []string{}}
		doc := types.NewDomestic(parse.AssembleDomestic(summary, sections, header, meta))
		return &doc
	}

	header := types.ForeignHeader{Title: title}
	doc := types.NewForeign(parse.AssembleForeign(summary, sections, header, meta))
	return &doc
}

// stampMetadata overwrites the vendor-reported metadata fields the
// server is authoritative for.
func stampMetadata(doc *types.Document, fileName string, now time.Time, model string, totalPages int) {
	meta := &types.Metadata{}
	switch {
	case doc.Foreign != nil:
		meta = &doc.Foreign.Metadata
	case doc.Domestic != nil:
		meta = &doc.Domestic.Metadata
	}
	meta.OriginalFileName = fileName
	meta.ProcessedAt = now.UTC().Format(time.RFC3339)
	meta.Model = model
	if totalPages > 0 {
		meta.TotalPages = totalPages
	}
}

func modelFor(method string) string {
	switch method {
	case config.MethodGeminiJSON, config.MethodGeminiDomesticJSON:
		return config.GeminiModel
	case config.MethodClaudeVision:
		return config.ClaudeModel
	case config.MethodAdobeExtract:
		return config.AdobeModel
	}
	return method
}

// fail moves the job to failed and wraps the stage error. A store
// failure during the transition is logged, not surfaced, so the
// original fault reaches the caller.
func (p *Pipeline) fail(ctx context.Context, conv *types.Conversion, fault Fault, stage string, err error) error {
	failed, ferr := p.Conversions.Fail(ctx, conv.ID)
	if ferr != nil {
		log.Printf("[Convert] %s: could not mark failed: %v", conv.ID, ferr)
	} else {
		p.publish(ctx, failed, "")
	}
	log.Printf("[Convert] %s: %s failed: %v", conv.ID, stage, err)
	return &StageError{Fault: fault, Stage: stage, Err: err}
}

// checkDuplicate never blocks a conversion; lookup errors degrade to
// "not a duplicate".
func (p *Pipeline) checkDuplicate(ctx context.Context, pdf []byte) bool {
	if p.Dedupe == nil {
		return false
	}
	seen, err := p.Dedupe.Seen(ctx, pdf)
	if err != nil {
		log.Printf("[Convert] duplicate check unavailable: %v", err)
		return false
	}
	return seen
}

func (p *Pipeline) recordUpload(ctx context.Context, pdf []byte) {
	if p.Dedupe == nil {
		return
	}
	if err := p.Dedupe.Record(ctx, pdf); err != nil {
		log.Printf("[Convert] duplicate record failed: %v", err)
	}
}

func (p *Pipeline) publish(ctx context.Context, conv *types.Conversion, variant string) {
	err := p.Events.Publish(ctx, events.Event{
		ConversionID: conv.ID,
		FileName:     conv.FileName,
		Status:       conv.Status,
		Variant:      variant,
		Method:       conv.Method,
		Tokens:       conv.Tokens,
		OutputURL:    conv.OutputURL,
	})
	if err != nil {
		log.Printf("[Convert] event publish failed: %v", err)
	}
}
