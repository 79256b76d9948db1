package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pdfcon/config"
	"pdfcon/extract"
	"pdfcon/storage"
	"pdfcon/types"
)

// --- fakes ---

type fakeConversionStore struct {
	conversions map[string]*types.Conversion
	createErr   error
	completeErr error
}

func newFakeConversionStore() *fakeConversionStore {
	return &fakeConversionStore{conversions: make(map[string]*types.Conversion)}
}

func (f *fakeConversionStore) Create(ctx context.Context, conv *types.Conversion) error {
	if f.createErr != nil {
		return f.createErr
	}
	conv.CreatedAt = time.Now()
	stored := *conv
	f.conversions[conv.ID] = &stored
	return nil
}

func (f *fakeConversionStore) MarkProcessing(ctx context.Context, id, inputURL string) error {
	conv := f.conversions[id]
	conv.Status = types.StatusProcessing
	conv.InputURL = inputURL
	return nil
}

func (f *fakeConversionStore) Complete(ctx context.Context, id, outputURL, method string, tokens int, hasStructuredData bool) (*types.Conversion, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	conv := f.conversions[id]
	now := time.Now()
	conv.Status = types.StatusCompleted
	conv.OutputURL = outputURL
	conv.Method = method
	conv.Tokens = tokens
	conv.HasStructuredData = hasStructuredData
	conv.CompletedAt = &now
	copied := *conv
	return &copied, nil
}

func (f *fakeConversionStore) Fail(ctx context.Context, id string) (*types.Conversion, error) {
	conv, ok := f.conversions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	now := time.Now()
	conv.Status = types.StatusFailed
	conv.CompletedAt = &now
	copied := *conv
	return &copied, nil
}

func (f *fakeConversionStore) Get(ctx context.Context, id string) (*types.Conversion, error) {
	conv, ok := f.conversions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *conv
	return &copied, nil
}

func (f *fakeConversionStore) Recent(ctx context.Context, limit int) ([]types.Conversion, error) {
	return nil, nil
}

func (f *fakeConversionStore) Stats(ctx context.Context) (*types.Stats, error) {
	return &types.Stats{}, nil
}

func (f *fakeConversionStore) only(t *testing.T) *types.Conversion {
	t.Helper()
	if len(f.conversions) != 1 {
		t.Fatalf("conversions = %d, want 1", len(f.conversions))
	}
	for _, conv := range f.conversions {
		return conv
	}
	return nil
}

type fakeDocumentStore struct {
	saved   []*types.DocumentRecord
	saveErr error
}

func (f *fakeDocumentStore) Save(ctx context.Context, rec *types.DocumentRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeDocumentStore) GetByConversionID(ctx context.Context, conversionID string) (*types.DocumentRecord, error) {
	for _, rec := range f.saved {
		if rec.ConversionID == conversionID {
			return rec, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeDocumentStore) Count(ctx context.Context) (int, error) {
	return len(f.saved), nil
}

type fakeBlobStore struct {
	objects map[string][]byte
	failKey string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (*storage.UploadResult, error) {
	if f.failKey != "" && strings.Contains(key, f.failKey) {
		return nil, errors.New("disk full")
	}
	f.objects[key] = data
	return &storage.UploadResult{URL: "/api/storage/" + key, Key: key}, nil
}

func (f *fakeBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) keyWithPrefix(t *testing.T, prefix string) string {
	t.Helper()
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			return key
		}
	}
	t.Fatalf("no object under %s", prefix)
	return ""
}

type stubStructured struct {
	json   string
	method string
	tokens int
	err    error
}

func (s *stubStructured) ExtractStructured(ctx context.Context, pdf []byte, variant types.Variant) (*extract.StructuredResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &extract.StructuredResult{JSON: []byte(s.json), Method: s.method, Tokens: s.tokens}, nil
}

type stubText struct {
	text   string
	method string
	tokens int
	err    error
}

func (s *stubText) ExtractText(ctx context.Context, pdf []byte) (*extract.TextResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &extract.TextResult{Text: s.text, Method: s.method, Tokens: s.tokens}, nil
}

type stubDedupe struct {
	seen     bool
	seenErr  error
	recorded int
}

func (s *stubDedupe) Seen(ctx context.Context, pdf []byte) (bool, error) {
	return s.seen, s.seenErr
}

func (s *stubDedupe) Record(ctx context.Context, pdf []byte) error {
	s.recorded++
	return nil
}

// --- fixtures ---

var pdfBytes = []byte("%PDF-1.4 fake body")

const structuredForeignJSON = `{
	"header": {"title": "일일 외신 보도 동향"},
	"summary": [
		{"category": "□ 미국", "articles": [
			{"title": "○ 반도체 수출 통제", "summary": "- 통제 강화 발표"}
		]}
	],
	"content": [
		{"category": "□ 미국", "articles": [
			{"title": "○ 반도체 수출 통제", "paragraphs": [
				{"type": "text", "content": "상무부가 발표했다."}
			]}
		]}
	],
	"metadata": {
		"originalFileName": "vendor-reported.pdf",
		"processedAt": "2024-01-01T00:00:00Z",
		"model": "vendor-reported"
	}
}`

func newPipeline() (*Pipeline, *fakeConversionStore, *fakeDocumentStore, *fakeBlobStore) {
	conversions := newFakeConversionStore()
	documents := &fakeDocumentStore{}
	blobs := newFakeBlobStore()
	p := New(conversions, documents, blobs)
	p.now = func() time.Time { return time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC) }
	return p, conversions, documents, blobs
}

func foreignRequest() Request {
	return Request{
		FileName:    "외신동향.pdf",
		ContentType: "application/pdf",
		Data:        pdfBytes,
		Variant:     types.VariantForeignPress,
	}
}

// --- tests ---

func TestConvertStructuredPath(t *testing.T) {
	p, conversions, documents, blobs := newPipeline()
	p.Structured = &stubStructured{json: structuredForeignJSON, method: config.MethodGeminiJSON, tokens: 2500}

	res, err := p.Convert(context.Background(), foreignRequest())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	conv := conversions.only(t)
	if conv.Status != types.StatusCompleted {
		t.Fatalf("status = %q, want completed", conv.Status)
	}
	if conv.Method != config.MethodGeminiJSON || conv.Tokens != 2500 {
		t.Fatalf("method/tokens = %q/%d", conv.Method, conv.Tokens)
	}
	if !conv.HasStructuredData {
		t.Fatal("HasStructuredData not set")
	}
	if conv.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}

	if len(documents.saved) != 1 {
		t.Fatalf("documents saved = %d, want 1", len(documents.saved))
	}
	saved := documents.saved[0]
	if saved.ConversionID != conv.ID {
		t.Fatalf("document conversionID = %q, want %q", saved.ConversionID, conv.ID)
	}
	meta := saved.Document.Foreign.Metadata
	if meta.OriginalFileName != "외신동향.pdf" {
		t.Fatalf("originalFileName = %q, vendor value not overwritten", meta.OriginalFileName)
	}
	if meta.Model != config.GeminiModel {
		t.Fatalf("model = %q, want %q", meta.Model, config.GeminiModel)
	}
	if meta.ProcessedAt != "2024-05-13T00:00:00Z" {
		t.Fatalf("processedAt = %q", meta.ProcessedAt)
	}

	pdfKey := blobs.keyWithPrefix(t, "pdfs/")
	if string(blobs.objects[pdfKey]) != string(pdfBytes) {
		t.Fatal("stored PDF does not match upload")
	}
	htmlKey := blobs.keyWithPrefix(t, "html/")
	html := string(blobs.objects[htmlKey])
	if !strings.Contains(html, "일일 외신 보도 동향") {
		t.Fatal("rendered HTML missing document title")
	}
	if res.OutputURL != "/api/storage/"+htmlKey {
		t.Fatalf("outputURL = %q", res.OutputURL)
	}
}

func TestConvertTextPath(t *testing.T) {
	p, conversions, documents, _ := newPipeline()
	p.Text = &stubText{
		text:   "요지\n- 미국 반도체 통제 강화\n□ 미국\n○ 반도체 수출 통제\n- 상무부 발표",
		method: config.MethodAdobeExtract,
	}

	res, err := p.Convert(context.Background(), foreignRequest())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	conv := conversions.only(t)
	if conv.Method != config.MethodAdobeExtract {
		t.Fatalf("method = %q", conv.Method)
	}
	if !conv.HasStructuredData {
		t.Fatal("text path persists a document, flag must be set")
	}

	doc := res.Document.Foreign
	if doc == nil {
		t.Fatal("expected foreign document")
	}
	if doc.Header.Title != "외신동향" {
		t.Fatalf("title = %q, want file name sans .pdf", doc.Header.Title)
	}
	if len(doc.Content) != 1 || doc.Content[0].Category != "□ 미국" {
		t.Fatalf("content sections wrong: %+v", doc.Content)
	}
	if doc.Metadata.Model != config.AdobeModel {
		t.Fatalf("model = %q", doc.Metadata.Model)
	}
	if len(documents.saved) != 1 {
		t.Fatalf("documents saved = %d, want 1", len(documents.saved))
	}
}

func TestConvertRejectsNonPDF(t *testing.T) {
	p, conversions, _, _ := newPipeline()
	p.Structured = &stubStructured{json: structuredForeignJSON, method: config.MethodGeminiJSON}

	req := foreignRequest()
	req.Data = []byte("<html>not a pdf</html>")

	_, err := p.Convert(context.Background(), req)
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Fault != FaultValidation {
		t.Fatalf("err = %v, want validation stage error", err)
	}
	if len(conversions.conversions) != 0 {
		t.Fatal("rejected upload must not create a job")
	}
}

func TestConvertExtractionFailureFailsJob(t *testing.T) {
	p, conversions, documents, _ := newPipeline()
	p.Structured = &stubStructured{err: fmt.Errorf("quota exhausted")}

	_, err := p.Convert(context.Background(), foreignRequest())
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Fault != FaultExtraction {
		t.Fatalf("err = %v, want extraction stage error", err)
	}

	conv := conversions.only(t)
	if conv.Status != types.StatusFailed {
		t.Fatalf("status = %q, want failed", conv.Status)
	}
	if conv.CompletedAt == nil {
		t.Fatal("CompletedAt not set on failure")
	}
	if conv.OutputURL != "" {
		t.Fatal("failed job must not carry an output URL")
	}
	if len(documents.saved) != 0 {
		t.Fatal("failed job must not persist a document")
	}
}

func TestConvertInvalidVendorJSONIsValidationFault(t *testing.T) {
	p, conversions, _, _ := newPipeline()
	p.Structured = &stubStructured{json: `{"header": {}}`, method: config.MethodGeminiJSON}

	_, err := p.Convert(context.Background(), foreignRequest())
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Fault != FaultValidation {
		t.Fatalf("err = %v, want validation stage error", err)
	}
	if conversions.only(t).Status != types.StatusFailed {
		t.Fatal("job not failed")
	}
}

func TestConvertStorageFailureFailsJob(t *testing.T) {
	p, conversions, _, blobs := newPipeline()
	p.Structured = &stubStructured{json: structuredForeignJSON, method: config.MethodGeminiJSON}
	blobs.failKey = "html/"

	_, err := p.Convert(context.Background(), foreignRequest())
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Fault != FaultStorage {
		t.Fatalf("err = %v, want storage stage error", err)
	}
	if conversions.only(t).Status != types.StatusFailed {
		t.Fatal("job not failed")
	}
}

func TestConvertNoExtractorConfigured(t *testing.T) {
	p, _, _, _ := newPipeline()

	req := foreignRequest()
	req.Variant = types.VariantDomestic

	_, err := p.Convert(context.Background(), req)
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Fault != FaultExtraction {
		t.Fatalf("err = %v, want extraction stage error", err)
	}
}

func TestConvertDomesticTextPath(t *testing.T) {
	p, conversions, documents, _ := newPipeline()
	p.Text = &stubText{
		text:   "요지\n○ 국내 정치\n- 예산안 협상 진행\n□ 국내 정치\n○ 예산안 처리\n- 여야 협상",
		method: config.MethodAdobeExtract,
	}

	req := foreignRequest()
	req.FileName = "국내동향.pdf"
	req.Variant = types.VariantDomestic

	res, err := p.Convert(context.Background(), req)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	conv := conversions.only(t)
	if conv.Method != config.MethodAdobeExtract {
		t.Fatalf("method = %q", conv.Method)
	}
	if !conv.HasStructuredData {
		t.Fatal("text path persists a document, flag must be set")
	}

	doc := res.Document.Domestic
	if doc == nil {
		t.Fatal("expected domestic document")
	}
	if doc.Header.Title != "국내동향" {
		t.Fatalf("title = %q, want file name sans .pdf", doc.Header.Title)
	}
	if len(doc.Summary) != 1 || doc.Summary[0].Category != "국내 정치" {
		t.Fatalf("summary wrong: %+v", doc.Summary)
	}
	if len(doc.Summary[0].Items) != 1 || doc.Summary[0].Items[0].Content != "예산안 협상 진행" {
		t.Fatalf("summary items wrong: %+v", doc.Summary[0].Items)
	}
	if len(doc.Content) != 1 || doc.Content[0].Category != "국내 정치" {
		t.Fatalf("content sections wrong: %+v", doc.Content)
	}
	if len(documents.saved) != 1 {
		t.Fatalf("documents saved = %d, want 1", len(documents.saved))
	}
}

func TestConvertDuplicateFlag(t *testing.T) {
	p, _, _, _ := newPipeline()
	p.Structured = &stubStructured{json: structuredForeignJSON, method: config.MethodGeminiJSON}
	dd := &stubDedupe{seen: true}
	p.Dedupe = dd

	res, err := p.Convert(context.Background(), foreignRequest())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !res.Duplicate {
		t.Fatal("duplicate flag not set")
	}
	if dd.recorded != 1 {
		t.Fatalf("recorded = %d, want 1", dd.recorded)
	}
}

func TestConvertDedupeErrorIsAdvisory(t *testing.T) {
	p, _, _, _ := newPipeline()
	p.Structured = &stubStructured{json: structuredForeignJSON, method: config.MethodGeminiJSON}
	p.Dedupe = &stubDedupe{seenErr: errors.New("redis down")}

	res, err := p.Convert(context.Background(), foreignRequest())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Duplicate {
		t.Fatal("lookup error must not flag a duplicate")
	}
}

func TestStageErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &StageError{Fault: FaultRender, Stage: "render html", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("Unwrap lost the inner error")
	}
	if !strings.Contains(err.Error(), "render html") || !strings.Contains(err.Error(), "render") {
		t.Fatalf("Error() = %q", err.Error())
	}
}
