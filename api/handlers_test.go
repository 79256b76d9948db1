package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pdfcon/config"
	"pdfcon/convert"
	"pdfcon/extract"
	"pdfcon/storage"
	"pdfcon/store"
	"pdfcon/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStructured struct {
	json string
	err  error
}

func (s *stubStructured) ExtractStructured(ctx context.Context, pdf []byte, variant types.Variant) (*extract.StructuredResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &extract.StructuredResult{JSON: []byte(s.json), Method: config.MethodGeminiJSON, Tokens: 900}, nil
}

const foreignJSON = `{
	"header": {"title": "일일 외신 보도 동향"},
	"summary": [],
	"content": [
		{"category": "□ 미국", "articles": [
			{"title": "○ 반도체 수출 통제", "paragraphs": [
				{"type": "text", "content": "상무부가 발표했다."}
			]}
		]}
	],
	"metadata": {
		"originalFileName": "x.pdf",
		"processedAt": "2024-01-01T00:00:00Z",
		"model": "x"
	}
}`

func newTestServer(t *testing.T, structured *stubStructured) (*Server, *gin.Engine) {
	t.Helper()

	mem := store.NewMemory()
	blobs, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	pipeline := convert.New(mem, mem, blobs)
	if structured != nil {
		pipeline.Structured = structured
	}

	srv := &Server{
		Pipeline:    pipeline,
		Conversions: mem,
		Documents:   mem,
		Blobs:       blobs,
		ServeBlobs:  true,
	}
	return srv, srv.NewRouter()
}

func uploadRequest(t *testing.T, path, fileName string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestConvertEndpoint(t *testing.T) {
	_, router := newTestServer(t, &stubStructured{json: foreignJSON})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/convert/foreign", "동향.pdf", []byte("%PDF-1.4 body")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res ConvertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Conversion.Status != types.StatusCompleted {
		t.Fatalf("status = %q", res.Conversion.Status)
	}
	if !strings.HasPrefix(res.OutputURL, "/api/storage/html/") {
		t.Fatalf("outputUrl = %q", res.OutputURL)
	}

	// Stored HTML is reachable through the storage route.
	htmlRec := httptest.NewRecorder()
	router.ServeHTTP(htmlRec, httptest.NewRequest(http.MethodGet, res.OutputURL, nil))
	if htmlRec.Code != http.StatusOK {
		t.Fatalf("storage status = %d", htmlRec.Code)
	}
	if ct := htmlRec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(htmlRec.Body.String(), "일일 외신 보도 동향") {
		t.Fatal("served HTML missing title")
	}
}

func TestConvertEndpointRejectsNonPDF(t *testing.T) {
	_, router := newTestServer(t, &stubStructured{json: foreignJSON})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/convert/foreign", "x.pdf", []byte("plain text")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestConvertEndpointMissingFile(t *testing.T) {
	_, router := newTestServer(t, &stubStructured{json: foreignJSON})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/convert/foreign", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestConvertEndpointExtractionFailure(t *testing.T) {
	_, router := newTestServer(t, &stubStructured{err: errors.New("quota exhausted")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/convert/foreign", "x.pdf", []byte("%PDF-1.4 body")))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestListAndGetConversions(t *testing.T) {
	srv, router := newTestServer(t, &stubStructured{json: foreignJSON})

	conv := &types.Conversion{
		ID:        "conv-list",
		FileName:  "a.pdf",
		FileSize:  10,
		Status:    types.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := srv.Conversions.Create(context.Background(), conv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conversions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed struct {
		Conversions []types.Conversion `json:"conversions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Conversions) != 1 || listed.Conversions[0].ID != "conv-list" {
		t.Fatalf("listed = %+v", listed.Conversions)
	}

	oneRec := httptest.NewRecorder()
	router.ServeHTTP(oneRec, httptest.NewRequest(http.MethodGet, "/api/conversions/conv-list", nil))
	if oneRec.Code != http.StatusOK {
		t.Fatalf("get status = %d", oneRec.Code)
	}

	missingRec := httptest.NewRecorder()
	router.ServeHTTP(missingRec, httptest.NewRequest(http.MethodGet, "/api/conversions/nope", nil))
	if missingRec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", missingRec.Code)
	}
}

func TestGetDocument(t *testing.T) {
	_, router := newTestServer(t, &stubStructured{json: foreignJSON})

	convRec := httptest.NewRecorder()
	router.ServeHTTP(convRec, uploadRequest(t, "/api/convert/foreign", "동향.pdf", []byte("%PDF-1.4 body")))
	if convRec.Code != http.StatusOK {
		t.Fatalf("convert status = %d", convRec.Code)
	}
	var res ConvertResponse
	if err := json.Unmarshal(convRec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conversions/"+res.Conversion.ID+"/document", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("document status = %d", rec.Code)
	}
	var docRec types.DocumentRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &docRec); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if docRec.Document.Foreign == nil || docRec.Document.Foreign.Header.Title != "일일 외신 보도 동향" {
		t.Fatalf("document = %+v", docRec.Document)
	}
}

func TestStatsEndpoint(t *testing.T) {
	_, router := newTestServer(t, &stubStructured{json: foreignJSON})

	convRec := httptest.NewRecorder()
	router.ServeHTTP(convRec, uploadRequest(t, "/api/convert/foreign", "동향.pdf", []byte("%PDF-1.4 body")))
	if convRec.Code != http.StatusOK {
		t.Fatalf("convert status = %d", convRec.Code)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	var stats types.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalConversions != 1 || stats.CompletedConversions != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.TotalDocuments != 1 {
		t.Fatalf("totalDocuments = %d, want 1", stats.TotalDocuments)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestStorageRouteNotFound(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/storage/html/missing.html", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
