package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pdfcon/config"
	"pdfcon/types"
)

var samplePDF = []byte("%PDF-1.4 test payload")

func TestGeminiExtractStructured(t *testing.T) {
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing API key in query")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		resp := map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{
					map[string]any{"text": "```json\n{\"header\":{}}\n```"},
				}}},
			},
			"usageMetadata": map[string]any{"totalTokenCount": 1234},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewGeminiClientWithBaseURL("test-key", server.URL)
	result, err := client.ExtractStructured(context.Background(), samplePDF, types.VariantForeignPress)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if string(result.JSON) != `{"header":{}}` {
		t.Fatalf("markdown fences not stripped: %q", result.JSON)
	}
	if result.Method != config.MethodGeminiJSON {
		t.Fatalf("unexpected method %q", result.Method)
	}
	if result.Tokens != 1234 {
		t.Fatalf("unexpected token count %d", result.Tokens)
	}

	if gotBody.GenerationConfig.ResponseMimeType != "application/json" {
		t.Fatalf("expected JSON mode, got %q", gotBody.GenerationConfig.ResponseMimeType)
	}
	if len(gotBody.GenerationConfig.ResponseSchema) == 0 {
		t.Fatal("request carried no response schema")
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request shape: %+v", gotBody.Contents)
	}
	if gotBody.Contents[0].Parts[0].InlineData == nil ||
		gotBody.Contents[0].Parts[0].InlineData.MimeType != config.PDFContentType {
		t.Fatal("first part must be the inline PDF")
	}
}

func TestGeminiDomesticUsesDomesticMethod(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{
					map[string]any{"text": "{}"},
				}}},
			},
		})
	}))
	defer server.Close()

	client := NewGeminiClientWithBaseURL("k", server.URL)
	result, err := client.ExtractStructured(context.Background(), samplePDF, types.VariantDomestic)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if result.Method != config.MethodGeminiDomesticJSON {
		t.Fatalf("unexpected method %q", result.Method)
	}
}

func TestGeminiErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewGeminiClientWithBaseURL("k", server.URL)
	if _, err := client.ExtractStructured(context.Background(), samplePDF, types.VariantForeignPress); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestGeminiEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := NewGeminiClientWithBaseURL("k", server.URL)
	_, err := client.ExtractStructured(context.Background(), samplePDF, types.VariantForeignPress)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestStripMarkdownFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                       `{"a":1}`,
		"```json\n{\"a\":1}\n```":         `{"a":1}`,
		"```\n{\"a\":1}\n```":             `{"a":1}`,
		"  \n```json\n{\"a\":1}\n```\n  ": `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripMarkdownFences(in); got != want {
			t.Fatalf("stripMarkdownFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClaudeExtractText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}

		var req claudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
			t.Errorf("unexpected message shape")
		}
		if req.Messages[0].Content[0].Type != "document" {
			t.Errorf("first block must be the PDF document")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []any{map[string]any{"type": "text", "text": "  □ 섹션\n○ 항목  "}},
			"usage":   map[string]any{"input_tokens": 100, "output_tokens": 50},
		})
	}))
	defer server.Close()

	client := NewClaudeClientWithBaseURL("test-key", server.URL)
	result, err := client.ExtractText(context.Background(), samplePDF)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if result.Text != "□ 섹션\n○ 항목" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if result.Method != config.MethodClaudeVision {
		t.Fatalf("unexpected method %q", result.Method)
	}
	if result.Tokens != 150 {
		t.Fatalf("unexpected tokens %d", result.Tokens)
	}
}

func TestClaudeEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	}))
	defer server.Close()

	client := NewClaudeClientWithBaseURL("k", server.URL)
	_, err := client.ExtractText(context.Background(), samplePDF)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func makeResultZip(t *testing.T, structured any) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("structuredData.json")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if err := json.NewEncoder(f).Encode(structured); err != nil {
		t.Fatalf("failed to encode structured data: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func newAdobeTestServers(t *testing.T, pollsUntilDone int) (*httptest.Server, *httptest.Server) {
	t.Helper()

	var polls atomic.Int32

	mux := http.NewServeMux()
	var services *httptest.Server
	services = httptest.NewServer(mux)

	ims := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ims/token/v3" {
			t.Errorf("unexpected IMS path %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("bad token form: %v", r.Form)
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "ims-token"})
	}))

	mux.HandleFunc("/assets", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer ims-token" {
			t.Errorf("missing bearer token on asset request")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"assetID":   "asset-1",
			"uploadUri": services.URL + "/upload/asset-1",
		})
	})
	mux.HandleFunc("/upload/asset-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("upload must be PUT, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/operation/extractpdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", services.URL+"/operation/extractpdf/job-7/status")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/operation/extractpdf/job-7/status", func(w http.ResponseWriter, r *http.Request) {
		if int(polls.Add(1)) < pollsUntilDone {
			json.NewEncoder(w).Encode(map[string]any{"status": "in_progress"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":   "done",
			"resource": map[string]any{"downloadUri": services.URL + "/download/result.zip"},
		})
	})
	mux.HandleFunc("/download/result.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(makeResultZip(t, map[string]any{
			"elements": []any{
				map[string]any{"Text": "일일 외신 보도 동향"},
				map[string]any{"Path": "//Document/Figure"},
				map[string]any{"Text": "□ 미국"},
			},
		}))
	})

	return ims, services
}

func TestAdobeExtractFullFlow(t *testing.T) {
	ims, services := newAdobeTestServers(t, 3)
	defer ims.Close()
	defer services.Close()

	client := NewAdobeClientWithBaseURLs("cid", "secret", ims.URL, services.URL, time.Millisecond)
	result, err := client.ExtractText(context.Background(), samplePDF)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if result.Text != "일일 외신 보도 동향\n\n□ 미국" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if result.Method != config.MethodAdobeExtract {
		t.Fatalf("unexpected method %q", result.Method)
	}
	if result.Tokens != 0 {
		t.Fatalf("adobe extraction must report zero tokens, got %d", result.Tokens)
	}
}

func TestAdobePollTimeout(t *testing.T) {
	ims, services := newAdobeTestServers(t, 1000)
	defer ims.Close()
	defer services.Close()

	client := NewAdobeClientWithBaseURLs("cid", "secret", ims.URL, services.URL, time.Millisecond)
	client.pollRetries = 3

	_, err := client.ExtractText(context.Background(), samplePDF)
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("expected ErrPollTimeout, got %v", err)
	}
}

func TestAdobeContextCancelDuringPoll(t *testing.T) {
	ims, services := newAdobeTestServers(t, 1000)
	defer ims.Close()
	defer services.Close()

	client := NewAdobeClientWithBaseURLs("cid", "secret", ims.URL, services.URL, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.ExtractText(ctx, samplePDF)
	if err == nil {
		t.Fatal("expected error after context cancellation")
	}
}

func TestParseJobID(t *testing.T) {
	cases := map[string]string{
		"https://pdf-services-ue1.adobe.io/operation/extractpdf/abc123/status": "abc123",
		"/operation/extractpdf/xyz/status":                                     "xyz",
		"no-status-here":                                                       "",
	}
	for in, want := range cases {
		if got := parseJobID(in); got != want {
			t.Fatalf("parseJobID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractTextFromResultZipMissingEntry(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("other.json")
	f.Write([]byte("{}"))
	zw.Close()

	if _, err := extractTextFromResultZip(buf.Bytes()); err == nil {
		t.Fatal("expected error when structuredData.json is missing")
	}
}

type stubTextExtractor struct {
	result *TextResult
	err    error
	calls  int
}

func (s *stubTextExtractor) ExtractText(ctx context.Context, pdf []byte) (*TextResult, error) {
	s.calls++
	return s.result, s.err
}

func TestFallbackUsesPrimaryFirst(t *testing.T) {
	primary := &stubTextExtractor{result: &TextResult{Text: "ok", Method: "adobe-extract"}}
	fallback := &stubTextExtractor{result: &TextResult{Text: "fb", Method: "claude-vision"}}

	f := &FallbackTextExtractor{Primary: primary, Fallback: fallback}
	result, err := f.ExtractText(context.Background(), samplePDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != "adobe-extract" || fallback.calls != 0 {
		t.Fatal("fallback must not run when primary succeeds")
	}
}

func TestFallbackRunsOnPrimaryFailure(t *testing.T) {
	primary := &stubTextExtractor{err: fmt.Errorf("adobe down")}
	fallback := &stubTextExtractor{result: &TextResult{Text: "fb", Method: "claude-vision"}}

	f := &FallbackTextExtractor{Primary: primary, Fallback: fallback}
	result, err := f.ExtractText(context.Background(), samplePDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != "claude-vision" {
		t.Fatalf("expected fallback result, got %q", result.Method)
	}
}

func TestFallbackReportsBothErrors(t *testing.T) {
	primary := &stubTextExtractor{err: fmt.Errorf("adobe down")}
	fallback := &stubTextExtractor{err: fmt.Errorf("claude down")}

	f := &FallbackTextExtractor{Primary: primary, Fallback: fallback}
	_, err := f.ExtractText(context.Background(), samplePDF)
	if err == nil {
		t.Fatal("expected combined error")
	}
	if !strings.Contains(err.Error(), "adobe down") || !strings.Contains(err.Error(), "claude down") {
		t.Fatalf("error should mention both failures: %v", err)
	}
}
