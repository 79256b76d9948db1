package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"pdfcon/config"
	"pdfcon/schema"
	"pdfcon/types"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient calls the generateContent endpoint in JSON mode: the PDF
// goes inline as base64 and the response is constrained by the variant's
// response schema.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient builds a client for the production endpoint.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		model:      config.GeminiModel,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewGeminiClientWithBaseURL is used by tests.
func NewGeminiClientWithBaseURL(apiKey, baseURL string) *GeminiClient {
	c := NewGeminiClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// ExtractStructured sends the PDF through Gemini JSON mode and returns the
// raw JSON document for schema validation.
func (c *GeminiClient) ExtractStructured(ctx context.Context, pdf []byte, variant types.Variant) (*StructuredResult, error) {
	var responseSchema json.RawMessage
	var prompt, method string
	switch variant {
	case types.VariantForeignPress:
		responseSchema = schema.ForeignResponseSchema
		prompt = foreignJSONPrompt
		method = config.MethodGeminiJSON
	case types.VariantDomestic:
		responseSchema = schema.DomesticResponseSchema
		prompt = domesticJSONPrompt
		method = config.MethodGeminiDomesticJSON
	default:
		return nil, fmt.Errorf("gemini: unknown variant %q", variant)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MimeType: config.PDFContentType,
					Data:     base64.StdEncoding.EncodeToString(pdf),
				}},
				{Text: prompt},
			},
		}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[Gemini] analyzing PDF (%d bytes, variant=%s)", len(pdf), variant)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini: API returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("gemini: failed to decode response: %w", err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyResult)
	}

	text := stripMarkdownFences(decoded.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyResult)
	}

	log.Printf("[Gemini] got %d bytes of JSON, %d tokens", len(text), decoded.UsageMetadata.TotalTokenCount)

	return &StructuredResult{
		JSON:   []byte(text),
		Method: method,
		Tokens: decoded.UsageMetadata.TotalTokenCount,
	}, nil
}

// stripMarkdownFences removes a ```json ... ``` wrapper that JSON mode
// still occasionally emits.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
