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
)

const (
	defaultClaudeBaseURL = "https://api.anthropic.com"
	claudeAPIVersion     = "2023-06-01"
	claudeMaxTokens      = 8192
)

// ClaudeClient extracts PDF text through the messages API with a base64
// document block.
type ClaudeClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClaudeClient builds a client for the production endpoint.
func NewClaudeClient(apiKey string) *ClaudeClient {
	return &ClaudeClient{
		apiKey:     apiKey,
		model:      config.ClaudeModel,
		baseURL:    defaultClaudeBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewClaudeClientWithBaseURL is used by tests.
func NewClaudeClientWithBaseURL(apiKey, baseURL string) *ClaudeClient {
	c := NewClaudeClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string        `json:"role"`
	Content []claudeBlock `json:"content"`
}

type claudeBlock struct {
	Type   string        `json:"type"`
	Text   string        `json:"text,omitempty"`
	Source *claudeSource `json:"source,omitempty"`
}

type claudeSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// ExtractText asks Claude to transcribe the PDF verbatim.
func (c *ClaudeClient) ExtractText(ctx context.Context, pdf []byte) (*TextResult, error) {
	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: claudeMaxTokens,
		Messages: []claudeMessage{{
			Role: "user",
			Content: []claudeBlock{
				{
					Type: "document",
					Source: &claudeSource{
						Type:      "base64",
						MediaType: config.PDFContentType,
						Data:      base64.StdEncoding.EncodeToString(pdf),
					},
				},
				{Type: "text", Text: claudeVisionPrompt},
			},
		}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("claude: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("claude: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", claudeAPIVersion)

	log.Printf("[Claude] extracting text from PDF (%d bytes)", len(pdf))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("claude: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("claude: API returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var decoded claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("claude: failed to decode response: %w", err)
	}

	var text string
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("claude: %w", ErrEmptyResult)
	}

	tokens := decoded.Usage.InputTokens + decoded.Usage.OutputTokens
	log.Printf("[Claude] extracted %d chars, %d tokens", len(text), tokens)

	return &TextResult{
		Text:   strings.TrimSpace(text),
		Method: config.MethodClaudeVision,
		Tokens: tokens,
	}, nil
}
