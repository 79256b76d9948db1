package config

import "time"

// Upload constraints
const (
	// MaxUploadSize is the largest accepted PDF (50MB)
	MaxUploadSize = 50 * 1024 * 1024

	// PDFContentType is the only accepted upload MIME type
	PDFContentType = "application/pdf"
)

// Summary extraction bounds
const (
	// SummaryMinLen rejects captured summary blocks shorter than this (runes)
	SummaryMinLen = 10

	// SummaryMaxLen rejects captured summary blocks longer than this (runes)
	SummaryMaxLen = 5000
)

// Extraction service polling
const (
	// ExtractPollRetries bounds the Adobe job status loop
	ExtractPollRetries = 30

	// ExtractPollInterval is the fixed delay between status polls
	ExtractPollInterval = 2 * time.Second
)

// Listing
const (
	// RecentConversionsLimit caps the history listing
	RecentConversionsLimit = 30
)

// Model identifiers reported in document metadata
const (
	GeminiModel = "gemini-2.5-pro"
	ClaudeModel = "claude-3-5-sonnet-20241022"
	AdobeModel  = "adobe-pdf-extract-api"
)

// Extraction method tags recorded on the conversion job
const (
	MethodGeminiJSON         = "gemini-json"
	MethodGeminiDomesticJSON = "gemini-domestic-json"
	MethodClaudeVision       = "claude-vision"
	MethodAdobeExtract       = "adobe-extract"
)
