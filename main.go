package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"pdfcon/api"
	"pdfcon/config"
	"pdfcon/convert"
	"pdfcon/dedupe"
	"pdfcon/events"
	"pdfcon/extract"
	"pdfcon/storage"
	"pdfcon/store"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	conversions, documents := buildStores(cfg)
	blobs, serveBlobs := buildBlobStore(cfg)

	pipeline := convert.New(conversions, documents, blobs)
	wireExtractors(pipeline, cfg)
	wireOptional(pipeline, cfg)

	srv := &api.Server{
		Pipeline:    pipeline,
		Conversions: conversions,
		Documents:   documents,
		Blobs:       blobs,
		ServeBlobs:  serveBlobs,
	}

	r := srv.NewRouter()
	log.Printf("Starting API server on %s", cfg.BindAddr)
	log.Println("API endpoints available:")
	log.Println("  POST /api/convert/foreign")
	log.Println("  POST /api/convert/domestic")
	log.Println("  GET  /api/conversions")
	log.Println("  GET  /api/conversions/:id")
	log.Println("  GET  /api/conversions/:id/document")
	log.Println("  GET  /api/stats")
	log.Println("  GET  /api/health")

	if err := http.ListenAndServe(cfg.BindAddr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildStores picks sqlite when a path is configured, in-memory otherwise.
// The sqlite store implements both interfaces with one handle.
func buildStores(cfg *config.Config) (store.ConversionStore, store.DocumentStore) {
	if cfg.SQLitePath != "" {
		st, err := store.NewSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite error: %v", err)
		}
		return st, st
	}
	mem := store.NewMemory()
	return mem, mem
}

// buildBlobStore picks S3 when a bucket is configured, the local
// filesystem otherwise. Only the local store is served over /api/storage.
func buildBlobStore(cfg *config.Config) (storage.BlobStore, bool) {
	if cfg.S3Bucket != "" {
		s3, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket:     cfg.S3Bucket,
			Region:     cfg.S3Region,
			Prefix:     cfg.S3Prefix,
			PublicBase: cfg.S3PublicBase,
		})
		if err != nil {
			log.Fatalf("s3 error: %v", err)
		}
		return s3, false
	}

	local, err := storage.NewLocalStore(cfg.StorageDir)
	if err != nil {
		log.Fatalf("storage error: %v", err)
	}
	return local, true
}

// wireExtractors attaches whichever vendor clients are configured.
// Gemini drives the structured path; the text path is Adobe with Claude
// as fallback, or either alone.
func wireExtractors(pipeline *convert.Pipeline, cfg *config.Config) {
	if cfg.GeminiConfigured() {
		pipeline.Structured = extract.NewGeminiClient(cfg.GeminiAPIKey)
		log.Println("[Main] structured extraction: gemini")
	}

	var primary, fallback extract.TextExtractor
	if cfg.AdobeConfigured() {
		primary = extract.NewAdobeClient(cfg.AdobeClientID, cfg.AdobeClientSecret)
		log.Println("[Main] text extraction: adobe")
	}
	if cfg.ClaudeConfigured() {
		claude := extract.NewClaudeClient(cfg.AnthropicAPIKey)
		if primary == nil {
			primary = claude
			log.Println("[Main] text extraction: claude")
		} else {
			fallback = claude
			log.Println("[Main] text extraction fallback: claude")
		}
	}
	if primary != nil {
		pipeline.Text = &extract.FallbackTextExtractor{Primary: primary, Fallback: fallback}
	}
}

// wireOptional attaches redis dedupe and kafka events when configured.
// Both degrade to disabled on connection failure.
func wireOptional(pipeline *convert.Pipeline, cfg *config.Config) {
	if cfg.RedisAddr != "" {
		bloom, err := dedupe.NewRedisBloom(cfg.RedisAddr, cfg.RedisPass)
		if err != nil {
			log.Printf("[Main] dedupe disabled: %v", err)
		} else {
			pipeline.Dedupe = bloom
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Printf("[Main] events disabled: %v", err)
		} else {
			pipeline.Events = publisher
		}
	}
}
