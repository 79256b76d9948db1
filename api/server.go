// Package api exposes the conversion service over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"pdfcon/convert"
	"pdfcon/storage"
	"pdfcon/store"
)

// Server holds the collaborators the handlers need. Blobs is consulted
// only for the dev storage route, which is registered when ServeBlobs
// is true (local store); S3 deployments serve blobs from the bucket.
type Server struct {
	Pipeline    *convert.Pipeline
	Conversions store.ConversionStore
	Documents   store.DocumentStore
	Blobs       storage.BlobStore
	ServeBlobs  bool
}

// NewRouter constructs a gin engine with all routes registered.
// Minimal middleware: recovery only.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	g := r.Group("/api")
	g.POST("/convert/foreign", s.handleConvertForeign)
	g.POST("/convert/domestic", s.handleConvertDomestic)
	g.GET("/conversions", s.handleListConversions)
	g.GET("/conversions/:id", s.handleGetConversion)
	g.GET("/conversions/:id/document", s.handleGetDocument)
	g.GET("/stats", s.handleStats)
	g.GET("/health", s.handleHealth)

	if s.ServeBlobs {
		g.GET("/storage/*path", s.handleServeBlob)
	}

	return r
}
