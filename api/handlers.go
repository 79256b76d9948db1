package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pdfcon/config"
	"pdfcon/convert"
	"pdfcon/storage"
	"pdfcon/store"
	"pdfcon/types"
)

// ConvertResponse is returned by the two convert endpoints.
type ConvertResponse struct {
	Conversion *types.Conversion `json:"conversion"`
	OutputURL  string            `json:"outputUrl"`
	Duplicate  bool              `json:"duplicate,omitempty"`
}

func (s *Server) handleConvertForeign(c *gin.Context) {
	s.handleConvert(c, types.VariantForeignPress)
}

func (s *Server) handleConvertDomestic(c *gin.Context) {
	s.handleConvert(c, types.VariantDomestic)
}

func (s *Server) handleConvert(c *gin.Context, variant types.Variant) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field: " + err.Error()})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "open upload: " + err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, config.MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read upload: " + err.Error()})
		return
	}

	res, err := s.Pipeline.Convert(c.Request.Context(), convert.Request{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
		Variant:     variant,
	})
	if err != nil {
		status := http.StatusInternalServerError
		var stageErr *convert.StageError
		if errors.As(err, &stageErr) {
			switch stageErr.Fault {
			case convert.FaultValidation:
				status = http.StatusBadRequest
			case convert.FaultExtraction:
				status = http.StatusBadGateway
			}
		}
		log.Printf("[API] convert %s failed: %v", fileHeader.Filename, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ConvertResponse{
		Conversion: res.Conversion,
		OutputURL:  res.OutputURL,
		Duplicate:  res.Duplicate,
	})
}

func (s *Server) handleListConversions(c *gin.Context) {
	limit := config.RecentConversionsLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	conversions, err := s.Conversions.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if conversions == nil {
		conversions = []types.Conversion{}
	}
	c.JSON(http.StatusOK, gin.H{"conversions": conversions})
}

func (s *Server) handleGetConversion(c *gin.Context) {
	conv, err := s.Conversions.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversion not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (s *Server) handleGetDocument(c *gin.Context) {
	rec, err := s.Documents.GetByConversionID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.Conversions.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	count, err := s.Documents.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats.TotalDocuments = count

	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleServeBlob serves stored artifacts in dev deployments. The local
// store rejects traversal so the wildcard path is safe to pass through.
func (s *Server) handleServeBlob(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")

	data, err := s.Blobs.Get(c.Request.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, contentTypeFor(key), data)
}

func contentTypeFor(key string) string {
	switch {
	case strings.HasSuffix(key, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(key, ".pdf"):
		return config.PDFContentType
	}
	return "application/octet-stream"
}
