package types

import "time"

// Status is the lifecycle state of a conversion job. A job moves
// pending → processing → completed|failed and is read-only afterwards.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status allows no further transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Conversion is the persisted record of one PDF→HTML conversion job.
type Conversion struct {
	ID                string     `json:"id"`
	FileName          string     `json:"fileName"`
	FileSize          int64      `json:"fileSize"`
	Status            Status     `json:"status"`
	InputURL          string     `json:"inputUrl,omitempty"`
	OutputURL         string     `json:"outputUrl,omitempty"`
	Method            string     `json:"method,omitempty"`
	Tokens            int        `json:"tokens,omitempty"`
	HasStructuredData bool       `json:"hasStructuredData"`
	CreatedAt         time.Time  `json:"createdAt"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

// DocumentRecord is a persisted structured document tied to a conversion.
type DocumentRecord struct {
	ID           string    `json:"id"`
	ConversionID string    `json:"conversionId"`
	Document     Document  `json:"data"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Stats aggregates the conversion history for the stats endpoint.
type Stats struct {
	TotalConversions      int            `json:"totalConversions"`
	CompletedConversions  int            `json:"completedConversions"`
	FailedConversions     int            `json:"failedConversions"`
	ProcessingConversions int            `json:"processingConversions"`
	TotalDocuments        int            `json:"totalDocuments"`
	TotalTokens           int64          `json:"totalTokens"`
	TotalFileSize         int64          `json:"totalFileSize"`
	AverageFileSize       float64        `json:"averageFileSize"`
	StatusBreakdown       map[string]int `json:"statusBreakdown"`
	MethodBreakdown       map[string]int `json:"methodBreakdown"`
	RecentActivity        RecentActivity `json:"recentActivity"`
}

// RecentActivity counts conversions created inside rolling windows.
type RecentActivity struct {
	Last24h    int `json:"last24h"`
	Last7Days  int `json:"last7days"`
	Last30Days int `json:"last30days"`
}
