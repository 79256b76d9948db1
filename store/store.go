// Package store persists conversion jobs and their structured documents.
// Two backends exist: an in-memory store for development and a sqlite
// store for durable single-node deployments. Both enforce the job
// lifecycle: pending → processing → completed|failed, with exactly one
// terminal transition.
package store

import (
	"context"
	"errors"
	"time"

	"pdfcon/types"
)

// ErrNotFound is returned when no record exists under the given ID.
var ErrNotFound = errors.New("store: not found")

// ErrTerminal is returned when a transition is attempted on a job that
// already completed or failed.
var ErrTerminal = errors.New("store: conversion already finished")

// ConversionStore tracks conversion jobs.
type ConversionStore interface {
	// Create inserts a new job, normally in StatusPending.
	Create(ctx context.Context, conv *types.Conversion) error
	// MarkProcessing moves a job to StatusProcessing and records where
	// the input PDF was stored.
	MarkProcessing(ctx context.Context, id, inputURL string) error
	// Complete is the successful terminal transition.
	Complete(ctx context.Context, id, outputURL, method string, tokens int, hasStructuredData bool) (*types.Conversion, error)
	// Fail is the unsuccessful terminal transition.
	Fail(ctx context.Context, id string) (*types.Conversion, error)
	Get(ctx context.Context, id string) (*types.Conversion, error)
	// Recent returns up to limit jobs, newest first.
	Recent(ctx context.Context, limit int) ([]types.Conversion, error)
	Stats(ctx context.Context) (*types.Stats, error)
}

// DocumentStore keeps the validated structured documents.
type DocumentStore interface {
	Save(ctx context.Context, rec *types.DocumentRecord) error
	GetByConversionID(ctx context.Context, conversionID string) (*types.DocumentRecord, error)
	Count(ctx context.Context) (int, error)
}

// computeStats aggregates a conversion listing. TotalDocuments is filled
// in by the caller, which owns the document store.
func computeStats(conversions []types.Conversion, now time.Time) *types.Stats {
	stats := &types.Stats{
		StatusBreakdown: make(map[string]int),
		MethodBreakdown: make(map[string]int),
	}

	const day = 24 * time.Hour

	for _, conv := range conversions {
		stats.TotalConversions++
		stats.StatusBreakdown[string(conv.Status)]++
		if conv.Method != "" {
			stats.MethodBreakdown[conv.Method]++
		}
		stats.TotalTokens += int64(conv.Tokens)
		stats.TotalFileSize += conv.FileSize

		switch conv.Status {
		case types.StatusCompleted:
			stats.CompletedConversions++
		case types.StatusFailed:
			stats.FailedConversions++
		case types.StatusProcessing:
			stats.ProcessingConversions++
		}

		age := now.Sub(conv.CreatedAt)
		if age < day {
			stats.RecentActivity.Last24h++
		}
		if age < 7*day {
			stats.RecentActivity.Last7Days++
		}
		if age < 30*day {
			stats.RecentActivity.Last30Days++
		}
	}

	if stats.TotalConversions > 0 {
		stats.AverageFileSize = float64(stats.TotalFileSize) / float64(stats.TotalConversions)
	}
	return stats
}
