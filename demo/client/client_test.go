package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdfcon/types"
)

func TestRecentConversions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/conversions" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "5" {
			t.Fatalf("limit = %q", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"conversions": [{"id": "conv-1", "fileName": "a.pdf", "status": "completed", "hasStructuredData": true, "createdAt": "2024-05-13T00:00:00Z"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	conversions, err := c.RecentConversions(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentConversions: %v", err)
	}
	if len(conversions) != 1 || conversions[0].ID != "conv-1" {
		t.Fatalf("conversions = %+v", conversions)
	}
	if conversions[0].Status != types.StatusCompleted {
		t.Fatalf("status = %q", conversions[0].Status)
	}
}

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalConversions": 4, "completedConversions": 3}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalConversions != 4 || stats.CompletedConversions != 3 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Health(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
