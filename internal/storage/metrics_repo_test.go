package storage

import (
	"context"
	"testing"
	"time"
)

func TestMetricsRepo_AppendAndWindow(t *testing.T) {
	db := openTestDB(t)
	repo := NewMetricsRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	threshold := float32(0.7)

	rows := []RetrievalMetric{
		{
			TenantID:         "bot-1",
			Provider:         "openai",
			Model:            "text-embedding-3-small",
			ThresholdUsed:    &threshold,
			ResultsFound:     3,
			AvgScore:         0.82,
			QueryHash:        "hash-1",
			Success:          true,
			AdjustmentReason: "default",
			CreatedAt:        base.Add(48 * time.Hour),
		},
		{
			TenantID:      "bot-1",
			Provider:      "openai",
			Model:         "text-embedding-3-small",
			ThresholdUsed: nil, // accept-all rung
			ResultsFound:  0,
			QueryHash:     "hash-2",
			Success:       true,
			CreatedAt:     base.Add(72 * time.Hour),
		},
		{
			TenantID:  "bot-1",
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			QueryHash: "hash-old",
			CreatedAt: base.Add(-240 * time.Hour),
		},
		{
			TenantID:  "bot-2",
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			QueryHash: "hash-other-tenant",
			CreatedAt: base.Add(48 * time.Hour),
		},
	}
	for i := range rows {
		if err := repo.Append(ctx, &rows[i]); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := repo.Window(ctx, "bot-1", "openai", "text-embedding-3-small", base)
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Window() returned %d rows, want 2 (old row and other tenant excluded)", len(got))
	}

	// Most recent first.
	if got[0].QueryHash != "hash-2" || got[1].QueryHash != "hash-1" {
		t.Errorf("Window() order = [%q, %q], want [hash-2, hash-1]", got[0].QueryHash, got[1].QueryHash)
	}
	if got[0].ThresholdUsed != nil {
		t.Error("Window() must round-trip the accept-all rung as nil")
	}
	if got[1].ThresholdUsed == nil || *got[1].ThresholdUsed != threshold {
		t.Errorf("Window() threshold = %v, want %v", got[1].ThresholdUsed, threshold)
	}
	if got[1].ResultsFound != 3 || !got[1].Success {
		t.Errorf("Window() row = %+v", got[1])
	}
}

func TestMetricsRepo_Append_StampsCreatedAt(t *testing.T) {
	db := openTestDB(t)
	repo := NewMetricsRepo(db)
	ctx := context.Background()

	m := RetrievalMetric{TenantID: "bot-1", Provider: "openai", Model: "m", QueryHash: "h"}
	if err := repo.Append(ctx, &m); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if m.CreatedAt.IsZero() {
		t.Error("Append() must stamp CreatedAt")
	}
}
