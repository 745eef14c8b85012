package threshold

import (
	"testing"
	"time"

	"ragbot/internal/storage"
)

func TestRingBuffer_Wraparound(t *testing.T) {
	ring := newRingBuffer(3)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		ring.add(storage.RetrievalMetric{
			QueryHash: string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	got := ring.since(time.Time{})
	if len(got) != 3 {
		t.Fatalf("since() returned %d records, want capacity 3", len(got))
	}
	// Most recent first, oldest entries evicted.
	want := []string{"e", "d", "c"}
	for i, w := range want {
		if got[i].QueryHash != w {
			t.Errorf("since()[%d] = %q, want %q", i, got[i].QueryHash, w)
		}
	}
}

func TestRingBuffer_SinceCutoff(t *testing.T) {
	ring := newRingBuffer(10)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		ring.add(storage.RetrievalMetric{
			QueryHash: string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	got := ring.since(base.Add(2 * time.Hour))
	if len(got) != 2 {
		t.Fatalf("since() returned %d records, want 2", len(got))
	}
	if got[0].QueryHash != "d" || got[1].QueryHash != "c" {
		t.Errorf("since() order = [%q, %q], want [d, c]", got[0].QueryHash, got[1].QueryHash)
	}
}

func TestRingBuffer_PartialFill(t *testing.T) {
	ring := newRingBuffer(5)
	ring.add(storage.RetrievalMetric{QueryHash: "a"})
	ring.add(storage.RetrievalMetric{QueryHash: "b"})

	got := ring.since(time.Time{})
	if len(got) != 2 {
		t.Fatalf("since() returned %d records, want 2", len(got))
	}
	if got[0].QueryHash != "b" {
		t.Errorf("since()[0] = %q, want most recent first", got[0].QueryHash)
	}
}
