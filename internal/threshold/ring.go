package threshold

import (
	"time"

	"ragbot/internal/storage"
)

// ringBuffer is a fixed-capacity window of recent metrics for one
// (tenant, provider, model) key. It exists for O(1) recent-window reads and
// is deliberately separate from the durable log: the two stores have
// different retention and must never share an invalidation policy.
type ringBuffer struct {
	records []storage.RetrievalMetric
	next    int
	full    bool
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{records: make([]storage.RetrievalMetric, capacity)}
}

func (b *ringBuffer) add(m storage.RetrievalMetric) {
	b.records[b.next] = m
	b.next++
	if b.next == len(b.records) {
		b.next = 0
		b.full = true
	}
}

// since returns records newer than the cutoff, most recent first.
func (b *ringBuffer) since(cutoff time.Time) []storage.RetrievalMetric {
	size := b.next
	if b.full {
		size = len(b.records)
	}

	out := make([]storage.RetrievalMetric, 0, size)
	for i := 1; i <= size; i++ {
		idx := b.next - i
		if idx < 0 {
			idx += len(b.records)
		}
		if b.records[idx].CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, b.records[idx])
	}
	return out
}
