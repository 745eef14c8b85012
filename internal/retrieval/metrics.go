package retrieval

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"time"

	"ragbot/internal/storage"
)

// HashQuery returns a one-way hash of the query text. Raw queries are never
// persisted in telemetry.
func HashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

func buildMetric(tenantID, providerName, model, queryText, reason string, result Result, elapsed time.Duration) storage.RetrievalMetric {
	metric := storage.RetrievalMetric{
		TenantID:         tenantID,
		Provider:         providerName,
		Model:            model,
		ThresholdUsed:    result.ThresholdUsed,
		ResultsFound:     len(result.Chunks),
		QueryHash:        HashQuery(queryText),
		ProcessingTimeMs: elapsed.Milliseconds(),
		Success:          result.Skipped == "",
		AdjustmentReason: reason,
	}

	if len(result.Chunks) > 0 {
		scores := make([]float64, len(result.Chunks))
		for i, chunk := range result.Chunks {
			scores[i] = float64(chunk.Score)
		}
		avg, min, max, stddev := scoreStats(scores)
		metric.AvgScore = float32(avg)
		metric.MinScore = float32(min)
		metric.MaxScore = float32(max)
		metric.ScoreStdDev = float32(stddev)
	}

	return metric
}

func scoreStats(scores []float64) (avg, min, max, stddev float64) {
	min = scores[0]
	max = scores[0]
	var sum float64
	for _, s := range scores {
		sum += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	avg = sum / float64(len(scores))

	var sqDiff float64
	for _, s := range scores {
		d := s - avg
		sqDiff += d * d
	}
	stddev = math.Sqrt(sqDiff / float64(len(scores)))
	return avg, min, max, stddev
}
