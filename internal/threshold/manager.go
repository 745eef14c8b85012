package threshold

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_metrics_log.go -package=mocks ragbot/internal/threshold MetricsLog

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"ragbot/internal/contextutil"
	"ragbot/internal/provider"
	"ragbot/internal/storage"
)

const (
	// ringCapacity bounds the in-memory window per (tenant, provider, model).
	ringCapacity = 100
	// minSampleSize is the smallest window that yields a recommendation.
	// Below this the recommendation is empty, never extrapolated.
	minSampleSize = 10
	// largeCorpusDocs is the corpus size above which filtering tightens:
	// more documents mean more near-miss false positives.
	largeCorpusDocs = 100
	// longDocumentChars is the average document length above which the bar is
	// lowered: long documents dilute per-chunk semantic density.
	longDocumentChars = 2000
)

// RetrievalContext carries the per-request signals that adjust the threshold.
type RetrievalContext struct {
	TenantID          string
	QueryText         string
	ContentType       string
	DocumentCount     int
	AvgDocumentLength int
	SessionID         string
	UserID            string
}

// Recommendation summarizes historical retrieval performance for one
// (tenant, provider, model) over a time window.
type Recommendation struct {
	SampleSize    int
	AvgResults    float64
	StdDevResults float64
	AvgScore      float64
	StdDevScore   float64
	SuccessRate   float64
	WindowDays    int
}

// MetricsLog is the durable append-only store behind TrackPerformance,
// defined from the manager's perspective.
type MetricsLog interface {
	Append(ctx context.Context, m *storage.RetrievalMetric) error
	Window(ctx context.Context, tenantID, providerName, model string, since time.Time) ([]storage.RetrievalMetric, error)
}

// Manager owns per-provider threshold policy: static configuration,
// contextual adjustment, the retry ladder, and performance history.
type Manager struct {
	log MetricsLog

	mu    sync.Mutex
	rings map[string]*ringBuffer
}

// NewManager creates a Manager backed by the given durable metrics log.
func NewManager(log MetricsLog) *Manager {
	return &Manager{
		log:   log,
		rings: make(map[string]*ringBuffer),
	}
}

// Config returns the static policy for an embedding provider.
func (m *Manager) Config(kind provider.Kind) (Config, error) {
	cfg, ok := providerConfigs[kind]
	if !ok {
		return Config{}, &provider.ConfigurationError{Provider: string(kind), Reason: "no threshold configuration"}
	}
	return cfg, nil
}

// OptimalThreshold computes the effective threshold for a request: the
// provider default, shifted by content type and corpus shape, clamped to the
// provider's bounds. The returned reason names each applied adjustment.
func (m *Manager) OptimalThreshold(kind provider.Kind, model string, rctx RetrievalContext) (float32, string, error) {
	cfg, err := m.Config(kind)
	if err != nil {
		return 0, "", err
	}

	threshold := cfg.Default
	var reasons []string

	if delta, ok := cfg.ContentTypeAdjustments[rctx.ContentType]; ok {
		threshold += delta
		reasons = append(reasons, "content_type:"+rctx.ContentType)
	}
	if rctx.DocumentCount > largeCorpusDocs {
		threshold += cfg.AdjustmentStep / 2
		reasons = append(reasons, "large_corpus")
	}
	if rctx.AvgDocumentLength > longDocumentChars {
		threshold -= cfg.AdjustmentStep / 2
		reasons = append(reasons, "long_documents")
	}

	if threshold < cfg.Min {
		threshold = cfg.Min
		reasons = append(reasons, "clamped_min")
	}
	if threshold > cfg.Max {
		threshold = cfg.Max
		reasons = append(reasons, "clamped_max")
	}

	reason := "default"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ",")
	}
	return threshold, reason, nil
}

// RetryLadder returns a descending threshold sequence starting at initial
// (or the provider default when initial is nil) and terminating in the
// accept-all nil sentinel. The final rung guarantees the query eventually
// returns the best available results rather than nothing.
func (m *Manager) RetryLadder(kind provider.Kind, model string, initial *float32) ([]*float32, error) {
	cfg, err := m.Config(kind)
	if err != nil {
		return nil, err
	}

	if initial == nil {
		ladder := make([]*float32, len(cfg.Ladder))
		copy(ladder, cfg.Ladder)
		return ladder, nil
	}

	var ladder []*float32
	current := *initial
	for current > cfg.Min {
		v := current
		ladder = append(ladder, &v)
		current -= cfg.AdjustmentStep
	}
	floor := cfg.Min
	ladder = append(ladder, &floor, nil)
	return ladder, nil
}

// Validate checks a threshold against hard provider bounds and returns soft
// warnings for values that are legal but suspicious for the provider.
func (m *Manager) Validate(kind provider.Kind, model string, value float32) ([]string, error) {
	cfg, err := m.Config(kind)
	if err != nil {
		return nil, err
	}
	if value < cfg.Min || value > cfg.Max {
		return nil, fmt.Errorf("threshold %.4f outside [%.4f, %.4f] for provider %s", value, cfg.Min, cfg.Max, kind)
	}

	var warnings []string
	if kind == provider.KindGemini && value > 0.05 {
		warnings = append(warnings, "threshold is unusually high for gemini embeddings, which score near zero")
	}
	if kind != provider.KindGemini && value > cfg.Default+2*cfg.AdjustmentStep {
		warnings = append(warnings, "threshold is far above the provider default and may filter out all results")
	}
	return warnings, nil
}

// TrackPerformance appends a retrieval metric to the durable log and the
// in-memory ring. Failures are logged and swallowed, and the durable write
// runs on its own goroutine; telemetry must never fail or delay the caller.
func (m *Manager) TrackPerformance(ctx context.Context, metric storage.RetrievalMetric) {
	logger := contextutil.LoggerFromContext(ctx)

	if metric.CreatedAt.IsZero() {
		metric.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	key := ringKey(metric.TenantID, metric.Provider, metric.Model)
	ring, ok := m.rings[key]
	if !ok {
		ring = newRingBuffer(ringCapacity)
		m.rings[key] = ring
	}
	ring.add(metric)
	m.mu.Unlock()

	// WithoutCancel keeps the append alive past response completion.
	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := m.log.Append(ctx, &metric); err != nil {
			logger.WarnContext(ctx, "failed to persist retrieval metric",
				"tenant_id", metric.TenantID, "provider", metric.Provider, "error", err)
		}
	}()
}

// Recommendations summarizes result counts and scores over the historical
// window. Windows within a day are served from the in-memory ring; longer
// windows read the durable log. Returns nil when the sample is too small.
func (m *Manager) Recommendations(ctx context.Context, tenantID string, kind provider.Kind, model string, windowDays int) (*Recommendation, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if windowDays <= 0 {
		windowDays = 7
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	var records []storage.RetrievalMetric
	if windowDays <= 1 {
		m.mu.Lock()
		if ring, ok := m.rings[ringKey(tenantID, string(kind), model)]; ok {
			records = ring.since(cutoff)
		}
		m.mu.Unlock()
	} else {
		var err error
		records, err = m.log.Window(ctx, tenantID, string(kind), model, cutoff)
		if err != nil {
			return nil, fmt.Errorf("failed to read metrics window: %w", err)
		}
	}

	if len(records) < minSampleSize {
		logger.DebugContext(ctx, "insufficient samples for recommendation",
			"tenant_id", tenantID, "provider", kind, "samples", len(records))
		return nil, nil
	}

	results := make([]float64, 0, len(records))
	scores := make([]float64, 0, len(records))
	var successes int
	for _, r := range records {
		results = append(results, float64(r.ResultsFound))
		if r.ResultsFound > 0 {
			scores = append(scores, float64(r.AvgScore))
		}
		if r.Success {
			successes++
		}
	}

	avgResults, stdResults := meanStdDev(results)
	avgScore, stdScore := meanStdDev(scores)

	return &Recommendation{
		SampleSize:    len(records),
		AvgResults:    avgResults,
		StdDevResults: stdResults,
		AvgScore:      avgScore,
		StdDevScore:   stdScore,
		SuccessRate:   float64(successes) / float64(len(records)),
		WindowDays:    windowDays,
	}, nil
}

func ringKey(tenantID, providerName, model string) string {
	return tenantID + "|" + providerName + "|" + model
}

func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return mean, math.Sqrt(sqDiff / float64(len(values)))
}
