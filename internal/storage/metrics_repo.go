package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MetricsRepo appends retrieval telemetry rows and serves windowed reads for
// threshold recommendations. The table is append-only; rows are never updated.
type MetricsRepo struct {
	db *sql.DB
}

// NewMetricsRepo creates a new MetricsRepo.
func NewMetricsRepo(db *sql.DB) *MetricsRepo {
	return &MetricsRepo{db: db}
}

// Append inserts one retrieval metric row.
func (r *MetricsRepo) Append(ctx context.Context, m *RetrievalMetric) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	var threshold any
	if m.ThresholdUsed != nil {
		threshold = *m.ThresholdUsed
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO retrieval_metrics (tenant_id, provider, model, threshold_used,
			results_found, avg_score, min_score, max_score, score_stddev,
			query_hash, processing_time_ms, success, adjustment_reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.TenantID, m.Provider, m.Model, threshold,
		m.ResultsFound, m.AvgScore, m.MinScore, m.MaxScore, m.ScoreStdDev,
		m.QueryHash, m.ProcessingTimeMs, m.Success, m.AdjustmentReason, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append retrieval metric: %w", err)
	}
	return nil
}

// Window returns rows for (tenant, provider, model) no older than since,
// most recent first.
func (r *MetricsRepo) Window(ctx context.Context, tenantID, provider, model string, since time.Time) ([]RetrievalMetric, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tenant_id, provider, model, threshold_used, results_found,
			avg_score, min_score, max_score, score_stddev, query_hash,
			processing_time_ms, success, adjustment_reason, created_at
		 FROM retrieval_metrics
		 WHERE tenant_id = ? AND provider = ? AND model = ? AND created_at >= ?
		 ORDER BY created_at DESC`,
		tenantID, provider, model, since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query retrieval metrics: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var metrics []RetrievalMetric
	for rows.Next() {
		var m RetrievalMetric
		var threshold sql.NullFloat64
		if err := rows.Scan(
			&m.TenantID, &m.Provider, &m.Model, &threshold, &m.ResultsFound,
			&m.AvgScore, &m.MinScore, &m.MaxScore, &m.ScoreStdDev, &m.QueryHash,
			&m.ProcessingTimeMs, &m.Success, &m.AdjustmentReason, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan retrieval metric: %w", err)
		}
		if threshold.Valid {
			v := float32(threshold.Float64)
			m.ThresholdUsed = &v
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return metrics, nil
}
