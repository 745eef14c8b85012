package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks ragbot/internal/vectorstore Store

import (
	"context"
	"errors"
)

// ErrNamespaceNotFound is returned when an operation targets a tenant
// namespace that has not been created. Callers on the retrieval path are
// expected to check NamespaceExists first and treat absence as "no documents
// yet" rather than a failure.
var ErrNamespaceNotFound = errors.New("namespace not found")

// Chunk is a retrieved document fragment with its similarity score.
// Chunks are produced by Search and never mutated afterwards.
type Chunk struct {
	ID       string
	Text     string
	Score    float32
	Metadata map[string]any
}

// NamespaceStats describes a tenant namespace.
type NamespaceStats struct {
	VectorCount int
	VectorSize  int
	Status      string
}

// Store is a tenant-isolated similarity index. Each tenant maps to a
// deterministically named namespace; no operation may cross tenants.
type Store interface {
	// CreateNamespace creates the tenant's namespace with the given vector size.
	// Creating an existing namespace is a no-op.
	CreateNamespace(ctx context.Context, tenantID string, dim int) error

	// NamespaceExists reports whether the tenant's namespace has been created.
	NamespaceExists(ctx context.Context, tenantID string) (bool, error)

	// Upsert stores embeddings with their source texts and metadata, returning
	// the point IDs. If ids is nil, fresh IDs are generated. A failure in any
	// batch aborts the whole upsert; no partial-success state is reported.
	Upsert(ctx context.Context, tenantID string, embeddings [][]float32, texts []string, metadata []map[string]any, ids []string) ([]string, error)

	// Search returns up to topK chunks ordered by descending similarity.
	// A nil scoreThreshold accepts any score. The tenant filter is always
	// injected; filter adds caller metadata conditions on top. Equal scores
	// have engine-defined order.
	Search(ctx context.Context, tenantID string, query []float32, topK int, scoreThreshold *float32, filter map[string]any) ([]Chunk, error)

	// Delete removes points by ID within the tenant's namespace.
	Delete(ctx context.Context, tenantID string, ids []string) error

	// DeleteNamespace removes the tenant's namespace. Deleting a missing
	// namespace succeeds.
	DeleteNamespace(ctx context.Context, tenantID string) error

	// Stats returns point count and vector size for the tenant's namespace.
	Stats(ctx context.Context, tenantID string) (*NamespaceStats, error)
}
