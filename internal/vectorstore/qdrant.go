package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"ragbot/internal/contextutil"
)

// upsertBatchSize bounds single-request payload size. A failed batch aborts
// the whole upsert; retry or rollback happens at a higher level.
const upsertBatchSize = 100

// payload keys reserved by the store. Caller metadata may not overwrite them.
const (
	payloadText     = "text"
	payloadTenantID = "tenant_id"
)

// QdrantStore implements Store using Qdrant, one collection per tenant.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore creates a new Qdrant-backed store.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{client: client}, nil
}

// CreateNamespace creates the tenant's namespace with the given vector size.
func (s *QdrantStore) CreateNamespace(ctx context.Context, tenantID string, dim int) error {
	logger := contextutil.LoggerFromContext(ctx)

	name, err := NamespaceName(tenantID)
	if err != nil {
		return err
	}
	if dim <= 0 {
		return fmt.Errorf("vector size must be greater than 0")
	}

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check namespace existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create namespace: %w", err)
	}

	logger.InfoContext(ctx, "namespace created", "tenant_id", tenantID, "vector_size", dim)
	return nil
}

// NamespaceExists reports whether the tenant's namespace has been created.
func (s *QdrantStore) NamespaceExists(ctx context.Context, tenantID string) (bool, error) {
	name, err := NamespaceName(tenantID)
	if err != nil {
		return false, err
	}
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to check namespace existence: %w", err)
	}
	return exists, nil
}

// Upsert stores embeddings with their source texts and metadata in fixed-size
// batches, returning the point IDs in input order.
func (s *QdrantStore) Upsert(ctx context.Context, tenantID string, embeddings [][]float32, texts []string, metadata []map[string]any, ids []string) ([]string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	name, err := NamespaceName(tenantID)
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, nil
	}
	if len(texts) != len(embeddings) {
		return nil, fmt.Errorf("got %d embeddings but %d texts", len(embeddings), len(texts))
	}
	if metadata != nil && len(metadata) != len(embeddings) {
		return nil, fmt.Errorf("got %d embeddings but %d metadata entries", len(embeddings), len(metadata))
	}
	if ids != nil && len(ids) != len(embeddings) {
		return nil, fmt.Errorf("got %d embeddings but %d ids", len(embeddings), len(ids))
	}

	if ids == nil {
		ids = make([]string, len(embeddings))
		for i := range ids {
			ids[i] = uuid.NewString()
		}
	}

	points := make([]*qdrant.PointStruct, 0, len(embeddings))
	for i, vec := range embeddings {
		payload := make(map[string]any, 2)
		for k, v := range metadataAt(metadata, i) {
			if k == payloadText || k == payloadTenantID {
				continue
			}
			payload[k] = v
		}
		payload[payloadText] = texts[i]
		payload[payloadTenantID] = tenantID

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(ids[i]),
			Vectors: qdrant.NewVectors(vec...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: name,
			Points:         points[start:end],
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to upsert points",
				"tenant_id", tenantID, "batch_start", start, "batch_size", end-start, "error", err)
			return nil, fmt.Errorf("failed to upsert points: %w", err)
		}
	}

	logger.InfoContext(ctx, "upserted points", "tenant_id", tenantID, "count", len(points))
	return ids, nil
}

// Search returns up to topK chunks ordered by descending similarity.
// The tenant equality filter is injected on every query as defense-in-depth on
// top of the namespace isolation. Equal scores have engine-defined order.
func (s *QdrantStore) Search(ctx context.Context, tenantID string, query []float32, topK int, scoreThreshold *float32, filter map[string]any) ([]Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	name, err := NamespaceName(tenantID)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be greater than 0")
	}

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check namespace existence: %w", err)
	}
	if !exists {
		return nil, ErrNamespaceNotFound
	}

	mustConditions := []*qdrant.Condition{
		qdrant.NewMatch(payloadTenantID, tenantID),
	}
	for field, value := range filter {
		switch v := value.(type) {
		case string:
			mustConditions = append(mustConditions, qdrant.NewMatch(field, v))
		case int:
			mustConditions = append(mustConditions, qdrant.NewMatchInt(field, int64(v)))
		case int64:
			mustConditions = append(mustConditions, qdrant.NewMatchInt(field, v))
		case bool:
			mustConditions = append(mustConditions, qdrant.NewMatchBool(field, v))
		default:
			logger.WarnContext(ctx, "unsupported filter value type, skipping condition",
				"field", field, "type", fmt.Sprintf("%T", value))
		}
	}

	limit := uint64(topK)
	queryReq := &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		Filter:         &qdrant.Filter{Must: mustConditions},
		WithPayload:    qdrant.NewWithPayload(true),
		ScoreThreshold: scoreThreshold,
	}

	scoredPoints, err := s.client.Query(ctx, queryReq)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "tenant_id", tenantID, "top_k", topK, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	chunks := make([]Chunk, 0, len(scoredPoints))
	for _, result := range scoredPoints {
		pointID := ""
		if result.Id != nil {
			pointID = result.Id.GetUuid()
		}

		meta := make(map[string]any)
		if result.Payload != nil {
			meta = convertPayloadToMap(result.Payload)
		}

		text, _ := meta[payloadText].(string)
		delete(meta, payloadText)

		chunks = append(chunks, Chunk{
			ID:       pointID,
			Text:     text,
			Score:    result.Score,
			Metadata: meta,
		})
	}

	logger.InfoContext(ctx, "search completed", "tenant_id", tenantID, "top_k", topK, "results", len(chunks))
	return chunks, nil
}

// Delete removes points by ID within the tenant's namespace.
func (s *QdrantStore) Delete(ctx context.Context, tenantID string, ids []string) error {
	logger := contextutil.LoggerFromContext(ctx)

	name, err := NamespaceName(tenantID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	qdrantIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		qdrantIDs = append(qdrantIDs, qdrant.NewID(id))
	}

	_, err = s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: name,
		Points:         qdrant.NewPointsSelector(qdrantIDs...),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete points", "tenant_id", tenantID, "count", len(ids), "error", err)
		return fmt.Errorf("failed to delete points: %w", err)
	}

	logger.InfoContext(ctx, "deleted points", "tenant_id", tenantID, "count", len(ids))
	return nil
}

// DeleteNamespace removes the tenant's namespace. Deleting a namespace that
// does not exist succeeds, so the call is idempotent.
func (s *QdrantStore) DeleteNamespace(ctx context.Context, tenantID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	name, err := NamespaceName(tenantID)
	if err != nil {
		return err
	}

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check namespace existence: %w", err)
	}
	if !exists {
		return nil
	}

	if err := s.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to delete namespace: %w", err)
	}

	logger.InfoContext(ctx, "namespace deleted", "tenant_id", tenantID)
	return nil
}

// Stats returns point count and vector size for the tenant's namespace.
func (s *QdrantStore) Stats(ctx context.Context, tenantID string) (*NamespaceStats, error) {
	name, err := NamespaceName(tenantID)
	if err != nil {
		return nil, err
	}

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check namespace existence: %w", err)
	}
	if !exists {
		return nil, ErrNamespaceNotFound
	}

	info, err := s.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get namespace info: %w", err)
	}

	var vectorSize int
	if config := info.Config; config != nil && config.Params != nil {
		if vectorsConfig := config.Params.GetVectorsConfig(); vectorsConfig != nil {
			if params := vectorsConfig.GetParams(); params != nil {
				vectorSize = int(params.Size)
			}
		}
	}

	var pointsCount int
	if info.PointsCount != nil {
		pointsCount = int(*info.PointsCount)
	}

	status := "unknown"
	if info.Status != 0 {
		status = info.Status.String()
	}

	return &NamespaceStats{
		VectorCount: pointsCount,
		VectorSize:  vectorSize,
		Status:      status,
	}, nil
}

func metadataAt(metadata []map[string]any, i int) map[string]any {
	if metadata == nil {
		return nil
	}
	return metadata[i]
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
