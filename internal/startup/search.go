// File: internal/startup/search.go
package startup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	es "startupteam_backend/internal/platform/elasticsearch"
)

// SearchIndex keeps a full-text index of startups.
type SearchIndex interface {
	Index(ctx context.Context, s *Startup) error
	Search(ctx context.Context, q ExploreQuery, page common.PaginationQuery) ([]uuid.UUID, int64, error)
	BulkIndex(ctx context.Context, startups []Startup) (int, error)
}

type startupDocument struct {
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Description string    `json:"description"`
	Industry    string    `json:"industry"`
	Stage       string    `json:"stage"`
	TeamSize    string    `json:"team_size"`
	Location    string    `json:"location"`
	Slug        string    `json:"slug"`
	IsActive    bool      `json:"is_active"`
	ViewCount   int64     `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDocument(s *Startup) startupDocument {
	return startupDocument{
		Name:        s.Name,
		Tagline:     s.Tagline,
		Description: s.Description,
		Industry:    s.Industry,
		Stage:       s.Stage,
		TeamSize:    s.TeamSize,
		Location:    s.Location,
		Slug:        s.Slug,
		IsActive:    s.IsActive,
		ViewCount:   s.ViewCount,
		CreatedAt:   s.CreatedAt,
	}
}

// ESIndex is the Elasticsearch-backed SearchIndex.
type ESIndex struct {
	client *es.ESClientWrapper
	logger *zap.Logger
}

// NewSearchIndex returns nil when client is nil, meaning search indexing is
// disabled and explore queries go straight to the database.
func NewSearchIndex(client *es.ESClientWrapper, logger *zap.Logger) SearchIndex {
	if client == nil {
		return nil
	}
	return &ESIndex{client: client, logger: logger.Named("startup_search")}
}

func (i *ESIndex) Index(ctx context.Context, s *Startup) error {
	body, err := json.Marshal(toDocument(s))
	if err != nil {
		return fmt.Errorf("marshal startup document: %w", err)
	}
	res, err := esapi.IndexRequest{
		Index:      es.StartupsIndexName,
		DocumentID: s.ID.String(),
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("index startup %s: %w", s.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return es.DecodeError(res.Status(), res.Body)
	}
	return nil
}

func buildSearchQuery(q ExploreQuery, page common.PaginationQuery) map[string]interface{} {
	filters := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"is_active": true}},
	}
	if q.Industry != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"industry": q.Industry}})
	}
	if q.Stage != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"stage": q.Stage}})
	}

	var must []interface{}
	if term := strings.TrimSpace(q.Search); term != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     term,
				"fields":    []string{"name^3", "tagline^2", "description"},
				"fuzziness": "AUTO",
			},
		})
	}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		must = append(must, map[string]interface{}{"match": map[string]interface{}{"location": loc}})
	}

	boolQuery := map[string]interface{}{"filter": filters}
	if len(must) > 0 {
		boolQuery["must"] = must
	}

	return map[string]interface{}{
		"query":            map[string]interface{}{"bool": boolQuery},
		"from":             page.Offset(),
		"size":             page.Limit(),
		"_source":          false,
		"track_total_hits": true,
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns the ids of matching startups in rank order and the total hit count.
func (i *ESIndex) Search(ctx context.Context, q ExploreQuery, page common.PaginationQuery) ([]uuid.UUID, int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildSearchQuery(q, page)); err != nil {
		return nil, 0, fmt.Errorf("encode search query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(es.StartupsIndexName),
		i.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search startups: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, es.DecodeError(res.Status(), res.Body)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			i.logger.Warn("Skipping search hit with invalid id", zap.String("id", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, parsed.Hits.Total.Value, nil
}

// BulkIndex writes startups through the bulk API and returns how many were indexed.
func (i *ESIndex) BulkIndex(ctx context.Context, startups []Startup) (int, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client: i.client.Client,
		Index:  es.StartupsIndexName,
	})
	if err != nil {
		return 0, fmt.Errorf("create bulk indexer: %w", err)
	}

	for idx := range startups {
		s := &startups[idx]
		body, err := json.Marshal(toDocument(s))
		if err != nil {
			return 0, fmt.Errorf("marshal startup document: %w", err)
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: s.ID.String(),
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				i.logger.Warn("Bulk index item failed",
					zap.String("startupID", item.DocumentID),
					zap.String("reason", res.Error.Reason),
					zap.Error(err))
			},
		})
		if err != nil {
			return 0, fmt.Errorf("queue startup %s: %w", s.ID, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("flush bulk indexer: %w", err)
	}
	stats := bi.Stats()
	return int(stats.NumIndexed), nil
}
