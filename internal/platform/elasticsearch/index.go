// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const StartupsIndexName = "startups"

func startupsMapping() (string, error) {
	keyword := map[string]interface{}{"type": "keyword"}
	text := map[string]interface{}{"type": "text"}
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"name":        map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": keyword}},
				"tagline":     text,
				"description": text,
				"industry":    keyword,
				"stage":       keyword,
				"team_size":   keyword,
				"location":    map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": keyword}},
				"slug":        keyword,
				"is_active":   map[string]interface{}{"type": "boolean"},
				"view_count":  map[string]interface{}{"type": "long"},
				"created_at":  map[string]interface{}{"type": "date"},
			},
		},
	}
	b, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling startups mapping to JSON: %w", err)
	}
	return string(b), nil
}

// CreateStartupsIndexIfNotExists creates the startups index with its mapping
// if it does not already exist.
func CreateStartupsIndexIfNotExists(ctx context.Context, client *ESClientWrapper, logger *zap.Logger) error {
	log := logger.Named("elasticsearch_index_setup")

	res, err := esapi.IndicesExistsRequest{Index: []string{StartupsIndexName}}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error checking if startups index exists: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		log.Debug("Startups index already exists", zap.String("index_name", StartupsIndexName))
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("error checking if startups index exists: status %s", res.Status())
	}

	mappingJSON, err := startupsMapping()
	if err != nil {
		return err
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: StartupsIndexName,
		Body:  strings.NewReader(mappingJSON),
	}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error creating startups index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return DecodeError(createRes.Status(), createRes.Body)
	}

	log.Info("Startups index created", zap.String("index_name", StartupsIndexName))
	return nil
}
