package game

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const recordMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"player_id": { "type": "keyword" },
			"outcome": { "type": "keyword" },
			"bet": { "type": "long" },
			"insurance": { "type": "boolean" },
			"dealer_cards": { "type": "keyword" },
			"dealer_score": { "type": "integer" },
			"hands": {
				"type": "nested",
				"properties": {
					"cards": { "type": "keyword" },
					"score": { "type": "integer" },
					"doubled": { "type": "boolean" },
					"busted": { "type": "boolean" }
				}
			},
			"settled_at": { "type": "date" }
		}
	}
}`

// ElasticsearchConfig configures the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// ElasticsearchRepository implements the Repository interface using
// Elasticsearch. Records land in a single <prefix>_games index.
type ElasticsearchRepository struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticsearchRepository creates a new Elasticsearch repository and
// ensures the games index exists.
func NewElasticsearchRepository(config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "dealerbot"
	}

	repo := &ElasticsearchRepository{
		client: client,
		index:  prefix + "_games",
	}
	if err := repo.initIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}
	return repo, nil
}

func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != 404 {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(recordMapping)),
	}
	createRes, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating index: %s", createRes.String())
	}
	return nil
}

// SaveRecord indexes a settled session
func (r *ElasticsearchRepository) SaveRecord(ctx context.Context, record *Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error indexing record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing record: %s", res.String())
	}
	return nil
}

// GetPlayerRecords retrieves a player's settled sessions
func (r *ElasticsearchRepository) GetPlayerRecords(ctx context.Context, playerID string) ([]*Record, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"player_id": playerID,
			},
		},
		"sort": []map[string]interface{}{
			{"settled_at": map[string]interface{}{"order": "asc"}},
		},
		"size": 1000,
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("error searching records: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching records: %s", res.String())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source *Record `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("error parsing search response: %w", err)
	}

	records := make([]*Record, 0, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		records = append(records, hit.Source)
	}
	return records, nil
}

// Close is a no-op; the underlying HTTP client needs no shutdown
func (r *ElasticsearchRepository) Close() error {
	return nil
}
