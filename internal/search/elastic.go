package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/Paintersrp/notesearch/internal/config"
)

const (
	searchAnalyzer   = "rebuilt_standard"
	highlightedField = "content"
)

// ErrMalformedHit is returned when a hosted hit id is not a note id.
var ErrMalformedHit = errors.New("malformed search hit")

// Indexable is a note that can be projected into the hosted index.
type Indexable interface {
	DocumentID() int
	Searchable() map[string]any
}

// ElasticEngine answers queries from a hosted Elasticsearch index. A zero
// client makes every operation a no-op.
type ElasticEngine struct {
	client *elasticsearch.Client
	index  string
	logger *slog.Logger
}

// NewElasticEngine builds the hosted engine. No client is created unless the
// configured engine is elasticsearch.
func NewElasticEngine(cfg config.SearchConfig, logger *slog.Logger) (*ElasticEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	e := &ElasticEngine{index: cfg.IndexName, logger: logger}
	if cfg.Engine != config.EngineElasticsearch || !cfg.Elasticsearch.Enabled() {
		return e, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		APIKey:    cfg.Elasticsearch.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("search: create elasticsearch client: %w", err)
	}
	e.client = client
	return e, nil
}

// Configured reports whether a client exists, without contacting the server.
func (e *ElasticEngine) Configured() bool {
	return e != nil && e.client != nil
}

// reachable pings the cluster. Failures are logged and treated as "no hosted
// backend".
func (e *ElasticEngine) reachable(ctx context.Context) bool {
	if !e.Configured() {
		return false
	}

	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		e.logger.Warn("elasticsearch unreachable", "err", err)
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		e.logger.Warn("elasticsearch unreachable", "status", res.StatusCode)
		return false
	}
	return true
}

// Index upserts doc keyed by its id. It returns false when no hosted backend
// is configured or reachable.
func (e *ElasticEngine) Index(ctx context.Context, doc Indexable) (bool, error) {
	if !e.reachable(ctx) {
		return false, nil
	}

	body, err := json.Marshal(doc.Searchable())
	if err != nil {
		return false, fmt.Errorf("search: encode document %d: %w", doc.DocumentID(), err)
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(body),
		e.client.Index.WithDocumentID(strconv.Itoa(doc.DocumentID())),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("search: index document %d: %w", doc.DocumentID(), err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return false, responseError("index document", res)
	}
	return true, nil
}

// Remove deletes the document with id. A missing document is not an error.
func (e *ElasticEngine) Remove(ctx context.Context, id int) error {
	if !e.reachable(ctx) {
		return nil
	}

	res, err := e.client.Delete(
		e.index,
		strconv.Itoa(id),
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete document %d: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		e.logger.Debug("document already absent from index", "id", id)
		return nil
	}
	if res.IsError() {
		return responseError("delete document", res)
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string `json:"_id"`
			Source struct {
				Title string `json:"title"`
			} `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildQuery(text string) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":    text,
				"fields":   []string{"*"},
				"analyzer": searchAnalyzer,
			},
		},
		"highlight": map[string]any{
			"fragment_size": 0,
			"fields": map[string]any{
				highlightedField: map[string]any{
					"pre_tags":  []string{""},
					"post_tags": []string{""},
				},
			},
		},
	}
}

// Search runs a multi-field match query. Matches hold the highlighted content;
// with q.Strict, hits whose highlighted text lacks the literal query are
// dropped.
func (e *ElasticEngine) Search(ctx context.Context, q Query) ([]Result, error) {
	if !e.reachable(ctx) {
		return []Result{}, nil
	}

	body, err := json.Marshal(buildQuery(q.Text))
	if err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search: query index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError("query index", res)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := strconv.Atoi(hit.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: id %q", ErrMalformedHit, hit.ID)
		}

		matches := hit.Highlight[highlightedField]
		if q.Strict && !strings.Contains(strings.Join(matches, " "), q.Text) {
			continue
		}

		results = append(results, Result{
			ID:      id,
			Title:   hit.Source.Title,
			Matches: matches,
		})
	}
	return results, nil
}

func responseError(op string, res *esapi.Response) error {
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("search: %s: elasticsearch returned %s: %s", op, res.Status(), strings.TrimSpace(string(msg)))
}
