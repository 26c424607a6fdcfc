// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vector is the HTTP client for the semantic vector index service.
// The index owns the embedding model; this client only sends query text and
// receives similarity-scored chunks.
package vector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/scholar-rank/internal/httputil"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

// Client queries the vector index over its REST API.
type Client struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	HTTP      *http.Client
}

// NewClient builds a Client from configuration.
func NewClient(cfg types.VectorIndexConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
		HTTP:      &http.Client{Timeout: timeout},
	}
}

// searchRequest is the wire format of a similarity search. PaperID, when
// set, scopes the search to excerpts of that single paper.
type searchRequest struct {
	Query   string `json:"query"`
	Limit   int    `json:"limit"`
	PaperID string `json:"paper_id,omitempty"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
}

type searchHit struct {
	PaperID      string   `json:"paper_id"`
	Title        string   `json:"title"`
	ChunkText    string   `json:"chunk_text"`
	SectionTitle string   `json:"section_title"`
	ChunkIndex   int      `json:"chunk_index"`
	Categories   []string `json:"categories"`
	Published    string   `json:"published"`
	Score        float64  `json:"score"`
}

// Search returns the top similarity-scored chunks for a query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]types.Chunk, error) {
	return c.search(ctx, searchRequest{Query: query, Limit: limit})
}

// SearchPaper returns the top chunks for a query scoped to one paper. It is
// used by the foundation augmenter to fetch a representative excerpt.
func (c *Client) SearchPaper(ctx context.Context, query, paperID string, limit int) ([]types.Chunk, error) {
	return c.search(ctx, searchRequest{Query: query, Limit: limit, PaperID: paperID})
}

func (c *Client) search(ctx context.Context, req searchRequest) ([]types.Chunk, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("empty vector index query")
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	headers := map[string]string{}
	if c.UserAgent != "" {
		headers["User-Agent"] = c.UserAgent
	}
	if c.APIKey != "" {
		headers["api-key"] = c.APIKey
	}

	var resp searchResponse
	if err := httputil.PostJSON(ctx, c.HTTP, c.BaseURL+"/search", headers, req, &resp); err != nil {
		return nil, fmt.Errorf("vector index search: %w", err)
	}

	chunks := make([]types.Chunk, 0, len(resp.Results))
	for _, hit := range resp.Results {
		chunk := types.Chunk{
			PaperID:      hit.PaperID,
			Title:        hit.Title,
			ChunkText:    hit.ChunkText,
			SectionTitle: hit.SectionTitle,
			ChunkIndex:   hit.ChunkIndex,
			Categories:   hit.Categories,
			Score:        hit.Score,
			Source:       "vector",
		}
		if hit.Published != "" {
			if t, err := time.Parse("2006-01-02", hit.Published); err == nil {
				chunk.Published = t
			} else if t, err := time.Parse(time.RFC3339, hit.Published); err == nil {
				chunk.Published = t
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
