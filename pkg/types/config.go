// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-rank/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// VectorIndexConfig holds settings for the semantic vector index service.
type VectorIndexConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the vector index service endpoint (e.g. "http://localhost:6333").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is an optional authentication key for the index service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// StoreConfig holds settings for the local paper/citation/interaction store.
type StoreConfig struct {
	// DataDir is the directory containing the SQLite database (index/papers.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// PapersDir is the directory containing paper metadata YAML files for ingest.
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`
}

// SearchConfig holds settings for graph-enhanced search.
type SearchConfig struct {
	// Limit is the number of final results to return (default 10).
	Limit int `json:"limit" yaml:"limit"`

	// Overfetch multiplies Limit when querying the vector index so the
	// diversity selector has a pool to choose from (default 3).
	Overfetch int `json:"overfetch" yaml:"overfetch"`

	// IncludeFoundations controls whether missing foundational papers are
	// injected into the result pool (default true).
	IncludeFoundations bool `json:"include_foundations" yaml:"include_foundations"`

	// MinFoundationCitations is the minimum number of in-pool papers that
	// must cite a paper for it to count as a missing foundation (default 3).
	MinFoundationCitations int `json:"min_foundation_citations" yaml:"min_foundation_citations"`

	// MaxFoundations caps the number of injected foundation papers (default 2).
	MaxFoundations int `json:"max_foundations" yaml:"max_foundations"`
}

// RecommendConfig holds settings for the recommendation engine.
type RecommendConfig struct {
	// Limit is the number of recommendations to return (default 20).
	Limit int `json:"limit" yaml:"limit"`

	// LookbackDays is the interaction history window in days (default 90).
	// Papers interacted with inside the window are never recommended.
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`

	// MMRLambda balances relevance against redundancy in diversity
	// selection (default 0.3).
	MMRLambda float64 `json:"mmr_lambda" yaml:"mmr_lambda"`

	// CandidatePoolSize bounds the candidate scan for content-based
	// scoring (default 1000).
	CandidatePoolSize int `json:"candidate_pool_size" yaml:"candidate_pool_size"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Vector    VectorIndexConfig `json:"vector" yaml:"vector"`
	Store     StoreConfig       `json:"store" yaml:"store"`
	Search    SearchConfig      `json:"search" yaml:"search"`
	Recommend RecommendConfig   `json:"recommend" yaml:"recommend"`
}
