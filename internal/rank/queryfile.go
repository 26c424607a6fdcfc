// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results. A
// saved search can be reloaded later without re-querying the index.
type QueryFile struct {
	Query    string              `yaml:"query"`
	Options  QueryFileOptions    `yaml:"options"`
	Results  []types.PaperResult `yaml:"results"`
	Insights types.GraphInsights `yaml:"graph_insights"`
	Summary  QuerySummary        `yaml:"summary"`
}

// QueryFileOptions stores the search options that produced the results.
type QueryFileOptions struct {
	Limit                  int  `yaml:"limit"`
	IncludeFoundations     bool `yaml:"include_foundations"`
	MinFoundationCitations int  `yaml:"min_foundation_citations"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	TotalPapers int       `yaml:"total_papers"`
	Timestamp   time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a search response to a YAML file.
func WriteQueryFile(path string, opts Options, resp types.SearchResponse) error {
	qf := QueryFile{
		Query: resp.Query,
		Options: QueryFileOptions{
			Limit:                  opts.Limit,
			IncludeFoundations:     opts.IncludeFoundations,
			MinFoundationCitations: opts.MinFoundationCitations,
		},
		Results:  resp.Results,
		Insights: resp.Insights,
		Summary: QuerySummary{
			TotalPapers: len(resp.Results),
			Timestamp:   time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved search from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
