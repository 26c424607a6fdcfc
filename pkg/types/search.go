// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Chunk is one excerpt of a paper returned by the semantic index, carrying
// its base similarity score and, after re-ranking, its final score.
type Chunk struct {
	// PaperID is the canonical paper identifier.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// ChunkText is the excerpt text.
	ChunkText string `json:"chunk_text" yaml:"chunk_text"`

	// SectionTitle names the section the excerpt was taken from.
	SectionTitle string `json:"section_title,omitempty" yaml:"section_title,omitempty"`

	// ChunkIndex is the excerpt's position within its paper.
	ChunkIndex int `json:"chunk_index" yaml:"chunk_index"`

	// Categories lists the paper's subject categories.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Published is the paper's publication date.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// Score is the similarity score assigned by the semantic index.
	Score float64 `json:"score" yaml:"score"`

	// FinalScore is the score after graph boosts. Zero until re-ranked.
	FinalScore float64 `json:"final_score" yaml:"final_score"`

	// Graph carries the citation-graph metadata attached during re-ranking.
	Graph GraphMetadata `json:"graph_metadata" yaml:"graph_metadata"`

	// Source identifies where the chunk came from ("vector" or "foundation").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Excerpt is a chunk reduced to its display fields after grouping by paper.
type Excerpt struct {
	ChunkText    string  `json:"chunk_text" yaml:"chunk_text"`
	SectionTitle string  `json:"section_title,omitempty" yaml:"section_title,omitempty"`
	ChunkIndex   int     `json:"chunk_index" yaml:"chunk_index"`
	Score        float64 `json:"score" yaml:"score"`
}

// PaperResult groups the selected chunks of one paper for the response.
type PaperResult struct {
	PaperID    string        `json:"paper_id" yaml:"paper_id"`
	Title      string        `json:"title" yaml:"title"`
	Published  time.Time     `json:"published,omitempty" yaml:"published,omitempty"`
	Categories []string      `json:"categories,omitempty" yaml:"categories,omitempty"`
	Chunks     []Excerpt     `json:"chunks" yaml:"chunks"`
	Graph      GraphMetadata `json:"graph_metadata" yaml:"graph_metadata"`
	MaxScore   float64       `json:"max_score" yaml:"max_score"`
}

// GraphInsights summarizes what the citation graph contributed to a search.
type GraphInsights struct {
	// TotalPapers is the number of distinct papers in the initial pool.
	TotalPapers int `json:"total_papers" yaml:"total_papers"`

	// InternalCitations counts citation edges between papers in the pool.
	InternalCitations int `json:"internal_citations" yaml:"internal_citations"`

	// FoundationalPapersAdded counts papers injected by the augmenter.
	FoundationalPapersAdded int `json:"foundational_papers_added" yaml:"foundational_papers_added"`

	// CentralPapers lists papers cited by at least two other results.
	CentralPapers []string `json:"central_papers,omitempty" yaml:"central_papers,omitempty"`
}

// SearchResponse is the paper-grouped result of a graph-enhanced search.
type SearchResponse struct {
	Query    string        `json:"query" yaml:"query"`
	Results  []PaperResult `json:"results" yaml:"results"`
	Insights GraphInsights `json:"graph_insights" yaml:"graph_insights"`
}
