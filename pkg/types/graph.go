// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationEdge is a directed citation between two papers in a result pool.
type CitationEdge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Foundation describes a paper cited by several results but absent from the
// pool itself.
type Foundation struct {
	PaperID string `json:"paper_id" yaml:"paper_id"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`

	// TotalCitations is the paper's global citation count.
	TotalCitations int `json:"total_citations" yaml:"total_citations"`

	// CitedByResults counts how many in-pool papers cite it.
	CitedByResults int `json:"cited_by_results" yaml:"cited_by_results"`
}

// CitationDirection selects which side of the citation edge to traverse.
type CitationDirection string

const (
	// DirectionCites walks from a paper to the papers it cites.
	DirectionCites CitationDirection = "cites"

	// DirectionCitedBy walks from a paper to the papers citing it.
	DirectionCitedBy CitationDirection = "cited_by"
)

// GraphNeighbor is a paper discovered by a graph traversal.
type GraphNeighbor struct {
	PaperID       string `json:"paper_id" yaml:"paper_id"`
	CitationCount int    `json:"citation_count" yaml:"citation_count"`
}
