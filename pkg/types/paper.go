// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds the relational metadata for one paper.
type Paper struct {
	// ID is the canonical paper identifier (arXiv ID with the version
	// suffix stripped, e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists the subject categories (e.g. "cs.AI").
	Categories []string `json:"categories" yaml:"categories"`

	// Published is the publication or preprint date.
	Published time.Time `json:"published" yaml:"published"`

	// CitationCount is the global citation count.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// InfluentialCitationCount counts citations judged influential by the
	// upstream citation source.
	InfluentialCitationCount int `json:"influential_citation_count" yaml:"influential_citation_count"`
}

// seminalThreshold is the citation count above which a paper counts as seminal.
const seminalThreshold = 100

// GraphMetadata is the per-paper, read-only view of the citation graph used
// during one ranking request.
type GraphMetadata struct {
	CitationCount            int `json:"citation_count"`
	InfluentialCitationCount int `json:"influential_citation_count"`

	// CitedByResults counts in-result citation edges pointing at this paper.
	CitedByResults int `json:"cited_by_results"`

	// IsSeminal reports whether the citation count exceeds the seminal threshold.
	IsSeminal bool `json:"is_seminal"`

	// IsFoundational marks papers injected by the foundation augmenter.
	IsFoundational bool `json:"is_foundational"`
}

// Seminal reports whether a citation count crosses the seminal threshold.
func Seminal(citationCount int) bool {
	return citationCount > seminalThreshold
}
