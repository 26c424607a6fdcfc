// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Recommendation is one recommended paper with its aggregated score and the
// human-readable reasons that produced it.
type Recommendation struct {
	PaperID       string    `json:"paper_id" yaml:"paper_id"`
	Title         string    `json:"title" yaml:"title"`
	Abstract      string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Authors       []string  `json:"authors,omitempty" yaml:"authors,omitempty"`
	Categories    []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Published     time.Time `json:"published,omitempty" yaml:"published,omitempty"`
	CitationCount int       `json:"citation_count" yaml:"citation_count"`

	// Score is the aggregated recommendation score. It is comparable only
	// within one response.
	Score float64 `json:"recommendation_score" yaml:"recommendation_score"`

	// Reasons explains the recommendation, capped at a small display count.
	Reasons []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}
