// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"testing"
	"time"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRerankSeminalBoost(t *testing.T) {
	chunks := []types.Chunk{
		{PaperID: "2401.00001", Score: 0.8},
	}
	meta := map[string]types.GraphMetadata{
		"2401.00001": {CitationCount: 500, IsSeminal: true},
	}

	out := Rerank(chunks, meta, nil, "attention", testNow)
	if !almostEqual(out[0].FinalScore, 0.8*1.3) {
		t.Errorf("FinalScore = %f, want %f", out[0].FinalScore, 0.8*1.3)
	}
	if !out[0].Graph.IsSeminal {
		t.Error("Graph.IsSeminal not carried through")
	}
}

func TestRerankCentralityBoost(t *testing.T) {
	chunks := []types.Chunk{
		{PaperID: "2401.00001", Score: 0.5},
	}
	meta := map[string]types.GraphMetadata{
		"2401.00001": {CitationCount: 10},
	}
	edges := []types.CitationEdge{
		{Source: "2401.00002", Target: "2401.00001"},
		{Source: "2401.00003", Target: "2401.00001"},
	}

	out := Rerank(chunks, meta, edges, "attention", testNow)
	// 1 + 0.1 × 2 in-result citations
	if !almostEqual(out[0].FinalScore, 0.5*1.2) {
		t.Errorf("FinalScore = %f, want %f", out[0].FinalScore, 0.5*1.2)
	}
	if out[0].Graph.CitedByResults != 2 {
		t.Errorf("CitedByResults = %d, want 2", out[0].Graph.CitedByResults)
	}
}

func TestRerankRecencyBoost(t *testing.T) {
	published := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{"cue word", "recent transformer work", 0.6 * 1.2},
		{"latest cue", "latest results", 0.6 * 1.2},
		{"current year in query", "transformers 2026", 0.6 * 1.2},
		{"previous year in query", "transformers 2025", 0.6 * 1.2},
		{"no cue", "transformer efficiency", 0.6},
		{"cue inside word does not count", "renewable energy", 0.6},
		{"old year does not count", "transformers 2019", 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := []types.Chunk{
				{PaperID: "2601.00001", Score: 0.6, Published: published},
			}
			meta := map[string]types.GraphMetadata{"2601.00001": {}}

			out := Rerank(chunks, meta, nil, tt.query, testNow)
			if !almostEqual(out[0].FinalScore, tt.want) {
				t.Errorf("FinalScore = %f, want %f", out[0].FinalScore, tt.want)
			}
		})
	}
}

func TestRerankRecencyNeedsMatchingYear(t *testing.T) {
	// Paper published outside {current, current-1} gets no recency boost
	// even for a recency query.
	chunks := []types.Chunk{
		{PaperID: "1706.03762", Score: 0.9, Published: time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC)},
	}
	meta := map[string]types.GraphMetadata{"1706.03762": {}}

	out := Rerank(chunks, meta, nil, "recent advances", testNow)
	if !almostEqual(out[0].FinalScore, 0.9) {
		t.Errorf("FinalScore = %f, want 0.9", out[0].FinalScore)
	}
}

func TestRerankMissingMetadataDefaultsToNoBoost(t *testing.T) {
	chunks := []types.Chunk{
		{PaperID: "2401.00001", Score: 0.7},
	}
	edges := []types.CitationEdge{
		{Source: "2401.00002", Target: "2401.00001"},
	}

	// Metadata map does not know 2401.00001: seminal and centrality stay 1.0.
	out := Rerank(chunks, map[string]types.GraphMetadata{}, edges, "q", testNow)
	if !almostEqual(out[0].FinalScore, 0.7) {
		t.Errorf("FinalScore = %f, want 0.7", out[0].FinalScore)
	}
}

func TestRerankBoostsCompose(t *testing.T) {
	published := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	chunks := []types.Chunk{
		{PaperID: "2601.00001", Score: 0.5, Published: published},
	}
	meta := map[string]types.GraphMetadata{
		"2601.00001": {CitationCount: 200, IsSeminal: true},
	}
	edges := []types.CitationEdge{
		{Source: "2601.00002", Target: "2601.00001"},
	}

	out := Rerank(chunks, meta, edges, "recent work", testNow)
	want := 0.5 * 1.3 * 1.1 * 1.2
	if !almostEqual(out[0].FinalScore, want) {
		t.Errorf("FinalScore = %f, want %f", out[0].FinalScore, want)
	}
}

func TestRerankFinalScoreNeverBelowBase(t *testing.T) {
	chunks := []types.Chunk{
		{PaperID: "2401.00001", Score: 0.9},
		{PaperID: "2401.00002", Score: 0.4},
		{PaperID: "2401.00003", Score: 0.1},
	}
	meta := map[string]types.GraphMetadata{
		"2401.00001": {CitationCount: 500, IsSeminal: true},
		"2401.00002": {},
	}

	out := Rerank(chunks, meta, nil, "q", testNow)
	for _, c := range out {
		if c.FinalScore < c.Score {
			t.Errorf("paper %s: FinalScore %f < base %f", c.PaperID, c.FinalScore, c.Score)
		}
	}
}

func TestRerankSortsByFinalScore(t *testing.T) {
	chunks := []types.Chunk{
		{PaperID: "2401.00001", Score: 0.6},
		{PaperID: "2401.00002", Score: 0.5},
	}
	// The lower base score is seminal and overtakes the higher one.
	meta := map[string]types.GraphMetadata{
		"2401.00002": {CitationCount: 300, IsSeminal: true},
	}

	out := Rerank(chunks, meta, nil, "q", testNow)
	if out[0].PaperID != "2401.00002" {
		t.Errorf("out[0] = %s, want 2401.00002", out[0].PaperID)
	}
}
