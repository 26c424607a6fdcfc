// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"testing"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

func chunk(paperID string, chunkIndex int, finalScore float64) types.Chunk {
	return types.Chunk{PaperID: paperID, ChunkIndex: chunkIndex, FinalScore: finalScore}
}

func foundationChunk(paperID string, finalScore float64) types.Chunk {
	c := chunk(paperID, 0, finalScore)
	c.Graph.IsFoundational = true
	c.Source = "foundation"
	return c
}

func TestSelectDiverseKeepsTopChunk(t *testing.T) {
	pool := []types.Chunk{
		chunk("a", 0, 0.9),
		chunk("b", 0, 0.8),
		chunk("a", 1, 0.7),
	}

	got := SelectDiverse(pool, 1)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].PaperID != "a" || got[0].ChunkIndex != 0 {
		t.Errorf("top selection = %s/%d, want a/0", got[0].PaperID, got[0].ChunkIndex)
	}
}

func TestSelectDiverseKeepsFoundations(t *testing.T) {
	pool := []types.Chunk{
		foundationChunk("f", 1.5),
		chunk("a", 0, 0.9),
		chunk("b", 0, 0.8),
		chunk("c", 0, 0.7),
	}

	got := SelectDiverse(pool, 3)
	found := false
	for _, c := range got {
		if c.PaperID == "f" {
			found = true
		}
	}
	if !found {
		t.Error("foundation chunk missing from selection")
	}
	// Foundation has the highest score, so it is also the top pick.
	if got[0].PaperID != "f" {
		t.Errorf("got[0] = %s, want f", got[0].PaperID)
	}
}

func TestSelectDiversePrefersOneChunkPerPaper(t *testing.T) {
	pool := []types.Chunk{
		chunk("a", 0, 0.9),
		chunk("a", 1, 0.85),
		chunk("a", 2, 0.8),
		chunk("b", 0, 0.5),
		chunk("c", 0, 0.4),
	}

	got := SelectDiverse(pool, 3)
	papers := map[string]bool{}
	for _, c := range got {
		papers[c.PaperID] = true
	}
	// Diversity beats score: one chunk per paper before paper "a" repeats.
	for _, want := range []string{"a", "b", "c"} {
		if !papers[want] {
			t.Errorf("paper %s missing from %v", want, got)
		}
	}
}

func TestSelectDiverseFillsWithRepeatsAfterCoverage(t *testing.T) {
	pool := []types.Chunk{
		chunk("a", 0, 0.9),
		chunk("a", 1, 0.85),
		chunk("b", 0, 0.5),
	}

	got := SelectDiverse(pool, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Both "a" chunks plus "b" must be present.
	seen := map[string]int{}
	for _, c := range got {
		seen[c.PaperID]++
	}
	if seen["a"] != 2 || seen["b"] != 1 {
		t.Errorf("seen = %v", seen)
	}
}

func TestSelectDiverseProperties(t *testing.T) {
	// Output length == min(limit, len(pool)); no duplicate (paper, chunk)
	// pairs; every output chunk came from the pool.
	var pool []types.Chunk
	for p := 0; p < 5; p++ {
		for i := 0; i < 4; i++ {
			pool = append(pool, chunk(fmt.Sprintf("p%d", p), i, float64(20-p*4-i)/20))
		}
	}
	pool[3] = foundationChunk("f", 1.5)

	for _, limit := range []int{1, 3, 5, 10, 20, 50} {
		got := SelectDiverse(pool, limit)

		wantLen := limit
		if len(pool) < limit {
			wantLen = len(pool)
		}
		if len(got) != wantLen {
			t.Errorf("limit %d: len = %d, want %d", limit, len(got), wantLen)
		}

		seen := map[string]bool{}
		for _, c := range got {
			key := fmt.Sprintf("%s/%d", c.PaperID, c.ChunkIndex)
			if seen[key] {
				t.Errorf("limit %d: duplicate chunk %s", limit, key)
			}
			seen[key] = true
		}
	}
}

func TestSelectDiverseEmptyAndZeroLimit(t *testing.T) {
	if got := SelectDiverse(nil, 5); got != nil {
		t.Errorf("nil pool: got %v", got)
	}
	if got := SelectDiverse([]types.Chunk{chunk("a", 0, 1)}, 0); got != nil {
		t.Errorf("zero limit: got %v", got)
	}
}

func TestGroupByPaper(t *testing.T) {
	selected := []types.Chunk{
		{PaperID: "a", Title: "Paper A", ChunkIndex: 0, Score: 0.9, FinalScore: 1.1, ChunkText: "t1"},
		{PaperID: "b", Title: "Paper B", ChunkIndex: 0, Score: 0.8, FinalScore: 1.3, ChunkText: "t2"},
		{PaperID: "a", Title: "Paper A", ChunkIndex: 2, Score: 0.7, FinalScore: 0.7, ChunkText: "t3"},
	}

	results := GroupByPaper(selected)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	// Ordered by max final score: b (1.3) before a (1.1).
	if results[0].PaperID != "b" {
		t.Errorf("results[0] = %s, want b", results[0].PaperID)
	}
	if results[1].PaperID != "a" {
		t.Errorf("results[1] = %s, want a", results[1].PaperID)
	}
	if len(results[1].Chunks) != 2 {
		t.Errorf("paper a chunks = %d, want 2", len(results[1].Chunks))
	}
	if results[1].MaxScore != 1.1 {
		t.Errorf("paper a MaxScore = %f, want 1.1", results[1].MaxScore)
	}
}

func TestCentralPapers(t *testing.T) {
	edges := []types.CitationEdge{
		{Source: "a", Target: "x"},
		{Source: "b", Target: "x"},
		{Source: "c", Target: "y"},
	}
	got := CentralPapers(edges)
	if len(got) != 1 || got[0] != "x" {
		t.Errorf("CentralPapers = %v, want [x]", got)
	}
}
