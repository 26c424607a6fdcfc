// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

// --- mocks ---

type mockIndex struct {
	chunks      []types.Chunk
	err         error
	paperChunks map[string][]types.Chunk
	paperErr    error
}

func (m *mockIndex) Search(_ context.Context, _ string, _ int) ([]types.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockIndex) SearchPaper(_ context.Context, _ string, paperID string, _ int) ([]types.Chunk, error) {
	if m.paperErr != nil {
		return nil, m.paperErr
	}
	return m.paperChunks[paperID], nil
}

type mockGraph struct {
	meta        map[string]types.GraphMetadata
	edges       []types.CitationEdge
	foundations []types.Foundation
	err         error
}

func (m *mockGraph) GraphMetadata(_ context.Context, _ []string) (map[string]types.GraphMetadata, error) {
	return m.meta, m.err
}

func (m *mockGraph) InternalCitations(_ context.Context, _ []string) ([]types.CitationEdge, error) {
	return m.edges, m.err
}

func (m *mockGraph) MissingFoundations(_ context.Context, _ []string, _, _ int) ([]types.Foundation, error) {
	return m.foundations, m.err
}

func poolChunk(paperID string, idx int, score float64) types.Chunk {
	return types.Chunk{
		PaperID: paperID, Title: "Paper " + paperID, ChunkIndex: idx,
		ChunkText: "text", Score: score, Source: "vector",
	}
}

func newTestEngine(index VectorIndex, graph GraphStore) *Engine {
	e := NewEngine(index, graph)
	e.now = func() time.Time { return time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC) }
	return e
}

// --- Search ---

func TestSearchInjectsFoundations(t *testing.T) {
	// Three pool papers all cite 1706.03762, which is absent from the pool.
	index := &mockIndex{
		chunks: []types.Chunk{
			poolChunk("2401.00001", 0, 0.9),
			poolChunk("2401.00002", 0, 0.8),
			poolChunk("2401.00003", 0, 0.7),
		},
		paperChunks: map[string][]types.Chunk{
			"1706.03762": {poolChunk("1706.03762", 0, 0.6)},
		},
	}
	graph := &mockGraph{
		meta: map[string]types.GraphMetadata{
			"2401.00001": {CitationCount: 12},
			"2401.00002": {CitationCount: 4},
			"2401.00003": {CitationCount: 8},
		},
		foundations: []types.Foundation{
			{PaperID: "1706.03762", TotalCitations: 90000, CitedByResults: 3},
		},
	}

	var warnings bytes.Buffer
	resp, err := newTestEngine(index, graph).Search(context.Background(),
		"transformer efficiency",
		Options{Limit: 4, IncludeFoundations: true, MinFoundationCitations: 3},
		&warnings)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if resp.Insights.FoundationalPapersAdded != 1 {
		t.Errorf("FoundationalPapersAdded = %d, want 1", resp.Insights.FoundationalPapersAdded)
	}
	if resp.Insights.TotalPapers != 3 {
		t.Errorf("TotalPapers = %d, want 3", resp.Insights.TotalPapers)
	}

	// Foundation score 1.5 outranks every re-ranked base score, so the
	// foundation paper leads the grouped results.
	if len(resp.Results) == 0 || resp.Results[0].PaperID != "1706.03762" {
		t.Fatalf("results[0] = %+v, want foundation paper first", resp.Results)
	}
	g := resp.Results[0].Graph
	if !g.IsFoundational || !g.IsSeminal {
		t.Errorf("foundation graph metadata = %+v", g)
	}
}

func TestSearchSkipsFoundationWithoutExcerpt(t *testing.T) {
	index := &mockIndex{
		chunks: []types.Chunk{
			poolChunk("2401.00001", 0, 0.9),
		},
		paperChunks: map[string][]types.Chunk{}, // no excerpt retrievable
	}
	graph := &mockGraph{
		foundations: []types.Foundation{
			{PaperID: "1706.03762", TotalCitations: 90000, CitedByResults: 3},
		},
	}

	var warnings bytes.Buffer
	resp, err := newTestEngine(index, graph).Search(context.Background(), "q",
		Options{Limit: 5, IncludeFoundations: true}, &warnings)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if resp.Insights.FoundationalPapersAdded != 0 {
		t.Errorf("FoundationalPapersAdded = %d, want 0", resp.Insights.FoundationalPapersAdded)
	}
	for _, r := range resp.Results {
		if r.PaperID == "1706.03762" {
			t.Error("foundation without excerpt should not appear")
		}
	}
}

func TestSearchDegradesWhenGraphFails(t *testing.T) {
	index := &mockIndex{
		chunks: []types.Chunk{
			poolChunk("2401.00001", 0, 0.9),
			poolChunk("2401.00002", 0, 0.8),
		},
	}
	graph := &mockGraph{err: errors.New("graph store unreachable")}

	var warnings bytes.Buffer
	resp, err := newTestEngine(index, graph).Search(context.Background(), "q",
		Options{Limit: 2, IncludeFoundations: true}, &warnings)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(resp.Results))
	}
	// Plain similarity ordering survives.
	if resp.Results[0].PaperID != "2401.00001" {
		t.Errorf("results[0] = %s, want 2401.00001", resp.Results[0].PaperID)
	}
	if warnings.Len() == 0 {
		t.Error("expected degradation warnings")
	}
}

func TestSearchWithoutGraphStore(t *testing.T) {
	index := &mockIndex{
		chunks: []types.Chunk{poolChunk("2401.00001", 0, 0.9)},
	}

	var warnings bytes.Buffer
	resp, err := newTestEngine(index, nil).Search(context.Background(), "q",
		Options{Limit: 5, IncludeFoundations: true}, &warnings)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(resp.Results))
	}
	if resp.Insights.FoundationalPapersAdded != 0 {
		t.Error("no foundations expected without a graph store")
	}
}

func TestSearchDropsMalformedIDs(t *testing.T) {
	index := &mockIndex{
		chunks: []types.Chunk{
			poolChunk("2401.00001v2", 0, 0.9), // normalizes fine
			poolChunk("not-an-id", 0, 0.95),   // dropped
		},
	}

	var warnings bytes.Buffer
	resp, err := newTestEngine(index, nil).Search(context.Background(), "q",
		Options{Limit: 5}, &warnings)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].PaperID != "2401.00001" {
		t.Errorf("results[0] = %s, want normalized 2401.00001", resp.Results[0].PaperID)
	}
	if warnings.Len() == 0 {
		t.Error("expected a malformed-id warning")
	}
}

func TestSearchEmptyPool(t *testing.T) {
	var warnings bytes.Buffer
	resp, err := newTestEngine(&mockIndex{}, nil).Search(context.Background(), "q",
		Options{Limit: 5}, &warnings)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("results = %v, want empty", resp.Results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	var warnings bytes.Buffer
	_, err := newTestEngine(&mockIndex{}, nil).Search(context.Background(), "",
		Options{}, &warnings)
	if err == nil {
		t.Error("expected error for empty query")
	}
}

func TestSearchVectorIndexFailureIsFatal(t *testing.T) {
	index := &mockIndex{err: errors.New("index down")}
	var warnings bytes.Buffer
	_, err := newTestEngine(index, nil).Search(context.Background(), "q",
		Options{}, &warnings)
	if err == nil {
		t.Error("expected error when the vector index fails")
	}
}
