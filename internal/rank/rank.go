// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank implements graph-enhanced search: chunks from the semantic
// vector index are re-ranked with citation-graph boosts, missing
// foundational papers are injected, and a diversity-aware selection reduces
// the pool to the requested size.
package rank

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/pdiddy/scholar-rank/internal/arxivid"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

// VectorIndex is the semantic index collaborator. SearchPaper scopes a
// query to excerpts of a single paper.
type VectorIndex interface {
	Search(ctx context.Context, query string, limit int) ([]types.Chunk, error)
	SearchPaper(ctx context.Context, query, paperID string, limit int) ([]types.Chunk, error)
}

// GraphStore is the citation-graph collaborator. All three lookups operate
// on canonical (version-stripped) paper ids.
type GraphStore interface {
	GraphMetadata(ctx context.Context, ids []string) (map[string]types.GraphMetadata, error)
	InternalCitations(ctx context.Context, ids []string) ([]types.CitationEdge, error)
	MissingFoundations(ctx context.Context, ids []string, minCitations, limit int) ([]types.Foundation, error)
}

// Engine performs graph-enhanced search. It is stateless across requests.
// A nil graph store disables every graph feature: results keep their plain
// similarity ordering and no foundations are injected.
type Engine struct {
	index VectorIndex
	graph GraphStore
	now   func() time.Time
}

// NewEngine builds an Engine. graph may be nil.
func NewEngine(index VectorIndex, graph GraphStore) *Engine {
	return &Engine{index: index, graph: graph, now: time.Now}
}

// Options holds per-request search parameters. Zero values take defaults.
type Options struct {
	// Limit is the number of final results (default 10).
	Limit int

	// Overfetch multiplies Limit for the initial vector query (default 3).
	Overfetch int

	// IncludeFoundations enables foundation injection.
	IncludeFoundations bool

	// MinFoundationCitations is the in-pool citation threshold (default 3).
	MinFoundationCitations int

	// MaxFoundations caps injected foundation papers (default 2).
	MaxFoundations int
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = 10
	}
	if o.Overfetch <= 0 {
		o.Overfetch = 3
	}
	if o.MinFoundationCitations <= 0 {
		o.MinFoundationCitations = 3
	}
	if o.MaxFoundations <= 0 {
		o.MaxFoundations = 2
	}
	return o
}

// Search runs the full pipeline: vector search, graph analysis, re-ranking,
// foundation injection, diversity selection, and paper grouping. Graph
// failures degrade to the plain similarity ordering with a warning on w;
// only a vector index failure is a hard error.
func (e *Engine) Search(ctx context.Context, query string, opts Options, w io.Writer) (types.SearchResponse, error) {
	opts = opts.withDefaults()
	resp := types.SearchResponse{Query: query}

	if query == "" {
		return resp, fmt.Errorf("query is empty")
	}

	chunks, err := e.index.Search(ctx, query, opts.Limit*opts.Overfetch)
	if err != nil {
		return resp, fmt.Errorf("semantic search: %w", err)
	}

	// Normalize identifiers; a chunk with a malformed id is dropped, the
	// rest proceed.
	valid := make([]types.Chunk, 0, len(chunks))
	for _, c := range chunks {
		c.PaperID = arxivid.Normalize(c.PaperID)
		if !arxivid.Valid(c.PaperID) {
			fmt.Fprintf(w, "warning: dropping chunk with malformed paper id %q\n", c.PaperID)
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return resp, nil
	}

	paperIDs := distinctPaperIDs(valid)
	analysis := e.analyzeGraph(ctx, paperIDs, opts, w)

	reranked := Rerank(valid, analysis.meta, analysis.edges, query, e.now())

	var foundationChunks []types.Chunk
	if opts.IncludeFoundations && len(analysis.foundations) > 0 {
		foundationChunks = e.fetchFoundationChunks(ctx, query, analysis.foundations, w)
	}

	pool := append(foundationChunks, reranked...)
	selected := SelectDiverse(pool, opts.Limit)

	resp.Results = GroupByPaper(selected)
	resp.Insights = types.GraphInsights{
		TotalPapers:             len(paperIDs),
		InternalCitations:       len(analysis.edges),
		FoundationalPapersAdded: len(foundationChunks),
		CentralPapers:           CentralPapers(analysis.edges),
	}
	return resp, nil
}

// graphAnalysis holds the three graph lookups for one request. Any lookup
// that failed contributes its zero value.
type graphAnalysis struct {
	meta        map[string]types.GraphMetadata
	edges       []types.CitationEdge
	foundations []types.Foundation
}

// analyzeGraph fans out the three independent graph queries and gathers
// them. Each failure degrades to an empty contribution.
func (e *Engine) analyzeGraph(ctx context.Context, paperIDs []string, opts Options, w io.Writer) graphAnalysis {
	var analysis graphAnalysis
	if e.graph == nil || len(paperIDs) == 0 {
		return analysis
	}

	var wg sync.WaitGroup
	errs := make(chan error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		meta, err := e.graph.GraphMetadata(ctx, paperIDs)
		if err != nil {
			errs <- fmt.Errorf("graph metadata: %w", err)
			return
		}
		analysis.meta = meta
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		edges, err := e.graph.InternalCitations(ctx, paperIDs)
		if err != nil {
			errs <- fmt.Errorf("internal citations: %w", err)
			return
		}
		analysis.edges = edges
	}()

	if opts.IncludeFoundations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			foundations, err := e.graph.MissingFoundations(ctx, paperIDs,
				opts.MinFoundationCitations, opts.MaxFoundations)
			if err != nil {
				errs <- fmt.Errorf("missing foundations: %w", err)
				return
			}
			analysis.foundations = foundations
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		fmt.Fprintf(w, "warning: graph analysis degraded: %v\n", err)
	}
	return analysis
}

func distinctPaperIDs(chunks []types.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var ids []string
	for _, c := range chunks {
		if _, ok := seen[c.PaperID]; ok {
			continue
		}
		seen[c.PaperID] = struct{}{}
		ids = append(ids, c.PaperID)
	}
	return ids
}

// CentralPapers returns the papers cited by at least two other papers in
// the pool, sorted for stable output.
func CentralPapers(edges []types.CitationEdge) []string {
	counts := make(map[string]int)
	for _, e := range edges {
		counts[e.Target]++
	}
	var central []string
	for id, n := range counts {
		if n >= 2 {
			central = append(central, id)
		}
	}
	sort.Strings(central)
	return central
}
