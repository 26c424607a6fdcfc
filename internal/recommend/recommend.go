// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend scores papers for a user by combining interaction
// history, citation-graph traversal, and semantic similarity, then applies
// diversity-aware selection to the merged candidate pool.
package recommend

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/scholar-rank/internal/arxivid"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

// Strategy names one candidate-generation strategy.
type Strategy string

const (
	StrategySemantic Strategy = "semantic"
	StrategyContent  Strategy = "content"
	StrategyGraph    Strategy = "graph"
	StrategyTrending Strategy = "trending"
)

// ParseStrategies converts strategy names to Strategy values, rejecting
// unknown names.
func ParseStrategies(names []string) ([]Strategy, error) {
	var out []Strategy
	for _, name := range names {
		st := Strategy(strings.ToLower(strings.TrimSpace(name)))
		switch st {
		case StrategySemantic, StrategyContent, StrategyGraph, StrategyTrending:
			out = append(out, st)
		default:
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
	}
	return out, nil
}

// Aggregation weights applied when merging per-strategy scores.
const (
	semanticWeight = 1.0
	contentWeight  = 1.0
	graphWeight    = 0.8
)

// maxReasons caps how many justification strings one recommendation carries.
const maxReasons = 2

// PaperStore provides the relational lookups the recommender needs.
type PaperStore interface {
	PapersByIDs(ctx context.Context, ids []string) (map[string]types.Paper, error)
	RecentCandidates(ctx context.Context, limit int) ([]types.Paper, error)
	TrendingCandidates(ctx context.Context, since time.Time, minCitations int, categories []string, limit int) ([]types.Paper, error)
	UserInteractions(ctx context.Context, userID string, since time.Time) ([]types.InteractionEvent, error)
	UserPreferences(ctx context.Context, userID string) ([]string, error)
}

// GraphStore provides the citation-graph traversals used by the graph
// strategy. A nil GraphStore disables it.
type GraphStore interface {
	CitationNeighbors(ctx context.Context, paperID string, direction types.CitationDirection, limit int) ([]types.GraphNeighbor, error)
	CoauthoredPapers(ctx context.Context, paperID string, limit int) ([]types.GraphNeighbor, error)
}

// VectorIndex provides semantic similarity search for the semantic-seed
// strategy. A nil VectorIndex disables it.
type VectorIndex interface {
	Search(ctx context.Context, query string, limit int) ([]types.Chunk, error)
}

// Recommender produces personalized paper recommendations.
type Recommender struct {
	store PaperStore
	graph GraphStore
	index VectorIndex
	cfg   types.RecommendConfig

	// now is replaceable for deterministic tests.
	now func() time.Time
}

// NewRecommender builds a Recommender. graph and index may be nil; the
// strategies that need them are then unavailable.
func NewRecommender(store PaperStore, graph GraphStore, index VectorIndex, cfg types.RecommendConfig) *Recommender {
	return &Recommender{store: store, graph: graph, index: index, cfg: cfg, now: time.Now}
}

// Options controls one recommendation request.
type Options struct {
	// Limit is the number of recommendations to return.
	Limit int

	// Offset skips the first Offset recommendations for pagination.
	Offset int

	// Strategies selects which strategies run. Empty means every strategy
	// whose collaborator is available, excluding trending.
	Strategies []Strategy
}

func (o Options) withDefaults(r *Recommender) Options {
	if o.Limit <= 0 {
		o.Limit = r.cfg.Limit
	}
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if len(o.Strategies) == 0 {
		o.Strategies = []Strategy{StrategyContent}
		if r.graph != nil {
			o.Strategies = append(o.Strategies, StrategyGraph)
		}
		if r.index != nil {
			o.Strategies = append(o.Strategies, StrategySemantic)
		}
	}
	return o
}

func (r *Recommender) lookback() time.Duration {
	days := r.cfg.LookbackDays
	if days <= 0 {
		days = 90
	}
	return time.Duration(days) * 24 * time.Hour
}

// seed is an interacted paper carrying its aggregated decayed weight.
type seed struct {
	ID     string
	Weight float64
}

// buildSeeds aggregates interaction events per paper and orders them by
// decayed weight, heaviest first.
func buildSeeds(events []types.InteractionEvent, now time.Time) []seed {
	weights := map[string]float64{}
	for _, e := range events {
		id := arxivid.Normalize(e.PaperID)
		if !arxivid.Valid(id) {
			continue
		}
		weights[id] += e.Weight(now)
	}

	seeds := make([]seed, 0, len(weights))
	for id, w := range weights {
		seeds = append(seeds, seed{ID: id, Weight: w})
	}
	sort.Slice(seeds, func(i, j int) bool {
		if seeds[i].Weight != seeds[j].Weight {
			return seeds[i].Weight > seeds[j].Weight
		}
		return seeds[i].ID < seeds[j].ID
	})
	return seeds
}

type strategyResult struct {
	strategy Strategy
	scores   ScoreMap
	reasons  Reasons
	err      error
}

// Recommend produces up to opts.Limit recommendations for the user.
// Degradations (an unavailable collaborator, a failed strategy) are written
// to w and reduce the pool instead of failing the request; a user with no
// history falls back to trending papers. The returned error covers invalid
// input only.
func (r *Recommender) Recommend(ctx context.Context, userID string, opts Options, w io.Writer) ([]types.Recommendation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id required")
	}
	opts = opts.withDefaults(r)
	now := r.now()

	prefs, err := r.store.UserPreferences(ctx, userID)
	if err != nil {
		fmt.Fprintf(w, "Warning: loading preferences failed: %v\n", err)
		prefs = nil
	}

	since := now.Add(-r.lookback())
	events, err := r.store.UserInteractions(ctx, userID, since)
	if err != nil {
		fmt.Fprintf(w, "Warning: loading interaction history failed: %v\n", err)
		events = nil
	}

	if wantsTrending(opts.Strategies) || len(events) == 0 {
		recs, err := r.trending(ctx, prefs, opts)
		if err != nil {
			fmt.Fprintf(w, "Warning: trending fallback failed: %v\n", err)
			return []types.Recommendation{}, nil
		}
		return recs, nil
	}

	seeds := buildSeeds(events, now)
	pool := r.runStrategies(ctx, opts.Strategies, seeds, events, prefs, w)

	// Papers interacted with inside the lookback window never come back as
	// recommendations, whatever the interaction kind was.
	interacted := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		interacted[s.ID] = struct{}{}
	}
	pool = pool.Exclude(interacted)

	if pool.Len() == 0 {
		scores, reasons, err := r.fallbackByCategory(ctx, seeds, interacted, now)
		if err != nil {
			fmt.Fprintf(w, "Warning: category fallback failed: %v\n", err)
		}
		pool = NewPool().Merge(scores, reasons, 1.0).Exclude(interacted)
	}
	if pool.Len() == 0 {
		return []types.Recommendation{}, nil
	}

	return r.selectAndAssemble(ctx, pool, opts, w)
}

func wantsTrending(strategies []Strategy) bool {
	for _, st := range strategies {
		if st == StrategyTrending {
			return true
		}
	}
	return false
}

// runStrategies fans the requested strategies out concurrently and merges
// their score maps with the fixed aggregation weights. A failed strategy
// contributes whatever it scored before failing, plus a warning.
func (r *Recommender) runStrategies(ctx context.Context, strategies []Strategy, seeds []seed, events []types.InteractionEvent, prefs []string, w io.Writer) Pool {
	run := make([]Strategy, 0, len(strategies))
	for _, st := range strategies {
		switch st {
		case StrategyTrending:
			// Handled before strategy fan-out.
		case StrategyGraph:
			if r.graph == nil {
				fmt.Fprintln(w, "Warning: graph strategy unavailable: no graph store configured")
				continue
			}
			run = append(run, st)
		case StrategySemantic:
			if r.index == nil {
				fmt.Fprintln(w, "Warning: semantic strategy unavailable: no vector index configured")
				continue
			}
			run = append(run, st)
		default:
			run = append(run, st)
		}
	}

	results := make(chan strategyResult, len(run))
	var wg sync.WaitGroup
	for _, st := range run {
		wg.Add(1)
		go func(st Strategy) {
			defer wg.Done()
			res := strategyResult{strategy: st}
			switch st {
			case StrategyContent:
				res.scores, res.reasons, res.err = r.scoreContent(ctx, events, prefs)
			case StrategyGraph:
				res.scores, res.reasons, res.err = r.scoreGraph(ctx, seeds)
			case StrategySemantic:
				res.scores, res.reasons, res.err = r.scoreSemantic(ctx, seeds)
			}
			results <- res
		}(st)
	}
	wg.Wait()
	close(results)

	byStrategy := map[Strategy]strategyResult{}
	for res := range results {
		byStrategy[res.strategy] = res
	}

	pool := NewPool()
	for _, st := range []Strategy{StrategySemantic, StrategyContent, StrategyGraph} {
		res, ok := byStrategy[st]
		if !ok {
			continue
		}
		if res.err != nil {
			fmt.Fprintf(w, "Warning: %s strategy degraded: %v\n", st, res.err)
		}
		if len(res.scores) == 0 {
			continue
		}
		pool = pool.Merge(res.scores, res.reasons, weightFor(st))
	}
	return pool
}

func weightFor(st Strategy) float64 {
	switch st {
	case StrategySemantic:
		return semanticWeight
	case StrategyContent:
		return contentWeight
	case StrategyGraph:
		return graphWeight
	}
	return 1.0
}

// mmrPoolFactor bounds how many candidates beyond the requested page enter
// diversity selection.
const mmrPoolFactor = 3

// selectAndAssemble runs MMR selection over the merged pool and resolves
// the winners to full recommendations. Candidates missing from the paper
// store are dropped.
func (r *Recommender) selectAndAssemble(ctx context.Context, pool Pool, opts Options, w io.Writer) ([]types.Recommendation, error) {
	k := opts.Offset + opts.Limit
	cands := pool.Candidates()
	if bound := k * mmrPoolFactor; len(cands) > bound {
		cands = cands[:bound]
	}

	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.ID
	}
	papers, err := r.store.PapersByIDs(ctx, ids)
	if err != nil {
		fmt.Fprintf(w, "Warning: resolving candidate metadata failed: %v\n", err)
		return []types.Recommendation{}, nil
	}

	known := cands[:0]
	for _, c := range cands {
		if _, ok := papers[c.ID]; ok {
			known = append(known, c)
		}
	}

	lambda := r.cfg.MMRLambda
	if lambda <= 0 || lambda > 1 {
		lambda = 0.3
	}
	selected := SelectMMR(known, papers, k, lambda)
	if opts.Offset >= len(selected) {
		return []types.Recommendation{}, nil
	}
	selected = selected[opts.Offset:]

	recs := make([]types.Recommendation, 0, len(selected))
	for _, c := range selected {
		p := papers[c.ID]
		recs = append(recs, types.Recommendation{
			PaperID:       p.ID,
			Title:         p.Title,
			Abstract:      p.Abstract,
			Authors:       p.Authors,
			Categories:    p.Categories,
			Published:     p.Published,
			CitationCount: p.CitationCount,
			Score:         c.Score,
			Reasons:       pool.ReasonsFor(c.ID, maxReasons),
		})
	}
	return recs, nil
}
