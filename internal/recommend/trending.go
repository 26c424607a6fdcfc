// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

const (
	trendingWindowDays   = 180
	trendingMinCitations = 10
	trendingPoolSize     = 100
	trendingRecencyHalf  = 365.0
	trendingPrefBoost    = 0.5
)

// trending recommends recent or well-cited papers without using interaction
// history. It serves cold-start users and explicit trending requests.
// Explicit category preferences pre-filter the candidate pool and boost
// matching papers.
func (r *Recommender) trending(ctx context.Context, prefs []string, opts Options) ([]types.Recommendation, error) {
	now := r.now()
	since := now.Add(-trendingWindowDays * 24 * time.Hour)

	candidates, err := r.store.TrendingCandidates(ctx, since, trendingMinCitations, prefs, trendingPoolSize)
	if err != nil {
		return nil, fmt.Errorf("loading trending candidates: %w", err)
	}

	preferred := map[string]struct{}{}
	for _, cat := range prefs {
		preferred[cat] = struct{}{}
	}

	type scored struct {
		paper   types.Paper
		score   float64
		matched string
	}
	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		recency := 0.0
		if !p.Published.IsZero() {
			days := now.Sub(p.Published).Hours() / 24
			recency = math.Max(0, 1-days/trendingRecencyHalf)
		}
		score := recency*2 + math.Log1p(float64(p.CitationCount))

		matching := 0
		matched := ""
		for _, cat := range p.Categories {
			if _, ok := preferred[cat]; ok {
				matching++
				if matched == "" {
					matched = cat
				}
			}
		}
		score *= 1 + trendingPrefBoost*float64(matching)

		ranked = append(ranked, scored{paper: p, score: score, matched: matched})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].paper.ID < ranked[j].paper.ID
	})

	if opts.Offset >= len(ranked) {
		return []types.Recommendation{}, nil
	}
	ranked = ranked[opts.Offset:]
	if len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}

	recs := make([]types.Recommendation, 0, len(ranked))
	for _, s := range ranked {
		reason := "highly cited recent paper"
		if s.matched != "" {
			reason = fmt.Sprintf("trending in %s", s.matched)
		}
		recs = append(recs, types.Recommendation{
			PaperID:       s.paper.ID,
			Title:         s.paper.Title,
			Abstract:      s.paper.Abstract,
			Authors:       s.paper.Authors,
			Categories:    s.paper.Categories,
			Published:     s.paper.Published,
			CitationCount: s.paper.CitationCount,
			Score:         s.score,
			Reasons:       []string{reason},
		})
	}
	return recs, nil
}
