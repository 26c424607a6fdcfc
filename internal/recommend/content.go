// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pdiddy/scholar-rank/internal/arxivid"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

const (
	// Profile construction.
	profileTopCategories   = 10
	profileTopAuthors      = 15
	profileAuthorsPerPaper = 3

	// Explicit category preferences count as a strong standing interest.
	preferredCategoryWeight = 10.0

	// Candidate scoring.
	scoreAuthorsPerPaper  = 5
	authorMatchWeight     = 1.2
	contentHalfLifeDays   = 180.0
	contentCitationFactor = 0.05
)

// scoreContent scores recent papers against a taste profile built from the
// user's interaction history and explicit category preferences.
func (r *Recommender) scoreContent(ctx context.Context, events []types.InteractionEvent, prefs []string) (ScoreMap, Reasons, error) {
	now := r.now()

	interacted := map[string]struct{}{}
	ids := make([]string, 0, len(events))
	for _, e := range events {
		id := arxivid.Normalize(e.PaperID)
		if !arxivid.Valid(id) {
			continue
		}
		if _, seen := interacted[id]; !seen {
			ids = append(ids, id)
		}
		interacted[id] = struct{}{}
	}

	papers, err := r.store.PapersByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("loading interacted papers: %w", err)
	}

	catWeights := map[string]float64{}
	authorWeights := map[string]float64{}
	for _, e := range events {
		p, ok := papers[arxivid.Normalize(e.PaperID)]
		if !ok {
			continue
		}
		w := e.Weight(now)
		for _, cat := range p.Categories {
			catWeights[cat] += w
		}
		for _, a := range capStrings(p.Authors, profileAuthorsPerPaper) {
			authorWeights[a] += w
		}
	}
	for _, cat := range prefs {
		catWeights[cat] += preferredCategoryWeight
	}

	catWeights = topWeights(catWeights, profileTopCategories)
	authorWeights = topWeights(authorWeights, profileTopAuthors)
	if len(catWeights) == 0 && len(authorWeights) == 0 {
		return ScoreMap{}, Reasons{}, nil
	}

	poolSize := r.cfg.CandidatePoolSize
	if poolSize <= 0 {
		poolSize = 1000
	}
	candidates, err := r.store.RecentCandidates(ctx, poolSize)
	if err != nil {
		return nil, nil, fmt.Errorf("loading candidate pool: %w", err)
	}

	scores := ScoreMap{}
	reasons := Reasons{}
	for _, p := range candidates {
		if _, skip := interacted[p.ID]; skip {
			continue
		}

		var score float64
		var matchedCat, matchedAuthor string
		for _, cat := range p.Categories {
			if w, ok := catWeights[cat]; ok {
				score += w
				if matchedCat == "" {
					matchedCat = cat
				}
			}
		}
		for _, a := range capStrings(p.Authors, scoreAuthorsPerPaper) {
			if w, ok := authorWeights[a]; ok {
				score += authorMatchWeight * w
				if matchedAuthor == "" {
					matchedAuthor = a
				}
			}
		}
		if score == 0 {
			continue
		}

		if !p.Published.IsZero() {
			days := now.Sub(p.Published).Hours() / 24
			if days > 0 {
				score *= math.Pow(0.5, days/contentHalfLifeDays)
			}
		}
		score *= 1 + contentCitationFactor*math.Log1p(float64(p.CitationCount))

		scores[p.ID] = score
		if matchedCat != "" {
			reasons[p.ID] = append(reasons[p.ID], fmt.Sprintf("matches your interest in %s", matchedCat))
		}
		if matchedAuthor != "" {
			reasons[p.ID] = append(reasons[p.ID], fmt.Sprintf("by %s, whose work you follow", matchedAuthor))
		}
	}
	return scores, reasons, nil
}

// fallbackByCategory recommends recent papers sharing categories with the
// user's interacted papers. It only runs when every strategy produced an
// empty pool.
func (r *Recommender) fallbackByCategory(ctx context.Context, seeds []seed, interacted map[string]struct{}, now time.Time) (ScoreMap, Reasons, error) {
	ids := make([]string, len(seeds))
	for i, s := range seeds {
		ids[i] = s.ID
	}
	papers, err := r.store.PapersByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("loading interacted papers: %w", err)
	}

	counts := map[string]float64{}
	for _, p := range papers {
		for _, cat := range p.Categories {
			counts[cat]++
		}
	}
	followed := topWeights(counts, 5)
	if len(followed) == 0 {
		return ScoreMap{}, Reasons{}, nil
	}

	poolSize := r.cfg.CandidatePoolSize
	if poolSize <= 0 {
		poolSize = 1000
	}
	candidates, err := r.store.RecentCandidates(ctx, poolSize)
	if err != nil {
		return nil, nil, fmt.Errorf("loading candidate pool: %w", err)
	}

	scores := ScoreMap{}
	reasons := Reasons{}
	for _, p := range candidates {
		if _, skip := interacted[p.ID]; skip {
			continue
		}

		overlap := 0
		matched := ""
		for _, cat := range p.Categories {
			if _, ok := followed[cat]; ok {
				overlap++
				if matched == "" {
					matched = cat
				}
			}
		}
		if overlap == 0 {
			continue
		}

		mult := 1.0
		if !p.Published.IsZero() {
			switch days := now.Sub(p.Published).Hours() / 24; {
			case days < 30:
				mult = 1.3
			case days < 90:
				mult = 1.1
			}
		}
		scores[p.ID] = float64(overlap) * mult
		reasons[p.ID] = []string{fmt.Sprintf("recent work in %s", matched)}
	}
	return scores, reasons, nil
}

// topWeights keeps the n heaviest entries of a weight map. Ties are broken
// by key so the profile is deterministic.
func topWeights(weights map[string]float64, n int) map[string]float64 {
	if len(weights) <= n {
		return weights
	}

	type entry struct {
		key    string
		weight float64
	}
	entries := make([]entry, 0, len(weights))
	for k, w := range weights {
		entries = append(entries, entry{k, w})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].weight != entries[j].weight {
			return entries[i].weight > entries[j].weight
		}
		return entries[i].key < entries[j].key
	})

	top := make(map[string]float64, n)
	for _, e := range entries[:n] {
		top[e.key] = e.weight
	}
	return top
}

func capStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
