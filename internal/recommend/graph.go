// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"math"

	"github.com/pdiddy/scholar-rank/internal/arxivid"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

const (
	graphMaxSeeds = 10

	citesLimit    = 20
	citedByLimit  = 15
	coauthorLimit = 10

	citesMultiplier    = 2.0
	citedByMultiplier  = 1.5
	coauthorMultiplier = 1.8

	graphCitationFactor = 0.1
)

// scoreGraph walks one citation hop and one coauthorship hop from the
// heaviest interacted papers. Each discovered neighbor accumulates
// seed_weight × relation_multiplier × (1 + 0.1 × ln(1 + citations)).
// Traversal errors degrade to a partial score map.
func (r *Recommender) scoreGraph(ctx context.Context, seeds []seed) (ScoreMap, Reasons, error) {
	if len(seeds) > graphMaxSeeds {
		seeds = seeds[:graphMaxSeeds]
	}

	seedIDs := map[string]struct{}{}
	for _, s := range seeds {
		seedIDs[s.ID] = struct{}{}
	}

	scores := ScoreMap{}
	reasons := Reasons{}
	var firstErr error

	add := func(neighbors []types.GraphNeighbor, weight, mult float64, reason string) {
		for _, n := range neighbors {
			id := arxivid.Normalize(n.PaperID)
			if !arxivid.Valid(id) {
				continue
			}
			if _, isSeed := seedIDs[id]; isSeed {
				continue
			}
			_, seen := scores[id]
			scores[id] += weight * mult * (1 + graphCitationFactor*math.Log1p(float64(n.CitationCount)))
			if !seen {
				reasons[id] = append(reasons[id], reason)
			}
		}
	}

	for _, s := range seeds {
		cites, err := r.graph.CitationNeighbors(ctx, s.ID, types.DirectionCites, citesLimit)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		add(cites, s.Weight, citesMultiplier, "referenced by a paper you read")

		citedBy, err := r.graph.CitationNeighbors(ctx, s.ID, types.DirectionCitedBy, citedByLimit)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		add(citedBy, s.Weight, citedByMultiplier, "builds on a paper you read")

		coauthored, err := r.graph.CoauthoredPapers(ctx, s.ID, coauthorLimit)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		add(coauthored, s.Weight, coauthorMultiplier, "shares an author with a paper you read")
	}
	return scores, reasons, firstErr
}
