// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"

	"github.com/pdiddy/scholar-rank/internal/arxivid"
)

const (
	semanticMaxSeeds     = 5
	semanticPerSeedLimit = 10
)

// scoreSemantic queries the vector index with the titles of the heaviest
// interacted papers. Each hit accumulates seed_weight × similarity. Seeds
// without stored metadata are skipped; an index failure degrades to a
// partial score map.
func (r *Recommender) scoreSemantic(ctx context.Context, seeds []seed) (ScoreMap, Reasons, error) {
	if len(seeds) > semanticMaxSeeds {
		seeds = seeds[:semanticMaxSeeds]
	}

	seedIDs := map[string]struct{}{}
	ids := make([]string, len(seeds))
	for i, s := range seeds {
		ids[i] = s.ID
		seedIDs[s.ID] = struct{}{}
	}

	papers, err := r.store.PapersByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("loading seed papers: %w", err)
	}

	scores := ScoreMap{}
	reasons := Reasons{}
	var firstErr error

	for _, s := range seeds {
		p, ok := papers[s.ID]
		if !ok || p.Title == "" {
			continue
		}

		chunks, err := r.index.Search(ctx, p.Title, semanticPerSeedLimit)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		for _, c := range chunks {
			id := arxivid.Normalize(c.PaperID)
			if !arxivid.Valid(id) {
				continue
			}
			if _, isSeed := seedIDs[id]; isSeed {
				continue
			}
			_, seen := scores[id]
			scores[id] += s.Weight * c.Score
			if !seen {
				reasons[id] = append(reasons[id], fmt.Sprintf("similar to %q", p.Title))
			}
		}
	}
	return scores, reasons, firstErr
}
