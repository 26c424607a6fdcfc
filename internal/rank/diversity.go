// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"sort"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

// SelectDiverse reduces a scored chunk pool to at most limit chunks while
// preferring paper diversity over raw score. The policy, applied to the
// score-sorted pool:
//
//  1. the single top-scored chunk is always kept;
//  2. every chunk flagged foundational is kept, in score order;
//  3. remaining slots take the first chunk per not-yet-included paper;
//  4. leftover slots fill with the best remaining chunks, repeats allowed.
//
// Selection stops as soon as limit chunks are chosen. The output only ever
// contains chunks from the input pool.
func SelectDiverse(chunks []types.Chunk, limit int) []types.Chunk {
	if len(chunks) == 0 || limit <= 0 {
		return nil
	}

	sorted := make([]types.Chunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalScore > sorted[j].FinalScore
	})

	selected := make([]types.Chunk, 0, limit)
	taken := make([]bool, len(sorted))
	papers := make(map[string]struct{})

	take := func(i int) {
		taken[i] = true
		selected = append(selected, sorted[i])
		papers[sorted[i].PaperID] = struct{}{}
	}

	take(0)

	for i := 1; i < len(sorted) && len(selected) < limit; i++ {
		if sorted[i].Graph.IsFoundational {
			take(i)
		}
	}

	for i := 0; i < len(sorted) && len(selected) < limit; i++ {
		if taken[i] {
			continue
		}
		if _, ok := papers[sorted[i].PaperID]; !ok {
			take(i)
		}
	}

	for i := 0; i < len(sorted) && len(selected) < limit; i++ {
		if !taken[i] {
			take(i)
		}
	}

	return selected
}

// GroupByPaper collapses selected chunks into one PaperResult per paper,
// ordered by each paper's best final score.
func GroupByPaper(chunks []types.Chunk) []types.PaperResult {
	byPaper := make(map[string]*types.PaperResult)
	var order []string

	for _, c := range chunks {
		pr, ok := byPaper[c.PaperID]
		if !ok {
			pr = &types.PaperResult{
				PaperID:    c.PaperID,
				Title:      c.Title,
				Published:  c.Published,
				Categories: c.Categories,
				Graph:      c.Graph,
				MaxScore:   c.FinalScore,
			}
			byPaper[c.PaperID] = pr
			order = append(order, c.PaperID)
		}

		pr.Chunks = append(pr.Chunks, types.Excerpt{
			ChunkText:    c.ChunkText,
			SectionTitle: c.SectionTitle,
			ChunkIndex:   c.ChunkIndex,
			Score:        c.Score,
		})
		if c.FinalScore > pr.MaxScore {
			pr.MaxScore = c.FinalScore
		}
	}

	results := make([]types.PaperResult, 0, len(order))
	for _, id := range order {
		results = append(results, *byPaper[id])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MaxScore > results[j].MaxScore
	})
	return results
}
