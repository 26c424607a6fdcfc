// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"github.com/pdiddy/scholar-rank/pkg/types"
)

// similarityTopAuthors bounds the author comparison to each paper's leading
// authors.
const similarityTopAuthors = 5

// SelectMMR picks up to k candidates by maximal marginal relevance:
// each round selects the candidate maximizing
//
//	lambda × relevance − (1 − lambda) × max similarity to already selected
//
// where relevance is the candidate's score normalized by the pool maximum.
// Candidates must be sorted by score, highest first; ties keep the more
// relevant candidate.
func SelectMMR(cands []Candidate, papers map[string]types.Paper, k int, lambda float64) []Candidate {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	if k > len(cands) {
		k = len(cands)
	}

	maxScore := cands[0].Score
	for _, c := range cands {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if maxScore <= 0 {
		out := make([]Candidate, k)
		copy(out, cands[:k])
		return out
	}

	remaining := make([]Candidate, len(cands))
	copy(remaining, cands)
	selected := make([]Candidate, 0, k)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestVal := mmrValue(remaining[0], selected, papers, maxScore, lambda)
		for i := 1; i < len(remaining); i++ {
			if v := mmrValue(remaining[i], selected, papers, maxScore, lambda); v > bestVal {
				bestIdx, bestVal = i, v
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

func mmrValue(c Candidate, selected []Candidate, papers map[string]types.Paper, maxScore, lambda float64) float64 {
	relevance := c.Score / maxScore

	maxSim := 0.0
	if p, ok := papers[c.ID]; ok {
		for _, s := range selected {
			sp, ok := papers[s.ID]
			if !ok {
				continue
			}
			if sim := paperSimilarity(p, sp); sim > maxSim {
				maxSim = sim
			}
		}
	}
	return lambda*relevance - (1-lambda)*maxSim
}

// paperSimilarity blends category overlap with author overlap:
// 0.5 × Jaccard(categories) + 0.5 × min(1, shared leading authors / 2).
func paperSimilarity(a, b types.Paper) float64 {
	return 0.5*categoryJaccard(a.Categories, b.Categories) +
		0.5*authorOverlap(a.Authors, b.Authors)
}

func categoryJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, c := range a {
		set[c] = struct{}{}
	}

	union := len(set)
	shared := 0
	seen := map[string]struct{}{}
	for _, c := range b {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if _, ok := set[c]; ok {
			shared++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func authorOverlap(a, b []string) float64 {
	a = capStrings(a, similarityTopAuthors)
	b = capStrings(b, similarityTopAuthors)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a))
	for _, name := range a {
		set[name] = struct{}{}
	}
	shared := 0
	for _, name := range b {
		if _, ok := set[name]; ok {
			shared++
		}
	}

	overlap := float64(shared) / 2
	if overlap > 1 {
		overlap = 1
	}
	return overlap
}
