// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import "sort"

// ScoreMap maps paper ids to strategy-relative scores. Scores from
// different strategies are comparable only after weighted aggregation.
type ScoreMap map[string]float64

// Reasons maps paper ids to human-readable justification strings.
type Reasons map[string][]string

// Candidate is one scored paper competing for inclusion in the result.
type Candidate struct {
	ID    string
	Score float64
}

// Pool aggregates per-strategy score maps. Merge and Exclude return new
// pools; an existing Pool value is never mutated, which keeps the
// aggregation step testable in isolation.
type Pool struct {
	scores  ScoreMap
	reasons Reasons
}

// NewPool returns an empty aggregation pool.
func NewPool() Pool {
	return Pool{scores: ScoreMap{}, reasons: Reasons{}}
}

// Merge adds a strategy's scores with the given weight:
// total[id] += score[id] × weight. Reason lists are concatenated.
func (p Pool) Merge(scores ScoreMap, reasons Reasons, weight float64) Pool {
	merged := p.clone()
	for id, score := range scores {
		merged.scores[id] += score * weight
	}
	for id, rs := range reasons {
		merged.reasons[id] = append(merged.reasons[id], rs...)
	}
	return merged
}

// Exclude removes every id in the given set and returns the reduced pool.
func (p Pool) Exclude(ids map[string]struct{}) Pool {
	reduced := NewPool()
	for id, score := range p.scores {
		if _, skip := ids[id]; skip {
			continue
		}
		reduced.scores[id] = score
		if rs, ok := p.reasons[id]; ok {
			reduced.reasons[id] = append([]string(nil), rs...)
		}
	}
	return reduced
}

// Len returns the number of distinct papers in the pool.
func (p Pool) Len() int {
	return len(p.scores)
}

// Score returns the aggregated score for one paper.
func (p Pool) Score(id string) float64 {
	return p.scores[id]
}

// ReasonsFor returns up to max reasons for one paper.
func (p Pool) ReasonsFor(id string, max int) []string {
	rs := p.reasons[id]
	if len(rs) > max {
		rs = rs[:max]
	}
	return append([]string(nil), rs...)
}

// Candidates returns the pool sorted by score, highest first, with ties
// broken by id for deterministic output.
func (p Pool) Candidates() []Candidate {
	cands := make([]Candidate, 0, len(p.scores))
	for id, score := range p.scores {
		cands = append(cands, Candidate{ID: id, Score: score})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].ID < cands[j].ID
	})
	return cands
}

func (p Pool) clone() Pool {
	c := NewPool()
	for id, score := range p.scores {
		c.scores[id] = score
	}
	for id, rs := range p.reasons {
		c.reasons[id] = append([]string(nil), rs...)
	}
	return c
}
