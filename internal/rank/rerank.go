// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

// Boost factors for graph-aware re-ranking. Boosts are multiplicative and
// independent, so application order does not matter.
const (
	seminalBoost       = 1.3
	centralityBoostPer = 0.1
	recencyBoost       = 1.2
)

// recencyCues are the query words that signal the user wants recent work.
var recencyCues = []string{"recent", "latest", "new"}

// Rerank computes final_score = base_score × seminal × centrality × recency
// for every chunk and returns a new slice sorted by final score, highest
// first. Chunks whose paper has no graph metadata keep seminal and
// centrality at 1.0.
func Rerank(chunks []types.Chunk, meta map[string]types.GraphMetadata, edges []types.CitationEdge, query string, now time.Time) []types.Chunk {
	inResult := make(map[string]int)
	for _, e := range edges {
		inResult[e.Target]++
	}
	wantsRecent := hasRecencyCue(query, now)

	out := make([]types.Chunk, len(chunks))
	copy(out, chunks)

	for i := range out {
		c := &out[i]
		score := c.Score

		m, known := meta[c.PaperID]
		m.CitedByResults = inResult[c.PaperID]
		m.IsFoundational = false

		if known {
			if m.IsSeminal {
				score *= seminalBoost
			}
			if n := m.CitedByResults; n > 0 {
				score *= 1 + centralityBoostPer*float64(n)
			}
		}

		if wantsRecent && !c.Published.IsZero() {
			if y := c.Published.Year(); y == now.Year() || y == now.Year()-1 {
				score *= recencyBoost
			}
		}

		c.Graph = m
		c.FinalScore = score
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})
	return out
}

// hasRecencyCue reports whether the query contains a recency cue word or a
// year equal to the current or previous year.
func hasRecencyCue(query string, now time.Time) bool {
	thisYear := strconv.Itoa(now.Year())
	lastYear := strconv.Itoa(now.Year() - 1)

	for _, field := range strings.Fields(strings.ToLower(query)) {
		word := strings.Trim(field, ".,;:!?()[]\"'")
		for _, cue := range recencyCues {
			if word == cue {
				return true
			}
		}
		if word == thisYear || word == lastYear {
			return true
		}
	}
	return false
}
