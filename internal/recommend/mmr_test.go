// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"testing"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

func mmrPaper(id string, categories, authors []string) types.Paper {
	return types.Paper{ID: id, Categories: categories, Authors: authors}
}

func TestSelectMMRFirstPickIsTopRelevance(t *testing.T) {
	cands := []Candidate{
		{ID: "a", Score: 3.0},
		{ID: "b", Score: 2.0},
		{ID: "c", Score: 1.0},
	}
	papers := map[string]types.Paper{
		"a": mmrPaper("a", []string{"cs.LG"}, nil),
		"b": mmrPaper("b", []string{"cs.LG"}, nil),
		"c": mmrPaper("c", []string{"q-bio.NC"}, nil),
	}

	got := SelectMMR(cands, papers, 3, 0.3)
	if len(got) == 0 || got[0].ID != "a" {
		t.Fatalf("got[0] = %v, want a first", got)
	}
}

func TestSelectMMRPrefersDiverseRunnerUp(t *testing.T) {
	// b is more relevant than c but near-identical to a; with a small
	// lambda the diverse candidate c wins the second slot.
	cands := []Candidate{
		{ID: "a", Score: 3.0},
		{ID: "b", Score: 2.9},
		{ID: "c", Score: 2.0},
	}
	papers := map[string]types.Paper{
		"a": mmrPaper("a", []string{"cs.LG", "cs.AI"}, []string{"X", "Y"}),
		"b": mmrPaper("b", []string{"cs.LG", "cs.AI"}, []string{"X", "Y"}),
		"c": mmrPaper("c", []string{"q-bio.NC"}, []string{"Z"}),
	}

	got := SelectMMR(cands, papers, 2, 0.3)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].ID != "c" {
		t.Errorf("got[1] = %s, want the diverse candidate c", got[1].ID)
	}
}

func TestSelectMMRPureRelevanceAtLambdaOne(t *testing.T) {
	cands := []Candidate{
		{ID: "a", Score: 3.0},
		{ID: "b", Score: 2.9},
		{ID: "c", Score: 2.0},
	}
	papers := map[string]types.Paper{
		"a": mmrPaper("a", []string{"cs.LG"}, []string{"X"}),
		"b": mmrPaper("b", []string{"cs.LG"}, []string{"X"}),
		"c": mmrPaper("c", []string{"q-bio.NC"}, nil),
	}

	got := SelectMMR(cands, papers, 3, 1.0)
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestSelectMMRProperties(t *testing.T) {
	var cands []Candidate
	papers := map[string]types.Paper{}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("p%02d", i)
		cands = append(cands, Candidate{ID: id, Score: float64(12 - i)})
		papers[id] = mmrPaper(id, []string{fmt.Sprintf("cat%d", i%3)}, nil)
	}

	for _, k := range []int{1, 3, 5, 12, 20} {
		got := SelectMMR(cands, papers, k, 0.3)

		wantLen := k
		if len(cands) < k {
			wantLen = len(cands)
		}
		if len(got) != wantLen {
			t.Errorf("k=%d: len = %d, want %d", k, len(got), wantLen)
		}

		seen := map[string]bool{}
		for _, c := range got {
			if seen[c.ID] {
				t.Errorf("k=%d: duplicate %s", k, c.ID)
			}
			seen[c.ID] = true
		}
	}
}

func TestSelectMMREdgeCases(t *testing.T) {
	if got := SelectMMR(nil, nil, 5, 0.3); got != nil {
		t.Errorf("empty input: got %v", got)
	}
	if got := SelectMMR([]Candidate{{ID: "a", Score: 1}}, nil, 0, 0.3); got != nil {
		t.Errorf("zero k: got %v", got)
	}

	// All-zero scores fall back to input order.
	cands := []Candidate{{ID: "a"}, {ID: "b"}}
	got := SelectMMR(cands, nil, 1, 0.3)
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("zero scores: got %v", got)
	}
}

func TestPaperSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Paper
		want float64
	}{
		{
			"identical categories and two shared authors",
			mmrPaper("a", []string{"cs.LG"}, []string{"X", "Y"}),
			mmrPaper("b", []string{"cs.LG"}, []string{"X", "Y"}),
			1.0,
		},
		{
			"disjoint",
			mmrPaper("a", []string{"cs.LG"}, []string{"X"}),
			mmrPaper("b", []string{"q-bio.NC"}, []string{"Z"}),
			0.0,
		},
		{
			"one shared author only",
			mmrPaper("a", []string{"cs.LG"}, []string{"X"}),
			mmrPaper("b", []string{"q-bio.NC"}, []string{"X"}),
			0.25, // 0.5×0 + 0.5×(1/2)
		},
		{
			"half category overlap",
			mmrPaper("a", []string{"cs.LG", "cs.AI"}, nil),
			mmrPaper("b", []string{"cs.LG"}, nil),
			0.25, // 0.5×(1/2) + 0.5×0
		},
		{
			"authors beyond the leading five are ignored",
			mmrPaper("a", nil, []string{"A1", "A2", "A3", "A4", "A5", "X"}),
			mmrPaper("b", nil, []string{"X"}),
			0.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paperSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("paperSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}
