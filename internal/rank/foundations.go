// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

// foundationScore is the fixed final score of an injected foundation chunk.
// Re-ranked base scores stay near 1.3 × a [0,1] similarity, so 1.5
// guarantees foundations survive diversity selection.
const foundationScore = 1.5

// fetchFoundationChunks retrieves one query-specific excerpt per foundation
// paper. Each fetch is independent and runs concurrently; a foundation whose
// retrieval fails or returns nothing is skipped without failing the request.
func (e *Engine) fetchFoundationChunks(ctx context.Context, query string, foundations []types.Foundation, w io.Writer) []types.Chunk {
	fetched := make([]*types.Chunk, len(foundations))
	failures := make([]error, len(foundations))

	var wg sync.WaitGroup
	for i, f := range foundations {
		wg.Add(1)
		go func(i int, f types.Foundation) {
			defer wg.Done()

			chunks, err := e.index.SearchPaper(ctx, query, f.PaperID, 1)
			if err != nil {
				failures[i] = fmt.Errorf("foundation excerpt for %s: %w", f.PaperID, err)
				return
			}
			if len(chunks) == 0 {
				return
			}

			chunk := chunks[0]
			chunk.PaperID = f.PaperID
			if chunk.Title == "" {
				chunk.Title = f.Title
			}
			chunk.Source = "foundation"
			chunk.FinalScore = foundationScore
			chunk.Graph = types.GraphMetadata{
				CitationCount:  f.TotalCitations,
				CitedByResults: f.CitedByResults,
				IsSeminal:      true,
				IsFoundational: true,
			}
			fetched[i] = &chunk
		}(i, f)
	}
	wg.Wait()

	var result []types.Chunk
	for i := range foundations {
		if failures[i] != nil {
			fmt.Fprintf(w, "warning: %v\n", failures[i])
			continue
		}
		if fetched[i] != nil {
			result = append(result, *fetched[i])
		}
	}
	return result
}
