// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdiddy/scholar-rank/pkg/types"
)

// GraphMetadata returns citation-graph metadata for a batch of papers,
// keyed by paper id. Papers unknown to the store are absent from the map.
func (s *Store) GraphMetadata(ctx context.Context, ids []string) (map[string]types.GraphMetadata, error) {
	if len(ids) == 0 {
		return map[string]types.GraphMetadata{}, nil
	}

	query := fmt.Sprintf(
		`SELECT id, citation_count, influential_citation_count FROM papers WHERE id IN (%s)`,
		placeholders(len(ids)))
	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying graph metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]types.GraphMetadata, len(ids))
	for rows.Next() {
		var id string
		var m types.GraphMetadata
		if err := rows.Scan(&id, &m.CitationCount, &m.InfluentialCitationCount); err != nil {
			return nil, fmt.Errorf("scanning metadata row: %w", err)
		}
		m.IsSeminal = types.Seminal(m.CitationCount)
		meta[id] = m
	}
	return meta, rows.Err()
}

// InternalCitations returns the citation edges where both endpoints are in
// the given id set.
func (s *Store) InternalCitations(ctx context.Context, ids []string) ([]types.CitationEdge, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ph := placeholders(len(ids))
	query := fmt.Sprintf(
		`SELECT source, target FROM citations WHERE source IN (%s) AND target IN (%s)`, ph, ph)
	args := append(idArgs(ids), idArgs(ids)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying internal citations: %w", err)
	}
	defer rows.Close()

	var edges []types.CitationEdge
	for rows.Next() {
		var e types.CitationEdge
		if err := rows.Scan(&e.Source, &e.Target); err != nil {
			return nil, fmt.Errorf("scanning citation edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// MissingFoundations returns papers cited by at least minCitations of the
// given papers but not themselves in the set, ranked by in-set citation
// count then global citation count.
func (s *Store) MissingFoundations(ctx context.Context, ids []string, minCitations, limit int) ([]types.Foundation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if minCitations <= 0 {
		minCitations = 3
	}
	if limit <= 0 {
		limit = 2
	}

	ph := placeholders(len(ids))
	query := fmt.Sprintf(
		`SELECT c.target, COALESCE(p.title, ''), COALESCE(p.citation_count, 0), COUNT(*) AS cited_by
		 FROM citations c
		 LEFT JOIN papers p ON p.id = c.target
		 WHERE c.source IN (%s) AND c.target NOT IN (%s)
		 GROUP BY c.target
		 HAVING cited_by >= ?
		 ORDER BY cited_by DESC, COALESCE(p.citation_count, 0) DESC
		 LIMIT ?`, ph, ph)
	args := append(idArgs(ids), idArgs(ids)...)
	args = append(args, minCitations, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying missing foundations: %w", err)
	}
	defer rows.Close()

	var foundations []types.Foundation
	for rows.Next() {
		var f types.Foundation
		if err := rows.Scan(&f.PaperID, &f.Title, &f.TotalCitations, &f.CitedByResults); err != nil {
			return nil, fmt.Errorf("scanning foundation row: %w", err)
		}
		foundations = append(foundations, f)
	}
	return foundations, rows.Err()
}

// CitationNeighbors walks one citation hop from a paper. DirectionCites
// returns the papers it cites; DirectionCitedBy the papers citing it.
func (s *Store) CitationNeighbors(ctx context.Context, paperID string, direction types.CitationDirection, limit int) ([]types.GraphNeighbor, error) {
	if limit <= 0 {
		limit = 20
	}

	var query string
	switch direction {
	case types.DirectionCites:
		query = `SELECT c.target, COALESCE(p.citation_count, 0)
			FROM citations c LEFT JOIN papers p ON p.id = c.target
			WHERE c.source = ? LIMIT ?`
	case types.DirectionCitedBy:
		query = `SELECT c.source, COALESCE(p.citation_count, 0)
			FROM citations c LEFT JOIN papers p ON p.id = c.source
			WHERE c.target = ? LIMIT ?`
	default:
		return nil, fmt.Errorf("unknown citation direction %q", direction)
	}

	rows, err := s.db.QueryContext(ctx, query, paperID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying citation neighbors: %w", err)
	}
	defer rows.Close()

	return scanNeighbors(rows)
}

// CoauthoredPapers returns papers sharing at least one author with the given
// paper. Author names are matched exactly on the stored JSON arrays.
func (s *Store) CoauthoredPapers(ctx context.Context, paperID string, limit int) ([]types.GraphNeighbor, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT DISTINCT p2.id, p2.citation_count
		FROM papers p1, json_each(p1.authors) a1, papers p2, json_each(p2.authors) a2
		WHERE p1.id = ? AND p2.id <> p1.id AND a1.value = a2.value
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, paperID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying coauthored papers: %w", err)
	}
	defer rows.Close()

	return scanNeighbors(rows)
}

func scanNeighbors(rows *sql.Rows) ([]types.GraphNeighbor, error) {
	var neighbors []types.GraphNeighbor
	for rows.Next() {
		var n types.GraphNeighbor
		if err := rows.Scan(&n.PaperID, &n.CitationCount); err != nil {
			return nil, fmt.Errorf("scanning neighbor row: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}
