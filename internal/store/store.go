// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists papers, citation edges, and user interactions in a
// local SQLite database, and serves the graph and relational lookups the
// ranking engine needs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-rank/internal/arxivid"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "papers.db"
)

// Store manages the SQLite paper database.
type Store struct {
	db        *sql.DB
	papersDir string
}

// NewStore opens or creates the database at DataDir/index/papers.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, papersDir: cfg.PapersDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			authors TEXT,
			categories TEXT,
			published TEXT,
			citation_count INTEGER NOT NULL DEFAULT 0,
			influential_citation_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_published ON papers(published)`,
		`CREATE TABLE IF NOT EXISTS citations (
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			PRIMARY KEY (source, target)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_target ON citations(target)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			paper_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			occurred_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id, occurred_at)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			user_id TEXT PRIMARY KEY,
			categories TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			file TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// placeholders returns "?, ?, ..." with n slots for a dynamic IN clause.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// scanPaper decodes one papers row. Authors and categories are stored as
// JSON arrays; published as RFC 3339.
func scanPaper(rows *sql.Rows) (types.Paper, error) {
	var (
		p           types.Paper
		authorsJSON sql.NullString
		catsJSON    sql.NullString
		published   sql.NullString
		title       sql.NullString
		abstract    sql.NullString
	)
	if err := rows.Scan(&p.ID, &title, &abstract, &authorsJSON, &catsJSON,
		&published, &p.CitationCount, &p.InfluentialCitationCount); err != nil {
		return p, fmt.Errorf("scanning paper row: %w", err)
	}
	p.Title = title.String
	p.Abstract = abstract.String
	if authorsJSON.Valid {
		json.Unmarshal([]byte(authorsJSON.String), &p.Authors)
	}
	if catsJSON.Valid {
		json.Unmarshal([]byte(catsJSON.String), &p.Categories)
	}
	if published.Valid && published.String != "" {
		if t, err := time.Parse(time.RFC3339, published.String); err == nil {
			p.Published = t
		}
	}
	return p, nil
}

const paperColumns = `id, title, abstract, authors, categories, published,
	citation_count, influential_citation_count`

// PaperByID returns one paper, or nil if it is not in the store.
func (s *Store) PaperByID(ctx context.Context, id string) (*types.Paper, error) {
	papers, err := s.PapersByIDs(ctx, []string{arxivid.Normalize(id)})
	if err != nil {
		return nil, err
	}
	if p, ok := papers[arxivid.Normalize(id)]; ok {
		return &p, nil
	}
	return nil, nil
}

// PapersByIDs returns the papers found for the given ids, keyed by id.
// Missing ids are simply absent from the map.
func (s *Store) PapersByIDs(ctx context.Context, ids []string) (map[string]types.Paper, error) {
	if len(ids) == 0 {
		return map[string]types.Paper{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM papers WHERE id IN (%s)`,
		paperColumns, placeholders(len(ids)))
	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	papers := make(map[string]types.Paper, len(ids))
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers[p.ID] = p
	}
	return papers, rows.Err()
}

// RecentCandidates returns up to limit papers ordered by publication date,
// newest first. This is the candidate pool for content-based scoring.
func (s *Store) RecentCandidates(ctx context.Context, limit int) ([]types.Paper, error) {
	if limit <= 0 {
		limit = 1000
	}
	query := fmt.Sprintf(`SELECT %s FROM papers ORDER BY published DESC LIMIT ?`, paperColumns)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent candidates: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// TrendingCandidates returns papers that are either recent (published on or
// after since) or well cited (citation count above minCitations), optionally
// pre-filtered to the given categories, ordered by citations then recency.
func (s *Store) TrendingCandidates(ctx context.Context, since time.Time, minCitations int, categories []string, limit int) ([]types.Paper, error) {
	if limit <= 0 {
		limit = 100
	}

	var qb strings.Builder
	fmt.Fprintf(&qb, `SELECT %s FROM papers WHERE (published >= ? OR citation_count > ?)`, paperColumns)
	args := []any{since.UTC().Format(time.RFC3339), minCitations}

	if len(categories) > 0 {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(papers.categories) WHERE value IN (`)
		qb.WriteString(placeholders(len(categories)))
		qb.WriteString(`))`)
		args = append(args, idArgs(categories)...)
	}

	qb.WriteString(` ORDER BY citation_count DESC, published DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying trending candidates: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
