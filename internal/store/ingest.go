// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-rank/internal/arxivid"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

// paperFile is the on-disk YAML format for one paper's metadata and its
// outbound citations.
type paperFile struct {
	types.Paper `yaml:",inline"`

	// Cites lists the ids of papers this paper cites.
	Cites []string `yaml:"cites,omitempty"`
}

// IngestSummary holds counts from a store ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads paper metadata YAML files from the papers directory and
// populates the papers and citations tables. Files unchanged since the last
// run are skipped by modification time.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.papersDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading papers directory %s: %w", s.papersDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := entry.Name()
		path := filepath.Join(s.papersDir, name)

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE file = ?`, name,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		var pf paperFile
		if err := yaml.Unmarshal(data, &pf); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", name, err)
			summary.Failed++
			continue
		}

		pf.ID = arxivid.Normalize(pf.ID)
		if !arxivid.Valid(pf.ID) {
			fmt.Fprintf(w, "failed  %s: invalid paper id %q\n", name, pf.ID)
			summary.Failed++
			continue
		}

		if err := s.ingestPaper(ctx, &pf, name, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d citations)\n", pf.ID, len(pf.Cites))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d citations)\n", pf.ID, len(pf.Cites))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestPaper(ctx context.Context, pf *paperFile, file, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	authorsJSON, _ := json.Marshal(pf.Authors)
	catsJSON, _ := json.Marshal(pf.Categories)
	published := ""
	if !pf.Published.IsZero() {
		published = pf.Published.UTC().Format(time.RFC3339)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, title, abstract, authors, categories, published,
			citation_count, influential_citation_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract,
			authors=excluded.authors, categories=excluded.categories,
			published=excluded.published, citation_count=excluded.citation_count,
			influential_citation_count=excluded.influential_citation_count`,
		pf.ID, pf.Title, pf.Abstract, string(authorsJSON), string(catsJSON),
		published, pf.CitationCount, pf.InfluentialCitationCount)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	// Replace the paper's outbound edges.
	if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE source = ?`, pf.ID); err != nil {
		return fmt.Errorf("deleting old citations: %w", err)
	}
	for _, target := range pf.Cites {
		target = arxivid.Normalize(target)
		if !arxivid.Valid(target) {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO citations (source, target) VALUES (?, ?)`, pf.ID, target)
		if err != nil {
			return fmt.Errorf("inserting citation %s -> %s: %w", pf.ID, target, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (file, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(file) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		file, modTime)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}
