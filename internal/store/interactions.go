// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/scholar-rank/internal/arxivid"
	"github.com/pdiddy/scholar-rank/pkg/types"
)

// RecordInteraction appends one interaction event. The paper id is
// normalized before storage; invalid kinds and ids are rejected.
func (s *Store) RecordInteraction(ctx context.Context, event types.InteractionEvent) error {
	if !event.Kind.Valid() {
		return fmt.Errorf("unknown interaction kind %q", event.Kind)
	}
	id := arxivid.Normalize(event.PaperID)
	if !arxivid.Valid(id) {
		return fmt.Errorf("invalid paper id %q", event.PaperID)
	}
	if event.UserID == "" {
		return fmt.Errorf("user id required")
	}

	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (user_id, paper_id, kind, occurred_at) VALUES (?, ?, ?, ?)`,
		event.UserID, id, string(event.Kind), occurred.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording interaction: %w", err)
	}
	return nil
}

// UserInteractions returns a user's interaction events since the given
// time, newest first.
func (s *Store) UserInteractions(ctx context.Context, userID string, since time.Time) ([]types.InteractionEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, paper_id, kind, occurred_at
		 FROM interactions
		 WHERE user_id = ? AND occurred_at >= ?
		 ORDER BY occurred_at DESC`,
		userID, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var events []types.InteractionEvent
	for rows.Next() {
		var (
			e        types.InteractionEvent
			kind     string
			occurred string
		)
		if err := rows.Scan(&e.UserID, &e.PaperID, &kind, &occurred); err != nil {
			return nil, fmt.Errorf("scanning interaction row: %w", err)
		}
		e.Kind = types.InteractionKind(kind)
		if t, err := time.Parse(time.RFC3339, occurred); err == nil {
			e.OccurredAt = t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UserPreferences returns the user's explicitly preferred categories, or
// nil when none are set.
func (s *Store) UserPreferences(ctx context.Context, userID string) ([]string, error) {
	var catsJSON sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT categories FROM preferences WHERE user_id = ?`, userID,
	).Scan(&catsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}

	var categories []string
	if catsJSON.Valid {
		json.Unmarshal([]byte(catsJSON.String), &categories)
	}
	return categories, nil
}

// SetPreferences replaces the user's preferred categories.
func (s *Store) SetPreferences(ctx context.Context, userID string, categories []string) error {
	catsJSON, _ := json.Marshal(categories)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (user_id, categories) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET categories=excluded.categories`,
		userID, string(catsJSON))
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
