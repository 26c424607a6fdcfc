// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"math"
	"time"
)

// InteractionKind classifies a user interaction with a paper.
type InteractionKind string

const (
	InteractionSaved  InteractionKind = "saved"
	InteractionLiked  InteractionKind = "liked"
	InteractionViewed InteractionKind = "viewed"
)

// Valid reports whether the kind is one of the known interaction kinds.
func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionSaved, InteractionLiked, InteractionViewed:
		return true
	}
	return false
}

// BaseWeight returns the kind-specific weight before recency decay.
// Unknown kinds weigh 1.0.
func (k InteractionKind) BaseWeight() float64 {
	switch k {
	case InteractionSaved:
		return 5.0
	case InteractionLiked:
		return 3.0
	case InteractionViewed:
		return 0.5
	}
	return 1.0
}

// DecayHalfLifeDays is the half-life of an interaction's weight.
const DecayHalfLifeDays = 30.0

// InteractionEvent records one user interaction. Events are immutable once
// recorded; the ranking engine only reads them.
type InteractionEvent struct {
	UserID     string          `json:"user_id" yaml:"user_id"`
	PaperID    string          `json:"paper_id" yaml:"paper_id"`
	Kind       InteractionKind `json:"kind" yaml:"kind"`
	OccurredAt time.Time       `json:"occurred_at" yaml:"occurred_at"`
}

// Weight returns the event's decayed weight at time now:
// base_weight × 0.5^(days_since / 30). An event dated in the future weighs
// its full base weight.
func (e InteractionEvent) Weight(now time.Time) float64 {
	days := now.Sub(e.OccurredAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	return e.Kind.BaseWeight() * math.Pow(0.5, days/DecayHalfLifeDays)
}
