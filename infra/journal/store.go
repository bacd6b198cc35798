package journal

import (
	"context"
	"slices"
	"time"

	"github.com/kilianp07/seaplane/core/model"
)

// Record captures one delivery submission and its outcome.
type Record struct {
	ID        string                `json:"id"`
	SessionID string                `json:"session_id"`
	Timestamp time.Time             `json:"timestamp"`
	Vehicle   string                `json:"vehicle"`
	OrderIDs  []string              `json:"order_ids"`
	Crates    int                   `json:"crates"`
	Capacity  int                   `json:"capacity"`
	Resolved  bool                  `json:"resolved"`
	Delivery  *model.DeliveryResult `json:"delivery,omitempty"`
	Error     string                `json:"error,omitempty"`
	LatencyMS int64                 `json:"latency_ms"`
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start   time.Time
	End     time.Time
	Vehicle string
	OrderID string
	// Resolved filters on the outcome when not nil.
	Resolved *bool
}

// Match reports whether r satisfies q.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Vehicle != "" && r.Vehicle != q.Vehicle {
		return false
	}
	if q.OrderID != "" && !slices.Contains(r.OrderIDs, q.OrderID) {
		return false
	}
	if q.Resolved != nil && r.Resolved != *q.Resolved {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
