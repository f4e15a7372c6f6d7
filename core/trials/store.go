package trials

import (
	"context"
	"time"

	"github.com/kilianp07/evac/core/model"
)

// Record is one persisted trial of a harness run.
type Record struct {
	RunID     string      `json:"run_id"`
	Timestamp time.Time   `json:"timestamp"`
	Days      int         `json:"days"`
	Trial     model.Trial `json:"trial"`
}

// Query filters stored records. Zero fields match everything.
type Query struct {
	RunID string
	Start time.Time
	End   time.Time
}

func (q Query) match(r Record) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return true
}

// Store persists trial records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
