// Package refreshlog records completed refresh rounds for operators.
package refreshlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"polly/internal/codelist/store"
)

// DefaultLimit is the number of entries returned when the caller asks for none.
const DefaultLimit = 20

// Entry is one completed refresh round.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	Generation    uint64    `json:"generation"`
	Trigger       string    `json:"trigger"`
	Refresh       bool      `json:"refresh"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	ListCount     int       `json:"list_count"`
	Sources       []string  `json:"sources"`
	FailedSources []string  `json:"failed_sources"`
	Errors        []string  `json:"errors"`
}

// Duration is the wall time of the round.
func (e Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// FromReport converts a round report. listCount is the number of code lists
// installed once the round finished.
func FromReport(r store.Report, listCount int) Entry {
	e := Entry{
		ID:            r.ID,
		Generation:    r.Generation,
		Trigger:       r.Trigger,
		Refresh:       r.Refresh,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		ListCount:     listCount,
		Sources:       make([]string, 0, len(r.Sources)),
		FailedSources: []string{},
		Errors:        []string{},
	}
	for _, sr := range r.Sources {
		e.Sources = append(e.Sources, sr.Source.String())
		if sr.Err != nil {
			e.FailedSources = append(e.FailedSources, sr.Source.String())
			e.Errors = append(e.Errors, sr.Err.Error())
		}
	}
	return e
}

// Log persists entries and returns the most recent first.
type Log interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Observer returns a store observer that appends every completed round to l.
// listCount reports how many lists the store holds at the time of the call.
// Append failures are logged; they never affect the round.
func Observer(l Log, listCount func() int, logger *slog.Logger) store.Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, r store.Report) {
		n := 0
		if listCount != nil {
			n = listCount()
		}
		if err := l.Append(ctx, FromReport(r, n)); err != nil {
			logger.WarnContext(ctx, "failed to record refresh round",
				"round_id", r.ID.String(),
				"generation", r.Generation,
				"error", err,
			)
		}
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
