package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"polly/internal/codelist/source"
)

// ErrClosed is reported by rounds requested after Close.
var ErrClosed = errors.New("codelist store closed")

// SourceResult is the outcome of one fetch within a round.
type SourceResult struct {
	Source   source.Kind
	Entries  int
	Duration time.Duration
	Err      error
	// Stale is set when a newer round had already settled this source, so
	// the result was discarded.
	Stale bool
}

// Report describes a refresh round. A round skipped because the store was
// already populated has Skipped set and no Sources.
type Report struct {
	ID         uuid.UUID
	Generation uint64
	Trigger    string
	Refresh    bool
	Skipped    bool
	Closed     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Sources    []SourceResult
}

// Err aggregates per-source failures, or returns nil when every fetch succeeded.
func (r Report) Err() error {
	if r.Closed {
		return ErrClosed
	}
	var result *multierror.Error
	for _, sr := range r.Sources {
		if sr.Err != nil {
			result = multierror.Append(result, sr.Err)
		}
	}
	return result.ErrorOrNil()
}

// Failed lists the sources whose fetch failed.
func (r Report) Failed() []source.Kind {
	var failed []source.Kind
	for _, sr := range r.Sources {
		if sr.Err != nil {
			failed = append(failed, sr.Source)
		}
	}
	return failed
}

// Result returns the outcome for kind.
func (r Report) Result(kind source.Kind) (SourceResult, bool) {
	for _, sr := range r.Sources {
		if sr.Source == kind {
			return sr, true
		}
	}
	return SourceResult{}, false
}

// Duration is the wall time of the round.
func (r Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
