package store

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"polly/internal/codelist/metrics"
	"polly/internal/codelist/source"
	"polly/internal/codelist/tracer"
)

// Publisher receives every slice the store installs from a successful fetch.
// The payload is models.Codelists for source.KindCodelists and
// []models.CountryCode for the country kinds.
type Publisher interface {
	Publish(ctx context.Context, kind source.Kind, payload any) error
}

// Observer is called once per completed refresh round.
type Observer func(ctx context.Context, report Report)

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Store) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithCollation sets the language used to order codes by short name.
// Defaults to Norwegian.
func WithCollation(tag language.Tag) Option {
	return func(s *Store) {
		s.collation = collationTag(tag)
	}
}

// WithPublisher mirrors each freshly installed slice to p.
func WithPublisher(p Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithObserver registers fn to receive every completed round. Observers run
// synchronously on the goroutine that ran the round.
func WithObserver(fn Observer) Option {
	return func(s *Store) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}

// WithClock overrides time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}
