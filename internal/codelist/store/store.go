// Package store holds the process-wide reference data: every code list plus
// the two country lists. It is filled by refresh rounds that fetch the three
// data sets concurrently and queried synchronously by everything else.
//
// Reads never fail. Until a source has been installed they return empty
// results, and lookups of unknown codes echo the raw input back.
package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"polly/internal/codelist/metrics"
	"polly/internal/codelist/models"
	"polly/internal/codelist/source"
	"polly/internal/codelist/tracer"
)

// Phase is the state of the code-list data.
type Phase int

const (
	PhaseUnpopulated Phase = iota
	PhaseFetching
	PhasePopulated
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhasePopulated:
		return "populated"
	case PhaseErrored:
		return "errored"
	default:
		return "unpopulated"
	}
}

// slot is one independently fetched data set.
type slot struct {
	generation uint64 // round that last settled this slot
	err        error
}

// Store is the reference data store. Construct it with New or Open and share
// the single instance with every consumer.
type Store struct {
	src       source.Source
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	collation language.Tag
	publisher Publisher
	observers []Observer
	now       func() time.Time

	mu        sync.RWMutex
	codelists map[models.ListName]codeList
	countries countryList
	outsideEU countryList
	slots     map[source.Kind]*slot
	populated bool // code lists installed at least once
	inFlight  int

	generation atomic.Uint64
	group      singleflight.Group

	loadedOnce sync.Once
	loadedCh   chan struct{}

	lifetime  context.Context
	cancel    context.CancelFunc
	closed    atomic.Bool
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New constructs an empty store. Nothing is fetched until FetchData is called.
func New(src source.Source, opts ...Option) *Store {
	lifetime, cancel := context.WithCancel(context.Background())
	s := &Store{
		src:       src,
		logger:    slog.Default(),
		tracer:    tracer.NewNoop(),
		collation: DefaultCollation,
		now:       time.Now,
		codelists: map[models.ListName]codeList{},
		slots:     make(map[source.Kind]*slot, len(source.Kinds)),
		loadedCh:  make(chan struct{}),
		lifetime:  lifetime,
		cancel:    cancel,
	}
	for _, kind := range source.Kinds {
		s.slots[kind] = &slot{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open constructs a store and starts the bootstrap round in the background.
// Use Wait or IsLoaded to find out when it has settled.
func Open(ctx context.Context, src source.Source, opts ...Option) *Store {
	s := New(src, opts...)
	s.Start(ctx)
	return s
}

// Start runs the bootstrap round in the background. Close waits for it.
func (s *Store) Start(ctx context.Context) {
	ctx = withDefaultTrigger(ctx, "startup")
	s.wg.Go(func() {
		s.FetchData(ctx, false)
	})
}

// Close cancels in-flight rounds and waits for the bootstrap round to return.
// Installed data stays readable; later FetchData calls are no-ops.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.cancel()
		s.wg.Wait()
	})
}

// IsLoaded reports whether the first round has settled, whether or not its
// fetches succeeded.
func (s *Store) IsLoaded() bool {
	select {
	case <-s.loadedCh:
		return true
	default:
		return false
	}
}

// Wait blocks until the first round has settled or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.loadedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loaded returns a channel closed once the first round has settled.
func (s *Store) Loaded() <-chan struct{} {
	return s.loadedCh
}

// Phase reports the state of the code-list data.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.inFlight > 0:
		return PhaseFetching
	case s.slots[source.KindCodelists].err != nil:
		return PhaseErrored
	case s.populated:
		return PhasePopulated
	default:
		return PhaseUnpopulated
	}
}

// Err returns the current fetch failures, one per failed source, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report := Report{}
	for _, kind := range source.Kinds {
		if err := s.slots[kind].err; err != nil {
			report.Sources = append(report.Sources, SourceResult{Source: kind, Err: err})
		}
	}
	return report.Err()
}

// SourceErr returns the current failure for one source.
func (s *Store) SourceErr(kind source.Kind) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sl, ok := s.slots[kind]; ok {
		return sl.err
	}
	return nil
}

// Generation returns the newest round number started so far.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}
