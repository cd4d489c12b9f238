package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"polly/internal/codelist/metrics"
	"polly/internal/codelist/models"
	"polly/internal/codelist/source"
	"polly/internal/codelist/tracer"
	"polly/pkg/requestcontext"
)

const fetchKey = "fetch"

// FetchData fills the store. Without refresh it is a no-op once the code
// lists have been populated, and concurrent callers share a single round.
// With refresh it always starts a new round whose successful fetches replace
// the installed data wholesale.
//
// FetchData never returns an error; per-source failures are in the Report
// and in Err until a later round succeeds.
func (s *Store) FetchData(ctx context.Context, refresh bool) Report {
	if s.closed.Load() {
		return Report{Closed: true, Skipped: true, Trigger: requestcontext.Trigger(ctx)}
	}
	if refresh {
		return s.round(ctx, true)
	}

	if r, ok := s.skipIfPopulated(ctx); ok {
		return r
	}
	var led bool
	v, _, shared := s.group.Do(fetchKey, func() (any, error) {
		led = true
		// Another caller may have finished a round while we queued up.
		if r, ok := s.skipIfPopulated(ctx); ok {
			return r, nil
		}
		return s.round(ctx, false), nil
	})
	report := v.(Report)
	if shared && !led {
		_, span := s.tracer.Start(ctx, tracer.SpanFetchJoin,
			tracer.Int64(tracer.AttrGeneration, int64(report.Generation)),
		)
		span.AddEvent(tracer.EventDeduped)
		span.End(nil)
		s.logger.DebugContext(ctx, "joined in-flight codelist fetch",
			"generation", report.Generation,
		)
	}
	return report
}

// Refresh starts a new round regardless of state. It is FetchData(ctx, true).
func (s *Store) Refresh(ctx context.Context) Report {
	return s.FetchData(ctx, true)
}

func (s *Store) skipIfPopulated(ctx context.Context) (Report, bool) {
	s.mu.RLock()
	populated := s.populated
	gen := s.slots[source.KindCodelists].generation
	s.mu.RUnlock()
	if !populated {
		return Report{}, false
	}
	now := s.now()
	return Report{
		Generation: gen,
		Trigger:    requestcontext.Trigger(ctx),
		Skipped:    true,
		StartedAt:  now,
		FinishedAt: now,
	}, true
}

// round runs the three fetches concurrently and waits for all of them. Each
// fetch installs its own slice as soon as it settles.
func (s *Store) round(ctx context.Context, refresh bool) Report {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.lifetime, cancel)
	defer stop()

	gen := s.generation.Add(1)
	report := Report{
		ID:         uuid.New(),
		Generation: gen,
		Trigger:    requestcontext.Trigger(ctx),
		Refresh:    refresh,
		StartedAt:  s.now(),
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanFetchRound,
		tracer.String(tracer.AttrTrigger, report.Trigger),
		tracer.Int64(tracer.AttrGeneration, int64(gen)),
		tracer.Bool(tracer.AttrRefresh, refresh),
	)

	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.RoundStarted(report.Trigger)
	}

	results := make([]SourceResult, len(source.Kinds))
	var g errgroup.Group
	for i, kind := range source.Kinds {
		g.Go(func() error {
			results[i] = s.fetchSource(ctx, gen, kind)
			return nil
		})
	}
	_ = g.Wait()

	report.Sources = results
	report.FinishedAt = s.now()

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
	s.loadedOnce.Do(func() { close(s.loadedCh) })
	if s.metrics != nil {
		s.metrics.RoundFinished()
	}

	err := report.Err()
	if failed := report.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, k := range failed {
			names[i] = k.String()
		}
		span.SetAttributes(tracer.Attribute{Key: tracer.AttrFailed, Value: names})
		s.logger.WarnContext(ctx, "codelist refresh round finished with failures",
			"generation", gen,
			"trigger", report.Trigger,
			"failed_sources", names,
			"error", err,
			"duration_ms", report.Duration().Milliseconds(),
		)
	} else {
		s.logger.InfoContext(ctx, "codelist refresh round finished",
			"generation", gen,
			"trigger", report.Trigger,
			"duration_ms", report.Duration().Milliseconds(),
		)
	}
	span.End(err)

	for _, observe := range s.observers {
		observe(context.WithoutCancel(ctx), report)
	}
	return report
}

func (s *Store) fetchSource(ctx context.Context, gen uint64, kind source.Kind) SourceResult {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFetchSource,
		tracer.String(tracer.AttrSource, kind.String()),
		tracer.Int64(tracer.AttrGeneration, int64(gen)),
	)

	start := time.Now()
	payload, err := source.Fetch(ctx, s.src, kind)
	result := SourceResult{Source: kind, Duration: time.Since(start), Err: err}

	if err == nil {
		result.Entries = entries(payload)
	}
	result.Stale = !s.settle(gen, kind, payload, err)

	outcome := metrics.OutcomeSuccess
	switch {
	case result.Stale:
		outcome = metrics.OutcomeStale
	case err != nil:
		outcome = string(source.GetCategory(err))
	}
	if s.metrics != nil {
		s.metrics.ObserveFetch(kind.String(), outcome, result.Duration.Seconds(), float64(s.now().Unix()))
	}

	span.SetAttributes(
		tracer.Int(tracer.AttrEntries, result.Entries),
		tracer.Bool(tracer.AttrStale, result.Stale),
	)
	if err != nil {
		span.SetAttributes(tracer.String(tracer.AttrCategory, string(source.GetCategory(err))))
		s.logger.WarnContext(ctx, "codelist fetch failed",
			"source", kind.String(),
			"generation", gen,
			"category", string(source.GetCategory(err)),
			"error", err,
		)
	} else if !result.Stale {
		span.AddEvent(tracer.EventInstalled)
		s.publish(ctx, kind, payload)
	}
	span.End(err)
	return result
}

// settle installs a fetch result unless a newer round already settled this
// source. A failed fetch keeps the previously installed data.
func (s *Store) settle(gen uint64, kind source.Kind, payload any, err error) bool {
	// Build outside the lock; sorting is the expensive part.
	var (
		lists     map[models.ListName]codeList
		countries countryList
	)
	if err == nil {
		switch kind {
		case source.KindCodelists:
			lists = s.buildCodelists(payload.(models.Codelists))
		default:
			countries = newCountryList(payload.([]models.CountryCode))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.slots[kind]
	if gen <= sl.generation {
		return false
	}
	sl.generation = gen
	sl.err = err
	if err != nil {
		return true
	}

	switch kind {
	case source.KindCodelists:
		s.codelists = lists
		s.populated = true
		if s.metrics != nil {
			counts := make(map[string]int, len(lists))
			for name, l := range lists {
				counts[name.String()] = len(l.codes)
			}
			s.metrics.SetListEntries(counts)
		}
	case source.KindCountries:
		s.countries = countries
	case source.KindCountriesOutsideEU:
		s.outsideEU = countries
	}
	if s.metrics != nil && kind != source.KindCodelists {
		s.metrics.SetCountries(kind.String(), len(countries.countries))
	}
	return true
}

func (s *Store) buildCodelists(raw models.Codelists) map[models.ListName]codeList {
	lists := make(map[models.ListName]codeList, len(raw))
	for name, codes := range raw {
		lists[name] = newCodeList(s.collation, codes)
	}
	return lists
}

func (s *Store) publish(ctx context.Context, kind source.Kind, payload any) {
	if s.publisher == nil {
		return
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanMirrorWrite,
		tracer.String(tracer.AttrSource, kind.String()),
	)
	err := s.publisher.Publish(ctx, kind, payload)
	span.End(err)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordMirrorFailure(kind.String())
		}
		s.logger.WarnContext(ctx, "failed to publish codelist snapshot",
			"source", kind.String(),
			"error", err,
		)
	}
}

func entries(payload any) int {
	switch p := payload.(type) {
	case models.Codelists:
		n := 0
		for _, codes := range p {
			n += len(codes)
		}
		return n
	case []models.CountryCode:
		return len(p)
	default:
		return 0
	}
}

func withDefaultTrigger(ctx context.Context, trigger string) context.Context {
	if _, ok := ctx.Value(requestcontext.ContextKeyTrigger).(string); ok {
		return ctx
	}
	return requestcontext.WithTrigger(ctx, trigger)
}
