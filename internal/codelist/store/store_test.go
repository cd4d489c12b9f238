package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"polly/internal/codelist/metrics"
	"polly/internal/codelist/models"
	"polly/internal/codelist/source"
	"polly/internal/codelist/source/contract"
	"polly/internal/codelist/source/mocks"
	"polly/internal/codelist/tracer"
	"polly/pkg/requestcontext"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type StoreSuite struct {
	suite.Suite
	ctx     context.Context
	fixture *source.Static
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.fixture = contract.Fixture()
}

func (s *StoreSuite) newStore(src source.Source, opts ...Option) *Store {
	st := New(src, append([]Option{WithLogger(discard)}, opts...)...)
	s.T().Cleanup(st.Close)
	return st
}

func (s *StoreSuite) TestUnpopulatedReadsDegrade() {
	st := s.newStore(s.fixture)

	s.False(st.IsLoaded())
	s.Equal(PhaseUnpopulated, st.Phase())
	s.NoError(st.Err())

	codes := st.GetCodes(models.ListPurpose)
	s.NotNil(codes)
	s.Empty(codes)

	s.NotNil(st.GetParsedOptions(models.ListPurpose))
	s.Empty(st.GetParsedOptions(models.ListPurpose))
	s.NotNil(st.GetCountryCodesOutsideEU())
	s.Empty(st.GetCountryCodesOutsideEU())

	s.Equal("YTA", st.GetShortName(models.ListDepartment, "YTA"))
	s.Equal("YTA", st.GetDescription(models.ListDepartment, "YTA"))
	s.Equal("NOR", st.CountryName("NOR"))
	s.False(st.Valid(models.ListDepartment, "YTA"))

	_, ok := st.GetCode(models.ListDepartment, "YTA")
	s.False(ok)
}

func (s *StoreSuite) TestFetchPopulatesEveryCode() {
	st := s.newStore(s.fixture)

	report := st.FetchData(s.ctx, false)
	s.Require().NoError(report.Err())
	s.False(report.Skipped)
	s.Len(report.Sources, 3)
	s.True(st.IsLoaded())
	s.Equal(PhasePopulated, st.Phase())

	for list, codes := range s.fixture.Codelists {
		for _, c := range codes {
			got, ok := st.GetCode(list, c.Code)
			s.Require().True(ok, "%s/%s", list, c.Code)
			s.Equal(c, got)
			s.True(st.Valid(list, c.Code))
			s.Equal(c.ShortName, st.GetShortName(list, c.Code))
			s.Equal(c.Description, st.GetDescription(list, c.Code))
		}
	}

	s.Equal("Norge", st.CountryName("NOR"))
	s.Len(st.GetCountries(), 4)
	s.Equal(s.fixture.CountriesOutsideEU, st.GetCountryCodesOutsideEU())
}

func (s *StoreSuite) TestUnknownCodesEchoInput() {
	st := s.newStore(s.fixture)
	st.FetchData(s.ctx, false)

	s.Equal("LEGACY", st.GetShortName(models.ListDepartment, "LEGACY"))
	s.Equal("LEGACY", st.GetDescription(models.ListDepartment, "LEGACY"))
	s.Equal("XXX", st.CountryName("XXX"))
	s.False(st.Valid(models.ListDepartment, ""))
	s.False(st.Valid(models.ListName("NOPE"), "YTA"))
	s.Equal([]string{"Ytelsesavdelingen", "LEGACY"}, st.GetShortNames(models.ListDepartment, []string{"YTA", "LEGACY"}))

	lookup := st.Find(models.ListDepartment, "LEGACY")
	s.False(lookup.Found())
	s.Equal("LEGACY", lookup.Input)
}

func (s *StoreSuite) TestCodesSortedByCollation() {
	s.fixture.Codelists[models.ListPurpose] = []models.Code{
		{List: models.ListPurpose, Code: "P1", ShortName: "Åpenhet"},
		{List: models.ListPurpose, Code: "P2", ShortName: "Banan"},
		{List: models.ListPurpose, Code: "P3", ShortName: "Ærlighet"},
		{List: models.ListPurpose, Code: "P4", ShortName: "apparat"},
		{List: models.ListPurpose, Code: "P5", ShortName: "Østland"},
		{List: models.ListPurpose, Code: "P6", ShortName: "Zebra"},
	}
	want := []string{"apparat", "Banan", "Zebra", "Ærlighet", "Østland", "Åpenhet"}

	for range 5 {
		rand.Shuffle(len(s.fixture.Codelists[models.ListPurpose]), func(i, j int) {
			codes := s.fixture.Codelists[models.ListPurpose]
			codes[i], codes[j] = codes[j], codes[i]
		})

		st := s.newStore(s.fixture)
		st.FetchData(s.ctx, false)

		var got []string
		for _, c := range st.GetCodes(models.ListPurpose) {
			got = append(got, c.ShortName)
		}
		s.Equal(want, got)

		var labels []string
		for _, o := range st.GetParsedOptions(models.ListPurpose) {
			labels = append(labels, o.Label)
		}
		s.Equal(want, labels)
	}
}

func (s *StoreSuite) TestGetCodesReturnsCopy() {
	st := s.newStore(s.fixture)
	st.FetchData(s.ctx, false)

	codes := st.GetCodes(models.ListDepartment)
	codes[0].ShortName = "mutated"

	s.NotEqual("mutated", st.GetCodes(models.ListDepartment)[0].ShortName)
}

func (s *StoreSuite) TestDuplicateCodeResolvesToFirstInSortOrder() {
	s.fixture.Codelists[models.ListSystem] = []models.Code{
		{List: models.ListSystem, Code: "DUP", ShortName: "Beta"},
		{List: models.ListSystem, Code: "DUP", ShortName: "Alfa"},
	}
	st := s.newStore(s.fixture)
	st.FetchData(s.ctx, false)

	s.Equal("Alfa", st.GetShortName(models.ListSystem, "DUP"))
}

func (s *StoreSuite) TestUnenumeratedListIsQueryable() {
	s.fixture.Codelists["SOURCE"] = []models.Code{{List: "SOURCE", Code: "SKATT", ShortName: "Skatteetaten"}}
	st := s.newStore(s.fixture)
	st.FetchData(s.ctx, false)

	s.Equal("Skatteetaten", st.GetShortName("SOURCE", "SKATT"))
	s.Contains(st.Lists(), models.ListName("SOURCE"))
	s.NotContains(st.MakeIDLabelForAllCodeLists(), models.Option{ID: "SOURCE", Label: "SOURCE"})
}

func (s *StoreSuite) TestFilterOutSelected() {
	st := s.newStore(s.fixture)
	st.FetchData(s.ctx, false)
	all := st.GetParsedOptions(models.ListDepartment)

	s.Equal(all, st.GetParsedOptionsFilterOutSelected(models.ListDepartment, nil))
	s.Equal(all, st.GetParsedOptionsFilterOutSelected(models.ListDepartment, []string{}))

	got := st.GetParsedOptionsFilterOutSelected(models.ListDepartment, []string{"YTA", "UNKNOWN"})
	s.Len(got, len(all)-1)
	for _, o := range got {
		s.NotEqual("YTA", o.ID)
	}

	// Filtering must not disturb later unfiltered reads.
	s.Equal(all, st.GetParsedOptions(models.ListDepartment))
}

func (s *StoreSuite) TestParsedOptionsForList() {
	st := s.newStore(s.fixture)
	st.FetchData(s.ctx, false)

	got := st.GetParsedOptionsForList(models.ListDepartment, []string{"YTA", "GONE"})
	s.Equal([]models.Option{
		{ID: "YTA", Label: "Ytelsesavdelingen"},
		{ID: "GONE", Label: "GONE"},
	}, got)
	s.Empty(st.GetParsedOptionsForList(models.ListDepartment, nil))
}

func (s *StoreSuite) TestShortNameForCodes() {
	st := s.newStore(s.fixture)
	st.FetchData(s.ctx, false)

	codes := []models.Code{
		{List: models.ListDepartment, Code: "YTA"},
		{List: models.ListDepartment, Code: "ATA"},
		{List: models.ListDepartment, Code: "OLD"},
	}
	s.Equal("Ytelsesavdelingen, Arbeids- og tjenesteavdelingen, OLD", st.ShortNameForCodes(codes))
	s.Equal("Ytelsesavdelingen", st.ShortNameForCode(codes[0]))
	s.Empty(st.ShortNameForCodes(nil))
}

func (s *StoreSuite) TestMakeIDLabelForAllCodeLists() {
	st := s.newStore(s.fixture)

	got := st.MakeIDLabelForAllCodeLists()
	s.Len(got, len(models.AllListNames))
	for i, name := range models.AllListNames {
		s.Equal(models.Option{ID: string(name), Label: string(name)}, got[i])
	}
}

func (s *StoreSuite) TestPredicatesDelegate() {
	st := s.newStore(s.fixture)

	s.True(st.RequiresNationalLaw("ART61C"))
	s.False(st.RequiresNationalLaw("ART61A"))
	s.True(st.RequiresDescription("ART61F"))
	s.True(st.RequiresArt9("SAERLIGE"))
	s.True(st.IsArt6("ART61F"))
	s.False(st.IsArt9("ART61F"))
	s.False(st.IsArt6("ART91A"))
	s.True(st.IsForskrift("FORSKRIT_FTRL"))
	s.True(st.ShowSubDepartment("YTA"))
	s.False(st.ShowSubDepartment("UNKNOWN_DEPT"))
}

func (s *StoreSuite) TestSecondFetchIsNoop() {
	ctrl := gomock.NewController(s.T())
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().FetchCodelists(gomock.Any()).Return(s.fixture.Codelists, nil).Times(1)
	src.EXPECT().FetchCountries(gomock.Any()).Return(s.fixture.Countries, nil).Times(1)
	src.EXPECT().FetchCountriesOutsideEU(gomock.Any()).Return(s.fixture.CountriesOutsideEU, nil).Times(1)

	st := s.newStore(src)
	first := st.FetchData(s.ctx, false)
	before := st.GetCodes(models.ListDepartment)

	second := st.FetchData(s.ctx, false)
	s.True(second.Skipped)
	s.Equal(first.Generation, second.Generation)
	s.Equal(before, st.GetCodes(models.ListDepartment))
}

func (s *StoreSuite) TestRefreshReplacesWholesale() {
	ctrl := gomock.NewController(s.T())
	src := mocks.NewMockSource(ctrl)

	first := models.Codelists{
		models.ListDepartment: {
			{List: models.ListDepartment, Code: "YTA", ShortName: "Ytelse"},
			{List: models.ListDepartment, Code: "OLD", ShortName: "Gammel"},
		},
		models.ListPurpose: {{List: models.ListPurpose, Code: "P1", ShortName: "Formål"}},
	}
	second := models.Codelists{
		models.ListDepartment: {{List: models.ListDepartment, Code: "NEW", ShortName: "Ny"}},
	}
	gomock.InOrder(
		src.EXPECT().FetchCodelists(gomock.Any()).Return(first, nil),
		src.EXPECT().FetchCodelists(gomock.Any()).Return(second, nil),
	)
	src.EXPECT().FetchCountries(gomock.Any()).Return(nil, nil).Times(2)
	src.EXPECT().FetchCountriesOutsideEU(gomock.Any()).Return(nil, nil).Times(2)

	st := s.newStore(src)
	st.FetchData(s.ctx, false)
	s.Len(st.GetCodes(models.ListDepartment), 2)

	report := st.Refresh(s.ctx)
	s.True(report.Refresh)
	s.Require().NoError(report.Err())

	s.Equal(second[models.ListDepartment], st.GetCodes(models.ListDepartment))
	s.False(st.Valid(models.ListDepartment, "OLD"))
	s.Empty(st.GetCodes(models.ListPurpose))
}

func (s *StoreSuite) TestPartialFailureOutsideEU() {
	s.fixture.Errors = map[source.Kind]error{
		source.KindCountriesOutsideEU: source.NewFetchError(source.ErrorProviderOutage, source.KindCountriesOutsideEU, "server error: 500", nil),
	}
	st := s.newStore(s.fixture)

	report := st.FetchData(s.ctx, false)

	s.Equal([]source.Kind{source.KindCountriesOutsideEU}, report.Failed())
	s.Error(report.Err())
	s.True(st.IsLoaded())
	s.Equal(PhasePopulated, st.Phase())
	s.NotEmpty(st.GetCodes(models.ListDepartment))
	s.Equal("Norge", st.CountryName("NOR"))
	s.NotNil(st.GetCountryCodesOutsideEU())
	s.Empty(st.GetCountryCodesOutsideEU())
	s.Error(st.Err())
	s.Error(st.SourceErr(source.KindCountriesOutsideEU))
	s.NoError(st.SourceErr(source.KindCodelists))
}

func (s *StoreSuite) TestCodelistFailureIsErrored() {
	s.fixture.Errors = map[source.Kind]error{
		source.KindCodelists: source.NewFetchError(source.ErrorTimeout, source.KindCodelists, "request timeout", nil),
	}
	st := s.newStore(s.fixture)

	st.FetchData(s.ctx, false)

	s.True(st.IsLoaded())
	s.Equal(PhaseErrored, st.Phase())
	s.Empty(st.GetCodes(models.ListDepartment))
	s.Equal("Norge", st.CountryName("NOR"))

	// Never populated, so a plain FetchData tries again.
	s.fixture.Errors = nil
	report := st.FetchData(s.ctx, false)
	s.False(report.Skipped)
	s.Equal(PhasePopulated, st.Phase())
	s.NoError(st.Err())
}

func (s *StoreSuite) TestFailedRefreshKeepsInstalledData() {
	st := s.newStore(s.fixture)
	st.FetchData(s.ctx, false)

	s.fixture.Errors = map[source.Kind]error{
		source.KindCodelists: errors.New("connection reset"),
	}
	report := st.Refresh(s.ctx)

	s.Error(report.Err())
	s.Equal(PhaseErrored, st.Phase())
	s.Equal("Ytelsesavdelingen", st.GetShortName(models.ListDepartment, "YTA"))
}

func (s *StoreSuite) TestConcurrentFetchSharesRound() {
	src := newGatedSource(s.fixture)
	st := s.newStore(src)

	var wg sync.WaitGroup
	reports := make([]Report, 5)
	for i := range reports {
		wg.Go(func() {
			reports[i] = st.FetchData(s.ctx, false)
		})
	}

	src.waitStarted(s.T())
	s.Equal(PhaseFetching, st.Phase())
	close(src.release)
	wg.Wait()

	s.Equal(int32(1), src.codelistCalls.Load())
	for _, r := range reports {
		s.Equal(reports[0].Generation, r.Generation)
	}
}

func (s *StoreSuite) TestJoinedFetchRecordsDedupedEvent() {
	src := newGatedSource(s.fixture)
	rec := &recordingTracer{}
	st := s.newStore(src, WithTracer(rec))

	leader := make(chan Report)
	go func() { leader <- st.FetchData(s.ctx, false) }()
	src.waitStarted(s.T())

	joiner := make(chan Report)
	go func() { joiner <- st.FetchData(s.ctx, false) }()
	// Give the second caller time to queue on the in-flight round.
	time.Sleep(100 * time.Millisecond)
	close(src.release)

	first, second := <-leader, <-joiner
	s.Equal(first.Generation, second.Generation)
	s.Equal(int32(1), src.codelistCalls.Load())
	s.Equal([]string{tracer.EventDeduped}, rec.eventsFor(tracer.SpanFetchJoin))
}

func (s *StoreSuite) TestLateRoundDoesNotOverwriteNewer() {
	slow := newGatedSource(s.fixture)
	slow.later = models.Codelists{
		models.ListDepartment: {{List: models.ListDepartment, Code: "NEW", ShortName: "Ny"}},
	}
	st := s.newStore(slow)

	done := make(chan Report)
	go func() { done <- st.FetchData(s.ctx, false) }()
	slow.waitStarted(s.T())

	// Second round completes while the first is still blocked.
	newer := st.Refresh(s.ctx)
	s.Require().NoError(newer.Err())

	close(slow.release)
	older := <-done

	result, ok := older.Result(source.KindCodelists)
	s.Require().True(ok)
	s.True(result.Stale)
	s.Less(older.Generation, newer.Generation)
	s.True(st.Valid(models.ListDepartment, "NEW"))
	s.False(st.Valid(models.ListDepartment, "YTA"))
}

func (s *StoreSuite) TestWait() {
	src := newGatedSource(s.fixture)
	st := New(src, WithLogger(discard))
	defer st.Close()

	go st.FetchData(s.ctx, false)
	src.waitStarted(s.T())

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()
	s.ErrorIs(st.Wait(ctx), context.DeadlineExceeded)

	close(src.release)
	s.Require().NoError(st.Wait(s.ctx))
	s.True(st.IsLoaded())
	select {
	case <-st.Loaded():
	default:
		s.Fail("loaded channel not closed")
	}
}

func (s *StoreSuite) TestOpenBootstrapsInBackground() {
	var trigger atomic.Value
	st := Open(s.ctx, s.fixture,
		WithLogger(discard),
		WithObserver(func(_ context.Context, r Report) { trigger.Store(r.Trigger) }),
	)
	defer st.Close()

	s.Require().NoError(st.Wait(s.ctx))
	s.Equal(PhasePopulated, st.Phase())
	s.Eventually(func() bool { return trigger.Load() == "startup" }, time.Second, 5*time.Millisecond)
}

func (s *StoreSuite) TestCloseCancelsBootstrap() {
	src := newGatedSource(s.fixture)
	st := Open(s.ctx, src, WithLogger(discard))
	src.waitStarted(s.T())

	st.Close()

	s.True(st.IsLoaded())
	s.Equal(PhaseErrored, st.Phase())
	s.Equal(source.ErrorCanceled, source.GetCategory(st.SourceErr(source.KindCodelists)))

	report := st.FetchData(s.ctx, true)
	s.True(report.Closed)
	s.ErrorIs(report.Err(), ErrClosed)
	s.Empty(st.GetCodes(models.ListDepartment))
}

func (s *StoreSuite) TestObserverAndPublisher() {
	pub := &recordingPublisher{err: map[source.Kind]error{source.KindCountries: errors.New("redis down")}}
	var observed []Report
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	st := s.newStore(s.fixture,
		WithPublisher(pub),
		WithMetrics(m),
		WithObserver(func(_ context.Context, r Report) { observed = append(observed, r) }),
	)

	ctx := requestcontext.WithTrigger(s.ctx, "admin")
	report := st.Refresh(ctx)

	s.Require().Len(observed, 1)
	s.Equal(report.ID, observed[0].ID)
	s.Equal("admin", observed[0].Trigger)
	s.NoError(report.Err(), "publish failures do not fail the round")
	s.ElementsMatch(source.Kinds, pub.kinds())
	s.Equal(1.0, testutil.ToFloat64(m.MirrorPublishFailuresTotal.WithLabelValues("countries")))
	s.Equal(4.0, testutil.ToFloat64(m.EntriesPerList.WithLabelValues("DEPARTMENT")))
	s.Equal(1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("codelists", metrics.OutcomeSuccess)))

	st.GetShortName(models.ListDepartment, "LEGACY")
	s.Equal(1.0, testutil.ToFloat64(m.LookupFallbacksTotal.WithLabelValues("DEPARTMENT")))
}

func TestReportErr(t *testing.T) {
	r := Report{Sources: []SourceResult{
		{Source: source.KindCodelists},
		{Source: source.KindCountries, Err: errors.New("a")},
		{Source: source.KindCountriesOutsideEU, Err: errors.New("b")},
	}}
	err := r.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Equal(t, []source.Kind{source.KindCountries, source.KindCountriesOutsideEU}, r.Failed())
	assert.NoError(t, Report{}.Err())
	assert.Zero(t, Report{}.Duration())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "unpopulated", PhaseUnpopulated.String())
	assert.Equal(t, "fetching", PhaseFetching.String())
	assert.Equal(t, "populated", PhasePopulated.String())
	assert.Equal(t, "errored", PhaseErrored.String())
}

func TestParseCollation(t *testing.T) {
	tag, err := ParseCollation("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCollation, tag)

	_, err = ParseCollation("not a tag!")
	assert.Error(t, err)

	for _, in := range []string{"nb", "no", "nb-NO", "nn"} {
		tag, err := ParseCollation(in)
		require.NoError(t, err, in)
		assert.Equal(t, DefaultCollation, tag, in)
	}

	tag, err = ParseCollation("sv")
	require.NoError(t, err)
	assert.Equal(t, language.MustParse("sv"), tag)
}

func TestNorwegianCollationPlacesVowelsAfterZ(t *testing.T) {
	for _, in := range []string{"nb", "no", "nb-NO"} {
		tag, err := ParseCollation(in)
		require.NoError(t, err)
		c := collate.New(tag)
		assert.Equal(t, -1, c.CompareString("Zebra", "Østland"), in)
		assert.Equal(t, -1, c.CompareString("Zebra", "Ærlighet"), in)
		assert.Equal(t, -1, c.CompareString("Ærlighet", "Åpenhet"), in)
	}
}

func (s *StoreSuite) TestWithBokmalCollationSortsNorwegianVowelsLast() {
	s.fixture.Codelists[models.ListPurpose] = []models.Code{
		{List: models.ListPurpose, Code: "P1", ShortName: "Økonomi"},
		{List: models.ListPurpose, Code: "P2", ShortName: "Zebra"},
		{List: models.ListPurpose, Code: "P3", ShortName: "Ytelse"},
	}
	st := s.newStore(s.fixture, WithCollation(language.MustParse("nb")))
	st.FetchData(s.ctx, false)

	var got []string
	for _, c := range st.GetCodes(models.ListPurpose) {
		got = append(got, c.ShortName)
	}
	s.Equal([]string{"Ytelse", "Zebra", "Økonomi"}, got)
}

// gatedSource blocks the first code-list fetch until release is closed or
// the context is done. Later fetches return later when set.
type gatedSource struct {
	*source.Static
	later         models.Codelists
	release       chan struct{}
	started       chan struct{}
	startOnce     sync.Once
	codelistCalls atomic.Int32
}

func newGatedSource(fixture *source.Static) *gatedSource {
	return &gatedSource{
		Static:  fixture,
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
}

func (g *gatedSource) FetchCodelists(ctx context.Context) (models.Codelists, error) {
	if g.codelistCalls.Add(1) > 1 && g.later != nil {
		return g.later, nil
	}
	g.startOnce.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return g.Static.FetchCodelists(ctx)
	case <-ctx.Done():
		return nil, source.FromContext(ctx, source.KindCodelists)
	}
}

func (g *gatedSource) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-g.started:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch never started")
	}
}

type recordingPublisher struct {
	mu   sync.Mutex
	seen []source.Kind
	err  map[source.Kind]error
}

func (p *recordingPublisher) Publish(_ context.Context, kind source.Kind, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, kind)
	return p.err[kind]
}

func (p *recordingPublisher) kinds() []source.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]source.Kind(nil), p.seen...)
}

// recordingTracer captures span events by span name.
type recordingTracer struct {
	mu     sync.Mutex
	events map[string][]string
}

func (r *recordingTracer) Start(ctx context.Context, name string, _ ...tracer.Attribute) (context.Context, tracer.Span) {
	return ctx, &recordingSpan{tracer: r, name: name}
}

func (r *recordingTracer) eventsFor(span string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events[span]...)
}

type recordingSpan struct {
	tracer *recordingTracer
	name   string
}

func (s *recordingSpan) End(error) {}
func (s *recordingSpan) SetAttributes(...tracer.Attribute) {}

func (s *recordingSpan) AddEvent(name string, _ ...tracer.Attribute) {
	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	if s.tracer.events == nil {
		s.tracer.events = make(map[string][]string)
	}
	s.tracer.events[s.name] = append(s.tracer.events[s.name], name)
}
