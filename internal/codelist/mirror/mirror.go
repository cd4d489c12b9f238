// Package mirror keeps a copy of the last fetched reference data in Redis.
//
// A store backed by the authoritative backend publishes every installed slice
// through Mirror.Publish. Replicas read the same keys back through the
// source.Source methods, so they can start without reaching the backend.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"polly/internal/codelist/models"
	"polly/internal/codelist/source"
	"polly/internal/codelist/store"
	"polly/pkg/platform/sentinel"
)

const keyPrefix = "codelist:snapshot:"

// Key returns the Redis key holding the snapshot for kind.
func Key(kind source.Kind) string {
	return keyPrefix + kind.String()
}

// snapshot is the stored envelope. Data holds the JSON-encoded payload.
type snapshot struct {
	PublishedAt time.Time       `json:"published_at"`
	Data        json.RawMessage `json:"data"`
}

// Mirror publishes and reads reference data snapshots in Redis.
type Mirror struct {
	client *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Mirror.
type Option func(*Mirror)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Mirror) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the publish timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Mirror) {
		if now != nil {
			m.now = now
		}
	}
}

var (
	_ source.Source   = (*Mirror)(nil)
	_ store.Publisher = (*Mirror)(nil)
)

// New creates a Redis-backed mirror.
func New(client *redis.Client, opts ...Option) *Mirror {
	m := &Mirror{
		client: client,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Publish stores payload as the current snapshot for kind. Snapshots never
// expire; each publish replaces the previous one.
func (m *Mirror) Publish(ctx context.Context, kind source.Kind, payload any) error {
	if err := checkPayload(kind, payload); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", kind, err)
	}
	envelope, err := json.Marshal(snapshot{PublishedAt: m.now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", kind, err)
	}
	if err := m.client.Set(ctx, Key(kind), envelope, 0).Err(); err != nil {
		return fmt.Errorf("publish %s snapshot: %w", kind, err)
	}
	return nil
}

func checkPayload(kind source.Kind, payload any) error {
	switch kind {
	case source.KindCodelists:
		if _, ok := payload.(models.Codelists); ok {
			return nil
		}
	case source.KindCountries, source.KindCountriesOutsideEU:
		if _, ok := payload.([]models.CountryCode); ok {
			return nil
		}
	}
	return fmt.Errorf("unexpected %T payload for %s snapshot", payload, kind)
}

func (m *Mirror) FetchCodelists(ctx context.Context) (models.Codelists, error) {
	var lists models.Codelists
	if err := m.read(ctx, source.KindCodelists, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = models.Codelists{}
	}
	return lists, nil
}

func (m *Mirror) FetchCountries(ctx context.Context) ([]models.CountryCode, error) {
	return m.readCountries(ctx, source.KindCountries)
}

func (m *Mirror) FetchCountriesOutsideEU(ctx context.Context) ([]models.CountryCode, error) {
	return m.readCountries(ctx, source.KindCountriesOutsideEU)
}

func (m *Mirror) readCountries(ctx context.Context, kind source.Kind) ([]models.CountryCode, error) {
	var countries []models.CountryCode
	if err := m.read(ctx, kind, &countries); err != nil {
		return nil, err
	}
	if countries == nil {
		countries = []models.CountryCode{}
	}
	return countries, nil
}

func (m *Mirror) read(ctx context.Context, kind source.Kind, out any) error {
	if err := ctx.Err(); err != nil {
		return source.FromContext(ctx, kind)
	}

	raw, err := m.client.Get(ctx, Key(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return source.NewFetchError(source.ErrorNotFound, kind, "snapshot missing", sentinel.ErrNotFound)
		}
		if ctx.Err() != nil {
			return source.FromContext(ctx, kind)
		}
		return source.NewFetchError(source.ErrorProviderOutage, kind, "read snapshot",
			fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err))
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return source.NewFetchError(source.ErrorBadData, kind, "decode snapshot envelope", err)
	}
	if err := json.Unmarshal(snap.Data, out); err != nil {
		return source.NewFetchError(source.ErrorBadData, kind, "decode snapshot", err)
	}

	m.logger.DebugContext(ctx, "read codelist snapshot",
		"source", kind.String(),
		"published_at", snap.PublishedAt,
		"age", m.now().Sub(snap.PublishedAt).Round(time.Second).String(),
	)
	return nil
}
