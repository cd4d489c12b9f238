package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polly/internal/codelist/models"
	"polly/internal/codelist/source"
	"polly/pkg/platform/sentinel"
)

// unreachable returns a client pointed at a closed port so every command fails fast.
func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestKey(t *testing.T) {
	assert.Equal(t, "codelist:snapshot:codelists", Key(source.KindCodelists))
	assert.Equal(t, "codelist:snapshot:countries_outside_eu", Key(source.KindCountriesOutsideEU))
}

func TestPublishRejectsMismatchedPayload(t *testing.T) {
	m := New(unreachable(t))

	err := m.Publish(context.Background(), source.KindCodelists, []models.CountryCode{{Code: "USA"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected")

	err = m.Publish(context.Background(), source.KindCountries, models.Codelists{})
	require.Error(t, err)
}

func TestPublishSurfacesRedisFailure(t *testing.T) {
	m := New(unreachable(t))

	err := m.Publish(context.Background(), source.KindCountries, []models.CountryCode{{Code: "USA"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish countries snapshot")
}

func TestFetchClassifiesFailures(t *testing.T) {
	m := New(unreachable(t))

	t.Run("unreachable redis is an outage", func(t *testing.T) {
		_, err := m.FetchCountries(context.Background())
		require.Error(t, err)
		assert.Equal(t, source.ErrorProviderOutage, source.GetCategory(err))
		assert.True(t, source.IsRetryable(err))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := m.FetchCodelists(ctx)
		require.Error(t, err)
		assert.Equal(t, source.ErrorCanceled, source.GetCategory(err))
	})
}
