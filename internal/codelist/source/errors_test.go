//go:generate mockgen -source=source.go -destination=mocks/mocks.go -package=mocks Source

package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFetchErrorRetryable(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     bool
	}{
		{ErrorTimeout, true},
		{ErrorProviderOutage, true},
		{ErrorRateLimited, true},
		{ErrorBadData, false},
		{ErrorAuthentication, false},
		{ErrorContractMismatch, false},
		{ErrorNotFound, false},
		{ErrorCanceled, false},
		{ErrorInternal, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := NewFetchError(tt.category, KindCountries, "x", nil)
			assert.Equal(t, tt.want, IsRetryable(err))
			assert.Equal(t, tt.want, IsRetryable(fmt.Errorf("wrapped: %w", err)))
		})
	}
}

func TestFetchErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError(ErrorProviderOutage, KindCodelists, "request failed", cause)

	assert.Equal(t, "fetch codelists [provider_outage]: request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "fetch countries [not_found]: missing", NewFetchError(ErrorNotFound, KindCountries, "missing", nil).Error())
}

func TestGetCategory(t *testing.T) {
	assert.Equal(t, ErrorCategory(""), GetCategory(nil))
	assert.Equal(t, ErrorBadData, GetCategory(NewFetchError(ErrorBadData, KindCodelists, "x", nil)))
	assert.Equal(t, ErrorTimeout, GetCategory(fmt.Errorf("x: %w", context.DeadlineExceeded)))
	assert.Equal(t, ErrorCanceled, GetCategory(context.Canceled))
	assert.Equal(t, ErrorInternal, GetCategory(errors.New("boom")))
}

func TestFromContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background(), KindCodelists))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fe := FromContext(ctx, KindCountries)
	require.NotNil(t, fe)
	assert.Equal(t, ErrorCanceled, fe.Category)
	assert.Equal(t, KindCountries, fe.Source)

	ctx, cancel = context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	assert.Equal(t, ErrorTimeout, FromContext(ctx, KindCodelists).Category)
}
