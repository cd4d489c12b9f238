// Package httpsource fetches reference data from the backend REST API.
package httpsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"polly/internal/codelist/models"
	"polly/internal/codelist/source"
)

const (
	pathCodelists          = "/codelist"
	pathCountries          = "/codelist/countries"
	pathCountriesOutsideEU = "/codelist/countriesOutsideEUEEA"

	// Code lists are small; anything above this is a broken backend.
	maxBodyBytes = 16 << 20
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements source.Source against the backend API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

var _ source.Source = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithAPIKey sends key in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// New creates a client rooted at baseURL. Each request is bounded by timeout
// in addition to the caller's context.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type codelistResponse struct {
	Codelist models.Codelists `json:"codelist"`
}

// FetchCodelists calls GET /codelist.
func (c *Client) FetchCodelists(ctx context.Context) (models.Codelists, error) {
	var resp codelistResponse
	if err := c.get(ctx, source.KindCodelists, pathCodelists, &resp); err != nil {
		return nil, err
	}
	if resp.Codelist == nil {
		return nil, source.NewFetchError(source.ErrorContractMismatch, source.KindCodelists, "response has no codelist field", nil)
	}

	// Older backends omit "list" on each entry; the map key is authoritative.
	for list, codes := range resp.Codelist {
		for i := range codes {
			if codes[i].List == "" {
				codes[i].List = list
			}
		}
	}
	return resp.Codelist, nil
}

// FetchCountries calls GET /codelist/countries.
func (c *Client) FetchCountries(ctx context.Context) ([]models.CountryCode, error) {
	var countries []models.CountryCode
	if err := c.get(ctx, source.KindCountries, pathCountries, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// FetchCountriesOutsideEU calls GET /codelist/countriesOutsideEUEEA.
func (c *Client) FetchCountriesOutsideEU(ctx context.Context) ([]models.CountryCode, error) {
	var countries []models.CountryCode
	if err := c.get(ctx, source.KindCountriesOutsideEU, pathCountriesOutsideEU, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (c *Client) get(ctx context.Context, kind source.Kind, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return source.NewFetchError(source.ErrorInternal, kind, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if fe := source.FromContext(ctx, kind); fe != nil {
			return fe
		}
		if isTimeout(err) {
			return source.NewFetchError(source.ErrorTimeout, kind, "request timeout", err)
		}
		return source.NewFetchError(source.ErrorProviderOutage, kind, "failed to execute request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if fe := source.FromContext(ctx, kind); fe != nil {
			return fe
		}
		return source.NewFetchError(source.ErrorProviderOutage, kind, "failed to read response body", err)
	}

	if err := classifyStatus(kind, resp.StatusCode); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return source.NewFetchError(source.ErrorBadData, kind, "failed to parse response", err)
	}
	return nil
}

func classifyStatus(kind source.Kind, status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return source.NewFetchError(source.ErrorAuthentication, kind, "authentication failed", nil)
	case status == http.StatusNotFound:
		return source.NewFetchError(source.ErrorNotFound, kind, "endpoint not found", nil)
	case status == http.StatusTooManyRequests:
		return source.NewFetchError(source.ErrorRateLimited, kind, "rate limited", nil)
	case status == http.StatusGatewayTimeout:
		return source.NewFetchError(source.ErrorTimeout, kind, "upstream timeout", nil)
	case status >= http.StatusInternalServerError:
		return source.NewFetchError(source.ErrorProviderOutage, kind, fmt.Sprintf("server error: %d", status), nil)
	default:
		return source.NewFetchError(source.ErrorContractMismatch, kind, fmt.Sprintf("unexpected status code: %d", status), nil)
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
