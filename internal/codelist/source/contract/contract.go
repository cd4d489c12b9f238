// Package contract holds reusable checks every Source implementation must pass.
package contract

import (
	"context"
	"testing"

	"polly/internal/codelist/models"
	"polly/internal/codelist/source"
)

// ContractSuite checks a Source against the reference data it is expected to serve.
type ContractSuite struct {
	Name   string
	Source source.Source
	Want   *source.Static
}

// Run executes every contract check in the suite.
func (s *ContractSuite) Run(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	t.Run(s.Name+"/codelists", func(t *testing.T) {
		got, err := s.Source.FetchCodelists(ctx)
		if err != nil {
			t.Fatalf("fetch codelists failed: %v", err)
		}
		if len(got) != len(s.Want.Codelists) {
			t.Fatalf("expected %d lists, got %d", len(s.Want.Codelists), len(got))
		}
		for list, want := range s.Want.Codelists {
			codes, ok := got[list]
			if !ok {
				t.Errorf("list %s missing", list)
				continue
			}
			if len(codes) != len(want) {
				t.Errorf("list %s: expected %d codes, got %d", list, len(want), len(codes))
			}
			for _, c := range codes {
				if c.List != list {
					t.Errorf("code %s in list %s carries list %q", c.Code, list, c.List)
				}
			}
		}
	})

	t.Run(s.Name+"/countries", func(t *testing.T) {
		got, err := s.Source.FetchCountries(ctx)
		if err != nil {
			t.Fatalf("fetch countries failed: %v", err)
		}
		assertCountries(t, s.Want.Countries, got)
	})

	t.Run(s.Name+"/countries_outside_eu", func(t *testing.T) {
		got, err := s.Source.FetchCountriesOutsideEU(ctx)
		if err != nil {
			t.Fatalf("fetch countries outside EU failed: %v", err)
		}
		assertCountries(t, s.Want.CountriesOutsideEU, got)
	})

	t.Run(s.Name+"/canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Source.FetchCountries(cctx)
		if err == nil {
			t.Fatal("expected error for canceled context")
		}
		if cat := source.GetCategory(err); cat != source.ErrorCanceled && cat != source.ErrorTimeout {
			t.Errorf("expected canceled or timeout category, got %s", cat)
		}
	})
}

func assertCountries(t *testing.T, want, got []models.CountryCode) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d countries, got %d", len(want), len(got))
	}
	byCode := make(map[string]models.CountryCode, len(got))
	for _, c := range got {
		byCode[c.Code] = c
	}
	for _, w := range want {
		g, ok := byCode[w.Code]
		if !ok {
			t.Errorf("country %s missing", w.Code)
			continue
		}
		if g.Description != w.Description {
			t.Errorf("country %s: expected description %q, got %q", w.Code, w.Description, g.Description)
		}
	}
}

// ErrorContractTest validates that fetch errors follow the taxonomy.
type ErrorContractTest struct {
	Name          string
	Source        source.Source
	Kind          source.Kind
	ExpectedError source.ErrorCategory
	ExpectedRetry bool
}

// Run executes an error contract test.
func (ect *ErrorContractTest) Run(t *testing.T) {
	t.Helper()
	_, err := source.Fetch(context.Background(), ect.Source, ect.Kind)
	if err == nil {
		t.Fatal("expected error but got none")
	}

	if category := source.GetCategory(err); category != ect.ExpectedError {
		t.Errorf("expected error category %s, got %s", ect.ExpectedError, category)
	}

	if isRetryable := source.IsRetryable(err); isRetryable != ect.ExpectedRetry {
		t.Errorf("expected retryable=%v, got %v", ect.ExpectedRetry, isRetryable)
	}
}
