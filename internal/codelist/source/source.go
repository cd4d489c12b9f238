// Package source defines where reference data comes from.
//
// A Source answers the three backend questions independently. Each fetch is
// its own failure domain: the store runs them concurrently and installs
// whatever succeeded.
package source

import (
	"context"

	"polly/internal/codelist/models"
)

// Kind names one of the independently fetched reference data sets.
type Kind string

const (
	KindCodelists          Kind = "codelists"
	KindCountries          Kind = "countries"
	KindCountriesOutsideEU Kind = "countries_outside_eu"
)

// Kinds lists every fetch in a refresh round, in reporting order.
var Kinds = []Kind{KindCodelists, KindCountries, KindCountriesOutsideEU}

func (k Kind) String() string {
	return string(k)
}

// Source fetches reference data from an authoritative backend or a mirror of it.
type Source interface {
	// FetchCodelists returns every code list keyed by list name.
	FetchCodelists(ctx context.Context) (models.Codelists, error)
	// FetchCountries returns all countries.
	FetchCountries(ctx context.Context) ([]models.CountryCode, error)
	// FetchCountriesOutsideEU returns countries outside the EU/EEA.
	FetchCountriesOutsideEU(ctx context.Context) ([]models.CountryCode, error)
}

// Fetch dispatches to the Source method for kind.
// The payload is models.Codelists for KindCodelists and []models.CountryCode otherwise.
func Fetch(ctx context.Context, src Source, kind Kind) (any, error) {
	switch kind {
	case KindCodelists:
		return src.FetchCodelists(ctx)
	case KindCountries:
		return src.FetchCountries(ctx)
	case KindCountriesOutsideEU:
		return src.FetchCountriesOutsideEU(ctx)
	default:
		return nil, NewFetchError(ErrorInternal, kind, "unknown source kind", nil)
	}
}
