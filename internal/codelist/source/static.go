package source

import (
	"context"
	"slices"

	"polly/internal/codelist/models"
)

// Static serves fixed reference data. It backs tests, local development and
// the contract suite; errors can be injected per kind.
type Static struct {
	Codelists          models.Codelists
	Countries          []models.CountryCode
	CountriesOutsideEU []models.CountryCode
	Errors             map[Kind]error
}

var _ Source = (*Static)(nil)

func (s *Static) FetchCodelists(ctx context.Context) (models.Codelists, error) {
	if err := s.fail(ctx, KindCodelists); err != nil {
		return nil, err
	}
	out := make(models.Codelists, len(s.Codelists))
	for list, codes := range s.Codelists {
		out[list] = slices.Clone(codes)
	}
	return out, nil
}

func (s *Static) FetchCountries(ctx context.Context) ([]models.CountryCode, error) {
	if err := s.fail(ctx, KindCountries); err != nil {
		return nil, err
	}
	return slices.Clone(s.Countries), nil
}

func (s *Static) FetchCountriesOutsideEU(ctx context.Context) ([]models.CountryCode, error) {
	if err := s.fail(ctx, KindCountriesOutsideEU); err != nil {
		return nil, err
	}
	return slices.Clone(s.CountriesOutsideEU), nil
}

func (s *Static) fail(ctx context.Context, kind Kind) error {
	if fe := FromContext(ctx, kind); fe != nil {
		return fe
	}
	if err, ok := s.Errors[kind]; ok {
		return err
	}
	return nil
}
