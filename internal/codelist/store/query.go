package store

import (
	"slices"
	"strings"

	"polly/internal/codelist/models"
	"polly/internal/codelist/rules"
)

func (s *Store) list(list models.ListName) (codeList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.codelists[list]
	return l, ok
}

// find resolves code in list. Unknown codes are counted once the store has loaded,
// since before that every lookup misses.
func (s *Store) find(list models.ListName, code string) Lookup {
	if l, ok := s.list(list); ok {
		if c, ok := l.find(code); ok {
			return found(code, c)
		}
	}
	if s.metrics != nil && code != "" && s.IsLoaded() {
		s.metrics.RecordLookupFallback(list.String())
	}
	return notFound(code)
}

// Find exposes the lookup result for callers that need to tell a real short
// name from an echoed input.
func (s *Store) Find(list models.ListName, code string) Lookup {
	return s.find(list, code)
}

// GetCodes returns the codes of list sorted by short name. The result is a
// copy and never nil.
func (s *Store) GetCodes(list models.ListName) []models.Code {
	l, ok := s.list(list)
	if !ok {
		return []models.Code{}
	}
	return cloneCodes(l.codes)
}

// Lists returns the names of every installed list, including lists outside
// the enumerated set, in lexical order.
func (s *Store) Lists() []models.ListName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]models.ListName, 0, len(s.codelists))
	for name := range s.codelists {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AllCodes returns every installed list, each sorted by short name.
func (s *Store) AllCodes() map[models.ListName][]models.Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.ListName][]models.Code, len(s.codelists))
	for name, l := range s.codelists {
		out[name] = cloneCodes(l.codes)
	}
	return out
}

// GetCode returns the first code in list whose value equals code.
func (s *Store) GetCode(list models.ListName, code string) (models.Code, bool) {
	return s.find(list, code).Code()
}

// Valid reports whether code is non-empty and present in list.
func (s *Store) Valid(list models.ListName, code string) bool {
	if code == "" {
		return false
	}
	_, ok := s.GetCode(list, code)
	return ok
}

// GetShortName returns the short name of code, or code itself if unknown.
func (s *Store) GetShortName(list models.ListName, code string) string {
	return s.find(list, code).ShortName()
}

// GetShortNames maps GetShortName over codes.
func (s *Store) GetShortNames(list models.ListName, codes []string) []string {
	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = s.GetShortName(list, code)
	}
	return out
}

// ShortNameForCode resolves the short name of a code value carried with its list.
func (s *Store) ShortNameForCode(code models.Code) string {
	return s.GetShortName(code.List, code.Code)
}

// ShortNameForCodes joins the short names of codes with ", ".
func (s *Store) ShortNameForCodes(codes []models.Code) string {
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = s.ShortNameForCode(c)
	}
	return strings.Join(names, ", ")
}

// GetDescription returns the description of code, or code itself if unknown.
func (s *Store) GetDescription(list models.ListName, code string) string {
	return s.find(list, code).Description()
}

// GetParsedOptions projects list to {id, label} pairs in short-name order.
func (s *Store) GetParsedOptions(list models.ListName) []models.Option {
	l, ok := s.list(list)
	if !ok {
		return []models.Option{}
	}
	return toOptions(l.codes)
}

// GetParsedOptionsForList projects the selected code values, in the given
// order, labelling each with its short name.
func (s *Store) GetParsedOptionsForList(list models.ListName, selected []string) []models.Option {
	out := make([]models.Option, len(selected))
	for i, code := range selected {
		out[i] = models.Option{ID: code, Label: s.GetShortName(list, code)}
	}
	return out
}

// GetParsedOptionsFilterOutSelected returns GetParsedOptions minus the
// entries whose id is in selected. A nil or empty selected filters nothing.
func (s *Store) GetParsedOptionsFilterOutSelected(list models.ListName, selected []string) []models.Option {
	options := s.GetParsedOptions(list)
	if len(selected) == 0 {
		return options
	}
	exclude := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		exclude[id] = struct{}{}
	}
	return slices.DeleteFunc(options, func(o models.Option) bool {
		_, drop := exclude[o.ID]
		return drop
	})
}

// CountryName returns the description of a country, or code itself if unknown.
func (s *Store) CountryName(code string) string {
	s.mu.RLock()
	countries := s.countries
	s.mu.RUnlock()
	if c, ok := countries.find(code); ok {
		return c.Description
	}
	return code
}

// GetCountries returns all countries in backend order. Never nil.
func (s *Store) GetCountries() []models.CountryCode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCountries(s.countries.countries)
}

// GetCountryCodesOutsideEU returns the countries outside the EU/EEA. Never nil.
func (s *Store) GetCountryCodesOutsideEU() []models.CountryCode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCountries(s.outsideEU.countries)
}

// MakeIDLabelForAllCodeLists lists the enumerated list names as options
// whose id and label are both the list name.
func (s *Store) MakeIDLabelForAllCodeLists() []models.Option {
	out := make([]models.Option, len(models.AllListNames))
	for i, name := range models.AllListNames {
		out[i] = models.Option{ID: name.String(), Label: name.String()}
	}
	return out
}

func (s *Store) RequiresNationalLaw(gdprArticle string) bool {
	return rules.RequiresNationalLaw(gdprArticle)
}

func (s *Store) RequiresDescription(gdprArticle string) bool {
	return rules.RequiresDescription(gdprArticle)
}

func (s *Store) RequiresArt9(sensitivity string) bool {
	return rules.RequiresArt9(sensitivity)
}

func (s *Store) IsArt6(code string) bool {
	return rules.IsArt6(code)
}

func (s *Store) IsArt9(code string) bool {
	return rules.IsArt9(code)
}

func (s *Store) IsForskrift(nationalLaw string) bool {
	return rules.IsForskrift(nationalLaw)
}

func (s *Store) ShowSubDepartment(department string) bool {
	return rules.ShowSubDepartment(department)
}

func toOptions(codes []models.Code) []models.Option {
	out := make([]models.Option, len(codes))
	for i, c := range codes {
		out[i] = models.Option{ID: c.Code, Label: c.ShortName}
	}
	return out
}

func cloneCodes(codes []models.Code) []models.Code {
	out := make([]models.Code, len(codes))
	copy(out, codes)
	return out
}

func cloneCountries(countries []models.CountryCode) []models.CountryCode {
	out := make([]models.CountryCode, len(countries))
	copy(out, countries)
	return out
}
