package store

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"polly/internal/codelist/models"
)

// DefaultCollation orders short names the way Norwegian users expect
// (æ, ø, å after z). x/text carries the Norwegian tailoring under Nynorsk
// only; Bokmål and the macrolanguage fall back to root order.
var DefaultCollation = language.MustParse("nn")

// ParseCollation resolves a BCP 47 tag, falling back to DefaultCollation.
// Bokmål and "no" resolve to DefaultCollation.
func ParseCollation(tag string) (language.Tag, error) {
	if tag == "" {
		return DefaultCollation, nil
	}
	t, err := language.Parse(tag)
	if err != nil {
		return language.Und, err
	}
	return collationTag(t), nil
}

func collationTag(t language.Tag) language.Tag {
	switch base, _ := t.Base(); base.String() {
	case "nb", "no", "nn":
		return DefaultCollation
	}
	return t
}

// codeList is an installed, sorted list with a first-occurrence index.
type codeList struct {
	codes []models.Code
	index map[string]int
}

// newCodeList sorts a copy of codes by short name. The sort is stable, so
// codes sharing a short name keep the backend order and the index points at
// the first of any duplicate code values.
func newCodeList(tag language.Tag, codes []models.Code) codeList {
	sorted := slices.Clone(codes)
	// A Collator keeps internal buffers and is not safe for concurrent use.
	c := collate.New(tag)
	slices.SortStableFunc(sorted, func(a, b models.Code) int {
		return c.CompareString(a.ShortName, b.ShortName)
	})

	index := make(map[string]int, len(sorted))
	for i, code := range sorted {
		if _, seen := index[code.Code]; !seen {
			index[code.Code] = i
		}
	}
	return codeList{codes: sorted, index: index}
}

func (l codeList) find(code string) (models.Code, bool) {
	i, ok := l.index[code]
	if !ok {
		return models.Code{}, false
	}
	return l.codes[i], true
}

// countryList keeps backend order and indexes by country code.
type countryList struct {
	countries []models.CountryCode
	index     map[string]int
}

func newCountryList(countries []models.CountryCode) countryList {
	cl := countryList{
		countries: slices.Clone(countries),
		index:     make(map[string]int, len(countries)),
	}
	for i, c := range cl.countries {
		if _, seen := cl.index[c.Code]; !seen {
			cl.index[c.Code] = i
		}
	}
	return cl
}

func (l countryList) find(code string) (models.CountryCode, bool) {
	i, ok := l.index[code]
	if !ok {
		return models.CountryCode{}, false
	}
	return l.countries[i], true
}
