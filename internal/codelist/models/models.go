package models

import (
	"strings"
	"time"

	dErrors "polly/pkg/domain-errors"
)

// ListName identifies a coded vocabulary maintained by the backend.
// Lists outside the enumerated set are still accepted from the backend and
// can be queried; they are only left out of AllListNames.
type ListName string

// Known code lists.
const (
	ListPurpose                  ListName = "PURPOSE"
	ListDepartment               ListName = "DEPARTMENT"
	ListSubDepartment            ListName = "SUB_DEPARTMENT"
	ListGDPRArticle              ListName = "GDPR_ARTICLE"
	ListNationalLaw              ListName = "NATIONAL_LAW"
	ListSubjectCategory          ListName = "SUBJECT_CATEGORY"
	ListThirdParty               ListName = "THIRD_PARTY"
	ListSensitivity              ListName = "SENSITIVITY"
	ListSystem                   ListName = "SYSTEM"
	ListTransferGroundsOutsideEU ListName = "TRANSFER_GROUNDS_OUTSIDE_EU"
	ListDataProcessor            ListName = "DATA_PROCESSOR"
	ListDataAccessClass          ListName = "DATA_ACCESS_CLASS"
	ListCategory                 ListName = "CATEGORY"
)

// AllListNames is the enumerated set of list names, in declaration order.
var AllListNames = []ListName{
	ListPurpose,
	ListDepartment,
	ListSubDepartment,
	ListGDPRArticle,
	ListNationalLaw,
	ListSubjectCategory,
	ListThirdParty,
	ListSensitivity,
	ListSystem,
	ListTransferGroundsOutsideEU,
	ListDataProcessor,
	ListDataAccessClass,
	ListCategory,
}

var knownListNames = func() map[ListName]bool {
	m := make(map[ListName]bool, len(AllListNames))
	for _, name := range AllListNames {
		m[name] = true
	}
	return m
}()

// ParseListName normalizes external input into a ListName.
//
// Errors: returns CodeInvalidInput when the value is empty after trimming.
// Unknown names are accepted, since the backend owns the set of lists.
func ParseListName(s string) (ListName, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "list name cannot be empty")
	}
	return ListName(name), nil
}

// IsKnown reports whether the list is one of the enumerated list names.
func (l ListName) IsKnown() bool {
	return knownListNames[l]
}

func (l ListName) String() string {
	return string(l)
}

// Code is a single entry in a code list.
type Code struct {
	List        ListName `json:"list"`
	Code        string   `json:"code"`
	ShortName   string   `json:"shortName"`
	Description string   `json:"description"`
	// InvalidCode marks codes that records still reference but that are no
	// longer present in the authoritative list.
	InvalidCode bool `json:"invalidCode,omitempty"`
}

// Codelists maps each list name to its codes, in no particular order.
type Codelists map[ListName][]Code

// Option is the {id, label} projection used by selectors.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CountryCode is a country entry used for processing outside the EU/EEA.
type CountryCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	ValidFrom   string `json:"validFrom,omitempty"`
	ValidTo     string `json:"validTo,omitempty"`
}

// ValidAt reports whether t falls inside the country's validity window.
// Missing or unparseable bounds are treated as open.
func (c CountryCode) ValidAt(t time.Time) bool {
	day := t.Format(time.DateOnly)
	if from, ok := parseDate(c.ValidFrom); ok && day < from {
		return false
	}
	if to, ok := parseDate(c.ValidTo); ok && day > to {
		return false
	}
	return true
}

func parseDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	// Accept both plain dates and timestamps from the backend.
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	parsed, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", false
	}
	return parsed.Format(time.DateOnly), true
}
