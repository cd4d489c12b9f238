// Package rules holds the business predicates derived from code values.
//
// The predicates classify codes by their literal values and naming prefixes.
// Stored records depend on these conventions, so the constants below must stay
// byte-for-byte identical to the values the backend issues.
package rules

import "strings"

// GDPR Article 6(1) legal bases.
const (
	ArticleLegalObligation = "ART61C" // 6(1)(c) legal obligation
	ArticlePublicInterest  = "ART61E" // 6(1)(e) public task or official authority
	ArticleLegitimate      = "ART61F" // 6(1)(f) legitimate interests
)

// Article classification prefixes.
const (
	Art6Prefix = "ART6"
	Art9Prefix = "ART9"
)

// SensitivitySpecialCategory is the SENSITIVITY code for special categories
// of personal data (Article 9).
const SensitivitySpecialCategory = "SAERLIGE"

// ForskriftPrefix marks regulations (forskrifter) in the NATIONAL_LAW list.
// The spelling matches the codes issued by the backend.
const ForskriftPrefix = "FORSKRIT_"

// Departments that have a SUB_DEPARTMENT breakdown.
const (
	DepartmentOESA = "OESA"
	DepartmentYTA  = "YTA"
	DepartmentATA  = "ATA"
)

var nationalLawArticles = map[string]bool{
	ArticleLegalObligation: true,
	ArticlePublicInterest:  true,
}

var descriptionArticles = map[string]bool{
	ArticleLegalObligation: true,
	ArticlePublicInterest:  true,
	ArticleLegitimate:      true,
}

var departmentsWithSubDepartments = map[string]bool{
	DepartmentOESA: true,
	DepartmentYTA:  true,
	DepartmentATA:  true,
}

// RequiresNationalLaw reports whether a GDPR article needs a supporting
// national-law reference.
func RequiresNationalLaw(gdprArticle string) bool {
	return nationalLawArticles[gdprArticle]
}

// RequiresDescription reports whether a GDPR article needs a free-text
// justification.
func RequiresDescription(gdprArticle string) bool {
	return descriptionArticles[gdprArticle]
}

// RequiresArt9 reports whether a sensitivity level requires an Article 9 basis.
func RequiresArt9(sensitivity string) bool {
	return sensitivity == SensitivitySpecialCategory
}

// IsArt6 reports whether the code is an Article 6 legal basis.
func IsArt6(code string) bool {
	return strings.HasPrefix(code, Art6Prefix)
}

// IsArt9 reports whether the code is an Article 9 legal basis.
func IsArt9(code string) bool {
	return strings.HasPrefix(code, Art9Prefix)
}

// IsForskrift reports whether a national-law code is a regulation rather than
// primary legislation.
func IsForskrift(nationalLaw string) bool {
	return strings.HasPrefix(nationalLaw, ForskriftPrefix)
}

// ShowSubDepartment reports whether the department has sub-departments.
func ShowSubDepartment(department string) bool {
	return departmentsWithSubDepartments[department]
}

// Evaluation collects every predicate for a single code value.
type Evaluation struct {
	Code                string `json:"code"`
	RequiresNationalLaw bool   `json:"requiresNationalLaw"`
	RequiresDescription bool   `json:"requiresDescription"`
	RequiresArt9        bool   `json:"requiresArt9"`
	IsArt6              bool   `json:"isArt6"`
	IsArt9              bool   `json:"isArt9"`
	IsForskrift         bool   `json:"isForskrift"`
	ShowSubDepartment   bool   `json:"showSubDepartment"`
}

// Evaluate runs every predicate against code.
func Evaluate(code string) Evaluation {
	return Evaluation{
		Code:                code,
		RequiresNationalLaw: RequiresNationalLaw(code),
		RequiresDescription: RequiresDescription(code),
		RequiresArt9:        RequiresArt9(code),
		IsArt6:              IsArt6(code),
		IsArt9:              IsArt9(code),
		IsForskrift:         IsForskrift(code),
		ShowSubDepartment:   ShowSubDepartment(code),
	}
}
