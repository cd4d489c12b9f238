package contract

import (
	"polly/internal/codelist/models"
	"polly/internal/codelist/source"
)

// Fixture returns a small, realistic reference data set shared by source and store tests.
func Fixture() *source.Static {
	return &source.Static{
		Codelists: models.Codelists{
			models.ListDepartment: {
				{List: models.ListDepartment, Code: "YTA", ShortName: "Ytelsesavdelingen", Description: "Ytelsesavdelingen"},
				{List: models.ListDepartment, Code: "ATA", ShortName: "Arbeids- og tjenesteavdelingen", Description: "Arbeids- og tjenesteavdelingen"},
				{List: models.ListDepartment, Code: "OESA", ShortName: "Økonomi- og styringsavdelingen", Description: "Økonomi- og styringsavdelingen"},
				{List: models.ListDepartment, Code: "KOM", ShortName: "Kommunikasjonsavdelingen", Description: "Kommunikasjonsavdelingen"},
			},
			models.ListGDPRArticle: {
				{List: models.ListGDPRArticle, Code: "ART61C", ShortName: "6(1)(c) Rettslig forpliktelse", Description: "Behandlingen er nødvendig for å oppfylle en rettslig forpliktelse"},
				{List: models.ListGDPRArticle, Code: "ART61E", ShortName: "6(1)(e) Offentlig myndighet", Description: "Utøve offentlig myndighet"},
				{List: models.ListGDPRArticle, Code: "ART61F", ShortName: "6(1)(f) Berettiget interesse", Description: "Berettiget interesse"},
				{List: models.ListGDPRArticle, Code: "ART92B", ShortName: "9(2)(b) Arbeidsrett", Description: "Arbeidsrettslige forpliktelser"},
			},
			models.ListSensitivity: {
				{List: models.ListSensitivity, Code: "POL", ShortName: "Personopplysninger", Description: "Alminnelige personopplysninger"},
				{List: models.ListSensitivity, Code: "SAERLIGE", ShortName: "Særlige kategorier", Description: "Særlige kategorier av personopplysninger"},
			},
			models.ListNationalLaw: {
				{List: models.ListNationalLaw, Code: "FTRL", ShortName: "Folketrygdloven", Description: "Lov om folketrygd"},
				{List: models.ListNationalLaw, Code: "FORSKRIT_FTRL", ShortName: "Forskrift til folketrygdloven", Description: "Forskrift"},
			},
		},
		Countries: []models.CountryCode{
			{Code: "NOR", Description: "Norge"},
			{Code: "SWE", Description: "Sverige"},
			{Code: "USA", Description: "USA"},
			{Code: "AUS", Description: "Australia"},
		},
		CountriesOutsideEU: []models.CountryCode{
			{Code: "USA", Description: "USA"},
			{Code: "AUS", Description: "Australia"},
		},
	}
}
