package store

import "polly/internal/codelist/models"

// Lookup is the result of resolving a code value in a list: either the code
// was found, or it was not and the raw input is echoed back. Reads never fail.
type Lookup struct {
	Input string
	code  models.Code
	found bool
}

func found(input string, code models.Code) Lookup {
	return Lookup{Input: input, code: code, found: true}
}

func notFound(input string) Lookup {
	return Lookup{Input: input}
}

func (l Lookup) Found() bool {
	return l.found
}

// Code returns the resolved code and whether it was found.
func (l Lookup) Code() (models.Code, bool) {
	return l.code, l.found
}

// ShortName returns the code's short name, or the raw input when not found.
func (l Lookup) ShortName() string {
	if !l.found {
		return l.Input
	}
	return l.code.ShortName
}

// Description returns the code's description, or the raw input when not found.
func (l Lookup) Description() string {
	if !l.found {
		return l.Input
	}
	return l.code.Description
}
