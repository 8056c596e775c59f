package facet

import "errors"

var (
	// -- Validation & Input --
	ErrUnknownFacet     = errors.New("unknown facet type")
	ErrEmptyFacetValue  = errors.New("facet value is empty")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrUnknownChange    = errors.New("unknown filter change")
	ErrUnknownCountMode = errors.New("unknown count mode")

	// -- Configuration --
	ErrInvalidProfileTable = errors.New("invalid flavor profile table")
)
