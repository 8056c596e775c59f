package facet

import (
	"fmt"
	"math"
)

// FilterState is a snapshot of the active selections. Edits return a new
// state; the receiver is never modified.
type FilterState struct {
	PriceRange     PriceRange `json:"priceRange"`
	InStock        bool       `json:"inStock"`
	OutOfStock     bool       `json:"outOfStock"`
	FlavorProfiles Selection  `json:"flavorProfiles"`
	Flavors        Selection  `json:"flavors"`
	Nicotine       Selection  `json:"nicotine"`
	Brands         Selection  `json:"brands"`
	Colors         Selection  `json:"colors"`
}

// DefaultState covers the whole price range, shows only in-stock products
// and selects nothing.
func DefaultState(bounds PriceRange) FilterState {
	return FilterState{
		PriceRange:     bounds.Normalized(),
		InStock:        true,
		OutOfStock:     false,
		FlavorProfiles: NewSelection(),
		Flavors:        NewSelection(),
		Nicotine:       NewSelection(),
		Brands:         NewSelection(),
		Colors:         NewSelection(),
	}
}

func (s FilterState) Selection(t Type) Selection {
	switch t {
	case Flavors:
		return s.Flavors
	case Nicotine:
		return s.Nicotine
	case Brands:
		return s.Brands
	case Colors:
		return s.Colors
	case FlavorProfiles:
		return s.FlavorProfiles
	}
	return nil
}

// WithSelection returns a copy of s with t's selection replaced.
func (s FilterState) WithSelection(t Type, sel Selection) FilterState {
	out := s.Clone()
	switch t {
	case Flavors:
		out.Flavors = sel
	case Nicotine:
		out.Nicotine = sel
	case Brands:
		out.Brands = sel
	case Colors:
		out.Colors = sel
	case FlavorProfiles:
		out.FlavorProfiles = sel
	}
	return out
}

func (s FilterState) Clone() FilterState {
	out := s
	out.FlavorProfiles = s.FlavorProfiles.Clone()
	out.Flavors = s.Flavors.Clone()
	out.Nicotine = s.Nicotine.Clone()
	out.Brands = s.Brands.Clone()
	out.Colors = s.Colors.Clone()
	return out
}

// ActiveFacets counts facets with at least one selected value.
func (s FilterState) ActiveFacets() int {
	n := 0
	for _, t := range Types {
		if s.Selection(t).Len() > 0 {
			n++
		}
	}
	return n
}

func (s FilterState) Toggle(t Type, value string) (FilterState, error) {
	if _, ok := typeNames[t]; !ok {
		return s, fmt.Errorf("%w: %d", ErrUnknownFacet, int(t))
	}
	if value == "" {
		return s, ErrEmptyFacetValue
	}
	return s.WithSelection(t, s.Selection(t).Toggled(value)), nil
}

// SetPriceMin moves the lower bound. Moving it past the upper bound drags
// the upper bound along so the range never inverts.
func (s FilterState) SetPriceMin(v float64) (FilterState, error) {
	if err := validPrice(v); err != nil {
		return s, err
	}
	out := s.Clone()
	out.PriceRange.Min = v
	if v > out.PriceRange.Max {
		out.PriceRange.Max = v
	}
	return out, nil
}

// SetPriceMax is the mirror of SetPriceMin.
func (s FilterState) SetPriceMax(v float64) (FilterState, error) {
	if err := validPrice(v); err != nil {
		return s, err
	}
	out := s.Clone()
	out.PriceRange.Max = v
	if v < out.PriceRange.Min {
		out.PriceRange.Min = v
	}
	return out, nil
}

func (s FilterState) SetPriceRange(r PriceRange) (FilterState, error) {
	if err := validPrice(r.Min); err != nil {
		return s, err
	}
	if err := validPrice(r.Max); err != nil {
		return s, err
	}
	out := s.Clone()
	out.PriceRange = r.Normalized()
	return out, nil
}

func (s FilterState) SetStock(inStock, outOfStock bool) FilterState {
	out := s.Clone()
	out.InStock = inStock
	out.OutOfStock = outOfStock
	return out
}

// Clamp fits a restored price range into the current catalog bounds. A
// range that no longer overlaps the bounds resets to the bounds. Nil
// selections are replaced by empty ones.
func (s FilterState) Clamp(bounds PriceRange) FilterState {
	bounds = bounds.Normalized()
	out := s.Clone()

	r := s.PriceRange.Normalized()
	r.Min = math.Max(r.Min, bounds.Min)
	r.Max = math.Min(r.Max, bounds.Max)
	if r.Min > r.Max {
		r = bounds
	}
	out.PriceRange = r
	return out
}

func validPrice(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, v)
	}
	return nil
}
