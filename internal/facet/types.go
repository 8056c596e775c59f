package facet

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"vapeshop-be/internal/product"
)

// Type identifies a multi-select facet.
type Type int

const (
	Flavors Type = iota + 1
	Nicotine
	Brands
	Colors
	FlavorProfiles
)

// Types lists every multi-select facet in display order.
var Types = []Type{FlavorProfiles, Flavors, Nicotine, Brands, Colors}

var typeNames = map[Type]string{
	Flavors:        "flavors",
	Nicotine:       "nicotine",
	Brands:         "brands",
	Colors:         "colors",
	FlavorProfiles: "flavorProfiles",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType accepts the JSON names plus a few spellings the storefront used.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flavors", "flavor", "sabores":
		return Flavors, nil
	case "nicotine", "nicotina":
		return Nicotine, nil
	case "brands", "brand", "marcas":
		return Brands, nil
	case "colors", "color", "cores":
		return Colors, nil
	case "flavorprofiles", "flavor_profiles", "profiles", "perfis":
		return FlavorProfiles, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFacet, s)
}

func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFacet, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// PriceRange is an inclusive [Min, Max] interval. It serializes as a
// two-element array.
type PriceRange struct {
	Min float64
	Max float64
}

// FallbackBounds is used when the catalog is empty.
var FallbackBounds = PriceRange{Min: 0, Max: 1000}

func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Normalized swaps inverted bounds.
func (r PriceRange) Normalized() PriceRange {
	if r.Min > r.Max {
		return PriceRange{Min: r.Max, Max: r.Min}
	}
	return r
}

func (r PriceRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Min, r.Max})
}

func (r *PriceRange) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: price range needs 2 values, got %d", ErrInvalidPrice, len(pair))
	}
	*r = PriceRange{Min: pair[0], Max: pair[1]}
	return nil
}

// Bounds returns the min and max price of the catalog.
func Bounds(products []product.Product) PriceRange {
	if len(products) == 0 {
		return FallbackBounds
	}
	b := PriceRange{Min: products[0].Price, Max: products[0].Price}
	for _, p := range products[1:] {
		if p.Price < b.Min {
			b.Min = p.Price
		}
		if p.Price > b.Max {
			b.Max = p.Price
		}
	}
	return b
}

// Option is one checkbox of a facet.
type Option struct {
	Type     Type   `json:"type"`
	Value    string `json:"value"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// Result is everything the presentation layer needs after a change.
type Result struct {
	Products []product.Product `json:"products"`
	Total    int               `json:"total"`
	Bounds   PriceRange        `json:"priceBounds"`
	State    FilterState       `json:"filters"`
	Options  map[Type][]Option `json:"options"`
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
