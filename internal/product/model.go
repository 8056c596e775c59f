package product

import "strings"

// Spec keys that carry the color attribute. The storefront admin wrote both.
var colorKeys = []string{"color", "cor"}

type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Price          float64           `json:"price"`
	Stock          int               `json:"stock"`
	Brand          string            `json:"brand,omitempty"`
	Flavors        []string          `json:"flavors,omitempty"`
	Nicotine       []string          `json:"nicotine,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	ImageURL       *string           `json:"image_url,omitempty"`
}

// Color returns the color specification, or "" when the product has none.
func (p Product) Color() string {
	for _, k := range colorKeys {
		if v := strings.TrimSpace(p.Specifications[k]); v != "" {
			return v
		}
	}
	return ""
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
