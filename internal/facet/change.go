package facet

// ChangeKind tags the user interaction a Change carries.
type ChangeKind int

const (
	ChangeToggle ChangeKind = iota + 1
	ChangePriceMin
	ChangePriceMax
	ChangePriceRange
	ChangeStock
	ChangeClear
)

// Change is one presentation-layer interaction. Only the fields of its
// kind are read.
type Change struct {
	Kind ChangeKind

	Facet Type
	Value string

	Price PriceRange

	InStock    bool
	OutOfStock bool
}

func Toggle(t Type, value string) Change {
	return Change{Kind: ChangeToggle, Facet: t, Value: value}
}

func PriceMin(v float64) Change {
	return Change{Kind: ChangePriceMin, Price: PriceRange{Min: v}}
}

func PriceMax(v float64) Change {
	return Change{Kind: ChangePriceMax, Price: PriceRange{Max: v}}
}

func Price(min, max float64) Change {
	return Change{Kind: ChangePriceRange, Price: PriceRange{Min: min, Max: max}}
}

func Stock(inStock, outOfStock bool) Change {
	return Change{Kind: ChangeStock, InStock: inStock, OutOfStock: outOfStock}
}

func Clear() Change {
	return Change{Kind: ChangeClear}
}

// Apply returns the state after the change. bounds is only used by Clear.
func (c Change) Apply(s FilterState, bounds PriceRange) (FilterState, error) {
	switch c.Kind {
	case ChangeToggle:
		return s.Toggle(c.Facet, c.Value)
	case ChangePriceMin:
		return s.SetPriceMin(c.Price.Min)
	case ChangePriceMax:
		return s.SetPriceMax(c.Price.Max)
	case ChangePriceRange:
		return s.SetPriceRange(c.Price)
	case ChangeStock:
		return s.SetStock(c.InStock, c.OutOfStock), nil
	case ChangeClear:
		return DefaultState(bounds), nil
	}
	return s, ErrUnknownChange
}
