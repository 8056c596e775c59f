package facet

import (
	"fmt"
	"sort"
	"strings"

	"vapeshop-be/internal/product"
)

// CountMode decides how a facet's own selection affects the counts shown
// next to its values.
type CountMode int

const (
	// CountIsolated: every other facet applies, the counted value replaces
	// its facet's selection. The count equals the result size if the
	// shopper kept only that value checked.
	CountIsolated CountMode = iota
	// CountWithinSelection also keeps the facet's current selection, so
	// unchecked values count products that have both.
	CountWithinSelection
)

func ParseCountMode(s string) (CountMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "isolated":
		return CountIsolated, nil
	case "within_selection", "within-selection":
		return CountWithinSelection, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCountMode, s)
}

func (m CountMode) String() string {
	if m == CountWithinSelection {
		return "within_selection"
	}
	return "isolated"
}

// Engine computes filtered lists and facet counts. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	classifier *Classifier
	mode       CountMode
}

func NewEngine(classifier *Classifier, mode CountMode) *Engine {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return &Engine{classifier: classifier, mode: mode}
}

func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

func (e *Engine) Mode() CountMode {
	return e.mode
}

// item is a product with its derived flavor profiles, computed once per call.
type item struct {
	product  product.Product
	profiles []string
}

func (e *Engine) index(products []product.Product) []item {
	items := make([]item, len(products))
	for i, p := range products {
		items[i] = item{product: p, profiles: e.classifier.ProfilesOf(p)}
	}
	return items
}

// values returns the facet values a product carries.
func (it item) values(t Type) []string {
	switch t {
	case Flavors:
		return it.product.Flavors
	case Nicotine:
		return it.product.Nicotine
	case Brands:
		if it.product.Brand == "" {
			return nil
		}
		return []string{it.product.Brand}
	case Colors:
		if c := it.product.Color(); c != "" {
			return []string{c}
		}
		return nil
	case FlavorProfiles:
		return it.profiles
	}
	return nil
}

func (it item) has(t Type, value string) bool {
	for _, v := range it.values(t) {
		if v == value {
			return true
		}
	}
	return false
}

func matchesStock(s FilterState, p product.Product) bool {
	return (s.InStock && p.Stock > 0) || (s.OutOfStock && p.Stock == 0)
}

// matches applies price, stock and every facet except skip. Pass 0 to
// skip nothing.
func matches(it item, s FilterState, skip Type) bool {
	if !s.PriceRange.Contains(it.product.Price) {
		return false
	}
	if !matchesStock(s, it.product) {
		return false
	}
	for _, t := range Types {
		if t == skip {
			continue
		}
		if !MatchesAny(s.Selection(t), it.values(t)) {
			return false
		}
	}
	return true
}

// Filter returns the products passing every active filter, in input order.
func (e *Engine) Filter(products []product.Product, s FilterState) []product.Product {
	return filterItems(e.index(products), s)
}

func filterItems(items []item, s FilterState) []product.Product {
	out := make([]product.Product, 0, len(items))
	for _, it := range items {
		if matches(it, s, 0) {
			out = append(out, it.product)
		}
	}
	return out
}

// AvailableOptions lists the values of t still reachable under every other
// active filter, sorted. Profiles keep table order instead.
func (e *Engine) AvailableOptions(products []product.Product, s FilterState, t Type) []string {
	return e.available(e.index(products), s, t)
}

func (e *Engine) available(items []item, s FilterState, t Type) []string {
	set := make(map[string]struct{})
	for _, it := range items {
		if !matches(it, s, t) {
			continue
		}
		for _, v := range it.values(t) {
			if v != "" {
				set[v] = struct{}{}
			}
		}
	}
	if t == FlavorProfiles {
		return e.classifier.ordered(set)
	}
	return sortedKeys(set)
}

// OptionCount is the number of products that would match with value as the
// only selection of t (CountIsolated) or added to it (CountWithinSelection),
// everything else unchanged.
func (e *Engine) OptionCount(products []product.Product, s FilterState, t Type, value string) int {
	return e.count(e.index(products), s, t, value)
}

func (e *Engine) count(items []item, s FilterState, t Type, value string) int {
	skip := t
	if e.mode == CountWithinSelection {
		skip = 0
	}
	n := 0
	for _, it := range items {
		if it.has(t, value) && matches(it, s, skip) {
			n++
		}
	}
	return n
}

// Options pairs the available values of t with their counts. Selected
// values that are no longer reachable stay listed with a zero count so
// they can still be unchecked.
func (e *Engine) Options(products []product.Product, s FilterState, t Type) []Option {
	return e.options(e.index(products), s, t)
}

func (e *Engine) options(items []item, s FilterState, t Type) []Option {
	values := e.available(items, s, t)
	sel := s.Selection(t)

	listed := make(map[string]struct{}, len(values))
	opts := make([]Option, 0, len(values)+sel.Len())
	for _, v := range values {
		listed[v] = struct{}{}
		opts = append(opts, Option{
			Type:     t,
			Value:    v,
			Count:    e.count(items, s, t, v),
			Selected: sel.Has(v),
		})
	}

	var stale []Option
	for _, v := range sel.Values() {
		if _, ok := listed[v]; !ok {
			stale = append(stale, Option{Type: t, Value: v, Selected: true})
		}
	}
	if len(stale) > 0 {
		opts = append(opts, stale...)
		if t != FlavorProfiles {
			sort.SliceStable(opts, func(i, j int) bool { return opts[i].Value < opts[j].Value })
		}
	}
	return opts
}

// Recompute reruns the whole pipeline: filtered list, bounds and the
// options of every facet. There is no incremental path.
func (e *Engine) Recompute(products []product.Product, s FilterState) Result {
	items := e.index(products)

	options := make(map[Type][]Option, len(Types))
	for _, t := range Types {
		options[t] = e.options(items, s, t)
	}

	filtered := filterItems(items, s)
	return Result{
		Products: filtered,
		Total:    len(filtered),
		Bounds:   Bounds(products),
		State:    s,
		Options:  options,
	}
}
