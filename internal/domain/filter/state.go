// internal/domain/filter/state.go
package filter

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
)

// SortMode names an ordering of the visible product list
type SortMode string

const (
	SortDefault   SortMode = "default"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortNameAsc   SortMode = "name-asc"
	SortNameDesc  SortMode = "name-desc"
)

// ParseSortMode maps unknown or empty values to SortDefault
func ParseSortMode(s string) SortMode {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return m
	default:
		return SortDefault
	}
}

// State holds the shopper's narrowing and sorting criteria.
// Empty sets and a nil MaxPrice mean no restriction.
type State struct {
	SearchTerm    string                 `json:"search_term"`
	MaxPrice      *decimal.Decimal       `json:"max_price,omitempty"`
	Varieties     []string               `json:"varieties"`
	QuantityTypes []catalog.QuantityType `json:"quantity_types"`
	Sort          SortMode               `json:"sort"`
}

// WithSearchTerm returns a copy with the search term replaced
func (s State) WithSearchTerm(term string) State {
	s.SearchTerm = term
	return s
}

// WithMaxPrice returns a copy with the price bound replaced; nil lifts it
func (s State) WithMaxPrice(max *decimal.Decimal) State {
	if max != nil && max.IsNegative() {
		max = nil
	}
	s.MaxPrice = max
	return s
}

// WithSort returns a copy with the sort mode replaced
func (s State) WithSort(mode SortMode) State {
	s.Sort = ParseSortMode(string(mode))
	return s
}

// ToggleVariety returns a copy with variety added if absent, removed if present
func (s State) ToggleVariety(variety string) State {
	s.Varieties = toggle(s.Varieties, variety)
	return s
}

// ToggleQuantityType returns a copy with qt added if absent, removed if present
func (s State) ToggleQuantityType(qt catalog.QuantityType) State {
	s.QuantityTypes = toggle(s.QuantityTypes, qt)
	return s
}

func toggle[T comparable](set []T, v T) []T {
	out := make([]T, 0, len(set)+1)
	found := false
	for _, existing := range set {
		if existing == v {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

// ParseQuery reads a State from URL query values.
// Malformed fields are treated as no restriction instead of failing.
func ParseQuery(values url.Values, defaultMax *decimal.Decimal) State {
	st := State{
		SearchTerm: strings.TrimSpace(values.Get("search")),
		Sort:       ParseSortMode(values.Get("sort")),
		MaxPrice:   defaultMax,
	}

	if raw, ok := values["max_price"]; ok && len(raw) > 0 {
		st.MaxPrice = nil
		if d, err := decimal.NewFromString(strings.TrimSpace(raw[0])); err == nil && !d.IsNegative() {
			st.MaxPrice = &d
		}
	}

	for _, v := range splitList(values["variety"]) {
		if !containsFold(st.Varieties, v) {
			st.Varieties = append(st.Varieties, v)
		}
	}

	for _, v := range splitList(values["quantity_type"]) {
		if qt, ok := catalog.ParseQuantityType(v); ok && !contains(st.QuantityTypes, qt) {
			st.QuantityTypes = append(st.QuantityTypes, qt)
		}
	}

	return st
}

func splitList(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func containsFold(set []string, v string) bool {
	for _, existing := range set {
		if strings.EqualFold(existing, v) {
			return true
		}
	}
	return false
}

func contains[T comparable](set []T, v T) bool {
	for _, existing := range set {
		if existing == v {
			return true
		}
	}
	return false
}
