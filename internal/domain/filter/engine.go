package filter

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
)

// Apply derives the visible product list from products and st.
// The full pipeline runs on every call; products is never modified.
func Apply(products []catalog.Product, st State) []catalog.Product {
	term := strings.ToLower(st.SearchTerm)

	visible := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if !matchesText(p, term) ||
			!matchesPrice(p, st.MaxPrice) ||
			!matchesVariety(p, st.Varieties) ||
			!matchesQuantityType(p, st.QuantityTypes) {
			continue
		}
		visible = append(visible, p)
	}

	sortProducts(visible, st.Sort)
	return visible
}

func matchesText(p catalog.Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Variety), term)
}

func matchesPrice(p catalog.Product, max *decimal.Decimal) bool {
	return max == nil || p.Price.LessThanOrEqual(*max)
}

// matchesVariety compares variety names case-insensitively
func matchesVariety(p catalog.Product, varieties []string) bool {
	return len(varieties) == 0 || containsFold(varieties, p.Variety)
}

func matchesQuantityType(p catalog.Product, types []catalog.QuantityType) bool {
	return len(types) == 0 || contains(types, p.QuantityType)
}

// sortProducts orders in place; SliceStable keeps catalog order for ties
func sortProducts(products []catalog.Product, mode SortMode) {
	var less func(a, b catalog.Product) bool
	switch mode {
	case SortPriceAsc:
		less = func(a, b catalog.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b catalog.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNameAsc:
		less = func(a, b catalog.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortNameDesc:
		less = func(a, b catalog.Product) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

// Facets describes the values a view can offer as filter controls
type Facets struct {
	Varieties     []string               `json:"varieties"`
	QuantityTypes []catalog.QuantityType `json:"quantity_types"`
	PriceCeiling  decimal.Decimal        `json:"price_ceiling"`
	SortModes     []SortMode             `json:"sort_modes"`
}

// FacetsOf summarises c for filter controls
func FacetsOf(c *catalog.Catalog) Facets {
	return Facets{
		Varieties:     c.Varieties(),
		QuantityTypes: c.QuantityTypes(),
		PriceCeiling:  c.PriceCeiling(),
		SortModes:     []SortMode{SortDefault, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc},
	}
}
