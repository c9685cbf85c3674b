package filter

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
)

func ids(products []catalog.Product) []uint {
	out := make([]uint, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestApply_NoFilters(t *testing.T) {
	products := catalog.DefaultProducts()

	got := Apply(products, State{})

	assert.Equal(t, []uint{1, 2, 3, 4, 5, 6}, ids(got))
}

func TestApply_MaxPriceScenario(t *testing.T) {
	products := []catalog.Product{
		{ID: 1, Price: decimal.RequireFromString("5.99")},
		{ID: 2, Price: decimal.RequireFromString("19.99")},
	}

	got := Apply(products, State{MaxPrice: price("10")})

	assert.Equal(t, []uint{1}, ids(got))
}

func TestApply_MaxPriceIsInclusive(t *testing.T) {
	got := Apply(catalog.DefaultProducts(), State{MaxPrice: price("8.99")})

	assert.Equal(t, []uint{1, 3, 4}, ids(got))
}

func TestApply_SearchMatchesNameOrVarietyCaseInsensitive(t *testing.T) {
	got := Apply(catalog.DefaultProducts(), State{SearchTerm: "PACK"})
	assert.Equal(t, []uint{2, 5, 6}, ids(got))

	got = Apply(catalog.DefaultProducts(), State{SearchTerm: "standard"})
	assert.Equal(t, []uint{2}, ids(got))
}

func TestApply_VarietyAndQuantityType(t *testing.T) {
	st := State{
		Varieties:     []string{"Organic", "Jumbo"},
		QuantityTypes: []catalog.QuantityType{catalog.QuantityTypePack},
	}

	got := Apply(catalog.DefaultProducts(), st)

	assert.Equal(t, []uint{5, 6}, ids(got))
}

func TestApply_VarietyIgnoresCase(t *testing.T) {
	products := catalog.DefaultProducts()

	assert.Equal(t, []uint{1, 5}, ids(Apply(products, State{Varieties: []string{"organic"}})))
	assert.Equal(t, []uint{3, 6}, ids(Apply(products, State{Varieties: []string{"JUMBO"}})))

	st := ParseQuery(url.Values{"variety": {"organic,Organic,ORGANIC"}}, price("30"))
	assert.Equal(t, []string{"organic"}, st.Varieties)
	assert.Equal(t, []uint{1, 5}, ids(Apply(products, st)))
}

func TestApply_EmptyResultIsValid(t *testing.T) {
	got := Apply(catalog.DefaultProducts(), State{SearchTerm: "durian"})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_Sorts(t *testing.T) {
	products := catalog.DefaultProducts()

	assert.Equal(t, []uint{1, 4, 3, 2, 5, 6}, ids(Apply(products, State{Sort: SortPriceAsc})))
	assert.Equal(t, []uint{6, 5, 2, 3, 4, 1}, ids(Apply(products, State{Sort: SortPriceDesc})))
	assert.Equal(t, []uint{2, 3, 6, 1, 5, 4}, ids(Apply(products, State{Sort: SortNameAsc})))
	assert.Equal(t, []uint{4, 5, 1, 6, 3, 2}, ids(Apply(products, State{Sort: SortNameDesc})))
}

func TestApply_SortIsStable(t *testing.T) {
	products := []catalog.Product{
		{ID: 10, Price: decimal.NewFromInt(5)},
		{ID: 11, Price: decimal.NewFromInt(3)},
		{ID: 12, Price: decimal.NewFromInt(5)},
		{ID: 13, Price: decimal.NewFromInt(3)},
	}

	assert.Equal(t, []uint{11, 13, 10, 12}, ids(Apply(products, State{Sort: SortPriceAsc})))
	assert.Equal(t, []uint{10, 12, 11, 13}, ids(Apply(products, State{Sort: SortPriceDesc})))
}

func TestApply_DefaultSortKeepsCatalogOrder(t *testing.T) {
	products := catalog.DefaultProducts()

	got := Apply(products, State{Varieties: []string{"Jumbo", "Organic"}})

	assert.Equal(t, []uint{1, 3, 5, 6}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	products := catalog.DefaultProducts()

	Apply(products, State{Sort: SortPriceDesc})

	assert.Equal(t, []uint{1, 2, 3, 4, 5, 6}, ids(products))
}

func TestApply_PredicatesCommute(t *testing.T) {
	products := catalog.DefaultProducts()
	full := State{
		SearchTerm:    "a",
		MaxPrice:      price("23"),
		Varieties:     []string{"Organic", "Standard"},
		QuantityTypes: []catalog.QuantityType{catalog.QuantityTypePack},
	}

	stages := []func(State) State{
		func(s State) State { return s.WithSearchTerm(full.SearchTerm) },
		func(s State) State { return s.WithMaxPrice(full.MaxPrice) },
		func(s State) State { return s.ToggleVariety("Organic").ToggleVariety("Standard") },
		func(s State) State { return s.ToggleQuantityType(catalog.QuantityTypePack) },
	}

	want := ids(Apply(products, full))
	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}
	for _, order := range orders {
		st := State{}
		narrowed := products
		for _, i := range order {
			st = stages[i](st)
			narrowed = Apply(narrowed, st)
		}
		assert.Equal(t, want, ids(Apply(products, st)), "order %v", order)
		assert.Equal(t, want, ids(narrowed), "incremental order %v", order)
	}
	assert.Equal(t, []uint{2, 5}, want)
}

func TestToggleVariety_ClearRestoresResult(t *testing.T) {
	products := catalog.DefaultProducts()
	base := State{MaxPrice: price("30")}

	toggled := base.ToggleVariety("Organic")
	assert.Equal(t, []uint{1, 5}, ids(Apply(products, toggled)))

	cleared := toggled.ToggleVariety("Organic")
	assert.Empty(t, cleared.Varieties)
	assert.Equal(t, ids(Apply(products, base)), ids(Apply(products, cleared)))
}

func TestStateIntents_DoNotShareBackingArrays(t *testing.T) {
	base := State{Varieties: []string{"Organic"}}

	a := base.ToggleVariety("Jumbo")
	b := base.ToggleVariety("Sweetest")

	assert.Equal(t, []string{"Organic"}, base.Varieties)
	assert.Equal(t, []string{"Organic", "Jumbo"}, a.Varieties)
	assert.Equal(t, []string{"Organic", "Sweetest"}, b.Varieties)
}

func TestWithMaxPrice_NegativeLiftsBound(t *testing.T) {
	st := State{}.WithMaxPrice(price("-1"))
	assert.Nil(t, st.MaxPrice)
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortMode("Price-Asc"))
	assert.Equal(t, SortDefault, ParseSortMode("rating"))
	assert.Equal(t, SortDefault, ParseSortMode(""))
}

func TestParseQuery(t *testing.T) {
	values := url.Values{
		"search":        {"  organic "},
		"max_price":     {"20"},
		"variety":       {"Organic,Jumbo", "Organic"},
		"quantity_type": {"pack", "crate"},
		"sort":          {"price-desc"},
	}

	st := ParseQuery(values, price("30"))

	assert.Equal(t, "organic", st.SearchTerm)
	require.NotNil(t, st.MaxPrice)
	assert.True(t, st.MaxPrice.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, []string{"Organic", "Jumbo"}, st.Varieties)
	assert.Equal(t, []catalog.QuantityType{catalog.QuantityTypePack}, st.QuantityTypes)
	assert.Equal(t, SortPriceDesc, st.Sort)
}

func TestParseQuery_MalformedFieldsMeanNoRestriction(t *testing.T) {
	st := ParseQuery(url.Values{"max_price": {"cheap"}, "sort": {"random"}}, price("30"))
	assert.Nil(t, st.MaxPrice)
	assert.Equal(t, SortDefault, st.Sort)

	st = ParseQuery(url.Values{"max_price": {"-4"}}, price("30"))
	assert.Nil(t, st.MaxPrice)

	assert.Len(t, Apply(catalog.DefaultProducts(), st), 6)
}

func TestParseQuery_DefaultMaxApplies(t *testing.T) {
	st := ParseQuery(url.Values{}, price("10"))

	require.NotNil(t, st.MaxPrice)
	assert.Equal(t, []uint{1, 3, 4}, ids(Apply(catalog.DefaultProducts(), st)))
}

func TestFacetsOf(t *testing.T) {
	f := FacetsOf(catalog.New(catalog.DefaultProducts()))

	assert.Len(t, f.Varieties, 4)
	assert.Len(t, f.QuantityTypes, 2)
	assert.True(t, f.PriceCeiling.Equal(decimal.RequireFromString("25.99")))
	assert.Contains(t, f.SortModes, SortDefault)
}
