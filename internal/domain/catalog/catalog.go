package catalog

import "github.com/shopspring/decimal"

// Catalog is an immutable, ordered snapshot of products.
// It is safe for concurrent use because nothing mutates it after New.
type Catalog struct {
	products []Product
	index    map[uint]int
}

// New builds a catalog from products, keeping their order.
// A repeated id keeps its first occurrence.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[uint]int, len(products)),
	}
	for _, p := range products {
		if _, dup := c.index[p.ID]; dup {
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Products returns a copy of the catalog in its natural order
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// Find looks a product up by id
func (c *Catalog) Find(id uint) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Index returns the catalog position of id
func (c *Catalog) Index(id uint) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Varieties lists distinct varieties in order of first appearance
func (c *Catalog) Varieties() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Variety] {
			seen[p.Variety] = true
			out = append(out, p.Variety)
		}
	}
	return out
}

// QuantityTypes lists distinct quantity types in order of first appearance
func (c *Catalog) QuantityTypes() []QuantityType {
	seen := make(map[QuantityType]bool)
	var out []QuantityType
	for _, p := range c.products {
		if !seen[p.QuantityType] {
			seen[p.QuantityType] = true
			out = append(out, p.QuantityType)
		}
	}
	return out
}

// PriceCeiling returns the highest product price, or zero for an empty catalog
func (c *Catalog) PriceCeiling() decimal.Decimal {
	ceiling := decimal.Zero
	for _, p := range c.products {
		if p.Price.GreaterThan(ceiling) {
			ceiling = p.Price
		}
	}
	return ceiling
}
