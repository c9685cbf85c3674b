package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Source supplies the ordered product list the catalog is built from
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}

// DefaultProducts returns the storefront's built-in product list
func DefaultProducts() []Product {
	return []Product{
		{ID: 1, Name: "Organic", Price: decimal.RequireFromString("5.99"), Image: "/images/organic.png", Variety: "Organic", QuantityType: QuantityTypeSingle, SortOrder: 1},
		{ID: 2, Name: "Family Pack", Price: decimal.RequireFromString("19.99"), Image: "/images/family-pack.png", Variety: "Standard", QuantityType: QuantityTypePack, SortOrder: 2},
		{ID: 3, Name: "Jumbo", Price: decimal.RequireFromString("8.99"), Image: "/images/jumbo.png", Variety: "Jumbo", QuantityType: QuantityTypeSingle, SortOrder: 3},
		{ID: 4, Name: "Sweetest", Price: decimal.RequireFromString("7.49"), Image: "/images/sweetest.png", Variety: "Sweetest", QuantityType: QuantityTypeSingle, SortOrder: 4},
		{ID: 5, Name: "Organic Pack", Price: decimal.RequireFromString("22.99"), Image: "/images/organic-pack.png", Variety: "Organic", QuantityType: QuantityTypePack, SortOrder: 5},
		{ID: 6, Name: "Jumbo Pack", Price: decimal.RequireFromString("25.99"), Image: "/images/jumbo-pack.png", Variety: "Jumbo", QuantityType: QuantityTypePack, SortOrder: 6},
	}
}

// StaticSource serves a fixed product list
type StaticSource struct {
	products []Product
}

// NewStaticSource creates a static source. With no products it serves DefaultProducts.
func NewStaticSource(products ...Product) *StaticSource {
	if len(products) == 0 {
		products = DefaultProducts()
	}
	return &StaticSource{products: products}
}

// Load returns a copy of the static list
func (s *StaticSource) Load(_ context.Context) ([]Product, error) {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// GormSource reads products from the products table
type GormSource struct {
	db *gorm.DB
}

// NewGormSource creates a database-backed source
func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

// Load fetches all products in display order
func (s *GormSource) Load(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// LoadCatalog builds the session catalog from src.
// A failing or empty source falls back to DefaultProducts so the storefront stays browsable.
func LoadCatalog(ctx context.Context, src Source, logger *logrus.Logger) *Catalog {
	products, err := src.Load(ctx)
	if err != nil {
		logger.WithError(err).Warn("Catalog source failed, using built-in products")
		return New(DefaultProducts())
	}
	if len(products) == 0 {
		logger.Warn("Catalog source returned no products, using built-in products")
		return New(DefaultProducts())
	}

	logger.WithField("products", len(products)).Info("Catalog loaded")
	return New(products)
}
