// internal/domain/catalog/entity.go
package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when an id does not resolve in the catalog
var ErrProductNotFound = errors.New("product not found")

// QuantityType tells whether a product is sold singly or as a pack
type QuantityType string

const (
	QuantityTypeSingle QuantityType = "single"
	QuantityTypePack   QuantityType = "pack"
)

// ParseQuantityType normalises s and reports whether it names a known quantity type
func ParseQuantityType(s string) (QuantityType, bool) {
	switch qt := QuantityType(strings.ToLower(strings.TrimSpace(s))); qt {
	case QuantityTypeSingle, QuantityTypePack:
		return qt, true
	default:
		return "", false
	}
}

// Product represents a purchasable catalog record
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null;size:255" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image        string          `gorm:"size:500" json:"image"`
	Variety      string          `gorm:"not null;size:100;index" json:"variety"`
	QuantityType QuantityType    `gorm:"not null;size:20" json:"quantity_type"`
	SortOrder    int             `gorm:"not null" json:"-"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}
