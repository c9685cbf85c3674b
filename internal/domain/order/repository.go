package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when no order matches
var ErrOrderNotFound = errors.New("order not found")

// Repository persists placed orders
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
}

// GormRepository stores orders in Postgres
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a gorm-backed order repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create saves the order and its items in one transaction
func (r *GormRepository) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin order transaction: %w", tx.Error)
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	if err := tx.Omit("Items").Create(o).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.OrderID = o.ID
		if err := tx.Create(item).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return nil
}

// FindByNumber retrieves a single order by order number
func (r *GormRepository) FindByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}
