// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
	"github.com/your-org/sithaphal-storefront/internal/domain/order"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&catalog.Product{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes used by the catalog and order lookups
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_sort_order ON products(sort_order, id)",
		"CREATE INDEX IF NOT EXISTS idx_products_variety ON products(variety)",
		"CREATE INDEX IF NOT EXISTS idx_orders_session_created ON orders(session_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(email)",
	}

	failCount := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("⚠️ Failed to create index")
			failCount++
		}
	}

	m.logger.Infof("✅ Created %d indexes successfully (%d failed)", len(indexes)-failCount, failCount)
	return nil
}

// SeedCatalog inserts the built-in products, leaving existing rows untouched
func (m *Migration) SeedCatalog() error {
	products := catalog.DefaultProducts()

	result := m.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&products)
	if result.Error != nil {
		return fmt.Errorf("failed to seed products: %w", result.Error)
	}

	m.logger.Infof("🌱 Seeded %d of %d catalog products", result.RowsAffected, len(products))
	return nil
}
