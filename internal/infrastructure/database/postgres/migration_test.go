package postgres

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/sithaphal-storefront/internal/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestSeedCatalog(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT ("id") DO NOTHING`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3).AddRow(4).AddRow(5).AddRow(6))
	mock.ExpectCommit()

	require.NoError(t, NewMigration(db, logger.Discard()).SeedCatalog())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedCatalog_Error(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := NewMigration(db, logger.Discard()).SeedCatalog()
	assert.ErrorContains(t, err, "failed to seed products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIndexes_ToleratesFailures(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS idx_products_sort_order`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS idx_products_variety`)).WillReturnError(errors.New("boom"))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS idx_orders_session_created`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS idx_orders_email`)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, NewMigration(db, logger.Discard()).CreateIndexes())
	assert.NoError(t, mock.ExpectationsWereMet())
}
