package repository

import (
	"testing"

	"github.com/fuel-spark/orderbook-indexer/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database, named after the calling
// test so no rows leak between tests, migrated with the same models the
// Postgres schema uses. SQLite lacks pgconn error codes, so
// conflict-classification tests live against a real Postgres in CI; this
// covers the ORM-level query/mutation logic each repository method builds
// on top of. Grounded on the sqlite driver present in the wider retrieved
// pack (web3guy0-polybot's go.mod uses gorm.io/driver/sqlite).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.Order{}, &model.Trade{}, &model.State{}))

	return db
}
