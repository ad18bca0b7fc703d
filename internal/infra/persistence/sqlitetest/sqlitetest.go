// Package sqlitetest opens throwaway in-memory databases for repository and use case tests.
package sqlitetest

import (
	"testing"

	"shoponline/internal/domain/entity"
	"shoponline/internal/infra/persistence/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database with the standard roles seeded.
//
// The pool is pinned to one connection because every new sqlite connection
// would see its own empty memory database. Code under test must therefore
// never query outside a transaction while one is open.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	SeedRoles(t, db)

	return db
}

// SeedRoles inserts the standard roles, leaving existing rows untouched.
func SeedRoles(t *testing.T, db *gorm.DB) {
	t.Helper()

	seeds := entity.SeedRoles()
	rows := make([]model.RoleModel, 0, len(seeds))
	for _, role := range seeds {
		rows = append(rows, model.RoleModel{ID: role.ID, Name: role.Name, Description: role.Description})
	}

	require.NoError(t, db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error)
}
