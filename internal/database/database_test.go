package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/factoryfeed/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestMigrateCreatesTables(t *testing.T) {
	db := setupTestDB(t)
	for _, table := range []string{"users", "posts", "likes", "comments", "user_badges", "user_records"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Like{}, "idx_likes_post_user"))
}

func TestScopedCommitsOnSuccess(t *testing.T) {
	db := setupTestDB(t)

	err := Scoped(context.Background(), db, func(tx *gorm.DB) error {
		return tx.Create(&models.User{DisplayName: "Ivan"}).Error
	})
	require.NoError(t, err)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestScopedRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	boom := errors.New("boom")

	err := Scoped(context.Background(), db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.User{DisplayName: "Ivan"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestScopedRollsBackOnPanic(t *testing.T) {
	db := setupTestDB(t)

	assert.Panics(t, func() {
		_ = Scoped(context.Background(), db, func(tx *gorm.DB) error {
			tx.Create(&models.User{DisplayName: "Ivan"})
			panic("kaboom")
		})
	})

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestHealthWithoutInitialize(t *testing.T) {
	prev := DB
	DB = nil
	defer func() { DB = prev }()

	assert.Error(t, Health(context.Background()))
	assert.NoError(t, Close())
}
