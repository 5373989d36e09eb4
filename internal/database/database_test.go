package database

import (
	"path/filepath"
	"testing"

	"travel-journal-backend/internal/config"
	"travel-journal-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "oracle"}}

	_, err := Dialector(cfg)
	assert.Error(t, err)
}

func TestDialectorKnownDrivers(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			cfg := &config.Config{Database: config.DatabaseConfig{Driver: driver, Path: ":memory:"}}
			d, err := Dialector(cfg)
			require.NoError(t, err)
			assert.Equal(t, driver, d.Name())
		})
	}
}

func TestConnectSQLiteMigrates(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			Path:        filepath.Join(t.TempDir(), "test.db"),
			AutoMigrate: true,
		},
		Server: config.ServerConfig{GinMode: "release"},
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	for _, table := range []any{
		&models.User{}, &models.Travel{}, &models.TravelTag{}, &models.TravelPoint{},
		&models.Coordinates{}, &models.Photo{}, &models.AuditLog{},
	} {
		assert.True(t, db.Migrator().HasTable(table))
	}
}
