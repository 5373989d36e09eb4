package repository

import (
	"testing"
	"time"

	"travel-journal-backend/internal/database"
	"travel-journal-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Username: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newPoint(name string, lat, lon float64, photos ...string) models.TravelPoint {
	p := models.TravelPoint{
		Name:        name,
		Address:     name + " street",
		Type:        models.DefaultPointType,
		Coordinates: &models.Coordinates{Lat: lat, Lon: lon},
	}
	for _, path := range photos {
		p.Photos = append(p.Photos, models.Photo{FilePath: path})
	}
	return p
}

func createTravel(t *testing.T, repo *TravelRepository, userID uint, title string, date time.Time, tags []string, points ...models.TravelPoint) *models.Travel {
	t.Helper()
	for i := range points {
		points[i].Position = i
	}
	travel := &models.Travel{
		Title:  title,
		Date:   date,
		UserID: userID,
		Tags:   models.NewTags(tags),
		Points: points,
	}
	require.NoError(t, repo.CreateTravel(t.Context(), travel))
	return travel
}
