package service

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"travel-journal-backend/internal/database"
	"travel-journal-backend/internal/repository"
	"travel-journal-backend/internal/storage"
	"travel-journal-backend/pkg/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testMaxPhotoBytes = 5 * 1024 * 1024

type testEnv struct {
	db      *gorm.DB
	users   *repository.UserRepository
	travels *repository.TravelRepository
	photos  *repository.PhotoRepository
	audit   *repository.AuditRepository
	store   *storage.PhotoStore
	tokens  *utils.TokenIssuer
	auth    *AuthService
	travel  *TravelService
	feed    *FeedService
}

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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	store := storage.NewPhotoStore(filepath.Join(t.TempDir(), "uploads"), testMaxPhotoBytes)
	require.NoError(t, store.Init())

	env := &testEnv{
		db:      db,
		users:   repository.NewUserRepo(db),
		travels: repository.NewTravelRepo(db),
		photos:  repository.NewPhotoRepo(db),
		audit:   repository.NewAuditRepo(db),
		store:   store,
		tokens: utils.NewTokenIssuer(utils.TokenConfig{
			Secret:       "test-secret",
			Issuer:       "travel-journal",
			Audience:     "travel-journal-clients",
			AccessExpiry: 15 * time.Minute,
		}),
	}
	env.auth = NewAuthService(env.users, env.audit, utils.NewPasswordHasherWithCost(bcrypt.MinCost), env.tokens, AuthConfig{
		RefreshTTL:     30 * 24 * time.Hour,
		RotationWindow: 7 * 24 * time.Hour,
	})
	env.travel = NewTravelService(env.users, env.travels, env.photos, env.audit, store, nil)
	env.feed = NewFeedService(env.travels, nil)
	return env
}

func (e *testEnv) register(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := e.auth.Register(t.Context(), email, "password123", "user-"+email)
	require.NoError(t, err)
	return res
}

// fileExists checks a stored "uploads/<name>" path on disk
func (e *testEnv) fileExists(storedPath string) bool {
	_, err := os.Stat(filepath.Join(e.store.Root(), filepath.Base(storedPath)))
	return err == nil
}

func (e *testEnv) storedFiles(t *testing.T) []storage.StoredFile {
	t.Helper()
	files, err := e.store.List()
	require.NoError(t, err)
	return files
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func point(name string, photos ...PhotoInput) PointInput {
	return PointInput{
		Name:        name,
		Address:     name + " street",
		Coordinates: &CoordinatesInput{Lat: 55.75, Lon: 37.61},
		Photos:      photos,
	}
}

func photo(name, content string) PhotoInput {
	return PhotoInput{FileName: name, Base64Content: b64(content)}
}
