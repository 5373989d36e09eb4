package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"travel-journal-backend/internal/database"
	"travel-journal-backend/internal/models"
	"travel-journal-backend/internal/repository"
	"travel-journal-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testIssuer() *utils.TokenIssuer {
	return utils.NewTokenIssuer(utils.TokenConfig{
		Secret:       "middleware-secret",
		Issuer:       "travel-journal",
		Audience:     "travel-journal-clients",
		AccessExpiry: time.Minute,
	})
}

func bearer(t *testing.T, tokens *utils.TokenIssuer, userID uint) string {
	t.Helper()
	token, err := tokens.GenerateAccessToken(userID, "someone@example.com")
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := testIssuer()
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{name: "missing header", auth: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", auth: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", auth: "Bearer not-a-jwt", status: http.StatusUnauthorized},
		{name: "valid token", auth: bearer(t, tokens, 42), status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/me", tt.auth)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := serve(r, http.MethodGet, "/me", bearer(t, tokens, 42))
	assert.JSONEq(t, `{"id":42}`, w.Body.String())
}

func setupOwnership(t *testing.T) (*gorm.DB, *repository.TravelRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db, repository.NewTravelRepo(db)
}

func TestAccessControl(t *testing.T) {
	db, travels := setupOwnership(t)
	ctx := t.Context()

	owner := &models.User{Email: "owner@example.com", Username: "owner", PasswordHash: "x"}
	other := &models.User{Email: "other@example.com", Username: "other", PasswordHash: "x"}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(other).Error)

	travel := &models.Travel{
		Title:  "Owned",
		Date:   time.Now().UTC(),
		UserID: owner.ID,
		Points: []models.TravelPoint{{Name: "P", Type: models.DefaultPointType, Coordinates: &models.Coordinates{}}},
	}
	require.NoError(t, travels.CreateTravel(ctx, travel))
	pointID := travel.Points[0].ID

	tokens := testIssuer()
	ac := NewAccessControlMiddleware(travels)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	r := gin.New()
	auth := AuthMiddleware(tokens)
	r.PATCH("/travels/:travelId", auth, ac.CheckTravelOwner("travelId"), ok)
	r.DELETE("/points/:pointId/photos/:photoId", auth, ac.CheckPointOwner("pointId"), ok)
	r.POST("/users/:userId/travels", auth, ac.CheckSameUser("userId"), ok)

	ownerAuth := bearer(t, tokens, owner.ID)
	otherAuth := bearer(t, tokens, other.ID)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"owner patches", http.MethodPatch, "/travels/" + utoa(travel.ID), ownerAuth, http.StatusOK},
		{"stranger patches", http.MethodPatch, "/travels/" + utoa(travel.ID), otherAuth, http.StatusForbidden},
		{"unknown travel falls through", http.MethodPatch, "/travels/999", otherAuth, http.StatusOK},
		{"bad travel id", http.MethodPatch, "/travels/abc", ownerAuth, http.StatusBadRequest},
		{"no token", http.MethodPatch, "/travels/" + utoa(travel.ID), "", http.StatusUnauthorized},
		{"owner deletes photo", http.MethodDelete, "/points/" + utoa(pointID) + "/photos/1", ownerAuth, http.StatusOK},
		{"stranger deletes photo", http.MethodDelete, "/points/" + utoa(pointID) + "/photos/1", otherAuth, http.StatusForbidden},
		{"create for self", http.MethodPost, "/users/" + utoa(owner.ID) + "/travels", ownerAuth, http.StatusOK},
		{"create for someone else", http.MethodPost, "/users/" + utoa(owner.ID) + "/travels", otherAuth, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, tt.auth)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(NewIPRateLimiter(0.001, 2)), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", "").Code)

	w := serve(r, http.MethodPost, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"too many requests"}`, w.Body.String())
}

func TestIPRateLimiterPrune(t *testing.T) {
	rl := NewIPRateLimiter(1, 1)
	rl.Allow("10.0.0.1")
	rl.prune(time.Now().Add(2 * visitorIdleTTL))
	assert.Empty(t, rl.visitors)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func utoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
