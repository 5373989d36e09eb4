package repository

import (
	"errors"
	"testing"
	"time"

	"travel-journal-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := t.Context()

	t.Run("create and find", func(t *testing.T) {
		user := &models.User{Email: "ann@example.com", Username: "ann", PasswordHash: "hash"}
		require.NoError(t, repo.CreateUser(ctx, user))
		assert.NotZero(t, user.ID)
		assert.Nil(t, user.RefreshToken)

		found, err := repo.FindUserByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		byID, err := repo.FindUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ann", byID.Username)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.CreateUser(ctx, &models.User{Email: "ann@example.com", Username: "other", PasswordHash: "hash"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.FindUserByRefreshToken(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("refresh slot rotation", func(t *testing.T) {
		user, err := repo.FindUserByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		expires := time.Now().Add(time.Hour).UTC()

		require.NoError(t, repo.SetRefreshToken(ctx, user.ID, "first", expires))
		holder, err := repo.FindUserByRefreshToken(ctx, "first")
		require.NoError(t, err)
		assert.Equal(t, user.ID, holder.ID)
		assert.True(t, holder.RefreshTokenValid(time.Now()))

		require.NoError(t, repo.RotateRefreshToken(ctx, user.ID, "first", "second", expires))
		assert.ErrorIs(t, repo.RotateRefreshToken(ctx, user.ID, "first", "third", expires), ErrNotFound)

		_, err = repo.FindUserByRefreshToken(ctx, "first")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, repo.ClearRefreshToken(ctx, user.ID))
		cleared, err := repo.FindUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, cleared.RefreshToken)
		assert.Nil(t, cleared.RefreshTokenExpiresAt)
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, repo.CreateUser(ctx, &models.User{Email: "bob@example.com", Username: "bob", PasswordHash: "hash"}))
		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

func TestAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepo(db)
	user := createUser(t, db, "ann@example.com")

	require.NoError(t, repo.CreateAuditLog(t.Context(), &user.ID, models.AuditUserLogin, "login"))
	require.NoError(t, repo.CreateAuditLog(t.Context(), nil, models.AuditTravelDeleted, "anonymous"))

	var logs []models.AuditLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, user.ID, *logs[0].UserID)
	assert.Equal(t, models.AuditUserLogin, logs[0].Action)
	assert.Nil(t, logs[1].UserID)
}

func TestUserRepositoryTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := t.Context()

	errBoom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *UserRepository) error {
		require.NoError(t, tx.CreateUser(ctx, &models.User{Email: "ann@example.com", Username: "ann", PasswordHash: "hash"}))
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = repo.FindUserByEmail(ctx, "ann@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
