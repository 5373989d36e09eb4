package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"travel-journal-backend/internal/models"
	"travel-journal-backend/internal/repository"
	"travel-journal-backend/pkg/utils"
)

// AuthConfig controls refresh token lifetimes.
type AuthConfig struct {
	// RefreshTTL applies to tokens issued at register and login.
	RefreshTTL time.Duration
	// RotationWindow applies to tokens issued by a refresh.
	RotationWindow time.Duration
}

type AuthService struct {
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditRepository
	hasher    *utils.PasswordHasher
	tokens    *utils.TokenIssuer
	cfg       AuthConfig
	now       func() time.Time
}

func NewAuthService(
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditRepository,
	hasher *utils.PasswordHasher,
	tokens *utils.TokenIssuer,
	cfg AuthConfig,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		hasher:    hasher,
		tokens:    tokens,
		cfg:       cfg,
		now:       time.Now,
	}
}

// AuthResult is returned by register, login and refresh. The refresh token travels
// in a cookie only.
type AuthResult struct {
	ID                    uint      `json:"id"`
	AccessToken           string    `json:"access_token"`
	Email                 string    `json:"email"`
	Username              string    `json:"username"`
	RefreshToken          string    `json:"-"`
	RefreshTokenExpiresAt time.Time `json:"-"`
}

// TokenInfo describes the owner of a valid access token.
type TokenInfo struct {
	ID           uint   `json:"id"`
	RefreshToken string `json:"refresh_token"`
	Email        string `json:"email"`
	Username     string `json:"username"`
}

// Register creates a new user account and starts its session
func (s *AuthService) Register(ctx context.Context, email, password, username string) (*AuthResult, error) {
	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
	}

	// the account and its first session are committed together
	var result *AuthResult
	err = s.userRepo.Transaction(ctx, func(tx *repository.UserRepository) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		var err error
		result, err = s.startSession(ctx, tx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.audit(ctx, &user.ID, models.AuditUserRegistered, fmt.Sprintf("User %s registered", email))
	return result, nil
}

// Login authenticates a user and replaces any previous refresh token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		slog.Error("password hash unusable", "user_id", user.ID, "error", err)
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	result, err := s.startSession(ctx, s.userRepo, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, models.AuditUserLogin, fmt.Sprintf("User %s logged in", email))
	return result, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The presented token
// stops working as soon as this returns.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	user, err := s.userRepo.FindUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !user.RefreshTokenValid(s.now()) {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.cfg.RotationWindow).UTC()
	if err := s.userRepo.RotateRefreshToken(ctx, user.ID, refreshToken, newRefresh, expiresAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	s.audit(ctx, &user.ID, models.AuditTokenRefreshed, "Refresh token rotated")
	return &AuthResult{
		ID:                    user.ID,
		AccessToken:           accessToken,
		Email:                 user.Email,
		Username:              user.Username,
		RefreshToken:          newRefresh,
		RefreshTokenExpiresAt: expiresAt,
	}, nil
}

// Logout empties the refresh slot of whoever holds the token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	user, err := s.userRepo.FindUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.userRepo.ClearRefreshToken(ctx, user.ID); err != nil {
		return err
	}
	s.audit(ctx, &user.ID, models.AuditUserLogout, fmt.Sprintf("User %s logged out", user.Email))
	return nil
}

// ValidateAccessToken checks the token and returns its subject's current record
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*TokenInfo, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, ok := claims.SubjectID()
	if !ok {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	info := &TokenInfo{ID: user.ID, Email: user.Email, Username: user.Username}
	if user.RefreshToken != nil {
		info.RefreshToken = *user.RefreshToken
	}
	return info, nil
}

// ListUsers returns every registered user
func (s *AuthService) ListUsers(ctx context.Context) ([]UserView, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i]))
	}
	return views, nil
}

func (s *AuthService) startSession(ctx context.Context, users *repository.UserRepository, user *models.User) (*AuthResult, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.cfg.RefreshTTL).UTC()
	if err := users.SetRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResult{
		ID:                    user.ID,
		AccessToken:           accessToken,
		Email:                 user.Email,
		Username:              user.Username,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) audit(ctx context.Context, userID *uint, action, details string) {
	if err := s.auditRepo.CreateAuditLog(ctx, userID, action, details); err != nil {
		slog.Warn("audit log not written", "action", action, "error", err)
	}
}
