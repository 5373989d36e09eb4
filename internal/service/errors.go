package service

import (
	"errors"
	"fmt"
)

// NotFoundError carries a caller-visible message for a missing entity.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Is makes every NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError carries a caller-visible message for a rejected request payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	ErrUserNotFound   = &NotFoundError{Message: "User not found"}
	ErrTravelNotFound = &NotFoundError{Message: "Travel not found"}
	ErrPhotoNotFound  = &NotFoundError{Message: "Photo not found"}

	ErrNoPoints = &ValidationError{Message: "At least one point is required"}

	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid password")

	ErrMissingRefreshToken = errors.New("refresh token is missing")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")
	ErrInvalidToken        = errors.New("invalid or expired token")

	// ErrShareUnavailable is returned when sharing an unknown travel with an id above shareFailureThreshold.
	ErrShareUnavailable = errors.New("travel sharing is unavailable")
)
