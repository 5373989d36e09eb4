package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"travel-journal-backend/internal/repository"
	"travel-journal-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AccessControlMiddleware restricts travel and photo writes to the travel's owner.
// It must run after AuthMiddleware.
type AccessControlMiddleware struct {
	travelRepo *repository.TravelRepository
}

func NewAccessControlMiddleware(travelRepo *repository.TravelRepository) *AccessControlMiddleware {
	return &AccessControlMiddleware{travelRepo: travelRepo}
}

// CheckTravelOwner verifies the caller owns the travel named by the path parameter
func (m *AccessControlMiddleware) CheckTravelOwner(param string) gin.HandlerFunc {
	return m.checkOwner(param, "travel", m.travelRepo.GetTravelOwner)
}

// CheckPointOwner verifies the caller owns the travel the point belongs to
func (m *AccessControlMiddleware) CheckPointOwner(param string) gin.HandlerFunc {
	return m.checkOwner(param, "point", m.travelRepo.GetPointOwner)
}

// CheckSameUser verifies the path parameter names the caller
func (m *AccessControlMiddleware) CheckSameUser(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			utils.AbortWithError(c, http.StatusUnauthorized, "User not authenticated")
			return
		}
		target, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil {
			utils.AbortWithError(c, http.StatusBadRequest, "Invalid user ID")
			return
		}
		if uint(target) != userID {
			utils.AbortWithError(c, http.StatusForbidden, "Access denied: you can only create travels for yourself")
			return
		}
		c.Next()
	}
}

func (m *AccessControlMiddleware) checkOwner(
	param, kind string,
	lookup func(ctx context.Context, id uint) (uint, error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			utils.AbortWithError(c, http.StatusUnauthorized, "User not authenticated")
			return
		}

		id, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil {
			utils.AbortWithError(c, http.StatusBadRequest, "Invalid "+kind+" ID")
			return
		}

		ownerID, err := lookup(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// let the handler produce its own not-found response
				c.Next()
				return
			}
			slog.Error("ownership lookup failed", "kind", kind, "id", id, "error", err)
			utils.AbortWithError(c, http.StatusInternalServerError, "Failed to verify access")
			return
		}

		if ownerID != userID {
			utils.AbortWithError(c, http.StatusForbidden, "Access denied: you don't own this "+kind)
			return
		}
		c.Next()
	}
}
