package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"travel-journal-backend/internal/middleware"
	"travel-journal-backend/internal/service"
	"travel-journal-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TravelHandler struct {
	travelService *service.TravelService
}

func NewTravelHandler(travelService *service.TravelService) *TravelHandler {
	return &TravelHandler{
		travelService: travelService,
	}
}

type ShareRequest struct {
	Tags []string `json:"tags"`
}

// CreateTravel creates a travel with its points and photos for the user in the path
func (h *TravelHandler) CreateTravel(c *gin.Context) {
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}

	var req service.CreateTravelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	travel, err := h.travelService.CreateTravel(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, travel)
}

// PatchTravel applies a partial update to a travel and its points
func (h *TravelHandler) PatchTravel(c *gin.Context) {
	id, ok := pathID(c, "travelId", "travel")
	if !ok {
		return
	}

	var patch service.TravelPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	travel, err := h.travelService.PatchTravel(c.Request.Context(), id, &patch)
	if err != nil {
		if errors.Is(err, service.ErrTravelNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, fmt.Sprintf("Travel with id %d not found", id))
			return
		}
		if status, known := statusFor(err); known {
			utils.ErrorResponse(c, status, err.Error())
			return
		}

		slog.Error("travel update failed", "travel_id", id, "error", err)
		detail := "An unexpected error occurred"
		if gin.Mode() != gin.ReleaseMode {
			detail = "An error occurred: " + err.Error()
		}
		utils.ProblemResponse(c, http.StatusInternalServerError, "Internal Server Error", detail)
		return
	}
	utils.SuccessResponse(c, travel)
}

// ShareTravel replaces the tag list of a travel, publishing it to the feed
func (h *TravelHandler) ShareTravel(c *gin.Context) {
	id, ok := pathID(c, "travelId", "travel")
	if !ok {
		return
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.travelService.ShareTravel(c.Request.Context(), id, req.Tags); err != nil {
		if errors.Is(err, service.ErrShareUnavailable) {
			utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// DeleteTravel removes a travel with all points, photos and files
func (h *TravelHandler) DeleteTravel(c *gin.Context) {
	id, ok := pathID(c, "travelId", "travel")
	if !ok {
		return
	}

	var actor *uint
	if userID, ok := middleware.CurrentUserID(c); ok {
		actor = &userID
	}

	if err := h.travelService.DeleteTravel(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GetTravel returns a list holding the travel summary, or an empty list
func (h *TravelHandler) GetTravel(c *gin.Context) {
	id, ok := pathID(c, "travelId", "travel")
	if !ok {
		return
	}

	travels, err := h.travelService.GetTravel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, travels)
}

// ListRoutes returns the user's travels with their points
func (h *TravelHandler) ListRoutes(c *gin.Context) {
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}

	routes, err := h.travelService.ListRoutes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, routes)
}

// ListPoints returns the ordered points of a travel
func (h *TravelHandler) ListPoints(c *gin.Context) {
	travelID, ok := pathID(c, "travelId", "travel")
	if !ok {
		return
	}

	points, err := h.travelService.ListPoints(c.Request.Context(), travelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, points)
}

func (h *TravelHandler) Like(c *gin.Context) {
	h.adjustLikes(c, h.travelService.Like)
}

func (h *TravelHandler) Unlike(c *gin.Context) {
	h.adjustLikes(c, h.travelService.Unlike)
}

func (h *TravelHandler) adjustLikes(c *gin.Context, adjust func(ctx context.Context, id uint) (int, error)) {
	id, ok := pathID(c, "postId", "post")
	if !ok {
		return
	}

	likes, err := adjust(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"likes_count": likes})
}
