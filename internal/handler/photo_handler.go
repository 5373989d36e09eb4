package handler

import (
	"errors"
	"net/http"

	"travel-journal-backend/internal/service"
	"travel-journal-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PhotoHandler struct {
	travelService *service.TravelService
}

func NewPhotoHandler(travelService *service.TravelService) *PhotoHandler {
	return &PhotoHandler{
		travelService: travelService,
	}
}

// DeletePhoto removes one photo of a point together with its file
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	pointID, ok := pathID(c, "pointId", "point")
	if !ok {
		return
	}
	photoID, ok := pathID(c, "photoId", "photo")
	if !ok {
		return
	}

	if err := h.travelService.DeletePhoto(c.Request.Context(), pointID, photoID); err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			utils.JSONResponse(c, http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"success": true, "deleted_photo_id": photoID})
}
