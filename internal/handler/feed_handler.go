package handler

import (
	"net/http"

	"travel-journal-backend/internal/service"
	"travel-journal-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

type FeedRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Search   string `form:"search"`
	Tag      string `form:"tag"`
}

// Feed returns one page of published travels
func (h *FeedHandler) Feed(c *gin.Context) {
	var req FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := h.feedService.Feed(c.Request.Context(), service.FeedQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Tag:      req.Tag,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page)
}

// Tags lists every tag in use
func (h *FeedHandler) Tags(c *gin.Context) {
	tags, err := h.feedService.Tags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, tags)
}
