package handler

import (
	"travel-journal-backend/internal/middleware"
	"travel-journal-backend/internal/storage"
	"travel-journal-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries everything the HTTP surface is built from
type RouterConfig struct {
	Auth   *AuthHandler
	Travel *TravelHandler
	Feed   *FeedHandler
	Photo  *PhotoHandler

	Tokens        *utils.TokenIssuer
	Access        *middleware.AccessControlMiddleware
	AuthLimiter   *middleware.IPRateLimiter
	ProtectWrites bool

	UploadDir      string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "travel-journal-backend",
		})
	})
	if cfg.UploadDir != "" {
		r.Static("/"+storage.URLPrefix, cfg.UploadDir)
	}

	api := r.Group("/api")

	// Auth routes (public, rate limited)
	auth := api.Group("")
	if cfg.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(cfg.AuthLimiter))
	}
	{
		auth.POST("/register", cfg.Auth.Register)
		auth.POST("/login", cfg.Auth.Login)
		auth.POST("/refresh", cfg.Auth.Refresh)
	}
	api.POST("/logout", cfg.Auth.Logout)
	api.POST("/validate-token", cfg.Auth.ValidateToken)
	api.GET("/users", cfg.Auth.ListUsers)

	// Read projections
	api.GET("/feed", cfg.Feed.Feed)
	api.GET("/tags", cfg.Feed.Tags)
	api.GET("/routes/:userId", cfg.Travel.ListRoutes)
	api.GET("/travel/:travelId", cfg.Travel.GetTravel)
	api.GET("/points/:travelId", cfg.Travel.ListPoints)
	api.POST("/posts/:postId/like", cfg.Travel.Like)
	api.DELETE("/posts/:postId/like", cfg.Travel.Unlike)

	// Travel and photo writes, owner-only when write protection is on
	var (
		sameUser    []gin.HandlerFunc
		travelOwner []gin.HandlerFunc
		pointOwner  []gin.HandlerFunc
	)
	if cfg.ProtectWrites {
		authn := middleware.AuthMiddleware(cfg.Tokens)
		sameUser = []gin.HandlerFunc{authn, cfg.Access.CheckSameUser("userId")}
		travelOwner = []gin.HandlerFunc{authn, cfg.Access.CheckTravelOwner("travelId")}
		pointOwner = []gin.HandlerFunc{authn, cfg.Access.CheckPointOwner("pointId")}
	}

	api.POST("/users/:userId/travels", append(sameUser, cfg.Travel.CreateTravel)...)
	api.PATCH("/travels/:travelId", append(travelOwner, cfg.Travel.PatchTravel)...)
	api.PUT("/travels/:travelId/share", append(travelOwner, cfg.Travel.ShareTravel)...)
	api.DELETE("/routes/:travelId", append(travelOwner, cfg.Travel.DeleteTravel)...)
	api.DELETE("/points/:pointId/photos/:photoId", append(pointOwner, cfg.Photo.DeletePhoto)...)

	return r
}
