package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse writes data as the response body with the given status
func JSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SuccessResponse sends data with 200 OK
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// ErrorResponse sends a standard error JSON response
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

// AbortWithError sends a standard error JSON response and stops the handler chain
func AbortWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

// ProblemResponse sends an RFC 7807 style problem document
func ProblemResponse(c *gin.Context, statusCode int, title, detail string) {
	c.Header("Content-Type", "application/problem+json")
	c.JSON(statusCode, gin.H{
		"type":   "about:blank",
		"title":  title,
		"status": statusCode,
		"detail": detail,
	})
}
