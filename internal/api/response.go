package api

import "github.com/gin-gonic/gin"

// All endpoints answer with a uniform envelope:
// success -> {success: true, message?, data?}
// failure -> {success: false, message, error?}

func respondSuccess(c *gin.Context, code int, message string, data gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

// abortWithError returns the failure envelope and aborts the request.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message})
}

// abortWithErrorDetail additionally carries a detail string (validation
// feedback, never internal error text).
func abortWithErrorDetail(c *gin.Context, code int, message, detail string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message, "error": detail})
}
