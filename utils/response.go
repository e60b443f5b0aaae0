package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

func JSONMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "success", "message": message})
}

// JSONError writes the error envelope {"error":{"code","message"}}.
func JSONError(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, gin.H{
		"error": gin.H{
			"code":    errCode,
			"message": message,
		},
	})
}

// AbortWithError is JSONError for middleware.
func AbortWithError(c *gin.Context, code int, errCode, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": gin.H{
			"code":    errCode,
			"message": message,
		},
	})
}
