package utils

import "github.com/gin-gonic/gin"

// JSONCodedError writes {"error":{"code":..,"message":..}} and aborts.
func JSONCodedError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
