package utils

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func SuccessWithMessage(c *gin.Context, message string) {
	c.JSON(200, gin.H{"detail": message})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"detail": message})
}

func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, gin.H{"detail": message, "data": data})
}
