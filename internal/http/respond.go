package http

import "github.com/gin-gonic/gin"

// Todas las respuestas usan el sobre {success, data?, error?}.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
