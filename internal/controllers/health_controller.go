package controllers

import (
    "net/http"

    "github.com/gin-gonic/gin"
)

type HealthController struct{}

// Ping is the liveness probe. It never touches the database.
func (h *HealthController) Ping(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
