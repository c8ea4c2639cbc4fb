package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/internal/config"
	"carelink/internal/middleware"
	"carelink/internal/services"
)

// Dashboard returns the role-appropriate aggregate view for the caller.
// One handler serves every role group; the stats layer branches on role.
func Dashboard(c *gin.Context) {
	userID := middleware.AuthUserID(c)
	role := middleware.AuthRole(c)

	stats, err := services.DashboardStats(config.DB, role, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role, "stats": stats})
}
