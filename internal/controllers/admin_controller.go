package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/internal/config"
	"carelink/internal/models"
)

// ListUsers lists all registered users, optionally filtered by role.
func ListUsers(c *gin.Context) {
	q := config.DB.Preload("Profile").Preload("Institution").Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch users"})
		return
	}

	views := make([]gin.H, 0, len(users))
	for _, u := range users {
		views = append(views, prepareUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}
