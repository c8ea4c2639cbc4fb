package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carelink/internal/config"
	"carelink/internal/middleware"
	"carelink/internal/models"
	"carelink/internal/services"
)

type caregiverProfileInput struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
	Address      string `json:"address" binding:"required"`
	ProfileImage string `json:"profile_image" binding:"omitempty,url"`
}

// UpsertCaregiverProfile saves the caller's own profile. Saving a complete
// profile is what flips the onboarded flag.
func UpsertCaregiverProfile(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var input caregiverProfileInput
	if !bindJSON(c, &input) {
		return
	}
	if !requirePhone(c, "phone_number", input.PhoneNumber) {
		return
	}

	profile, onboardFailed, err := services.UpsertCaregiverProfile(config.DB, userID, services.CaregiverProfileInput{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  input.PhoneNumber,
		Address:      input.Address,
		ProfileImage: input.ProfileImage,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}

	resp := gin.H{"profile": profile}
	if onboardFailed {
		resp["warning"] = "profile saved but onboarding flag failed"
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyProfile returns the caller's profile, or an empty state when the
// user has not onboarded yet.
func GetMyProfile(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var profile models.Profile
	if err := config.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"profile": nil, "onboarded": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "onboarded": profile.Onboarded})
}
