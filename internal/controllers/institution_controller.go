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

type institutionProfileInput struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	Email              string `json:"email" binding:"omitempty,email"`
	Phone              string `json:"phone" binding:"required"`
	Address            string `json:"address" binding:"required"`
}

// UpsertInstitutionProfile saves the caller's institution registration
// details and marks the account onboarded.
func UpsertInstitutionProfile(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var input institutionProfileInput
	if !bindJSON(c, &input) {
		return
	}
	if !requirePhone(c, "phone", input.Phone) {
		return
	}

	institution, onboardFailed, err := services.UpsertInstitutionProfile(config.DB, userID, models.Institution{
		Name:               input.Name,
		RegistrationNumber: input.RegistrationNumber,
		Email:              input.Email,
		Phone:              input.Phone,
		Address:            input.Address,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save institution"})
		return
	}

	resp := gin.H{"institution": institution}
	if onboardFailed {
		resp["warning"] = "profile saved but onboarding flag failed"
	}
	c.JSON(http.StatusOK, resp)
}

// GetInstitutionProfile returns the caller's institution record.
func GetInstitutionProfile(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var institution models.Institution
	if err := config.DB.Where("user_id = ?", userID).First(&institution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"institution": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch institution"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"institution": institution})
}

// ListRoster lists the caregivers attached to the caller's institution.
func ListRoster(c *gin.Context) {
	institution, ok := callerInstitution(c)
	if !ok {
		return
	}

	var caregivers []models.User
	err := config.DB.
		Joins("JOIN institution_caregivers ON institution_caregivers.caregiver_id = users.id").
		Where("institution_caregivers.institution_id = ? AND institution_caregivers.deleted_at IS NULL", institution.ID).
		Preload("Profile").
		Find(&caregivers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch roster"})
		return
	}

	views := make([]gin.H, 0, len(caregivers))
	for _, cg := range caregivers {
		views = append(views, prepareUserResponse(cg))
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// AttachCaregiver adds a caregiver user to the institution roster.
func AttachCaregiver(c *gin.Context) {
	institution, ok := callerInstitution(c)
	if !ok {
		return
	}
	caregiverID, ok := parseID(c)
	if !ok {
		return
	}

	var caregiver models.User
	if err := config.DB.Where("id = ? AND role = ?", caregiverID, models.RoleCaregiver).First(&caregiver).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "caregiver not found"})
		return
	}

	link := models.InstitutionCaregiver{
		InstitutionID: institution.ID,
		CaregiverID:   caregiverID,
	}
	if err := config.DB.Create(&link).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "caregiver already on roster"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not attach caregiver"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"link": link})
}

// DetachCaregiver removes a caregiver from the institution roster.
func DetachCaregiver(c *gin.Context) {
	institution, ok := callerInstitution(c)
	if !ok {
		return
	}
	caregiverID, ok := parseID(c)
	if !ok {
		return
	}

	// Hard delete: a soft-deleted row would still occupy the unique
	// roster index and block re-attaching the caregiver later.
	res := config.DB.Unscoped().
		Where("institution_id = ? AND caregiver_id = ?", institution.ID, caregiverID).
		Delete(&models.InstitutionCaregiver{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not detach caregiver"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "caregiver not on roster"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "caregiver removed from roster"})
}

// callerInstitution resolves the authenticated institution account's
// institution row, writing the error response when it cannot.
func callerInstitution(c *gin.Context) (models.Institution, bool) {
	userID := middleware.AuthUserID(c)

	var institution models.Institution
	if err := config.DB.Where("user_id = ?", userID).First(&institution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "institution profile not set up"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch institution"})
		}
		return models.Institution{}, false
	}
	return institution, true
}
