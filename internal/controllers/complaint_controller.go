package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/internal/config"
	"carelink/internal/middleware"
	"carelink/internal/models"
)

type complaintInput struct {
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// FileComplaint records a new member complaint.
func FileComplaint(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var input complaintInput
	if !bindJSON(c, &input) {
		return
	}

	complaint := models.Complaint{
		UserID:      userID,
		Subject:     input.Subject,
		Description: input.Description,
		Status:      models.ComplaintOpen,
	}
	if err := config.DB.Create(&complaint).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not file complaint"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"complaint": complaint})
}

// ListMyComplaints lists the caller's own complaints.
func ListMyComplaints(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var complaints []models.Complaint
	if err := config.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": complaints})
}

// ListComplaints lists all complaints for admins, open first.
func ListComplaints(c *gin.Context) {
	var complaints []models.Complaint
	if err := config.DB.Order("status DESC, created_at DESC").Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": complaints})
}

// ResolveComplaint closes a complaint with a resolution note.
func ResolveComplaint(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		Resolution string `json:"resolution" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	res := config.DB.Model(&models.Complaint{}).
		Where("id = ? AND status = ?", id, models.ComplaintOpen).
		Updates(map[string]interface{}{
			"status":     models.ComplaintResolved,
			"resolution": body.Resolution,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve complaint"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open complaint with that id"})
		return
	}

	var complaint models.Complaint
	if err := config.DB.First(&complaint, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch complaint"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}
