package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carelink/internal/config"
	"carelink/internal/middleware"
	"carelink/internal/models"
	"carelink/internal/services"
)

type licenseApplicationInput struct {
	LicenseNumber string `json:"license_number" binding:"required"`
	PhoneNumber   string `json:"phone_number" binding:"required"`
}

// ApplyLicense submits a license application for the authenticated
// caregiver and initiates the fee payment.
func ApplyLicense(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var input licenseApplicationInput
	if !bindJSON(c, &input) {
		return
	}
	if !requirePhone(c, "phone_number", input.PhoneNumber) {
		return
	}

	license, payment, err := services.SubmitLicense(config.DB, userID, input.LicenseNumber, input.PhoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrGatewayUnavailable) {
			// Application row is retained; only the charge failed.
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "payment could not be initiated, please retry",
				"license": license,
				"payment": payment,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"license": license, "payment": payment})
}

// ListMyLicenses lists the caller's licenses with lazily computed
// effective status.
func ListMyLicenses(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var licenses []models.License
	if err := config.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&licenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch licenses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": licenseViews(licenses)})
}

// ListLicenses lists all licenses for admin review, pending first.
func ListLicenses(c *gin.Context) {
	q := config.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var licenses []models.License
	if err := q.Find(&licenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch licenses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": licenseViews(licenses)})
}

// ApproveLicense transitions a pending license to approved.
func ApproveLicense(c *gin.Context) {
	adminID := middleware.AuthUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	license, err := services.ApproveLicense(config.DB, id, adminID)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"license": license})
}

// RejectLicense transitions a pending license to rejected.
func RejectLicense(c *gin.Context) {
	adminID := middleware.AuthUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body) // reason is optional

	license, err := services.RejectLicense(config.DB, id, adminID, body.Reason)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"license": license})
}

func licenseViews(licenses []models.License) []gin.H {
	now := time.Now()
	views := make([]gin.H, 0, len(licenses))
	for _, l := range licenses {
		views = append(views, gin.H{
			"ID":             l.ID,
			"CreatedAt":      l.CreatedAt,
			"user_id":        l.UserID,
			"license_number": l.LicenseNumber,
			"status":         models.EffectiveStatus(l.Status, l.ExpiryDate, now),
			"issue_date":     l.IssueDate,
			"expiry_date":    l.ExpiryDate,
			"reject_reason":  l.RejectReason,
		})
	}
	return views
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCredentialNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "credential not found"})
	case errors.Is(err, services.ErrCredentialFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": "credential already reviewed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update credential"})
	}
}
