package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carelink/internal/config"
	"carelink/internal/middleware"
	"carelink/internal/models"
	"carelink/internal/services"
)

type certificationApplicationInput struct {
	CertificationType string `json:"certification_type" binding:"required"`
	PhoneNumber       string `json:"phone_number" binding:"required"`
}

// ApplyCertification submits a certification application for the
// authenticated caregiver and initiates the fee payment.
func ApplyCertification(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var input certificationApplicationInput
	if !bindJSON(c, &input) {
		return
	}
	if !requirePhone(c, "phone_number", input.PhoneNumber) {
		return
	}

	cert, payment, err := services.SubmitCertification(config.DB, userID, input.CertificationType, input.PhoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrGatewayUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":         "payment could not be initiated, please retry",
				"certification": cert,
				"payment":       payment,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"certification": cert, "payment": payment})
}

// ListMyCertifications lists the caller's certifications with effective
// status computed lazily.
func ListMyCertifications(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var certs []models.Certification
	if err := config.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&certs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch certifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": certificationViews(certs)})
}

// ListCertifications lists all certifications for admin review.
func ListCertifications(c *gin.Context) {
	q := config.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var certs []models.Certification
	if err := q.Find(&certs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch certifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": certificationViews(certs)})
}

// ListPendingCertifications gives assessors the review queue.
func ListPendingCertifications(c *gin.Context) {
	var certs []models.Certification
	if err := config.DB.Where("status = ?", models.CredentialPending).
		Order("created_at ASC").Find(&certs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch certifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": certificationViews(certs)})
}

// GetCertification fetches one certification for assessment.
func GetCertification(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var cert models.Certification
	if err := config.DB.First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "certification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch certification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"certification": certificationViews([]models.Certification{cert})[0]})
}

// ApproveCertification transitions a pending certification to approved.
func ApproveCertification(c *gin.Context) {
	adminID := middleware.AuthUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	cert, err := services.ApproveCertification(config.DB, id, adminID)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certification": cert})
}

// RejectCertification transitions a pending certification to rejected.
func RejectCertification(c *gin.Context) {
	adminID := middleware.AuthUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	cert, err := services.RejectCertification(config.DB, id, adminID, body.Reason)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certification": cert})
}

func certificationViews(certs []models.Certification) []gin.H {
	now := time.Now()
	views := make([]gin.H, 0, len(certs))
	for _, cert := range certs {
		views = append(views, gin.H{
			"ID":                 cert.ID,
			"CreatedAt":          cert.CreatedAt,
			"user_id":            cert.UserID,
			"certification_type": cert.CertificationType,
			"status":             models.EffectiveStatus(cert.Status, cert.ExpiryDate, now),
			"issue_date":         cert.IssueDate,
			"expiry_date":        cert.ExpiryDate,
			"reject_reason":      cert.RejectReason,
		})
	}
	return views
}
