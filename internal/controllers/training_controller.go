package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carelink/internal/config"
	"carelink/internal/middleware"
	"carelink/internal/models"
)

type programInput struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	DurationWeeks int     `json:"duration_weeks" binding:"required,min=1"`
	Fee           float64 `json:"fee" binding:"min=0"`
}

// CreateProgram creates a training program owned by the caller.
func CreateProgram(c *gin.Context) {
	trainerID := middleware.AuthUserID(c)

	var input programInput
	if !bindJSON(c, &input) {
		return
	}

	program := models.TrainingProgram{
		TrainerID:     trainerID,
		Title:         input.Title,
		Description:   input.Description,
		DurationWeeks: input.DurationWeeks,
		Fee:           input.Fee,
	}
	if err := config.DB.Create(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create program"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"program": program})
}

// ListMyPrograms lists programs owned by the calling trainer.
func ListMyPrograms(c *gin.Context) {
	trainerID := middleware.AuthUserID(c)

	var programs []models.TrainingProgram
	if err := config.DB.Where("trainer_id = ?", trainerID).Order("created_at DESC").Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch programs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": programs})
}

// ListPrograms lists all programs for caregivers to browse.
func ListPrograms(c *gin.Context) {
	var programs []models.TrainingProgram
	if err := config.DB.Order("created_at DESC").Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch programs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": programs})
}

// UpdateProgram modifies a program the caller owns.
func UpdateProgram(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	program, ok := ownedProgram(c, id)
	if !ok {
		return
	}

	var input struct {
		Title         *string  `json:"title"`
		Description   *string  `json:"description"`
		DurationWeeks *int     `json:"duration_weeks"`
		Fee           *float64 `json:"fee"`
	}
	if !bindJSON(c, &input) {
		return
	}

	if input.Title != nil {
		program.Title = *input.Title
	}
	if input.Description != nil {
		program.Description = *input.Description
	}
	if input.DurationWeeks != nil {
		program.DurationWeeks = *input.DurationWeeks
	}
	if input.Fee != nil {
		program.Fee = *input.Fee
	}

	if err := config.DB.Save(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update program"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program})
}

// DeleteProgram removes a program the caller owns.
func DeleteProgram(c *gin.Context) {
	trainerID := middleware.AuthUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	res := config.DB.Where("id = ? AND trainer_id = ?", id, trainerID).Delete(&models.TrainingProgram{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete program"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "program deleted"})
}

// EnrollInProgram enrolls the calling caregiver into a program.
func EnrollInProgram(c *gin.Context) {
	caregiverID := middleware.AuthUserID(c)
	programID, ok := parseID(c)
	if !ok {
		return
	}

	var program models.TrainingProgram
	if err := config.DB.First(&program, programID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
		return
	}

	enrollment := models.TrainingEnrollment{
		ProgramID:   program.ID,
		CaregiverID: caregiverID,
		Status:      models.EnrollmentEnrolled,
	}
	if err := config.DB.Create(&enrollment).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "already enrolled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not enroll"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"enrollment": enrollment})
}

// ListMyEnrollments lists the calling caregiver's enrollments.
func ListMyEnrollments(c *gin.Context) {
	caregiverID := middleware.AuthUserID(c)

	var enrollments []models.TrainingEnrollment
	if err := config.DB.Where("caregiver_id = ?", caregiverID).
		Preload("Program").Order("created_at DESC").Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch enrollments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": enrollments})
}

// ListProgramEnrollments lists enrollments in a program the caller owns.
func ListProgramEnrollments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, ok := ownedProgram(c, id); !ok {
		return
	}

	var enrollments []models.TrainingEnrollment
	if err := config.DB.Where("program_id = ?", id).Order("created_at ASC").Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch enrollments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": enrollments})
}

// UpdateEnrollmentStatus moves an enrollment forward through its lifecycle.
// Only the trainer owning the program may transition it.
func UpdateEnrollmentStatus(c *gin.Context) {
	trainerID := middleware.AuthUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	var enrollment models.TrainingEnrollment
	err := config.DB.
		Joins("Program").
		Where("training_enrollments.id = ?", id).
		Where("Program.trainer_id = ?", trainerID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "enrollment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch enrollment"})
		}
		return
	}

	if !models.EnrollmentTransitionAllowed(enrollment.Status, body.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "invalid enrollment transition"})
		return
	}

	enrollment.Status = body.Status
	if err := config.DB.Save(&enrollment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update enrollment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

// ownedProgram loads a program and checks the caller may mutate it. A row
// the caller does not own reads as not found so existence is not leaked.
func ownedProgram(c *gin.Context, id uint) (models.TrainingProgram, bool) {
	var program models.TrainingProgram
	if err := config.DB.First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch program"})
		}
		return models.TrainingProgram{}, false
	}
	if !middleware.CanMutate(middleware.AuthUserID(c), middleware.AuthRole(c), program.TrainerID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
		return models.TrainingProgram{}, false
	}
	return program, true
}
