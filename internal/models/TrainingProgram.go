package models

import "gorm.io/gorm"

// TrainingProgram is trainer-owned course content caregivers can enroll in.
type TrainingProgram struct {
	gorm.Model
	TrainerID     uint    `json:"trainer_id" gorm:"index"` // user id of the owning trainer
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	DurationWeeks int     `json:"duration_weeks"`
	Fee           float64 `json:"fee"`

	Enrollments []TrainingEnrollment `gorm:"foreignKey:ProgramID" json:"enrollments,omitempty"`
}
