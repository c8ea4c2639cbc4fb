package models

import "gorm.io/gorm"

// Enrollment statuses. Transitions only move forward:
// enrolled -> in_progress -> completed|failed.
const (
	EnrollmentEnrolled   = "enrolled"
	EnrollmentInProgress = "in_progress"
	EnrollmentCompleted  = "completed"
	EnrollmentFailed     = "failed"
)

type TrainingEnrollment struct {
	gorm.Model
	ProgramID   uint            `json:"program_id" gorm:"index:idx_program_caregiver,unique"`
	Program     TrainingProgram `gorm:"foreignKey:ProgramID" json:"-"`
	CaregiverID uint            `json:"caregiver_id" gorm:"index:idx_program_caregiver,unique"` // user id
	Status      string          `json:"status" gorm:"default:enrolled"`
}

// EnrollmentTransitionAllowed reports whether an enrollment may move from
// one status to another.
func EnrollmentTransitionAllowed(from, to string) bool {
	switch from {
	case EnrollmentEnrolled:
		return to == EnrollmentInProgress || to == EnrollmentCompleted || to == EnrollmentFailed
	case EnrollmentInProgress:
		return to == EnrollmentCompleted || to == EnrollmentFailed
	default:
		return false
	}
}
