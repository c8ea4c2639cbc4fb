package models

import "gorm.io/gorm"

// InstitutionCaregiver links a caregiver user to an institution roster.
type InstitutionCaregiver struct {
	gorm.Model
	InstitutionID uint `json:"institution_id" gorm:"index:idx_institution_caregiver,unique"`
	CaregiverID   uint `json:"caregiver_id" gorm:"index:idx_institution_caregiver,unique"` // user id of the caregiver
}
