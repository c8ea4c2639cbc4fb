package models

import "gorm.io/gorm"

// Institution represents a care home, hospital or agency that employs
// caregivers registered with the association.
type Institution struct {
	gorm.Model
	UserID             uint   `json:"user_id" gorm:"uniqueIndex"`
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registration_number"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`

	Caregivers []InstitutionCaregiver `gorm:"foreignKey:InstitutionID" json:"caregivers,omitempty"`
}
