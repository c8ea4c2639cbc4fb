package models

import "gorm.io/gorm"

// Profile holds the personal details shared by every role. Onboarded flips
// to true the first time a role-specific profile is saved successfully.
type Profile struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"uniqueIndex"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
	ProfileImage string `json:"profile_image"` // public URL from object storage
	Onboarded    bool   `json:"onboarded" gorm:"default:false"`
}
