package models

import "gorm.io/gorm"

// Role values assigned at signup. Role is immutable after assignment;
// there is no role-change flow.
const (
	RoleCaregiver   = "caregiver"
	RoleInstitution = "institution"
	RoleAdmin       = "admin"
	RoleAssessor    = "assessor"
	RoleTrainer     = "trainer"
)

type User struct {
	gorm.Model
	FullName string `json:"full_name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Role     string `json:"role"` // "caregiver", "institution", "admin", "assessor", "trainer"

	// Actor-specific relations
	Profile     *Profile     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"profile,omitempty"`
	Institution *Institution `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"institution,omitempty"`
}
