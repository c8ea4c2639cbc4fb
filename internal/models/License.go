package models

import (
	"time"

	"gorm.io/gorm"
)

// License is a caregiver practice license application. Issue and expiry
// dates are set only when the row is approved.
type License struct {
	gorm.Model
	UserID        uint       `json:"user_id" gorm:"index"`
	User          User       `gorm:"foreignKey:UserID" json:"-"`
	LicenseNumber string     `json:"license_number"`
	Status        string     `json:"status" gorm:"default:pending"`
	IssueDate     *time.Time `json:"issue_date,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	ReviewedBy    *uint      `json:"reviewed_by,omitempty"` // admin user id
	RejectReason  string     `json:"reject_reason,omitempty"`
}
