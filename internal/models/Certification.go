package models

import (
	"time"

	"gorm.io/gorm"
)

// Certification is a skills certification application, reviewed by admins
// and assessed out of band by assessors.
type Certification struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"index"`
	User              User       `gorm:"foreignKey:UserID" json:"-"`
	CertificationType string     `json:"certification_type"`
	Status            string     `json:"status" gorm:"default:pending"`
	IssueDate         *time.Time `json:"issue_date,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	ReviewedBy        *uint      `json:"reviewed_by,omitempty"`
	RejectReason      string     `json:"reject_reason,omitempty"`
}
