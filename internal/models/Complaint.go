package models

import "gorm.io/gorm"

const (
	ComplaintOpen     = "open"
	ComplaintResolved = "resolved"
)

// Complaint is a member-filed issue handled by admins.
type Complaint struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index"`
	User        User   `gorm:"foreignKey:UserID" json:"-"`
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
	Status      string `json:"status" gorm:"default:open"`
	Resolution  string `json:"resolution,omitempty"`
}
