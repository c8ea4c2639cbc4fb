package models

import "gorm.io/gorm"

// Payment statuses. A payment is created pending before the gateway is
// called and is reconciled by the gateway callback.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment types (one per credential fee).
const (
	PaymentLicenseFee       = "license_fee"
	PaymentCertificationFee = "certification_fee"
)

type Payment struct {
	gorm.Model
	UserID      uint    `json:"user_id" gorm:"index"`
	User        User    `gorm:"foreignKey:UserID" json:"-"`
	Amount      float64 `json:"amount"`
	PaymentType string  `json:"payment_type"`
	Status      string  `json:"status" gorm:"default:pending"`
	PhoneNumber string  `json:"phone_number"`

	// TransactionID is the reconciliation key against the gateway; it must
	// be unique across concurrent submissions.
	TransactionID string `json:"transaction_id" gorm:"uniqueIndex"`

	// GatewayRequestID is the CheckoutRequestID M-Pesa echoes back in the
	// STK push callback.
	GatewayRequestID string `json:"gateway_request_id" gorm:"index"`
}
