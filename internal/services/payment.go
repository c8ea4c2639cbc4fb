package services

import (
	logrus "github.com/sirupsen/logrus"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink/internal/models"
)

// NewPaymentReference generates the unique transaction reference used as
// the reconciliation key against the gateway.
func NewPaymentReference() string {
	return uuid.NewString()
}

// RecordMpesaCallback reconciles a payment by the gateway request id echoed
// in the STK push callback. ResultCode 0 means the subscriber completed the
// charge. Only a pending payment is touched, so callback replays are no-ops.
func RecordMpesaCallback(db *gorm.DB, gatewayRequestID string, resultCode int, receipt string) (*models.Payment, error) {
	if gatewayRequestID == "" {
		return nil, ErrPaymentNotFound
	}

	status := models.PaymentCompleted
	if resultCode != 0 {
		status = models.PaymentFailed
	}

	res := db.Model(&models.Payment{}).
		Where("gateway_request_id = ? AND status = ?", gatewayRequestID, models.PaymentPending).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}

	var payment models.Payment
	if err := db.Where("gateway_request_id = ?", gatewayRequestID).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if res.RowsAffected > 0 {
		logrus.WithFields(logrus.Fields{
			"transaction_id": payment.TransactionID,
			"status":         status,
			"receipt":        receipt,
		}).Info("payment reconciled from gateway callback")
	}
	return &payment, nil
}
