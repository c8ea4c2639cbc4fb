package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"carelink/internal/config"
	"carelink/internal/middleware"
	"carelink/internal/models"
	"carelink/internal/services"
)

// ListMyPayments lists the caller's payment history.
func ListMyPayments(c *gin.Context) {
	userID := middleware.AuthUserID(c)

	var payments []models.Payment
	if err := config.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

// ListPayments lists all payments for admin reconciliation.
func ListPayments(c *gin.Context) {
	q := config.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := q.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

// mpesaCallbackBody is the Daraja STK push result envelope.
type mpesaCallbackBody struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// MpesaCallback reconciles a payment from the gateway's out-of-band result.
// The gateway retries on non-200, so unknown request ids still return 200
// with a result code it accepts. Payment completion does not transition the
// credential; admin review is an independent gate.
func MpesaCallback(c *gin.Context) {
	var body mpesaCallbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "malformed callback"})
		return
	}

	cb := body.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		// A blank id must never reach the reconciliation query: it would
		// match a freshly committed payment whose gateway id is not
		// recorded yet.
		c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "missing CheckoutRequestID"})
		return
	}

	receipt := ""
	for _, item := range cb.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" {
			if s, ok := item.Value.(string); ok {
				receipt = s
			}
		}
	}

	payment, err := services.RecordMpesaCallback(config.DB, cb.CheckoutRequestID, cb.ResultCode, receipt)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			logrus.WithField("checkout_request_id", cb.CheckoutRequestID).Warn("callback for unknown payment")
			c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ResultCode": 1, "ResultDesc": "processing failed"})
		return
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": payment.TransactionID,
		"status":         payment.Status,
	}).Info("mpesa callback processed")
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}
