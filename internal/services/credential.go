package services

import (
	"time"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"carelink/internal/config"
	"carelink/internal/metrics"
	"carelink/internal/models"
)

// SubmitLicense creates a pending license application together with its
// pending payment in one transaction, then requests the mobile-money charge.
// A gateway failure marks the payment failed and is returned as
// ErrGatewayUnavailable; the application row stays pending either way.
func SubmitLicense(db *gorm.DB, userID uint, licenseNumber, phoneNumber string) (*models.License, *models.Payment, error) {
	license := models.License{
		UserID:        userID,
		LicenseNumber: licenseNumber,
		Status:        models.CredentialPending,
	}
	payment, err := submitApplication(db, models.KindLicense, userID, phoneNumber, func(tx *gorm.DB) error {
		return tx.Create(&license).Error
	})
	if err != nil && payment == nil {
		return nil, nil, err
	}
	metrics.CredentialTransition(string(models.KindLicense), models.CredentialPending)
	return &license, payment, err
}

// SubmitCertification mirrors SubmitLicense for certification applications.
func SubmitCertification(db *gorm.DB, userID uint, certificationType, phoneNumber string) (*models.Certification, *models.Payment, error) {
	cert := models.Certification{
		UserID:            userID,
		CertificationType: certificationType,
		Status:            models.CredentialPending,
	}
	payment, err := submitApplication(db, models.KindCertification, userID, phoneNumber, func(tx *gorm.DB) error {
		return tx.Create(&cert).Error
	})
	if err != nil && payment == nil {
		return nil, nil, err
	}
	metrics.CredentialTransition(string(models.KindCertification), models.CredentialPending)
	return &cert, payment, err
}

// submitApplication runs the transactional part of a submission (credential
// insert + payment insert) and then the out-of-transaction gateway call.
// Returns (payment, ErrGatewayUnavailable) when only the charge failed.
func submitApplication(db *gorm.DB, kind models.CredentialKind, userID uint, phoneNumber string, insertCredential func(tx *gorm.DB) error) (*models.Payment, error) {
	payment := models.Payment{
		UserID:        userID,
		Amount:        config.CredentialFee(kind),
		PaymentType:   paymentTypeFor(kind),
		Status:        models.PaymentPending,
		PhoneNumber:   phoneNumber,
		TransactionID: NewPaymentReference(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := insertCredential(tx); err != nil {
			return err
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	gatewayID, err := requestCharge(phoneNumber, payment.Amount, payment.TransactionID, string(kind)+" application fee")
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": payment.TransactionID,
			"kind":           kind,
		}).WithError(err).Error("mobile-money charge request failed")
		metrics.PaymentInitiated("failed")
		if updErr := db.Model(&payment).Update("status", models.PaymentFailed).Error; updErr != nil {
			logrus.WithError(updErr).WithField("transaction_id", payment.TransactionID).
				Error("could not mark payment failed")
		}
		payment.Status = models.PaymentFailed
		return &payment, ErrGatewayUnavailable
	}

	metrics.PaymentInitiated("ok")
	// Without the gateway id the callback can never reconcile this payment.
	if updErr := db.Model(&payment).Update("gateway_request_id", gatewayID).Error; updErr != nil {
		logrus.WithError(updErr).WithFields(logrus.Fields{
			"transaction_id":     payment.TransactionID,
			"gateway_request_id": gatewayID,
		}).Error("could not record gateway request id")
	}
	payment.GatewayRequestID = gatewayID
	return &payment, nil
}

func requestCharge(phoneNumber string, amount float64, reference, narrative string) (string, error) {
	if Gateway == nil {
		return "", ErrGatewayUnavailable
	}
	return Gateway.STKPush(phoneNumber, amount, reference, narrative)
}

func paymentTypeFor(kind models.CredentialKind) string {
	if kind == models.KindCertification {
		return models.PaymentCertificationFee
	}
	return models.PaymentLicenseFee
}

// ApproveLicense transitions a pending license to approved and computes its
// validity window. Re-approving an already approved row is a no-op.
func ApproveLicense(db *gorm.DB, id, adminID uint) (*models.License, error) {
	changed, err := transitionCredential(db, models.KindLicense, id, adminID, models.CredentialApproved, "")
	if err != nil {
		return nil, err
	}
	var license models.License
	if err := db.First(&license, id).Error; err != nil {
		return nil, err
	}
	if changed {
		notifyApproval(db, license.UserID, "Caregiver License "+license.LicenseNumber)
	}
	return &license, nil
}

// RejectLicense transitions a pending license to rejected. No dates are set.
func RejectLicense(db *gorm.DB, id, adminID uint, reason string) (*models.License, error) {
	if _, err := transitionCredential(db, models.KindLicense, id, adminID, models.CredentialRejected, reason); err != nil {
		return nil, err
	}
	var license models.License
	if err := db.First(&license, id).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

// ApproveCertification mirrors ApproveLicense for certifications.
func ApproveCertification(db *gorm.DB, id, adminID uint) (*models.Certification, error) {
	changed, err := transitionCredential(db, models.KindCertification, id, adminID, models.CredentialApproved, "")
	if err != nil {
		return nil, err
	}
	var cert models.Certification
	if err := db.First(&cert, id).Error; err != nil {
		return nil, err
	}
	if changed {
		notifyApproval(db, cert.UserID, cert.CertificationType+" Certification")
	}
	return &cert, nil
}

// RejectCertification mirrors RejectLicense for certifications.
func RejectCertification(db *gorm.DB, id, adminID uint, reason string) (*models.Certification, error) {
	if _, err := transitionCredential(db, models.KindCertification, id, adminID, models.CredentialRejected, reason); err != nil {
		return nil, err
	}
	var cert models.Certification
	if err := db.First(&cert, id).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// transitionCredential applies an admin review decision as a conditional
// update so concurrent reviews of the same row cannot double-apply:
// only a row still in pending is touched. Returns changed=false when the
// row is already in the requested state (idempotent replay).
func transitionCredential(db *gorm.DB, kind models.CredentialKind, id, adminID uint, target, reason string) (bool, error) {
	updates := map[string]interface{}{
		"status":      target,
		"reviewed_by": adminID,
	}
	if target == models.CredentialApproved {
		now := time.Now()
		expiry := now.AddDate(0, config.ValidityMonths(kind), 0)
		updates["issue_date"] = now
		updates["expiry_date"] = expiry
	}
	if reason != "" {
		updates["reject_reason"] = reason
	}

	res := credentialModel(db, kind).
		Where("id = ? AND status = ?", id, models.CredentialPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		metrics.CredentialTransition(string(kind), target)
		return true, nil
	}

	// Nothing pending matched: distinguish missing row, idempotent replay
	// and a conflicting terminal state.
	var statuses []string
	if err := credentialModel(db, kind).Where("id = ?", id).Pluck("status", &statuses).Error; err != nil {
		return false, err
	}
	if len(statuses) == 0 {
		return false, ErrCredentialNotFound
	}
	if statuses[0] == target {
		return false, nil
	}
	return false, ErrCredentialFinalized
}

func credentialModel(db *gorm.DB, kind models.CredentialKind) *gorm.DB {
	if kind == models.KindCertification {
		return db.Model(&models.Certification{})
	}
	return db.Model(&models.License{})
}

// notifyApproval sends the confirmation email best-effort. The approval is
// the durable fact; a send failure is logged, never rolled back.
func notifyApproval(db *gorm.DB, userID uint, credentialLabel string) {
	if Mail == nil {
		return
	}
	var user models.User
	if err := db.Preload("Profile").First(&user, userID).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("approval notification: user lookup failed")
		return
	}
	fullName := user.FullName
	if user.Profile != nil && user.Profile.FirstName != "" {
		fullName = user.Profile.FirstName + " " + user.Profile.LastName
	}
	err := Mail.Send(user.Email, "credential-approved", map[string]string{
		"full_name":  fullName,
		"credential": credentialLabel,
	})
	if err != nil {
		metrics.MailSent("failed")
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"credential": credentialLabel,
		}).Error("approval notification failed")
		return
	}
	metrics.MailSent("ok")
}

// SweepExpiredCredentials flips approved rows past their expiry date to
// expired. Readers also compute the effective status lazily, so the sweep
// only keeps the stored rows honest.
func SweepExpiredCredentials(db *gorm.DB, now time.Time) (int64, error) {
	var total int64
	for _, kind := range []models.CredentialKind{models.KindLicense, models.KindCertification} {
		res := credentialModel(db, kind).
			Where("status = ? AND expiry_date < ?", models.CredentialApproved, now).
			Update("status", models.CredentialExpired)
		if res.Error != nil {
			return total, res.Error
		}
		if res.RowsAffected > 0 {
			metrics.CredentialTransition(string(kind), models.CredentialExpired)
		}
		total += res.RowsAffected
	}
	return total, nil
}
