package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"carelink/internal/models"
)

type PaymentSuite struct {
	suite.Suite
	db *gorm.DB
}

func TestPaymentSuite(t *testing.T) {
	suite.Run(t, new(PaymentSuite))
}

func (s *PaymentSuite) SetupTest() {
	s.db = newTestDB(s.T())
}

func (s *PaymentSuite) TestReferenceUniquenessUnderConcurrency() {
	const n = 1000

	var mu sync.Mutex
	var wg sync.WaitGroup
	refs := make(map[string]struct{}, n)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			ref := NewPaymentReference()
			mu.Lock()
			refs[ref] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(refs, n)
}

func (s *PaymentSuite) seedPayment(gatewayID string) models.Payment {
	user := createUser(s.T(), s.db, "pay@example.com", models.RoleCaregiver)
	payment := models.Payment{
		UserID:           user.ID,
		Amount:           2500,
		PaymentType:      models.PaymentLicenseFee,
		Status:           models.PaymentPending,
		PhoneNumber:      "0712345678",
		TransactionID:    NewPaymentReference(),
		GatewayRequestID: gatewayID,
	}
	s.Require().NoError(s.db.Create(&payment).Error)
	return payment
}

func (s *PaymentSuite) TestCallbackCompletesPayment() {
	seeded := s.seedPayment("ws_CO_abc")

	payment, err := RecordMpesaCallback(s.db, "ws_CO_abc", 0, "RCP123")
	s.Require().NoError(err)
	s.Equal(seeded.TransactionID, payment.TransactionID)
	s.Equal(models.PaymentCompleted, payment.Status)
}

func (s *PaymentSuite) TestCallbackFailureCodeMarksFailed() {
	s.seedPayment("ws_CO_def")

	payment, err := RecordMpesaCallback(s.db, "ws_CO_def", 1032, "")
	s.Require().NoError(err)
	s.Equal(models.PaymentFailed, payment.Status)
}

func (s *PaymentSuite) TestCallbackReplayIsNoOp() {
	s.seedPayment("ws_CO_ghi")

	first, err := RecordMpesaCallback(s.db, "ws_CO_ghi", 0, "RCP1")
	s.Require().NoError(err)
	s.Equal(models.PaymentCompleted, first.Status)

	// A late failure replay must not undo the completed status.
	second, err := RecordMpesaCallback(s.db, "ws_CO_ghi", 1032, "")
	s.Require().NoError(err)
	s.Equal(models.PaymentCompleted, second.Status)
}

func (s *PaymentSuite) TestCallbackUnknownPayment() {
	_, err := RecordMpesaCallback(s.db, "ws_CO_missing", 0, "")
	s.ErrorIs(err, ErrPaymentNotFound)
}

func (s *PaymentSuite) TestCallbackBlankRequestIDTouchesNothing() {
	// A payment whose gateway id has not been recorded yet stores "".
	// A blank callback id must not reconcile against it.
	seeded := s.seedPayment("")

	_, err := RecordMpesaCallback(s.db, "", 0, "RCP999")
	s.ErrorIs(err, ErrPaymentNotFound)

	var stored models.Payment
	s.Require().NoError(s.db.First(&stored, seeded.ID).Error)
	s.Equal(models.PaymentPending, stored.Status)
}
