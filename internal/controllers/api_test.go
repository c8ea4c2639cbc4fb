package controllers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"carelink/internal/config"
	"carelink/internal/models"
	"carelink/internal/routes"
	"carelink/internal/services"
)

type stubGateway struct {
	fail  bool
	calls int
}

func (g *stubGateway) STKPush(phoneNumber string, amount float64, reference, narrative string) (string, error) {
	g.calls++
	if g.fail {
		return "", errors.New("gateway unreachable")
	}
	return "ws_CO_" + reference, nil
}

type stubMailer struct{ sends int }

func (m *stubMailer) Send(to, templateID string, vars map[string]string) error {
	m.sends++
	return nil
}

type APISuite struct {
	suite.Suite
	router  *gin.Engine
	gateway *stubGateway
	mailer  *stubMailer
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.router = routes.SetupRouter()
}

func (s *APISuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(config.Migrate(db))
	config.DB = db

	s.gateway = &stubGateway{}
	s.mailer = &stubMailer{}
	services.Gateway = s.gateway
	services.Mail = s.mailer
}

func (s *APISuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// signup creates a user through the API and returns its token.
func (s *APISuite) signup(email, role string, extra map[string]interface{}) string {
	body := map[string]interface{}{
		"full_name": "Test User",
		"email":     email,
		"password":  "secret-pass-1",
		"role":      role,
	}
	for k, v := range extra {
		body[k] = v
	}
	w := s.request(http.MethodPost, "/auth/signup", "", body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return s.decode(w)["token"].(string)
}

func (s *APISuite) TestSignupAndLogin() {
	s.signup("jane@example.com", "caregiver", nil)

	w := s.request(http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "secret-pass-1",
	})
	s.Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.NotEmpty(resp["token"])

	// wrong password is a generic denial
	w = s.request(http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestSignupDuplicateEmailConflicts() {
	s.signup("dup@example.com", "caregiver", nil)
	w := s.request(http.MethodPost, "/auth/signup", "", map[string]interface{}{
		"full_name": "Other",
		"email":     "dup@example.com",
		"password":  "secret-pass-1",
	})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *APISuite) TestInstitutionSignupRequiresName() {
	w := s.request(http.MethodPost, "/auth/signup", "", map[string]interface{}{
		"full_name": "Care Home",
		"email":     "home@example.com",
		"password":  "secret-pass-1",
		"role":      "institution",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestLicenseApplicationEndToEnd() {
	token := s.signup("apply@example.com", "caregiver", nil)

	// Scenario 1: submission creates pending credential + pending payment.
	w := s.request(http.MethodPost, "/caregiver/licenses", token, map[string]interface{}{
		"license_number": "CG-2001",
		"phone_number":   "0712345678",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	resp := s.decode(w)
	license := resp["license"].(map[string]interface{})
	payment := resp["payment"].(map[string]interface{})
	s.Equal("pending", license["status"])
	s.Equal("pending", payment["status"])
	s.NotEmpty(payment["transaction_id"])
	s.InDelta(2500.0, payment["amount"].(float64), 0.001)

	// Scenario 2: admin approves; dates are set.
	adminToken := s.signup("boss@example.com", "admin", nil)
	id := uint(license["ID"].(float64))
	w = s.request(http.MethodPatch, fmt.Sprintf("/admin/licenses/%d/approve", id), adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	approved := s.decode(w)["license"].(map[string]interface{})
	s.Equal("approved", approved["status"])
	s.NotNil(approved["issue_date"])
	s.NotNil(approved["expiry_date"])
	s.Equal(1, s.mailer.sends)
}

func (s *APISuite) TestCertificationRejection() {
	token := s.signup("cert@example.com", "caregiver", nil)
	w := s.request(http.MethodPost, "/caregiver/certifications", token, map[string]interface{}{
		"certification_type": "First Aid",
		"phone_number":       "0712345678",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	cert := s.decode(w)["certification"].(map[string]interface{})

	// Scenario 3: rejection leaves dates unset.
	adminToken := s.signup("boss2@example.com", "admin", nil)
	id := uint(cert["ID"].(float64))
	w = s.request(http.MethodPatch, fmt.Sprintf("/admin/certifications/%d/reject", id), adminToken,
		map[string]interface{}{"reason": "missing documents"})
	s.Require().Equal(http.StatusOK, w.Code)
	rejected := s.decode(w)["certification"].(map[string]interface{})
	s.Equal("rejected", rejected["status"])
	s.Nil(rejected["issue_date"])
	s.Nil(rejected["expiry_date"])
}

func (s *APISuite) TestValidationFailureCreatesNoRow() {
	token := s.signup("novalid@example.com", "caregiver", nil)

	w := s.request(http.MethodPost, "/caregiver/licenses", token, map[string]interface{}{
		"phone_number": "0712345678",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	resp := s.decode(w)
	fields := resp["fields"].(map[string]interface{})
	s.Contains(fields, "license_number")

	var count int64
	config.DB.Model(&models.License{}).Count(&count)
	s.EqualValues(0, count)
}

func (s *APISuite) TestMalformedPhoneRejected() {
	token := s.signup("badphone@example.com", "caregiver", nil)

	w := s.request(http.MethodPost, "/caregiver/licenses", token, map[string]interface{}{
		"license_number": "CG-3001",
		"phone_number":   "12345",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	fields := s.decode(w)["fields"].(map[string]interface{})
	s.Contains(fields, "phone_number")
}

func (s *APISuite) TestAuthorizationBoundaries() {
	caregiverToken := s.signup("owner@example.com", "caregiver", nil)
	otherToken := s.signup("other@example.com", "trainer", nil)

	// No token at all.
	w := s.request(http.MethodGet, "/caregiver/licenses", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	// Scenario 4 analogue: a non-owner, non-admin role cannot reach another
	// role's resources or mutate their profile.
	w = s.request(http.MethodGet, "/caregiver/licenses", otherToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
	w = s.request(http.MethodPut, "/caregiver/profile", otherToken, map[string]interface{}{
		"first_name": "X", "last_name": "Y", "phone_number": "0712345678", "address": "Z",
	})
	s.Equal(http.StatusForbidden, w.Code)

	// A caregiver cannot perform admin review.
	w = s.request(http.MethodPatch, "/admin/licenses/1/approve", caregiverToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APISuite) TestOwnListingsAreScopedToCaller() {
	tokenA := s.signup("a@example.com", "caregiver", nil)
	tokenB := s.signup("b@example.com", "caregiver", nil)

	w := s.request(http.MethodPost, "/caregiver/licenses", tokenA, map[string]interface{}{
		"license_number": "CG-A-1",
		"phone_number":   "0712345678",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodGet, "/caregiver/licenses", tokenB, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	data := s.decode(w)["data"].([]interface{})
	s.Empty(data)
}

func (s *APISuite) TestGatewayOutageSurfacesButRetainsApplication() {
	s.gateway.fail = true
	token := s.signup("outage@example.com", "caregiver", nil)

	w := s.request(http.MethodPost, "/caregiver/licenses", token, map[string]interface{}{
		"license_number": "CG-4001",
		"phone_number":   "0712345678",
	})
	s.Equal(http.StatusBadGateway, w.Code)

	var count int64
	config.DB.Model(&models.License{}).Where("status = ?", models.CredentialPending).Count(&count)
	s.EqualValues(1, count)
}

func (s *APISuite) TestMpesaCallbackReconciliation() {
	token := s.signup("callback@example.com", "caregiver", nil)
	w := s.request(http.MethodPost, "/caregiver/licenses", token, map[string]interface{}{
		"license_number": "CG-5001",
		"phone_number":   "0712345678",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	payment := s.decode(w)["payment"].(map[string]interface{})
	gatewayID := payment["gateway_request_id"].(string)

	w = s.request(http.MethodPost, "/payments/callback", "", map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"CheckoutRequestID": gatewayID,
				"ResultCode":        0,
				"ResultDesc":        "The service request is processed successfully.",
			},
		},
	})
	s.Equal(http.StatusOK, w.Code)

	var stored models.Payment
	s.Require().NoError(config.DB.Where("gateway_request_id = ?", gatewayID).First(&stored).Error)
	s.Equal(models.PaymentCompleted, stored.Status)

	// Payment completion is not an approval: the credential stays pending
	// until an admin reviews it.
	var license models.License
	s.Require().NoError(config.DB.Order("id DESC").First(&license).Error)
	s.Equal(models.CredentialPending, license.Status)
}

func (s *APISuite) TestMpesaCallbackRejectsBlankRequestID() {
	token := s.signup("blankcb@example.com", "caregiver", nil)
	w := s.request(http.MethodPost, "/caregiver/licenses", token, map[string]interface{}{
		"license_number": "CG-5002",
		"phone_number":   "0712345678",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	payment := s.decode(w)["payment"].(map[string]interface{})
	transactionID := payment["transaction_id"].(string)

	// Simulate the window where the payment is committed but the gateway
	// id is not recorded yet.
	s.Require().NoError(config.DB.Model(&models.Payment{}).
		Where("transaction_id = ?", transactionID).
		Update("gateway_request_id", "").Error)

	w = s.request(http.MethodPost, "/payments/callback", "", map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"CheckoutRequestID": "",
				"ResultCode":        0,
			},
		},
	})
	s.Equal(http.StatusBadRequest, w.Code)

	var stored models.Payment
	s.Require().NoError(config.DB.Where("transaction_id = ?", transactionID).First(&stored).Error)
	s.Equal(models.PaymentPending, stored.Status)
}

func (s *APISuite) TestProfileUpsertSetsOnboarded() {
	token := s.signup("profile@example.com", "caregiver", nil)

	w := s.request(http.MethodPut, "/caregiver/profile", token, map[string]interface{}{
		"first_name":   "Jane",
		"last_name":    "Wanjiku",
		"phone_number": "0712345678",
		"address":      "Nairobi",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request(http.MethodGet, "/caregiver/profile", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["onboarded"])
}

func (s *APISuite) TestTrainingFlow() {
	trainerToken := s.signup("trainer@example.com", "trainer", nil)
	caregiverToken := s.signup("student@example.com", "caregiver", nil)

	w := s.request(http.MethodPost, "/trainer/programs", trainerToken, map[string]interface{}{
		"title":          "Dementia Care Basics",
		"duration_weeks": 6,
		"fee":            1000,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	program := s.decode(w)["program"].(map[string]interface{})
	programID := uint(program["ID"].(float64))

	w = s.request(http.MethodPost, fmt.Sprintf("/caregiver/programs/%d/enroll", programID), caregiverToken, nil)
	s.Require().Equal(http.StatusCreated, w.Code)
	enrollment := s.decode(w)["enrollment"].(map[string]interface{})
	s.Equal("enrolled", enrollment["status"])
	enrollmentID := uint(enrollment["ID"].(float64))

	// Duplicate enrollment conflicts.
	w = s.request(http.MethodPost, fmt.Sprintf("/caregiver/programs/%d/enroll", programID), caregiverToken, nil)
	s.Equal(http.StatusConflict, w.Code)

	// Forward transition allowed, backwards is not.
	w = s.request(http.MethodPatch, fmt.Sprintf("/trainer/enrollments/%d", enrollmentID), trainerToken,
		map[string]interface{}{"status": "in_progress"})
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.request(http.MethodPatch, fmt.Sprintf("/trainer/enrollments/%d", enrollmentID), trainerToken,
		map[string]interface{}{"status": "enrolled"})
	s.Equal(http.StatusConflict, w.Code)
	w = s.request(http.MethodPatch, fmt.Sprintf("/trainer/enrollments/%d", enrollmentID), trainerToken,
		map[string]interface{}{"status": "completed"})
	s.Equal(http.StatusOK, w.Code)
}

func (s *APISuite) TestInstitutionRoster() {
	instToken := s.signup("roster@example.com", "institution", map[string]interface{}{
		"institution_name": "Sunrise Care Home",
	})
	s.signup("member@example.com", "caregiver", nil)

	var caregiver models.User
	s.Require().NoError(config.DB.Where("email = ?", "member@example.com").First(&caregiver).Error)

	w := s.request(http.MethodPost, fmt.Sprintf("/institution/caregivers/%d", caregiver.ID), instToken, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	// Duplicate attach conflicts.
	w = s.request(http.MethodPost, fmt.Sprintf("/institution/caregivers/%d", caregiver.ID), instToken, nil)
	s.Equal(http.StatusConflict, w.Code)

	w = s.request(http.MethodGet, "/institution/caregivers", instToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(s.decode(w)["data"].([]interface{}), 1)

	w = s.request(http.MethodDelete, fmt.Sprintf("/institution/caregivers/%d", caregiver.ID), instToken, nil)
	s.Equal(http.StatusOK, w.Code)

	// Detach must fully free the roster slot so the caregiver can be
	// attached again later.
	w = s.request(http.MethodPost, fmt.Sprintf("/institution/caregivers/%d", caregiver.ID), instToken, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.request(http.MethodGet, "/institution/caregivers", instToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(s.decode(w)["data"].([]interface{}), 1)
}

func (s *APISuite) TestComplaintLifecycle() {
	token := s.signup("gripe@example.com", "caregiver", nil)
	adminToken := s.signup("resolver@example.com", "admin", nil)

	w := s.request(http.MethodPost, "/caregiver/complaints", token, map[string]interface{}{
		"subject":     "Late certificate",
		"description": "Approved two weeks ago, nothing received.",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	complaint := s.decode(w)["complaint"].(map[string]interface{})
	id := uint(complaint["ID"].(float64))

	w = s.request(http.MethodPatch, fmt.Sprintf("/admin/complaints/%d/resolve", id), adminToken,
		map[string]interface{}{"resolution": "certificate dispatched"})
	s.Require().Equal(http.StatusOK, w.Code)
	resolved := s.decode(w)["complaint"].(map[string]interface{})
	s.Equal("resolved", resolved["status"])

	// Resolving again finds no open complaint.
	w = s.request(http.MethodPatch, fmt.Sprintf("/admin/complaints/%d/resolve", id), adminToken,
		map[string]interface{}{"resolution": "again"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestDashboardsPerRole() {
	adminToken := s.signup("dash-admin@example.com", "admin", nil)
	caregiverToken := s.signup("dash-cg@example.com", "caregiver", nil)

	w := s.request(http.MethodPost, "/caregiver/licenses", caregiverToken, map[string]interface{}{
		"license_number": "CG-6001",
		"phone_number":   "0712345678",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodGet, "/caregiver/dashboard", caregiverToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	stats := s.decode(w)["stats"].(map[string]interface{})
	s.EqualValues(1, stats["licenses_pending"])

	w = s.request(http.MethodGet, "/admin/dashboard", adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	stats = s.decode(w)["stats"].(map[string]interface{})
	s.EqualValues(1, stats["licenses_pending"])
	s.EqualValues(2, stats["users"])
}

func (s *APISuite) TestHealth() {
	w := s.request(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
}
