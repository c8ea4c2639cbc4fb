package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"carelink/internal/models"
)

type ProfileSuite struct {
	suite.Suite
	db *gorm.DB
}

func TestProfileSuite(t *testing.T) {
	suite.Run(t, new(ProfileSuite))
}

func (s *ProfileSuite) SetupTest() {
	s.db = newTestDB(s.T())
}

func (s *ProfileSuite) TestUpsertCaregiverProfileSetsOnboarded() {
	user := createUser(s.T(), s.db, "cg@example.com", models.RoleCaregiver)

	profile, onboardFailed, err := UpsertCaregiverProfile(s.db, user.ID, CaregiverProfileInput{
		FirstName:   "Jane",
		LastName:    "Wanjiku",
		PhoneNumber: "0712345678",
		Address:     "Nairobi",
	})
	s.Require().NoError(err)
	s.False(onboardFailed)
	s.True(profile.Onboarded)
	s.Equal("Jane", profile.FirstName)
}

func (s *ProfileSuite) TestUpsertCaregiverProfileIsIdempotentUpsert() {
	user := createUser(s.T(), s.db, "cg2@example.com", models.RoleCaregiver)

	_, _, err := UpsertCaregiverProfile(s.db, user.ID, CaregiverProfileInput{
		FirstName: "Jane", LastName: "W", PhoneNumber: "0712345678", Address: "Nairobi",
	})
	s.Require().NoError(err)

	updated, _, err := UpsertCaregiverProfile(s.db, user.ID, CaregiverProfileInput{
		FirstName: "Janet", LastName: "W", PhoneNumber: "0712345678", Address: "Mombasa",
	})
	s.Require().NoError(err)
	s.Equal("Janet", updated.FirstName)
	s.Equal("Mombasa", updated.Address)

	var count int64
	s.db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count)
	s.EqualValues(1, count)
}

func (s *ProfileSuite) TestUpsertInstitutionProfileMarksOwnerOnboarded() {
	user := createUser(s.T(), s.db, "inst@example.com", models.RoleInstitution)

	institution, onboardFailed, err := UpsertInstitutionProfile(s.db, user.ID, models.Institution{
		Name:               "Sunrise Care Home",
		RegistrationNumber: "REG-889",
		Phone:              "0712345678",
		Address:            "Kisumu",
	})
	s.Require().NoError(err)
	s.False(onboardFailed)
	s.Equal("Sunrise Care Home", institution.Name)

	// The user profile row is created just to carry the flag.
	var profile models.Profile
	s.Require().NoError(s.db.Where("user_id = ?", user.ID).First(&profile).Error)
	s.True(profile.Onboarded)
}
