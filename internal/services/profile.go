package services

import (
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carelink/internal/models"
)

// CaregiverProfileInput carries the validated personal fields of a
// caregiver profile upsert.
type CaregiverProfileInput struct {
	FirstName    string
	LastName     string
	PhoneNumber  string
	Address      string
	ProfileImage string
}

// UpsertCaregiverProfile saves the caregiver's personal details, then flips
// the onboarded flag in a second write. The flag write failing after a
// successful save is reported as onboardFailed so the caller can surface
// a partial success instead of rolling back.
func UpsertCaregiverProfile(db *gorm.DB, userID uint, in CaregiverProfileInput) (*models.Profile, bool, error) {
	profile := models.Profile{
		UserID:       userID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
		ProfileImage: in.ProfileImage,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "phone_number", "address", "profile_image", "updated_at",
		}),
	}).Create(&profile).Error
	if err != nil {
		return nil, false, err
	}

	onboardFailed := false
	if err := MarkOnboarded(db, userID); err != nil {
		onboardFailed = true
		logrus.WithError(err).WithField("user_id", userID).Error("onboarded flag update failed")
	}

	var saved models.Profile
	if err := db.Where("user_id = ?", userID).First(&saved).Error; err != nil {
		return &profile, onboardFailed, nil
	}
	return &saved, onboardFailed, nil
}

// UpsertInstitutionProfile saves institution registration metadata and then
// marks the owning user's profile onboarded, with the same partial-success
// reporting as the caregiver path.
func UpsertInstitutionProfile(db *gorm.DB, userID uint, inst models.Institution) (*models.Institution, bool, error) {
	inst.UserID = userID
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "registration_number", "email", "phone", "address", "updated_at",
		}),
	}).Create(&inst).Error
	if err != nil {
		return nil, false, err
	}

	onboardFailed := false
	if err := MarkOnboarded(db, userID); err != nil {
		onboardFailed = true
		logrus.WithError(err).WithField("user_id", userID).Error("onboarded flag update failed")
	}

	var saved models.Institution
	if err := db.Where("user_id = ?", userID).First(&saved).Error; err != nil {
		return &inst, onboardFailed, nil
	}
	return &saved, onboardFailed, nil
}

// MarkOnboarded sets profiles.onboarded for the user, creating the profile
// row if the user has never saved one (institution accounts).
func MarkOnboarded(db *gorm.DB, userID uint) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"onboarded": true}),
	}).Create(&models.Profile{UserID: userID, Onboarded: true}).Error
}
