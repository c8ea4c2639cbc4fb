package services

import (
	"gorm.io/gorm"

	"carelink/internal/models"
)

// DashboardStats builds the role-appropriate aggregate view. One
// parametrized query layer keyed by role instead of a fetch block per
// dashboard page.
func DashboardStats(db *gorm.DB, role string, userID uint) (map[string]interface{}, error) {
	switch role {
	case models.RoleCaregiver:
		return caregiverStats(db, userID)
	case models.RoleInstitution:
		return institutionStats(db, userID)
	case models.RoleTrainer:
		return trainerStats(db, userID)
	case models.RoleAssessor:
		return assessorStats(db)
	case models.RoleAdmin:
		return adminStats(db)
	default:
		return map[string]interface{}{}, nil
	}
}

func caregiverStats(db *gorm.DB, userID uint) (map[string]interface{}, error) {
	stats := map[string]interface{}{}
	counts := []struct {
		key   string
		model interface{}
		query string
		args  []interface{}
	}{
		{"licenses_pending", &models.License{}, "user_id = ? AND status = ?", []interface{}{userID, models.CredentialPending}},
		{"licenses_approved", &models.License{}, "user_id = ? AND status = ?", []interface{}{userID, models.CredentialApproved}},
		{"certifications_pending", &models.Certification{}, "user_id = ? AND status = ?", []interface{}{userID, models.CredentialPending}},
		{"certifications_approved", &models.Certification{}, "user_id = ? AND status = ?", []interface{}{userID, models.CredentialApproved}},
		{"payments_pending", &models.Payment{}, "user_id = ? AND status = ?", []interface{}{userID, models.PaymentPending}},
		{"enrollments_active", &models.TrainingEnrollment{}, "caregiver_id = ? AND status IN ?", []interface{}{userID, []string{models.EnrollmentEnrolled, models.EnrollmentInProgress}}},
	}
	for _, c := range counts {
		n, err := countRows(db, c.model, c.query, c.args...)
		if err != nil {
			return nil, err
		}
		stats[c.key] = n
	}
	return stats, nil
}

func institutionStats(db *gorm.DB, userID uint) (map[string]interface{}, error) {
	var institution models.Institution
	if err := db.Where("user_id = ?", userID).First(&institution).Error; err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	roster, err := countRows(db, &models.InstitutionCaregiver{}, "institution_id = ?", institution.ID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"roster_size": roster,
		"onboarded":   institution.ID != 0,
	}, nil
}

func trainerStats(db *gorm.DB, userID uint) (map[string]interface{}, error) {
	programs, err := countRows(db, &models.TrainingProgram{}, "trainer_id = ?", userID)
	if err != nil {
		return nil, err
	}
	enrollments, err := countRows(db, &models.TrainingEnrollment{},
		"program_id IN (?)", db.Model(&models.TrainingProgram{}).Select("id").Where("trainer_id = ?", userID))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"programs":    programs,
		"enrollments": enrollments,
	}, nil
}

func assessorStats(db *gorm.DB) (map[string]interface{}, error) {
	pending, err := countRows(db, &models.Certification{}, "status = ?", models.CredentialPending)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"certifications_pending": pending}, nil
}

func adminStats(db *gorm.DB) (map[string]interface{}, error) {
	stats := map[string]interface{}{}
	counts := []struct {
		key   string
		model interface{}
		query string
		args  []interface{}
	}{
		{"users", &models.User{}, "", nil},
		{"licenses_pending", &models.License{}, "status = ?", []interface{}{models.CredentialPending}},
		{"certifications_pending", &models.Certification{}, "status = ?", []interface{}{models.CredentialPending}},
		{"payments_completed", &models.Payment{}, "status = ?", []interface{}{models.PaymentCompleted}},
		{"complaints_open", &models.Complaint{}, "status = ?", []interface{}{models.ComplaintOpen}},
	}
	for _, c := range counts {
		n, err := countRows(db, c.model, c.query, c.args...)
		if err != nil {
			return nil, err
		}
		stats[c.key] = n
	}

	var collected float64
	row := db.Model(&models.Payment{}).Where("status = ?", models.PaymentCompleted).Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&collected); err != nil {
		return nil, err
	}
	stats["fees_collected"] = collected
	return stats, nil
}

func countRows(db *gorm.DB, model interface{}, query string, args ...interface{}) (int64, error) {
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
