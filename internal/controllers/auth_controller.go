package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"carelink/internal/config"
	"carelink/internal/middleware"
	"carelink/internal/models"
)

type signupInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`

	// Institution-role extras
	InstitutionName    string `json:"institution_name"`
	RegistrationNumber string `json:"registration_number"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
}

func SignupUser(c *gin.Context) {
	var input signupInput
	if !bindJSON(c, &input) {
		return
	}

	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Role = role

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	user, err := createUserRecord(tx, input, hashedPassword)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	if err := createActorRecord(tx, &user, input); err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "required for institution role") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create actor record"})
		}
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func LoginUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	var user models.User
	query := config.DB.Where("email = ?", body.Email).
		Preload("Profile").
		Preload("Institution")

	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(roleInput))
	if role == "" {
		role = models.RoleCaregiver
	}
	switch role {
	case models.RoleCaregiver, models.RoleInstitution, models.RoleAdmin, models.RoleAssessor, models.RoleTrainer:
		return role, nil
	default:
		return "", errors.New("invalid role")
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func isUniqueViolation(err error) bool {
	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func createUserRecord(tx *gorm.DB, input signupInput, hashedPassword string) (models.User, error) {
	user := models.User{
		FullName: input.FullName,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     input.Role,
	}
	if err := tx.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// createActorRecord creates the role-specific record at signup. Only the
// institution role carries one; caregivers fill their profile during
// onboarding instead.
func createActorRecord(tx *gorm.DB, user *models.User, input signupInput) error {
	if user.Role != models.RoleInstitution {
		return nil
	}
	if input.InstitutionName == "" {
		return errors.New("institution_name is required for institution role")
	}

	institution := models.Institution{
		UserID:             user.ID,
		Name:               input.InstitutionName,
		RegistrationNumber: input.RegistrationNumber,
		Email:              input.Email,
		Phone:              input.Phone,
		Address:            input.Address,
	}
	if err := tx.Create(&institution).Error; err != nil {
		return err
	}
	user.Institution = &institution
	return nil
}

func prepareUserResponse(user models.User) gin.H {
	responseUser := gin.H{
		"ID":        user.ID,
		"CreatedAt": user.CreatedAt,
		"UpdatedAt": user.UpdatedAt,
		"full_name": user.FullName,
		"email":     user.Email,
		"role":      user.Role,
	}

	if user.Profile != nil {
		responseUser["profile"] = gin.H{
			"first_name":   user.Profile.FirstName,
			"last_name":    user.Profile.LastName,
			"phone_number": user.Profile.PhoneNumber,
			"address":      user.Profile.Address,
			"onboarded":    user.Profile.Onboarded,
		}
	}
	if user.Institution != nil {
		responseUser["institution"] = gin.H{
			"ID":                  user.Institution.ID,
			"name":                user.Institution.Name,
			"registration_number": user.Institution.RegistrationNumber,
			"phone":               user.Institution.Phone,
		}
	}
	return responseUser
}
