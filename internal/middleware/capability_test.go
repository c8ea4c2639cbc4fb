package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"carelink/internal/models"
)

func TestCan(t *testing.T) {
	assert.True(t, Can(models.RoleCaregiver, ActionApplyCredential))
	assert.True(t, Can(models.RoleAdmin, ActionReviewCredential))
	assert.True(t, Can(models.RoleAssessor, ActionViewCertification))
	assert.True(t, Can(models.RoleTrainer, ActionManagePrograms))
	assert.True(t, Can(models.RoleInstitution, ActionManageRoster))

	assert.False(t, Can(models.RoleCaregiver, ActionReviewCredential))
	assert.False(t, Can(models.RoleTrainer, ActionApplyCredential))
	assert.False(t, Can(models.RoleAssessor, ActionResolveComplaint))
	assert.False(t, Can("unknown", ActionApplyCredential))
}

func TestCanMutate(t *testing.T) {
	assert.True(t, CanMutate(7, models.RoleCaregiver, 7))
	assert.False(t, CanMutate(7, models.RoleCaregiver, 8))
	assert.True(t, CanMutate(1, models.RoleAdmin, 8))
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, models.RoleCaregiver)
	assert.NoError(t, err)

	parsed, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestValidateTokenRejectsForeignSigningMethod(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": 42,
		"role":    models.RoleCaregiver,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = ValidateToken(unsigned)
	assert.Error(t, err)
}
