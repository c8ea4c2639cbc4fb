package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/internal/models"
)

// Actions gated by the capability table. Role branching lives here instead
// of string comparisons scattered through handlers.
const (
	ActionApplyCredential   = "credential:apply"
	ActionReviewCredential  = "credential:review"
	ActionViewCertification = "certification:view"
	ActionManagePrograms    = "program:manage"
	ActionEnrollProgram     = "program:enroll"
	ActionManageRoster      = "roster:manage"
	ActionFileComplaint     = "complaint:file"
	ActionResolveComplaint  = "complaint:resolve"
	ActionListUsers         = "user:list"
)

var capabilities = map[string]map[string]bool{
	models.RoleCaregiver: {
		ActionApplyCredential: true,
		ActionEnrollProgram:   true,
		ActionFileComplaint:   true,
	},
	models.RoleInstitution: {
		ActionManageRoster:  true,
		ActionFileComplaint: true,
	},
	models.RoleTrainer: {
		ActionManagePrograms: true,
		ActionFileComplaint:  true,
	},
	models.RoleAssessor: {
		ActionViewCertification: true,
	},
	models.RoleAdmin: {
		ActionReviewCredential:  true,
		ActionViewCertification: true,
		ActionResolveComplaint:  true,
		ActionListUsers:         true,
	},
}

// Can reports whether a role holds a capability.
func Can(role, action string) bool {
	return capabilities[role][action]
}

// RequireCapability gates a route on the capability table. Must run after
// RequireAuth has stored the role claim.
func RequireCapability(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Can(AuthRole(c), action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// CanMutate reports whether the caller may mutate a row owned by ownerID.
// Admins may mutate anything; everyone else only their own rows.
func CanMutate(callerID uint, callerRole string, ownerID uint) bool {
	if callerRole == models.RoleAdmin {
		return true
	}
	return callerID == ownerID
}
