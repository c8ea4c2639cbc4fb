package routes

import (
	"carelink/internal/controllers"
	"carelink/internal/middleware"
	"carelink/internal/models"

	"github.com/gin-gonic/gin"
)

func InstitutionRoutes(r *gin.Engine) {
	institution := r.Group("/institution")
	institution.Use(middleware.RequireAuthWithRole(models.RoleInstitution))
	{
		institution.PUT("/profile", controllers.UpsertInstitutionProfile)
		institution.GET("/profile", controllers.GetInstitutionProfile)

		institution.GET("/caregivers", controllers.ListRoster)
		institution.POST("/caregivers/:id", controllers.AttachCaregiver)
		institution.DELETE("/caregivers/:id", controllers.DetachCaregiver)

		institution.GET("/dashboard", controllers.Dashboard)
	}
}
