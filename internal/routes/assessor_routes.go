package routes

import (
	"carelink/internal/controllers"
	"carelink/internal/middleware"
	"carelink/internal/models"

	"github.com/gin-gonic/gin"
)

func AssessorRoutes(r *gin.Engine) {
	assessor := r.Group("/assessor")
	assessor.Use(middleware.RequireAuthWithRole(models.RoleAssessor))
	{
		assessor.GET("/certifications/pending", controllers.ListPendingCertifications)
		assessor.GET("/certifications/:id", controllers.GetCertification)

		assessor.GET("/dashboard", controllers.Dashboard)
	}
}
