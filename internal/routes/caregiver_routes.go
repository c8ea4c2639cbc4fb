package routes

import (
	"carelink/internal/controllers"
	"carelink/internal/middleware"
	"carelink/internal/models"

	"github.com/gin-gonic/gin"
)

func CaregiverRoutes(r *gin.Engine) {
	caregiver := r.Group("/caregiver")
	caregiver.Use(middleware.RequireAuthWithRole(models.RoleCaregiver))
	{
		caregiver.PUT("/profile", controllers.UpsertCaregiverProfile)
		caregiver.GET("/profile", controllers.GetMyProfile)

		caregiver.POST("/licenses", controllers.ApplyLicense)
		caregiver.GET("/licenses", controllers.ListMyLicenses)
		caregiver.POST("/certifications", controllers.ApplyCertification)
		caregiver.GET("/certifications", controllers.ListMyCertifications)
		caregiver.GET("/payments", controllers.ListMyPayments)

		caregiver.GET("/programs", controllers.ListPrograms)
		caregiver.POST("/programs/:id/enroll", controllers.EnrollInProgram)
		caregiver.GET("/enrollments", controllers.ListMyEnrollments)

		caregiver.POST("/complaints", controllers.FileComplaint)
		caregiver.GET("/complaints", controllers.ListMyComplaints)

		caregiver.GET("/dashboard", controllers.Dashboard)
	}
}
