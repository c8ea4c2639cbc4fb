package routes

import (
	"carelink/internal/controllers"
	"carelink/internal/middleware"
	"carelink/internal/models"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole(models.RoleAdmin))
	{
		admin.GET("/users", controllers.ListUsers)
		admin.GET("/licenses", controllers.ListLicenses)
		admin.GET("/certifications", controllers.ListCertifications)
		admin.GET("/payments", controllers.ListPayments)
		admin.GET("/complaints", controllers.ListComplaints)

		review := middleware.RequireCapability(middleware.ActionReviewCredential)
		admin.PATCH("/licenses/:id/approve", review, controllers.ApproveLicense)
		admin.PATCH("/licenses/:id/reject", review, controllers.RejectLicense)
		admin.PATCH("/certifications/:id/approve", review, controllers.ApproveCertification)
		admin.PATCH("/certifications/:id/reject", review, controllers.RejectCertification)
		admin.PATCH("/complaints/:id/resolve",
			middleware.RequireCapability(middleware.ActionResolveComplaint), controllers.ResolveComplaint)

		admin.GET("/dashboard", controllers.Dashboard)
	}
}
