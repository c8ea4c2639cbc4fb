package routes

import (
	"carelink/internal/controllers"
	"carelink/internal/middleware"
	"carelink/internal/models"

	"github.com/gin-gonic/gin"
)

func TrainerRoutes(r *gin.Engine) {
	trainer := r.Group("/trainer")
	trainer.Use(middleware.RequireAuthWithRole(models.RoleTrainer))
	{
		trainer.POST("/programs", controllers.CreateProgram)
		trainer.GET("/programs", controllers.ListMyPrograms)
		trainer.PUT("/programs/:id", controllers.UpdateProgram)
		trainer.DELETE("/programs/:id", controllers.DeleteProgram)
		trainer.GET("/programs/:id/enrollments", controllers.ListProgramEnrollments)
		trainer.PATCH("/enrollments/:id", controllers.UpdateEnrollmentStatus)

		trainer.GET("/dashboard", controllers.Dashboard)
	}
}
