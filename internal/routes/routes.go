package routes

import (
	"net/http"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carelink/internal/middleware"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Recovery + request logging + request metrics
	r.Use(gin.Recovery())
	r.Use(ginlogger.SetLogger())
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	AuthRoutes(r)
	CaregiverRoutes(r)
	InstitutionRoutes(r)
	TrainerRoutes(r)
	AssessorRoutes(r)
	AdminRoutes(r)
	PaymentRoutes(r)

	return r
}
