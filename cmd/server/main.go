package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"carelink/internal/config"
	"carelink/internal/logger"
	"carelink/internal/middleware"
	"carelink/internal/routes"
	"carelink/internal/services"
	"carelink/internal/services/mailer"
	"carelink/internal/services/mpesa"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Wire external gateways
	services.Gateway = mpesa.NewFromEnv()
	services.Mail = mailer.NewFromEnv()

	// Background expiry sweep for approved credentials past their window
	stopSweeper := services.StartExpirySweeper(config.DB, time.Duration(config.ExpirySweepMinutes())*time.Minute)
	defer stopSweeper()

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + port()
	log.Println("🚀 Server running at :" + port())
	log.Fatal(http.ListenAndServe(addr, handler))
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
