package routes

import (
	"carelink/internal/controllers"

	"github.com/gin-gonic/gin"
)

// PaymentRoutes registers the gateway-facing callback. It is not behind
// auth; the gateway identifies the payment by CheckoutRequestID.
func PaymentRoutes(r *gin.Engine) {
	payments := r.Group("/payments")
	{
		payments.POST("/callback", controllers.MpesaCallback)
	}
}
