package payments

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(router *gin.RouterGroup, controller Controller) {
	// Provider webhook - authenticated by the provider's signature at the
	// gateway, not by user JWTs
	router.POST("/payments/webhook", controller.HandleWebhook)

	// Admin routes - payment audit per reservation
	adminPayments := router.Group("/admin/reservations")
	adminPayments.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminPayments.GET("/:reservationId/payments", controller.GetReservationPayments)
	}
}
