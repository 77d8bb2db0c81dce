package reservations

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(router *gin.RouterGroup, controller Controller) {
	// User routes - every reservation operation requires authentication
	userReservations := router.Group("/reservations")
	userReservations.Use(middleware.JWTAuth())
	{
		userReservations.POST("", controller.CreateReservation)
		userReservations.GET("", controller.GetMyReservations)
		userReservations.GET("/:reservationId", controller.GetReservation)
		userReservations.POST("/:reservationId/cancel", controller.CancelReservation)
	}

	// Admin routes. Confirmation normally arrives through the payment
	// webhook; the direct route is an operator override, so it is not
	// exposed to the reservation owner.
	adminReservations := router.Group("/admin/reservations")
	adminReservations.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminReservations.POST("/:reservationId/confirm", controller.ConfirmReservation)
	}

	adminShowtimes := router.Group("/admin/showtimes")
	adminShowtimes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminShowtimes.GET("/:showtimeId/reservations", controller.GetShowtimeReservations)
	}
}
