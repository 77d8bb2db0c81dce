package theaters

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTheaterRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - browsing theaters and their seat layouts
	publicTheaters := router.Group("/theaters")
	{
		publicTheaters.GET("", controller.GetAllTheaters)
		publicTheaters.GET("/:theaterId", controller.GetTheater)
		publicTheaters.GET("/:theaterId/seats", controller.GetSeats)
	}

	// Admin routes - theater and seat management
	adminTheaters := router.Group("/admin/theaters")
	adminTheaters.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminTheaters.POST("", controller.CreateTheater)
		adminTheaters.PUT("/:theaterId", controller.UpdateTheater)
		adminTheaters.DELETE("/:theaterId", controller.DeleteTheater)
		adminTheaters.POST("/:theaterId/seats", controller.AddSeat)
		adminTheaters.DELETE("/:theaterId/seats/:seatId", controller.DeleteSeat)
	}
}
