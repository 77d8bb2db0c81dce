package showtimes

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupShowtimeRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - browsing the schedule and seat availability
	publicShowtimes := router.Group("/showtimes")
	{
		publicShowtimes.GET("", controller.GetAllShowtimes)
		publicShowtimes.GET("/:showtimeId", controller.GetShowtime)
		publicShowtimes.GET("/:showtimeId/seats", controller.GetSeatMap)
	}

	// Admin routes - schedule management
	adminShowtimes := router.Group("/admin/showtimes")
	adminShowtimes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminShowtimes.POST("", controller.CreateShowtime)
		adminShowtimes.DELETE("/:showtimeId", controller.DeleteShowtime)
	}
}
