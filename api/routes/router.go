// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"cinetix/internal/auth"
	"cinetix/internal/movies"
	"cinetix/internal/payments"
	"cinetix/internal/reservations"
	"cinetix/internal/shared/config"
	"cinetix/internal/shared/database"
	"cinetix/internal/showtimes"
	"cinetix/internal/theaters"
	"cinetix/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher reservations.EventPublisher

	// Services kept for cross-package dependency injection
	cacheService       cache.Service
	movieService       movies.Service
	theaterService     theaters.Service
	showtimeService    showtimes.Service
	reservationService reservations.Service
}

// NewRouter creates a new router instance. The publisher is injected by
// main so the Kafka lifecycle stays out of the HTTP layer.
func NewRouter(cfg *config.Config, db *database.DB, publisher reservations.EventPublisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// ReservationService exposes the wired reservation service so main can
// drive background jobs (the hold reaper) against the same instance the
// HTTP handlers use.
func (r *Router) ReservationService() reservations.Service {
	return r.reservationService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Swagger UI
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.GetRedisClient())
	}

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Catalog routes first: showtimes and reservations depend on them
		r.setupMovieRoutes(api)
		r.setupTheaterRoutes(api)
		r.setupShowtimeRoutes(api)
		r.setupReservationRoutes(api)
		r.setupPaymentRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinetix-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinetix-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
}

// setupMovieRoutes configures the movie catalog routes
func (r *Router) setupMovieRoutes(rg *gin.RouterGroup) {
	movieRepo := movies.NewRepository(r.db.GetPostgreSQL())
	movieService := movies.NewService(movieRepo)
	if r.cacheService != nil {
		movieService.SetCacheService(r.cacheService)
	}
	movieController := movies.NewController(movieService)

	r.movieService = movieService
	movies.SetupMovieRoutes(rg, movieController)
}

// setupTheaterRoutes configures theater and seat inventory routes
func (r *Router) setupTheaterRoutes(rg *gin.RouterGroup) {
	theaterRepo := theaters.NewRepository(r.db.GetPostgreSQL())
	theaterService := theaters.NewService(theaterRepo)
	theaterController := theaters.NewController(theaterService)

	r.theaterService = theaterService
	theaters.SetupTheaterRoutes(rg, theaterController)
}

// setupShowtimeRoutes configures showtime scheduling and seat map routes
func (r *Router) setupShowtimeRoutes(rg *gin.RouterGroup) {
	showtimeRepo := showtimes.NewRepository(r.db.GetPostgreSQL())
	showtimeService := showtimes.NewService(showtimeRepo)
	showtimeService.SetMovieService(r.movieService)
	showtimeService.SetTheaterService(r.theaterService)
	if r.cacheService != nil {
		showtimeService.SetCacheService(r.cacheService)
	}
	showtimeController := showtimes.NewController(showtimeService)

	r.showtimeService = showtimeService
	showtimes.SetupShowtimeRoutes(rg, showtimeController)
}

// setupReservationRoutes configures the seat reservation routes
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	reservationService := reservations.NewService(reservationRepo, r.config.Reservations)
	reservationService.SetShowtimeService(r.showtimeService)
	reservationService.SetTheaterService(r.theaterService)
	if r.publisher != nil {
		reservationService.SetEventPublisher(r.publisher)
	}
	reservationController := reservations.NewController(reservationService)

	r.reservationService = reservationService
	reservations.SetupReservationRoutes(rg, reservationController)
}

// setupPaymentRoutes configures the payment webhook routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	paymentService := payments.NewService(paymentRepo)
	paymentService.SetReservationService(r.reservationService)
	paymentController := payments.NewController(paymentService)

	payments.SetupPaymentRoutes(rg, paymentController)
}
