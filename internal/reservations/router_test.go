package reservations

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func registeredRoutes(t *testing.T) map[string]string {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	SetupReservationRoutes(engine.Group("/api/v1"), NewController(nil))

	routes := make(map[string]string)
	for _, route := range engine.Routes() {
		routes[route.Method+" "+route.Path] = route.Path
	}
	return routes
}

func TestConfirmRouteRequiresAdmin(t *testing.T) {
	routes := registeredRoutes(t)

	assert.Contains(t, routes, http.MethodPost+" /api/v1/admin/reservations/:reservationId/confirm")
	assert.NotContains(t, routes, http.MethodPost+" /api/v1/reservations/:reservationId/confirm",
		"owners must not be able to confirm their own hold without a payment")
}

func TestCancelRouteStaysWithOwner(t *testing.T) {
	routes := registeredRoutes(t)

	assert.Contains(t, routes, http.MethodPost+" /api/v1/reservations/:reservationId/cancel")
	assert.Contains(t, routes, http.MethodPost+" /api/v1/reservations")
	assert.Contains(t, routes, http.MethodGet+" /api/v1/admin/showtimes/:showtimeId/reservations")
}
