package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/api/v1/admin/movies", RateLimitTypeAdmin},
		{"/api/v1/admin/showtimes/:showtimeId/reservations", RateLimitTypeAdmin},
		{"/api/v1/auth/login", RateLimitTypeAuth},
		{"/api/v1/reservations", RateLimitTypeBooking},
		{"/api/v1/reservations/:reservationId/confirm", RateLimitTypeBooking},
		{"/api/v1/payments/webhook", RateLimitTypeBooking},
		{"/api/v1/movies", RateLimitTypePublic},
		{"/api/v1/theaters/:theaterId/seats", RateLimitTypePublic},
		{"/api/v1/showtimes/:showtimeId/seats", RateLimitTypePublic},
		{"/health", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.path))
		})
	}
}

func TestGetLimitPerTier(t *testing.T) {
	limiter := NewRateLimiter(nil, &Config{
		DefaultRequests: 60,
		PublicRequests:  120,
		AuthRequests:    10,
		BookingRequests: 30,
		AdminRequests:   300,
	})

	assert.Equal(t, 120, limiter.getLimit(RateLimitTypePublic))
	assert.Equal(t, 10, limiter.getLimit(RateLimitTypeAuth))
	assert.Equal(t, 30, limiter.getLimit(RateLimitTypeBooking))
	assert.Equal(t, 300, limiter.getLimit(RateLimitTypeAdmin))
	assert.Equal(t, 60, limiter.getLimit(RateLimitType("unknown")))
}

func TestWhitelistBypassesLimit(t *testing.T) {
	limiter := NewRateLimiter(nil, &Config{
		Enabled:         true,
		DefaultRequests: 1,
		WhitelistedIPs:  []string{"10.0.0.5"},
	})

	result, err := limiter.IsAllowed(context.Background(), "10.0.0.5", RateLimitTypeDefault)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}
