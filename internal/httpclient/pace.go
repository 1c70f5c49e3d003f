package httpclient

import (
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces outbound requests at least delay apart. The first request is
// never delayed; a non-positive delay disables pacing.
func Pacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
