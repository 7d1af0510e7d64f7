package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Limiter records one attempt for key and reports whether it is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// AttemptLimit rejects clients that exceed limiter's budget with 429 and a
// Retry-After header. Clients are keyed by their real IP. A nil limiter
// disables the check, and limiter errors let the request through.
func AttemptLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	if limiter == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}

			allowed, retryAfter, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("attempt limiter unavailable")
				return next(c)
			}
			if allowed {
				return next(c)
			}

			secs := int(math.Ceil(retryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
			log.Info().Str("ip", ip).Int("retry_after", secs).Str("path", c.Path()).Msg("too many attempts")
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts, try again later")
		}
	}
}
