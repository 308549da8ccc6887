package server

import (
	"crypto/subtle"
	"strings"
	"time"

	"repair-shop/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// AdminGuard only lets through requests carrying "Authorization: Bearer <token>".
func AdminGuard(token string) fiber.Handler {
	expected := []byte(token)
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		given, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || len(expected) == 0 || subtle.ConstantTimeCompare([]byte(given), expected) != 1 {
			logger.Get().Warn("Admin access denied",
				zap.String("ray_id", RayID(c)),
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
			)
			return Fail(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		return c.Next()
	}
}

// RateLimit allows max requests per window per client IP.
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			logger.Get().Warn("Rate limit reached", zap.String("ip", c.IP()), zap.String("path", c.Path()))
			return Fail(c, fiber.StatusTooManyRequests, "Rate limit exceeded, retry soon")
		},
	})
}
