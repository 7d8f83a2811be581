package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/rentmojo-api/internal/application/dto"
)

// AuthRateLimit limita las peticiones por IP de cliente con la ventana deslizante del
// middleware limiter de Fiber: burst peticiones por ventana de burst/perSecond segundos
// (mínimo un segundo). perSecond <= 0 desactiva el límite.
func AuthRateLimit(perSecond float64, burst int) fiber.Handler {
	if perSecond <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	window := time.Duration(float64(burst) / perSecond * float64(time.Second))
	if window < time.Second {
		window = time.Second
	}
	return limiter.New(limiter.Config{
		Max:               burst,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde"})
		},
	})
}
