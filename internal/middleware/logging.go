package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/benbeisheim/chesslib-backend/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger puts a request scoped logger into the user context so
// handlers and services log with the request id attached.
func RequestLogger(base *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()[:8]
		}
		c.Set(RequestIDHeader, reqID)

		log := base.WithField("request_id", reqID)
		c.SetUserContext(logger.NewContext(c.UserContext(), log))
		return c.Next()
	}
}
