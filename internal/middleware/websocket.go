package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	apperrors "github.com/benbeisheim/chesslib-backend/internal/errors"
	"github.com/benbeisheim/chesslib-backend/internal/logger"
)

// WebSocketUpgrade ensures that requests to WebSocket endpoints are valid WebSocket connection attempts.
// It also checks that the game and player are known before allowing the upgrade.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		gameID := c.Params("gameId")
		if gameID == "" {
			return apperrors.NewValidationError("gameId", "is required")
		}
		playerID, ok := PlayerID(c)
		if !ok {
			return apperrors.NewUnauthorizedError("player ID is required")
		}

		logger.FromContext(c.UserContext()).WithPrefix("ws").Debug("upgrading %s for game %s", playerID, gameID)
		return c.Next()
	}
}
