package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	apperrors "github.com/benbeisheim/chesslib-backend/internal/errors"
	"github.com/benbeisheim/chesslib-backend/internal/logger"
)

const (
	PlayerIDLocal  = "playerID"
	PlayerIDHeader = "X-Player-ID"
	PlayerIDQuery  = "playerId"
)

// EnsurePlayerID reads the caller's player id from the X-Player-ID header,
// falling back to the playerId query parameter for websocket clients.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.FromContext(c.UserContext()).WithPrefix("player")

		// Check if playerID is already set
		if id, ok := c.Locals(PlayerIDLocal).(string); ok && id != "" {
			return c.Next()
		}

		playerID := c.Get(PlayerIDHeader)
		if playerID == "" {
			playerID = c.Query(PlayerIDQuery)
		}
		if playerID == "" {
			log.Debug("rejecting %s %s without a player id", c.Method(), c.Path())
			return apperrors.NewUnauthorizedError("Player ID is required. Please ensure client is properly initialized.")
		}

		// Copied: fiber reuses header and query buffers after the handler returns.
		c.Locals(PlayerIDLocal, utils.CopyString(playerID))
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(PlayerIDLocal).(string)
	return id, ok && id != ""
}
