package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/benbeisheim/chesslib-backend/internal/errors"
	"github.com/benbeisheim/chesslib-backend/internal/logger"
	"github.com/benbeisheim/chesslib-backend/internal/middleware"
	"github.com/benbeisheim/chesslib-backend/internal/repository"
	"github.com/benbeisheim/chesslib-backend/internal/service"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type GameController struct {
	gameService *service.GameService
	db          Pinger
}

func NewGameController(gameService *service.GameService, db Pinger) *GameController {
	return &GameController{gameService: gameService, db: db}
}

type gameSummary struct {
	ID        string    `json:"id"`
	History   string    `json:"history"`
	State     string    `json:"state"`
	Winner    string    `json:"winner,omitempty"`
	White     string    `json:"white,omitempty"`
	Black     string    `json:"black,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toSummary(rec repository.GameRecord) gameSummary {
	return gameSummary{
		ID:        rec.ID,
		History:   rec.History,
		State:     rec.State,
		Winner:    rec.Winner,
		White:     rec.WhiteID,
		Black:     rec.BlackID,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func playerID(c *fiber.Ctx) (string, error) {
	id, ok := middleware.PlayerID(c)
	if !ok {
		return "", apperrors.NewUnauthorizedError("player ID is required")
	}
	return id, nil
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	pid, err := playerID(c)
	if err != nil {
		return err
	}
	gameID := c.Params("gameId")
	logger.FromContext(c.UserContext()).Debug("player %s joining game %s", pid, gameID)

	color, err := gc.gameService.JoinGame(c.UserContext(), gameID, pid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (gc *GameController) GetHistory(c *fiber.Ctx) error {
	view, err := gc.gameService.GetHistory(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 {
		return apperrors.NewValidationError("limit", "must be positive")
	}
	recs, err := gc.gameService.ListGames(c.UserContext(), c.Query("state"), limit)
	if err != nil {
		return err
	}
	games := make([]gameSummary, 0, len(recs))
	for _, rec := range recs {
		games = append(games, toSummary(rec))
	}
	return c.JSON(fiber.Map{"games": games})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	pid, err := playerID(c)
	if err != nil {
		return err
	}
	var req service.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequestError("invalid move body")
	}
	resp, err := gc.gameService.HandleMove(c.UserContext(), c.Params("gameId"), pid, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	pid, err := playerID(c)
	if err != nil {
		return err
	}
	var req struct {
		Piece string `json:"piece"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequestError("invalid promote body")
	}
	resp, err := gc.gameService.HandlePromote(c.UserContext(), c.Params("gameId"), pid, req.Piece)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	pid, err := playerID(c)
	if err != nil {
		return err
	}
	state, err := gc.gameService.Resign(c.UserContext(), c.Params("gameId"), pid)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	pid, err := playerID(c)
	if err != nil {
		return err
	}
	if err := gc.gameService.DeleteGame(c.UserContext(), c.Params("gameId"), pid); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	pid, err := playerID(c)
	if err != nil {
		return err
	}
	if err := gc.gameService.JoinMatchmaking(pid); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	pid, err := playerID(c)
	if err != nil {
		return err
	}
	if !gc.gameService.LeaveMatchmaking(pid) {
		return apperrors.NewNotFoundError("queue entry", pid)
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	pid, err := playerID(c)
	if err != nil {
		return err
	}
	return c.JSON(gc.gameService.MatchmakingStatus(pid))
}

func (gc *GameController) Health(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// Ready reports whether the history database answers.
func (gc *GameController) Ready(c *fiber.Ctx) error {
	if gc.db == nil {
		return c.SendString("OK")
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := gc.db.PingContext(ctx); err != nil {
		logger.FromContext(ctx).Warn("readiness check failed: %v", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
	}
	return c.SendString("OK")
}
