package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/benbeisheim/chesslib-backend/internal/logger"
	"github.com/benbeisheim/chesslib-backend/internal/model"
	"github.com/benbeisheim/chesslib-backend/internal/repository"

	apperrors "github.com/benbeisheim/chesslib-backend/internal/errors"
)

// MoveRequest is a from/to move as sent by REST and websocket clients.
type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type MatchmakingStatus struct {
	Queued     bool        `json:"queued"`
	Assignment *Assignment `json:"assignment,omitempty"`
}

// GameService is what the controllers talk to. Every error it returns is an
// *errors.AppError.
type GameService struct {
	gameManager *GameManager
	log         *logger.Logger
}

func NewGameService(gameManager *GameManager, log *logger.Logger) *GameService {
	return &GameService{
		gameManager: gameManager,
		log:         log.WithPrefix("game_service"),
	}
}

func (gs *GameService) CreateGame(ctx context.Context) (string, error) {
	match, err := gs.gameManager.CreateMatch(ctx)
	if err != nil {
		return "", gs.fail("create game", err)
	}
	return match.ID(), nil
}

func (gs *GameService) JoinGame(ctx context.Context, gameID, playerID string) (model.PieceColor, error) {
	match, err := gs.gameManager.GetMatch(ctx, gameID)
	if err != nil {
		return "", gs.fail("join game", err)
	}
	color, err := match.Join(ctx, playerID)
	if err != nil {
		return "", gs.fail("join game", err)
	}
	return color, nil
}

func (gs *GameService) GetGameState(ctx context.Context, gameID string) (MatchState, error) {
	match, err := gs.gameManager.GetMatch(ctx, gameID)
	if err != nil {
		return MatchState{}, gs.fail("get state", err)
	}
	state, err := match.State(ctx)
	if err != nil {
		return MatchState{}, gs.fail("get state", err)
	}
	return state, nil
}

func (gs *GameService) GetHistory(ctx context.Context, gameID string) (HistoryView, error) {
	match, err := gs.gameManager.GetMatch(ctx, gameID)
	if err != nil {
		return HistoryView{}, gs.fail("get history", err)
	}
	view, err := match.History(ctx)
	if err != nil {
		return HistoryView{}, gs.fail("get history", err)
	}
	return view, nil
}

func (gs *GameService) ListGames(ctx context.Context, state string, limit int) ([]repository.GameRecord, error) {
	switch model.GameState(state) {
	case "", model.GameInProgress, model.GameEnded:
	default:
		return nil, apperrors.NewValidationError("state", "must be in_progress or ended")
	}
	recs, err := gs.gameManager.ListGames(ctx, repository.GameFilter{State: state, Limit: limit})
	if err != nil {
		return nil, gs.fail("list games", err)
	}
	return recs, nil
}

func (gs *GameService) HandleMove(ctx context.Context, gameID, playerID string, move MoveRequest) (MoveResponse, error) {
	if move.From == "" || move.To == "" {
		return MoveResponse{}, apperrors.NewValidationError("move", "from and to are required")
	}
	match, err := gs.gameManager.GetMatch(ctx, gameID)
	if err != nil {
		return MoveResponse{}, gs.fail("move", err)
	}
	resp, err := match.Move(ctx, playerID, move.From, move.To, move.Promotion)
	if err != nil {
		return MoveResponse{}, gs.fail("move", err)
	}
	return resp, nil
}

// HandleNotation plays a move given as notation, e.g. from a "GameMove:"
// command.
func (gs *GameService) HandleNotation(ctx context.Context, gameID, playerID, notation string) (MoveResponse, error) {
	match, err := gs.gameManager.GetMatch(ctx, gameID)
	if err != nil {
		return MoveResponse{}, gs.fail("move", err)
	}
	resp, err := match.PlayNotation(ctx, playerID, notation)
	if err != nil {
		return MoveResponse{}, gs.fail("move", err)
	}
	return resp, nil
}

func (gs *GameService) HandlePromote(ctx context.Context, gameID, playerID, piece string) (MoveResponse, error) {
	if piece == "" {
		return MoveResponse{}, apperrors.NewValidationError("piece", "is required")
	}
	match, err := gs.gameManager.GetMatch(ctx, gameID)
	if err != nil {
		return MoveResponse{}, gs.fail("promote", err)
	}
	resp, err := match.Promote(ctx, playerID, piece)
	if err != nil {
		return MoveResponse{}, gs.fail("promote", err)
	}
	return resp, nil
}

func (gs *GameService) Resign(ctx context.Context, gameID, playerID string) (MatchState, error) {
	match, err := gs.gameManager.GetMatch(ctx, gameID)
	if err != nil {
		return MatchState{}, gs.fail("resign", err)
	}
	state, err := match.Resign(ctx, playerID)
	if err != nil {
		return MatchState{}, gs.fail("resign", err)
	}
	return state, nil
}

// DeleteGame is only allowed for a player seated in the game.
func (gs *GameService) DeleteGame(ctx context.Context, gameID, playerID string) error {
	match, err := gs.gameManager.GetMatch(ctx, gameID)
	if err != nil {
		return gs.fail("delete game", err)
	}
	_, seated, err := match.Seated(ctx, playerID)
	if err != nil {
		return gs.fail("delete game", err)
	}
	if !seated {
		return gs.fail("delete game", ErrNotSeated)
	}
	if err := gs.gameManager.DeleteMatch(ctx, gameID); err != nil {
		return gs.fail("delete game", err)
	}
	return nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	if err := gs.gameManager.JoinMatchmaking(playerID); err != nil {
		return gs.fail("join matchmaking", err)
	}
	return nil
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchmakingStatus(playerID string) MatchmakingStatus {
	if a, ok := gs.gameManager.MatchmakingStatus(playerID); ok {
		return MatchmakingStatus{Assignment: &a}
	}
	return MatchmakingStatus{Queued: gs.gameManager.Queued(playerID)}
}

func (gs *GameService) RegisterConnection(ctx context.Context, gameID, playerID string, conn Conn) error {
	match, err := gs.gameManager.GetMatch(ctx, gameID)
	if err != nil {
		return gs.fail("register connection", err)
	}
	if err := match.Attach(ctx, playerID, conn); err != nil {
		return gs.fail("register connection", err)
	}
	return nil
}

// UnregisterConnection never restores: a match that is gone has already
// dropped its connections.
func (gs *GameService) UnregisterConnection(ctx context.Context, gameID, playerID string, conn Conn) {
	match, ok := gs.gameManager.LiveMatch(gameID)
	if !ok {
		return
	}
	if err := match.Detach(ctx, playerID, conn); err != nil {
		gs.log.Debug("detach %s from %s: %v", playerID, gameID, err)
	}
}

// fail converts err to an AppError, logging anything that is not the
// client's fault.
func (gs *GameService) fail(op string, err error) *apperrors.AppError {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		gs.log.Error("%s: %v", op, err)
	} else {
		gs.log.Debug("%s rejected: %v", op, err)
	}
	return appErr
}

func toAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return &apperrors.AppError{Code: apperrors.ErrCodeNotFound, Message: err.Error(), Status: http.StatusNotFound, Err: err}
	case errors.Is(err, ErrMatchFull), errors.Is(err, model.ErrAlreadyQueued):
		return &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: err.Error(), Status: http.StatusConflict, Err: err}
	case errors.Is(err, ErrNotSeated):
		return &apperrors.AppError{Code: apperrors.ErrCodeForbidden, Message: err.Error(), Status: http.StatusForbidden, Err: err}
	case errors.Is(err, ErrMatchClosed):
		return &apperrors.AppError{Code: apperrors.ErrCodeGameEnded, Message: err.Error(), Status: http.StatusGone, Err: err}
	}
	return apperrors.FromEngine(err)
}
