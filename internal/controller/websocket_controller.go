package controller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	apperrors "github.com/benbeisheim/chesslib-backend/internal/errors"
	"github.com/benbeisheim/chesslib-backend/internal/logger"
	"github.com/benbeisheim/chesslib-backend/internal/middleware"
	"github.com/benbeisheim/chesslib-backend/internal/service"
	"github.com/benbeisheim/chesslib-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
	log         *logger.Logger
}

func NewWebSocketController(gameService *service.GameService, log *logger.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         log.WithPrefix("ws"),
	}
}

// writeWait bounds how long one peer can hold up its match's command loop.
const writeWait = 5 * time.Second

type socket interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v any) error
	Close() error
}

// lockedConn serializes writes; the match goroutine and the read loop both
// write to the same socket. A write that misses its deadline fails and the
// match drops the connection.
type lockedConn struct {
	mu        sync.Mutex
	conn      socket
	writeWait time.Duration
}

func newLockedConn(conn socket) *lockedConn {
	return &lockedConn{conn: conn, writeWait: writeWait}
}

func (l *lockedConn) WriteJSON(v any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.conn.SetWriteDeadline(time.Now().Add(l.writeWait)); err != nil {
		return err
	}
	return l.conn.WriteJSON(v)
}

func (l *lockedConn) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.Close()
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDLocal).(string)
	log := wsc.log.WithField("game", gameID).WithField("player", playerID)
	ctx := logger.NewContext(context.Background(), log)

	conn := newLockedConn(c)
	if err := wsc.gameService.RegisterConnection(ctx, gameID, playerID, conn); err != nil {
		log.Warn("failed to register connection: %v", err)
		wsc.sendError(conn, err)
		conn.Close()
		return
	}
	log.Info("connection established")

	for {
		messageType, raw, err := c.ReadMessage()
		if err != nil {
			log.Debug("read error: %v", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if err := wsc.handleMessage(ctx, gameID, playerID, raw); err != nil {
			log.Debug("handle error: %v", err)
			wsc.sendError(conn, err)
		}
	}

	wsc.gameService.UnregisterConnection(ctx, gameID, playerID, conn)
	log.Info("connection closed")
}

// handleMessage accepts either a JSON envelope or a bare move command such
// as "GameMove:e2e4". Results reach the client through the match broadcast.
func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID, playerID string, raw []byte) error {
	if line := string(raw); ws.IsMoveCommand(line) {
		notation, err := ws.ParseMoveCommand(line)
		if err != nil {
			return apperrors.FromEngine(err)
		}
		_, err = wsc.gameService.HandleNotation(ctx, gameID, playerID, notation)
		return err
	}

	var msg ws.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return apperrors.NewBadRequestError("message is neither JSON nor a move command")
	}

	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := msg.Decode(&move); err != nil {
			return apperrors.NewBadRequestError("invalid move payload")
		}
		_, err := wsc.gameService.HandleMove(ctx, gameID, playerID, service.MoveRequest{
			From:      move.From,
			To:        move.To,
			Promotion: move.Promotion,
		})
		return err

	case ws.MessageTypePromote:
		var promote ws.PromotePayload
		if err := msg.Decode(&promote); err != nil {
			return apperrors.NewBadRequestError("invalid promote payload")
		}
		_, err := wsc.gameService.HandlePromote(ctx, gameID, playerID, promote.Piece)
		return err

	case ws.MessageTypeGameMove:
		var gm ws.GameMovePayload
		if err := msg.Decode(&gm); err != nil {
			return apperrors.NewBadRequestError("invalid gameMove payload")
		}
		_, err := wsc.gameService.HandleNotation(ctx, gameID, playerID, gm.Notation)
		return err

	case ws.MessageTypeResign:
		_, err := wsc.gameService.Resign(ctx, gameID, playerID)
		return err

	default:
		return apperrors.NewBadRequestError("unknown message type: " + string(msg.Type))
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(conn service.Conn, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError(err)
	}
	msg, mErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Code: appErr.Code, Message: appErr.Message})
	if mErr != nil {
		wsc.log.Error("encode error message: %v", mErr)
		return
	}
	if wErr := conn.WriteJSON(msg); wErr != nil {
		wsc.log.Debug("write error message: %v", wErr)
	}
}
