package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chesslib-backend/internal/logger"
	"github.com/benbeisheim/chesslib-backend/internal/model"
	"github.com/benbeisheim/chesslib-backend/internal/repository"
	"github.com/benbeisheim/chesslib-backend/internal/ws"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchFull     = errors.New("match already has two players")
	ErrNotSeated     = errors.New("player is not seated in this match")
	ErrMatchClosed   = errors.New("match closed")
)

// Conn is the part of a websocket connection a match writes to.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// MatchState is the client view of a match.
type MatchState struct {
	ID       string              `json:"id"`
	Board    model.BoardSnapshot `json:"board"`
	Turn     model.PieceColor    `json:"turn"`
	State    model.GameState     `json:"state"`
	Result   model.GameResult    `json:"result"`
	Winner   model.PieceColor    `json:"winner,omitempty"`
	White    string              `json:"white,omitempty"`
	Black    string              `json:"black,omitempty"`
	History  string              `json:"history"`
	LastMove string              `json:"lastMove,omitempty"`
	Clocks   model.ClockView     `json:"clocks"`
}

// MoveResponse is returned for every accepted move. When PendingPromotion is
// set the pawn stands on the last rank and Notation is empty until a promote
// command names the piece.
type MoveResponse struct {
	Notation         string            `json:"notation,omitempty"`
	Result           *model.MoveResult `json:"result,omitempty"`
	PendingPromotion bool              `json:"pendingPromotion"`
	State            MatchState        `json:"state"`
}

type HistoryView struct {
	ID      string           `json:"id"`
	History string           `json:"history"`
	Turns   []model.MovePair `json:"turns"`
}

type command struct {
	ctx   context.Context
	fn    func(ctx context.Context) error
	reply chan error
}

// Match owns one board and game. All access goes through its command loop,
// so commands for one match are applied one at a time in arrival order.
type Match struct {
	id        string
	createdAt time.Time

	board    *model.Board
	game     *model.Game
	clocks   *model.Clocks
	pending  *model.PendingPromotion
	lastMove string

	seats map[model.PieceColor]string
	conns map[string]Conn

	store repository.HistoryRepository
	log   *logger.Logger

	cmds      chan command
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type matchOptions struct {
	white     string
	black     string
	clockTime time.Duration
	queueSize int
	store     repository.HistoryRepository
	log       *logger.Logger
}

func newMatch(id string, board *model.Board, game *model.Game, opts matchOptions) *Match {
	m := &Match{
		id:        id,
		createdAt: time.Now(),
		board:     board,
		game:      game,
		clocks:    model.NewClocks(opts.clockTime),
		seats:     make(map[model.PieceColor]string),
		conns:     make(map[string]Conn),
		store:     opts.store,
		log:       opts.log.WithPrefix("match").WithField("match", id),
		cmds:      make(chan command, opts.queueSize),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	if opts.white != "" {
		m.seats[model.White] = opts.white
	}
	if opts.black != "" {
		m.seats[model.Black] = opts.black
	}
	if len(m.seats) == 2 {
		game.SetOnline(true)
		if game.State() == model.GameInProgress {
			m.clocks.For(game.PlayerTurn()).Start()
		}
	}
	go m.run()
	return m
}

func (m *Match) ID() string {
	return m.id
}

func (m *Match) run() {
	defer close(m.done)
	for {
		select {
		case cmd := <-m.cmds:
			if err := cmd.ctx.Err(); err != nil {
				cmd.reply <- err
				continue
			}
			cmd.reply <- cmd.fn(cmd.ctx)
		case <-m.quit:
			return
		}
	}
}

// exec runs fn on the match goroutine and waits for it to finish.
func (m *Match) exec(ctx context.Context, fn func(ctx context.Context) error) error {
	cmd := command{ctx: ctx, fn: fn, reply: make(chan error, 1)}
	select {
	case m.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return ErrMatchClosed
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return ErrMatchClosed
	}
}

// Close stops the command loop and drops all connections.
func (m *Match) Close() {
	m.closeOnce.Do(func() {
		close(m.quit)
		<-m.done
		for id, conn := range m.conns {
			conn.Close()
			delete(m.conns, id)
		}
		m.clocks.StopAll()
		m.log.Debug("match closed")
	})
}

// Join seats playerID, white first. Joining again returns the same color.
func (m *Match) Join(ctx context.Context, playerID string) (model.PieceColor, error) {
	var color model.PieceColor
	err := m.exec(ctx, func(ctx context.Context) error {
		if c, ok := m.seatOf(playerID); ok {
			color = c
			return nil
		}
		for _, c := range []model.PieceColor{model.White, model.Black} {
			if _, taken := m.seats[c]; !taken {
				m.seats[c] = playerID
				color = c
				m.log.Info("player %s seated as %s", playerID, c)
				if len(m.seats) == 2 {
					m.game.SetOnline(true)
					m.clocks.For(m.game.PlayerTurn()).Start()
				}
				m.persist(ctx)
				m.broadcastState()
				return nil
			}
		}
		return ErrMatchFull
	})
	return color, err
}

// Move plays from-to for playerID. promotion may be empty, in which case a
// pawn reaching the last rank leaves the match waiting for Promote.
func (m *Match) Move(ctx context.Context, playerID, from, to, promotion string) (MoveResponse, error) {
	var resp MoveResponse
	err := m.exec(ctx, func(ctx context.Context) error {
		color, err := m.turnCheck(playerID)
		if err != nil {
			return err
		}
		fromSq, err := model.ParseSquare(from)
		if err != nil {
			return err
		}
		toSq, err := model.ParseSquare(to)
		if err != nil {
			return err
		}
		var promoteTo model.PieceType
		if promotion != "" {
			if promoteTo, err = model.ParsePieceType(promotion); err != nil {
				return fmt.Errorf("%w: %v", model.ErrInvalidPromotion, err)
			}
		}
		resp, err = m.play(ctx, color, fromSq, toSq, promoteTo)
		return err
	})
	return resp, err
}

// PlayNotation plays a move written in notation, as received in a
// "GameMove:" command.
func (m *Match) PlayNotation(ctx context.Context, playerID, notation string) (MoveResponse, error) {
	var resp MoveResponse
	err := m.exec(ctx, func(ctx context.Context) error {
		color, err := m.turnCheck(playerID)
		if err != nil {
			return err
		}
		res, err := model.PlayNotation(m.board, notation, color)
		if err != nil {
			return err
		}
		resp, err = m.record(ctx, res)
		return err
	})
	return resp, err
}

// Promote finishes a pending promotion.
func (m *Match) Promote(ctx context.Context, playerID, piece string) (MoveResponse, error) {
	var resp MoveResponse
	err := m.exec(ctx, func(ctx context.Context) error {
		color, ok := m.seatOf(playerID)
		if !ok {
			return ErrNotSeated
		}
		if m.pending == nil {
			return fmt.Errorf("%w: nothing to promote", model.ErrInvalidPromotion)
		}
		if m.pending.Color() != color {
			return fmt.Errorf("%w: the promotion belongs to %s", model.ErrOutOfTurn, m.pending.Color())
		}
		t, err := model.ParsePieceType(piece)
		if err != nil {
			return fmt.Errorf("%w: %v", model.ErrInvalidPromotion, err)
		}
		res, err := m.board.CompletePromotion(*m.pending, t)
		if err != nil {
			return err
		}
		m.pending = nil
		resp, err = m.record(ctx, res)
		return err
	})
	return resp, err
}

// Resign ends the game in the opponent's favor.
func (m *Match) Resign(ctx context.Context, playerID string) (MatchState, error) {
	var state MatchState
	err := m.exec(ctx, func(ctx context.Context) error {
		color, ok := m.seatOf(playerID)
		if !ok {
			return ErrNotSeated
		}
		if !m.game.SetWinner(color.Opposite()) {
			return model.ErrGameEnded
		}
		m.clocks.StopAll()
		m.log.Info("%s resigned", color)
		m.persist(ctx)
		m.broadcastState()
		state = m.state()
		return nil
	})
	return state, err
}

func (m *Match) State(ctx context.Context) (MatchState, error) {
	var state MatchState
	err := m.exec(ctx, func(ctx context.Context) error {
		state = m.state()
		return nil
	})
	return state, err
}

func (m *Match) History(ctx context.Context) (HistoryView, error) {
	var view HistoryView
	err := m.exec(ctx, func(ctx context.Context) error {
		history := model.HistoryToString(m.game)
		turns, err := model.SplitAllMoves(history)
		if err != nil {
			return err
		}
		view = HistoryView{ID: m.id, History: history, Turns: turns}
		return nil
	})
	return view, err
}

// Seated reports whether playerID holds a color in this match.
func (m *Match) Seated(ctx context.Context, playerID string) (model.PieceColor, bool, error) {
	var (
		color model.PieceColor
		ok    bool
	)
	err := m.exec(ctx, func(ctx context.Context) error {
		color, ok = m.seatOf(playerID)
		return nil
	})
	return color, ok, err
}

// Attach registers conn for playerID and sends it the current state.
// Spectators may attach without a seat.
func (m *Match) Attach(ctx context.Context, playerID string, conn Conn) error {
	return m.exec(ctx, func(ctx context.Context) error {
		if old, ok := m.conns[playerID]; ok && old != conn {
			old.Close()
		}
		m.conns[playerID] = conn
		m.log.Debug("connection attached for %s", playerID)
		m.send(playerID, conn, ws.MessageTypeGameState, m.state())
		return nil
	})
}

func (m *Match) Detach(ctx context.Context, playerID string, conn Conn) error {
	return m.exec(ctx, func(ctx context.Context) error {
		if cur, ok := m.conns[playerID]; ok && cur == conn {
			delete(m.conns, playerID)
			m.log.Debug("connection detached for %s", playerID)
		}
		return nil
	})
}

// The helpers below run on the match goroutine only.

func (m *Match) seatOf(playerID string) (model.PieceColor, bool) {
	for color, id := range m.seats {
		if id == playerID {
			return color, true
		}
	}
	return "", false
}

func (m *Match) turnCheck(playerID string) (model.PieceColor, error) {
	color, ok := m.seatOf(playerID)
	if !ok {
		return "", ErrNotSeated
	}
	if m.game.State() == model.GameEnded {
		return "", model.ErrGameEnded
	}
	if m.pending != nil {
		return "", fmt.Errorf("%w at %s", model.ErrPromotionPending, m.pending.Coord())
	}
	if color != m.game.PlayerTurn() {
		return "", fmt.Errorf("%w: %s is to play", model.ErrOutOfTurn, m.game.PlayerTurn())
	}
	return color, nil
}

func (m *Match) play(ctx context.Context, color model.PieceColor, from, to model.Coordinate, promotion model.PieceType) (MoveResponse, error) {
	piece, ok := m.board.GetPiece(from)
	if !ok {
		return MoveResponse{}, fmt.Errorf("%w: %s", model.ErrEmptySource, from)
	}
	if piece.Color != color {
		return MoveResponse{}, fmt.Errorf("%w: %s belongs to %s", model.ErrIllegalMove, from, piece.Color)
	}

	if promotion != "" {
		res, err := model.PlayMove(m.board, from, to, promotion)
		if err != nil {
			return MoveResponse{}, err
		}
		return m.record(ctx, res)
	}

	outcome, err := m.board.MovePiece(from, to)
	if err != nil {
		return MoveResponse{}, err
	}
	switch o := outcome.(type) {
	case model.PendingPromotion:
		m.pending = &o
		m.log.Debug("%s pawn on %s awaiting promotion", color, o.Coord())
		m.broadcastState()
		partial := o.Result()
		return MoveResponse{Result: &partial, PendingPromotion: true, State: m.state()}, nil
	case model.MoveResult:
		return m.record(ctx, o)
	}
	return MoveResponse{}, fmt.Errorf("unexpected move outcome %T", outcome)
}

// record appends a resolved move, applies any terminal transition and tells
// everyone about it.
func (m *Match) record(ctx context.Context, res model.MoveResult) (MoveResponse, error) {
	notation, err := m.game.RecordMove(res)
	if err != nil {
		return MoveResponse{}, err
	}
	m.lastMove = notation
	if err := m.game.Finish(m.board.Result()); err != nil {
		return MoveResponse{}, err
	}

	if m.game.State() == model.GameEnded {
		m.clocks.StopAll()
		m.log.Info("game over: %s", m.game.Result().Outcome)
	} else {
		m.clocks.Switch(res.Color)
	}
	m.log.Debug("%s played %s", res.Color, notation)

	m.persist(ctx)
	m.broadcast(ws.MessageTypeGameMove, ws.GameMovePayload{Notation: notation})
	m.broadcastState()
	return MoveResponse{Notation: notation, Result: &res, State: m.state()}, nil
}

func (m *Match) state() MatchState {
	s := MatchState{
		ID:       m.id,
		Board:    m.board.Snapshot(),
		Turn:     m.game.PlayerTurn(),
		State:    m.game.State(),
		Result:   m.game.Result(),
		White:    m.seats[model.White],
		Black:    m.seats[model.Black],
		History:  model.HistoryToString(m.game),
		LastMove: m.lastMove,
		Clocks:   m.clocks.View(),
	}
	if w, ok := m.game.Winner(); ok {
		s.Winner = w
	}
	return s
}

func (m *Match) historyRecord() repository.GameRecord {
	rec := repository.GameRecord{
		ID:      m.id,
		History: model.HistoryToString(m.game),
		State:   string(m.game.State()),
		WhiteID: m.seats[model.White],
		BlackID: m.seats[model.Black],
	}
	if w, ok := m.game.Winner(); ok {
		rec.Winner = string(w)
	}
	return rec
}

// persist saves the history. A failed save is logged; the in-memory match
// stays authoritative.
func (m *Match) persist(ctx context.Context) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, m.historyRecord()); err != nil {
		m.log.Error("failed to persist history: %v", err)
	}
}

// persistNow saves the history on the match goroutine and reports failures.
func (m *Match) persistNow(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	return m.exec(ctx, func(ctx context.Context) error {
		return m.store.Save(ctx, m.historyRecord())
	})
}

func (m *Match) broadcastState() {
	m.broadcast(ws.MessageTypeGameState, m.state())
}

func (m *Match) broadcast(t ws.MessageType, payload any) {
	for id, conn := range m.conns {
		m.send(id, conn, t, payload)
	}
}

func (m *Match) send(playerID string, conn Conn, t ws.MessageType, payload any) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		m.log.Error("failed to encode %s message: %v", t, err)
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		m.log.Warn("dropping connection for %s: %v", playerID, err)
		conn.Close()
		delete(m.conns, playerID)
	}
}
