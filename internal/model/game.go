package model

import (
	"fmt"
)

type GameState string

const (
	GameInProgress GameState = "in_progress"
	GameEnded      GameState = "ended"
)

type Outcome string

const (
	OutcomeOngoing   Outcome = "ongoing"
	OutcomeCheckmate Outcome = "checkmate"
	OutcomeStalemate Outcome = "stalemate"
	// OutcomeDecided is a win recorded without a mate on the board, such as a
	// resignation.
	OutcomeDecided Outcome = "decided"
)

// GameResult classifies a position. Loser is only set when there is a winner.
type GameResult struct {
	Outcome Outcome    `json:"outcome"`
	Loser   PieceColor `json:"loser,omitempty"`
}

// Winner returns the winning side. Stalemate has no winner.
func (r GameResult) Winner() (PieceColor, bool) {
	if r.Outcome != OutcomeCheckmate && r.Outcome != OutcomeDecided {
		return "", false
	}
	return r.Loser.Opposite(), true
}

// Game tracks sequencing and termination. It holds no board geometry and
// trusts the Board to have validated each move it is told about.
type Game struct {
	playerTurn  PieceColor
	moves       []string
	state       GameState
	result      GameResult
	winner      *PieceColor
	online      bool
	playerColor *PieceColor
}

func NewGame() *Game {
	return &Game{
		playerTurn: White,
		moves:      make([]string, 0),
		state:      GameInProgress,
		result:     GameResult{Outcome: OutcomeOngoing},
	}
}

func (g *Game) PlayerTurn() PieceColor {
	return g.playerTurn
}

func (g *Game) State() GameState {
	return g.state
}

func (g *Game) Result() GameResult {
	return g.result
}

// Moves returns a copy of the notation history in play order.
func (g *Game) Moves() []string {
	out := make([]string, len(g.moves))
	copy(out, g.moves)
	return out
}

func (g *Game) MovesLen() int {
	return len(g.moves)
}

// AddMove appends notation played by color and passes the turn.
func (g *Game) AddMove(notation string, color PieceColor) error {
	if g.state == GameEnded {
		return ErrGameEnded
	}
	if color != g.playerTurn {
		return fmt.Errorf("%w: %s moved but %s is to play", ErrOutOfTurn, color, g.playerTurn)
	}
	g.moves = append(g.moves, notation)
	g.playerTurn = color.Opposite()
	return nil
}

// RecordMove encodes a resolved result and appends it.
func (g *Game) RecordMove(result MoveResult) (string, error) {
	notation, err := MoveResultToString(result)
	if err != nil {
		return "", err
	}
	if err := g.AddMove(notation, result.Color); err != nil {
		return "", err
	}
	return notation, nil
}

// SetWinner records color as the winner and ends the game. The first winner
// recorded sticks; later calls return false and change nothing. A game that
// already ended drawn cannot gain a winner.
func (g *Game) SetWinner(color PieceColor) bool {
	if g.winner != nil || g.state == GameEnded {
		return false
	}
	c := color
	g.winner = &c
	g.state = GameEnded
	if g.result.Outcome == OutcomeOngoing {
		g.result = GameResult{Outcome: OutcomeDecided, Loser: color.Opposite()}
	}
	return true
}

func (g *Game) Winner() (PieceColor, bool) {
	if g.winner == nil {
		return "", false
	}
	return *g.winner, true
}

// Finish applies the terminal transition for a board result. Checkmate ends
// the game with a winner, stalemate ends it drawn, ongoing does nothing.
func (g *Game) Finish(result GameResult) error {
	if result.Outcome == OutcomeOngoing {
		return nil
	}
	if g.state == GameEnded {
		return ErrGameEnded
	}
	g.result = result
	if winner, ok := result.Winner(); ok {
		g.SetWinner(winner)
		return nil
	}
	g.state = GameEnded
	return nil
}

func (g *Game) Online() bool {
	return g.online
}

func (g *Game) SetOnline(online bool) {
	g.online = online
}

// PlayerColor is the local player's color in an online game.
func (g *Game) PlayerColor() (PieceColor, bool) {
	if g.playerColor == nil {
		return "", false
	}
	return *g.playerColor, true
}

func (g *Game) SetPlayerColor(color PieceColor) {
	c := color
	g.playerColor = &c
}
