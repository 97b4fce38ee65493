package model

import (
	"fmt"
	"strconv"
	"strings"
)

// History strings pair moves by turn: "1.e2e4 e7e5,2.Ng1f3". The final turn
// may lack Black's reply.
const (
	turnSeparator = ","
	turnPrefixEnd = "."
)

// MovePair is one turn of a history. Black is empty when Black has not
// replied yet.
type MovePair struct {
	White string `json:"white"`
	Black string `json:"black,omitempty"`
}

func (p MovePair) HasBlack() bool {
	return p.Black != ""
}

// HistoryToString serializes the game's moves.
func HistoryToString(g *Game) string {
	moves := g.Moves()
	turns := make([]string, 0, (len(moves)+1)/2)
	for i := 0; i < len(moves); i += 2 {
		turn := strconv.Itoa(i/2+1) + turnPrefixEnd + moves[i]
		if i+1 < len(moves) {
			turn += " " + moves[i+1]
		}
		turns = append(turns, turn)
	}
	return strings.Join(turns, turnSeparator)
}

// SplitAllMoves parses a history string into per-turn pairs. Turn numbers are
// optional, whitespace is free and a trailing separator is ignored. Only the
// last turn may be missing Black's move.
func SplitAllMoves(history string) ([]MovePair, error) {
	pairs := []MovePair{}
	for _, chunk := range strings.Split(history, turnSeparator) {
		fields := strings.Fields(chunk)
		if len(fields) == 0 {
			continue
		}
		if len(pairs) > 0 && !pairs[len(pairs)-1].HasBlack() {
			return nil, fmt.Errorf("%w: turn %d has no black move but more turns follow", ErrMalformedNotation, len(pairs))
		}

		fields, err := stripTurnNumber(fields)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 || len(fields) > 2 {
			return nil, fmt.Errorf("%w: turn %q", ErrMalformedNotation, strings.TrimSpace(chunk))
		}
		for _, f := range fields {
			if !ValidNotation(f) {
				return nil, fmt.Errorf("%w: %q", ErrMalformedNotation, f)
			}
		}

		pair := MovePair{White: fields[0]}
		if len(fields) == 2 {
			pair.Black = fields[1]
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// stripTurnNumber removes a leading "12." whether or not it is glued to the
// first move.
func stripTurnNumber(fields []string) ([]string, error) {
	first := fields[0]
	idx := strings.Index(first, turnPrefixEnd)
	if idx < 0 {
		return fields, nil
	}
	if _, err := strconv.Atoi(first[:idx]); err != nil {
		return nil, fmt.Errorf("%w: turn number %q", ErrMalformedNotation, first[:idx+1])
	}
	rest := first[idx+1:]
	if rest == "" {
		return fields[1:], nil
	}
	out := append([]string{rest}, fields[1:]...)
	return out, nil
}

// MovesFromString flattens a history string into notations in play order.
func MovesFromString(history string) ([]string, error) {
	pairs, err := SplitAllMoves(history)
	if err != nil {
		return nil, err
	}
	moves := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		moves = append(moves, p.White)
		if p.HasBlack() {
			moves = append(moves, p.Black)
		}
	}
	return moves, nil
}

// Replay plays a history string from the starting position and returns the
// resulting board and game. A mate or stalemate ends the game; any move
// after that fails with ErrGameEnded.
func Replay(history string) (*Board, *Game, error) {
	moves, err := MovesFromString(history)
	if err != nil {
		return nil, nil, err
	}

	board := NewBoard()
	game := NewGame()
	for i, notation := range moves {
		if game.State() == GameEnded {
			return nil, nil, fmt.Errorf("move %d %q: %w", i+1, notation, ErrGameEnded)
		}
		result, err := PlayNotation(board, notation, game.PlayerTurn())
		if err != nil {
			return nil, nil, fmt.Errorf("move %d %q: %w", i+1, notation, err)
		}
		if _, err := game.RecordMove(result); err != nil {
			return nil, nil, fmt.Errorf("move %d %q: %w", i+1, notation, err)
		}
		if err := game.Finish(board.Result()); err != nil {
			return nil, nil, err
		}
	}
	return board, game, nil
}

// PlayMove runs both promotion phases at once when the piece is already
// known. A pawn reaching the last rank with no promotion piece fails with
// ErrUnresolvedPromotion, and a promotion piece on any other move fails with
// ErrInvalidPromotion, both before the board is touched.
func PlayMove(board *Board, from, to Coordinate, promotion PieceType) (MoveResult, error) {
	if piece, ok := board.GetPiece(from); ok {
		promotes := piece.Type == Pawn && to.row == piece.Color.promotionRank()
		switch {
		case promotes && promotion == "":
			return MoveResult{}, fmt.Errorf("%w: %s to %s", ErrUnresolvedPromotion, from, to)
		case promotes && !promotion.CanPromoteTo():
			return MoveResult{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, promotion)
		case !promotes && promotion != "":
			return MoveResult{}, fmt.Errorf("%w: %s %s to %s does not promote", ErrInvalidPromotion, piece.Type, from, to)
		}
	}

	outcome, err := board.MovePiece(from, to)
	if err != nil {
		return MoveResult{}, err
	}
	switch o := outcome.(type) {
	case PendingPromotion:
		return board.CompletePromotion(o, promotion)
	case MoveResult:
		return o, nil
	}
	return MoveResult{}, fmt.Errorf("unexpected move outcome %T", outcome)
}

// PlayNotation plays notation for color. The notation must describe the move
// exactly as it would be recorded: piece letter, capture marker, castle form
// and check suffix all have to agree with what the move does. On any error
// the board is left untouched.
func PlayNotation(board *Board, notation string, color PieceColor) (MoveResult, error) {
	claimed, err := StringToMoveResult(notation, color)
	if err != nil {
		return MoveResult{}, err
	}
	if piece, ok := board.GetPiece(claimed.From); ok && piece.Color != color {
		return MoveResult{}, fmt.Errorf("%w: %s belongs to %s", ErrIllegalMove, claimed.From, piece.Color)
	}

	next := board.Clone()
	result, err := PlayMove(next, claimed.From, claimed.To, claimed.PromotionType)
	if err != nil {
		return MoveResult{}, err
	}

	want, err := MoveResultToString(claimed)
	if err != nil {
		return MoveResult{}, err
	}
	got, err := MoveResultToString(result)
	if err != nil {
		return MoveResult{}, err
	}
	if want != got {
		return MoveResult{}, fmt.Errorf("%w: %q does not match the move played, %q", ErrMalformedNotation, notation, got)
	}

	*board = *next
	return result, nil
}
