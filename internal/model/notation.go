package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Notation carries both squares so it can be read without a board:
//
//	[KQRBN]<from>[x]<to>[=QRBN][+#]    e.g. e2e4, Ng1xf3+, e7e8=Q#
//	0-0, 0-0-0 (O-O and O-O-O are also read)
var notationPattern = regexp.MustCompile(
	`^(?:(0-0-0|O-O-O)|(0-0|O-O)|([KQRBN])?([a-h][1-8])(x)?([a-h][1-8])(?:=([QRBN]))?)([+#])?$`,
)

const (
	shortCastleNotation = "0-0"
	longCastleNotation  = "0-0-0"
)

// MoveResultToString writes the notation for a resolved move.
func MoveResultToString(m MoveResult) (string, error) {
	if !m.Resolved() {
		return "", fmt.Errorf("%w: %s to %s", ErrUnresolvedPromotion, m.From, m.To)
	}

	var sb strings.Builder
	switch {
	case m.IsShortCastle:
		sb.WriteString(shortCastleNotation)
	case m.IsLongCastle:
		sb.WriteString(longCastleNotation)
	default:
		sb.WriteString(m.PieceType.Letter())
		sb.WriteString(m.From.String())
		if m.IsCapture {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.IsPromotion {
			sb.WriteByte('=')
			sb.WriteString(m.PromotionType.Letter())
		}
	}

	switch {
	case m.ResultsInCheckmate:
		sb.WriteByte('#')
	case m.ResultsInCheck:
		sb.WriteByte('+')
	}
	return sb.String(), nil
}

// StringToMoveResult reads notation played by color. Only what the text says
// is filled in: a capture is flagged but the captured piece is unknown.
func StringToMoveResult(notation string, color PieceColor) (MoveResult, error) {
	if !color.Valid() {
		return MoveResult{}, fmt.Errorf("%w: unknown color %q", ErrMalformedNotation, color)
	}
	m := notationPattern.FindStringSubmatch(notation)
	if m == nil {
		return MoveResult{}, fmt.Errorf("%w: %q", ErrMalformedNotation, notation)
	}

	res := MoveResult{Color: color}
	switch m[8] {
	case "#":
		res.ResultsInCheck = true
		res.ResultsInCheckmate = true
	case "+":
		res.ResultsInCheck = true
	}

	if m[1] != "" || m[2] != "" {
		row := color.backRank()
		res.PieceType = King
		res.From = Coordinate{row: row, col: 4}
		if m[1] != "" {
			res.IsLongCastle = true
			res.To = Coordinate{row: row, col: 2}
		} else {
			res.IsShortCastle = true
			res.To = Coordinate{row: row, col: 6}
		}
		return res, nil
	}

	res.PieceType = Pawn
	if m[3] != "" {
		res.PieceType, _ = pieceTypeFromLetter(m[3][0])
	}
	// The pattern guarantees both squares are on the board.
	res.From = MustSquare(m[4])
	res.To = MustSquare(m[6])
	res.IsCapture = m[5] != ""

	toLastRank := res.To.row == color.promotionRank()
	switch {
	case m[7] != "":
		if res.PieceType != Pawn || !toLastRank {
			return MoveResult{}, fmt.Errorf("%w: %q promotes a %s off the last rank", ErrMalformedNotation, notation, res.PieceType)
		}
		res.IsPromotion = true
		res.PromotionType, _ = pieceTypeFromLetter(m[7][0])
	case res.PieceType == Pawn && toLastRank:
		return MoveResult{}, fmt.Errorf("%w: %q reaches the last rank without a promotion piece", ErrMalformedNotation, notation)
	}
	return res, nil
}

// ValidNotation reports whether s matches the notation grammar.
func ValidNotation(s string) bool {
	return notationPattern.MatchString(s)
}
