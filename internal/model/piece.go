package model

import "fmt"

type PieceColor string

const (
	White PieceColor = "white"
	Black PieceColor = "black"
)

func (c PieceColor) Opposite() PieceColor {
	if c == White {
		return Black
	}
	return White
}

func (c PieceColor) Valid() bool {
	return c == White || c == Black
}

// forward is the row direction pawns of this color advance in.
func (c PieceColor) forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c PieceColor) backRank() int {
	if c == White {
		return 0
	}
	return boardSize - 1
}

func (c PieceColor) pawnRank() int {
	if c == White {
		return 1
	}
	return boardSize - 2
}

// promotionRank is the row on which a pawn of this color promotes.
func (c PieceColor) promotionRank() int {
	return c.Opposite().backRank()
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Letter is the notation letter for the piece, empty for pawns.
func (p PieceType) Letter() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// CanPromoteTo reports whether a pawn may be promoted to p.
func (p PieceType) CanPromoteTo() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

func pieceTypeFromLetter(b byte) (PieceType, bool) {
	switch b {
	case 'K':
		return King, true
	case 'Q':
		return Queen, true
	case 'R':
		return Rook, true
	case 'B':
		return Bishop, true
	case 'N':
		return Knight, true
	}
	return "", false
}

// ParsePieceType accepts either the full name ("queen") or the letter ("Q").
func ParsePieceType(s string) (PieceType, error) {
	switch PieceType(s) {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return PieceType(s), nil
	}
	if len(s) == 1 {
		if t, ok := pieceTypeFromLetter(s[0]); ok {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown piece type %q", s)
}

type Piece struct {
	Type     PieceType  `json:"type"`
	Color    PieceColor `json:"color"`
	Coord    Coordinate `json:"coord"`
	HasMoved bool       `json:"hasMoved"`
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s@%s", p.Color, p.Type, p.Coord)
}
