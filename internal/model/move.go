package model

// MoveResult records one applied move.
type MoveResult struct {
	From               Coordinate `json:"from"`
	To                 Coordinate `json:"to"`
	Color              PieceColor `json:"color"`
	PieceType          PieceType  `json:"pieceType"`
	CapturedPiece      *Piece     `json:"capturedPiece"`
	IsCapture          bool       `json:"isCapture"`
	IsPromotion        bool       `json:"isPromotion"`
	PromotionType      PieceType  `json:"promotionType,omitempty"`
	IsShortCastle      bool       `json:"isShortCastle"`
	IsLongCastle       bool       `json:"isLongCastle"`
	IsEnPassant        bool       `json:"isEnPassant"`
	ResultsInCheck     bool       `json:"resultsInCheck"`
	ResultsInCheckmate bool       `json:"resultsInCheckmate"`
	// IsFromRemote marks moves that arrived over the wire; the engine ignores it.
	IsFromRemote bool `json:"isFromRemote"`
}

// SetPromotePiece fills in the promotion piece chosen after the move.
func (m *MoveResult) SetPromotePiece(t PieceType) {
	m.PromotionType = t
}

// Resolved reports whether the result can be written as notation.
func (m MoveResult) Resolved() bool {
	return !m.IsPromotion || m.PromotionType != ""
}

// MoveOutcome is what Board.MovePiece returns: either a MoveResult or a
// PendingPromotion.
type MoveOutcome interface {
	moveOutcome()
}

func (MoveResult) moveOutcome() {}

// PendingPromotion is a pawn move onto the last rank whose promotion piece has
// not been chosen yet. The pawn already stands on the destination square.
type PendingPromotion struct {
	partial MoveResult
}

func (PendingPromotion) moveOutcome() {}

// Result returns the partial move result. Its PromotionType is empty.
func (p PendingPromotion) Result() MoveResult {
	return p.partial
}

// Coord is the square of the pawn awaiting promotion.
func (p PendingPromotion) Coord() Coordinate {
	return p.partial.To
}

func (p PendingPromotion) Color() PieceColor {
	return p.partial.Color
}

// CastleRookMove describes the rook hop that accompanies castling.
type CastleRookMove struct {
	From Coordinate `json:"from"`
	To   Coordinate `json:"to"`
}

// SimpleMove is a from/to pair without any outcome data.
type SimpleMove struct {
	From Coordinate `json:"from"`
	To   Coordinate `json:"to"`
}
