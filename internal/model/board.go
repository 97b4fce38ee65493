package model

import (
	"fmt"
)

type TileState string

const (
	TileInactive  TileState = "inactive"
	TileActive    TileState = "active"
	TileHighlight TileState = "highlight"
)

// Board owns the pieces and the per-tile UI annotations. It does not enforce
// whose turn it is; Game does.
type Board struct {
	squares          [boardSize * boardSize]*Piece
	tiles            [boardSize * boardSize]TileState
	selected         *Coordinate
	enPassantTarget  *Coordinate
	pendingPromotion *Coordinate
	toMove           PieceColor
}

var backRankOrder = [boardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position with white to move.
func NewBoard() *Board {
	b := NewEmptyBoard()
	for col := 0; col < boardSize; col++ {
		for _, color := range []PieceColor{White, Black} {
			b.Place(backRankOrder[col], color, Coordinate{row: color.backRank(), col: col})
			b.Place(Pawn, color, Coordinate{row: color.pawnRank(), col: col})
		}
	}
	return b
}

// NewEmptyBoard returns a board with no pieces and white to move.
func NewEmptyBoard() *Board {
	b := &Board{toMove: White}
	b.resetTiles()
	return b
}

// Place puts an unmoved piece on coord, replacing whatever was there.
func (b *Board) Place(t PieceType, color PieceColor, coord Coordinate) {
	b.squares[coord.Index()] = &Piece{Type: t, Color: color, Coord: coord}
}

// ClearTile removes any piece from coord.
func (b *Board) ClearTile(coord Coordinate) {
	b.squares[coord.Index()] = nil
	b.tiles[coord.Index()] = TileInactive
}

// SetToMove sets the side whose checkmate/stalemate status Result inspects.
// MovePiece keeps it current; this is for constructed positions.
func (b *Board) SetToMove(color PieceColor) {
	b.toMove = color
}

func (b *Board) ToMove() PieceColor {
	return b.toMove
}

// GetPiece returns a copy of the piece on coord.
func (b *Board) GetPiece(coord Coordinate) (Piece, bool) {
	p := b.squares[coord.Index()]
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

// Pieces returns copies of every piece of the given color in square order.
func (b *Board) Pieces(color PieceColor) []Piece {
	var pieces []Piece
	for _, p := range b.squares {
		if p != nil && p.Color == color {
			pieces = append(pieces, *p)
		}
	}
	return pieces
}

// EnPassantTarget is the square a pawn may capture onto en passant this move.
func (b *Board) EnPassantTarget() (Coordinate, bool) {
	if b.enPassantTarget == nil {
		return Coordinate{}, false
	}
	return *b.enPassantTarget, true
}

// PendingPromotionCoord returns the square of a pawn waiting for promotion.
func (b *Board) PendingPromotionCoord() (Coordinate, bool) {
	if b.pendingPromotion == nil {
		return Coordinate{}, false
	}
	return *b.pendingPromotion, true
}

func (b *Board) Clone() *Board {
	c := &Board{
		tiles:  b.tiles,
		toMove: b.toMove,
	}
	for i, p := range b.squares {
		if p != nil {
			cp := *p
			c.squares[i] = &cp
		}
	}
	c.selected = copyCoord(b.selected)
	c.enPassantTarget = copyCoord(b.enPassantTarget)
	c.pendingPromotion = copyCoord(b.pendingPromotion)
	return c
}

func copyCoord(c *Coordinate) *Coordinate {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// MovePiece validates and plays from-to. A pawn reaching the last rank yields
// a PendingPromotion that must be finished with CompletePromotion before any
// other move is accepted. The board is left untouched on error.
func (b *Board) MovePiece(from, to Coordinate) (MoveOutcome, error) {
	if b.pendingPromotion != nil {
		return nil, fmt.Errorf("%w at %s", ErrPromotionPending, *b.pendingPromotion)
	}
	piece := b.squares[from.Index()]
	if piece == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, from)
	}
	if !containsCoord(b.LegalDestinations(from), to) {
		return nil, fmt.Errorf("%w: %s %s to %s", ErrIllegalMove, piece.Type, from, to)
	}

	next := b.Clone()
	result := next.apply(from, to)
	if next.InCheck(result.Color) {
		return nil, fmt.Errorf("%w: %s to %s leaves the %s king in check", ErrIllegalMove, from, to, result.Color)
	}

	opponent := result.Color.Opposite()
	next.toMove = opponent
	result.ResultsInCheck = next.InCheck(opponent)
	if result.IsPromotion {
		next.pendingPromotion = &to
	} else {
		result.ResultsInCheckmate = result.ResultsInCheck && !next.hasLegalMove(opponent)
	}
	next.resetTiles()
	*b = *next

	if result.IsPromotion {
		return PendingPromotion{partial: result}, nil
	}
	return result, nil
}

// apply moves the piece without any legality checks and returns the partial
// result. Check flags are left for the caller.
func (b *Board) apply(from, to Coordinate) MoveResult {
	piece := b.squares[from.Index()]
	res := MoveResult{
		From:      from,
		To:        to,
		Color:     piece.Color,
		PieceType: piece.Type,
	}

	if captured := b.squares[to.Index()]; captured != nil {
		cp := *captured
		res.CapturedPiece = &cp
		res.IsCapture = true
	} else if b.isEnPassantCapture(piece, from, to) {
		victim := Coordinate{row: from.row, col: to.col}
		cp := *b.squares[victim.Index()]
		res.CapturedPiece = &cp
		res.IsCapture = true
		res.IsEnPassant = true
		b.squares[victim.Index()] = nil
	}

	if rookMove := castleRookMove(piece, from, to); rookMove != nil {
		rook := b.squares[rookMove.From.Index()]
		b.squares[rookMove.From.Index()] = nil
		rook.Coord = rookMove.To
		rook.HasMoved = true
		b.squares[rookMove.To.Index()] = rook
		if to.col > from.col {
			res.IsShortCastle = true
		} else {
			res.IsLongCastle = true
		}
	}

	b.squares[from.Index()] = nil
	piece.Coord = to
	piece.HasMoved = true
	b.squares[to.Index()] = piece

	b.enPassantTarget = nil
	if piece.Type == Pawn {
		if abs(to.row-from.row) == 2 {
			b.enPassantTarget = &Coordinate{row: (from.row + to.row) / 2, col: from.col}
		}
		if to.row == piece.Color.promotionRank() {
			res.IsPromotion = true
		}
	}
	return res
}

func (b *Board) isEnPassantCapture(piece *Piece, from, to Coordinate) bool {
	return piece.Type == Pawn &&
		b.enPassantTarget != nil &&
		*b.enPassantTarget == to &&
		from.col != to.col &&
		b.squares[to.Index()] == nil
}

// castleRookMove returns the rook hop when a king move from-to is a castle.
func castleRookMove(piece *Piece, from, to Coordinate) *CastleRookMove {
	if piece.Type != King || abs(to.col-from.col) != 2 {
		return nil
	}
	if to.col > from.col {
		return &CastleRookMove{
			From: Coordinate{row: from.row, col: boardSize - 1},
			To:   Coordinate{row: from.row, col: to.col - 1},
		}
	}
	return &CastleRookMove{
		From: Coordinate{row: from.row, col: 0},
		To:   Coordinate{row: from.row, col: to.col + 1},
	}
}

// SetNewTile replaces whatever is on coord with a new piece. It performs no
// legality checks and is used to finish a promotion.
func (b *Board) SetNewTile(coord Coordinate, t PieceType, color PieceColor) {
	b.squares[coord.Index()] = &Piece{Type: t, Color: color, Coord: coord, HasMoved: true}
	b.tiles[coord.Index()] = TileInactive
	if b.pendingPromotion != nil && *b.pendingPromotion == coord {
		b.pendingPromotion = nil
	}
}

// CompletePromotion swaps the pending pawn for t and returns the resolved
// move result with check status recomputed for the promoted piece.
func (b *Board) CompletePromotion(p PendingPromotion, t PieceType) (MoveResult, error) {
	if !t.CanPromoteTo() {
		return MoveResult{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, t)
	}
	if b.pendingPromotion == nil || *b.pendingPromotion != p.Coord() {
		return MoveResult{}, fmt.Errorf("%w: no promotion pending at %s", ErrInvalidPromotion, p.Coord())
	}

	b.SetNewTile(p.Coord(), t, p.Color())

	res := p.Result()
	res.SetPromotePiece(t)
	opponent := res.Color.Opposite()
	res.ResultsInCheck = b.InCheck(opponent)
	res.ResultsInCheckmate = res.ResultsInCheck && !b.hasLegalMove(opponent)
	return res, nil
}

// IsCheckmate returns the color that is checkmated, if any.
func (b *Board) IsCheckmate() (PieceColor, bool) {
	if b.pendingPromotion != nil {
		return "", false
	}
	if b.InCheck(b.toMove) && !b.hasLegalMove(b.toMove) {
		return b.toMove, true
	}
	return "", false
}

// Result classifies the position for the side to move.
func (b *Board) Result() GameResult {
	if b.pendingPromotion != nil || b.hasLegalMove(b.toMove) {
		return GameResult{Outcome: OutcomeOngoing}
	}
	if b.InCheck(b.toMove) {
		return GameResult{Outcome: OutcomeCheckmate, Loser: b.toMove}
	}
	return GameResult{Outcome: OutcomeStalemate}
}

// InCheck reports whether color's king is attacked. A side without a king is
// never in check.
func (b *Board) InCheck(color PieceColor) bool {
	king, ok := b.kingCoord(color)
	if !ok {
		return false
	}
	return b.isSquareAttacked(king, color.Opposite())
}

func (b *Board) kingCoord(color PieceColor) (Coordinate, bool) {
	for _, p := range b.squares {
		if p != nil && p.Type == King && p.Color == color {
			return p.Coord, true
		}
	}
	return Coordinate{}, false
}

func (b *Board) hasLegalMove(color PieceColor) bool {
	for _, p := range b.squares {
		if p != nil && p.Color == color && len(b.legalDestinations(p.Coord)) > 0 {
			return true
		}
	}
	return false
}

// Tile annotations. None of these affect legality.

func (b *Board) TileState(coord Coordinate) TileState {
	return b.tiles[coord.Index()]
}

func (b *Board) SetTileState(coord Coordinate, state TileState) {
	b.tiles[coord.Index()] = state
	if state == TileActive {
		c := coord
		b.selected = &c
	} else if b.selected != nil && *b.selected == coord {
		b.selected = nil
	}
}

// ClearActiveTiles deactivates the selected tile, leaving highlights alone.
func (b *Board) ClearActiveTiles() {
	for i, s := range b.tiles {
		if s == TileActive {
			b.tiles[i] = TileInactive
		}
	}
	b.selected = nil
}

func (b *Board) ClearHighlights() {
	b.resetTiles()
}

// HighlightMoves marks every legal destination of the piece on coord.
func (b *Board) HighlightMoves(coord Coordinate) {
	for _, to := range b.LegalDestinations(coord) {
		b.tiles[to.Index()] = TileHighlight
	}
}

// SelectTile clears previous annotations and, if coord holds a piece, marks it
// active and highlights its moves.
func (b *Board) SelectTile(coord Coordinate) bool {
	b.resetTiles()
	if b.squares[coord.Index()] == nil {
		return false
	}
	b.SetTileState(coord, TileActive)
	b.HighlightMoves(coord)
	return true
}

func (b *Board) SelectedCoord() (Coordinate, bool) {
	if b.selected == nil {
		return Coordinate{}, false
	}
	return *b.selected, true
}

func (b *Board) resetTiles() {
	for i := range b.tiles {
		b.tiles[i] = TileInactive
	}
	b.selected = nil
}

func containsCoord(coords []Coordinate, c Coordinate) bool {
	for _, x := range coords {
		if x == c {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
