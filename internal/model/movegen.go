package model

var (
	rookDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightDirs = [][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// LegalDestinations returns every square the piece on from may move to
// without leaving its own king in check. It is empty while a promotion is
// pending, since MovePiece accepts nothing until it is resolved.
func (b *Board) LegalDestinations(from Coordinate) []Coordinate {
	if b.pendingPromotion != nil {
		return []Coordinate{}
	}
	return b.legalDestinations(from)
}

func (b *Board) legalDestinations(from Coordinate) []Coordinate {
	piece := b.squares[from.Index()]
	if piece == nil {
		return nil
	}
	legal := []Coordinate{}
	for _, to := range b.pseudoDestinations(piece) {
		sim := b.Clone()
		sim.apply(from, to)
		if !sim.InCheck(piece.Color) {
			legal = append(legal, to)
		}
	}
	return legal
}

// LegalMoves returns every legal move for color.
func (b *Board) LegalMoves(color PieceColor) []SimpleMove {
	moves := []SimpleMove{}
	for _, p := range b.squares {
		if p == nil || p.Color != color {
			continue
		}
		for _, to := range b.LegalDestinations(p.Coord) {
			moves = append(moves, SimpleMove{From: p.Coord, To: to})
		}
	}
	return moves
}

// pseudoDestinations follows the movement rules of the piece but ignores
// whether the move exposes its own king.
func (b *Board) pseudoDestinations(piece *Piece) []Coordinate {
	switch piece.Type {
	case Pawn:
		return b.pawnDestinations(piece)
	case Knight:
		return b.stepDestinations(piece, knightDirs)
	case Bishop:
		return b.slideDestinations(piece, bishopDirs)
	case Rook:
		return b.slideDestinations(piece, rookDirs)
	case Queen:
		return b.slideDestinations(piece, kingDirs)
	case King:
		return append(b.stepDestinations(piece, kingDirs), b.castleDestinations(piece)...)
	}
	return nil
}

func (b *Board) slideDestinations(piece *Piece, dirs [][2]int) []Coordinate {
	var dests []Coordinate
	for _, dir := range dirs {
		target, ok := piece.Coord.offset(dir[0], dir[1])
		for ok {
			occupant := b.squares[target.Index()]
			if occupant == nil {
				dests = append(dests, target)
			} else {
				if occupant.Color != piece.Color {
					dests = append(dests, target)
				}
				break
			}
			target, ok = target.offset(dir[0], dir[1])
		}
	}
	return dests
}

func (b *Board) stepDestinations(piece *Piece, offsets [][2]int) []Coordinate {
	var dests []Coordinate
	for _, off := range offsets {
		target, ok := piece.Coord.offset(off[0], off[1])
		if !ok {
			continue
		}
		if occupant := b.squares[target.Index()]; occupant == nil || occupant.Color != piece.Color {
			dests = append(dests, target)
		}
	}
	return dests
}

func (b *Board) pawnDestinations(piece *Piece) []Coordinate {
	var dests []Coordinate
	fwd := piece.Color.forward()

	if one, ok := piece.Coord.offset(fwd, 0); ok && b.squares[one.Index()] == nil {
		dests = append(dests, one)
		if piece.Coord.row == piece.Color.pawnRank() {
			if two, ok := piece.Coord.offset(2*fwd, 0); ok && b.squares[two.Index()] == nil {
				dests = append(dests, two)
			}
		}
	}

	for _, side := range []int{-1, 1} {
		target, ok := piece.Coord.offset(fwd, side)
		if !ok {
			continue
		}
		occupant := b.squares[target.Index()]
		switch {
		case occupant != nil && occupant.Color != piece.Color:
			dests = append(dests, target)
		case occupant == nil && b.enPassantTarget != nil && *b.enPassantTarget == target:
			victim := b.squares[Coordinate{row: piece.Coord.row, col: target.col}.Index()]
			if victim != nil && victim.Type == Pawn && victim.Color != piece.Color {
				dests = append(dests, target)
			}
		}
	}
	return dests
}

// castleDestinations returns the king's castling squares. The king may not
// castle out of, through, or into check.
func (b *Board) castleDestinations(king *Piece) []Coordinate {
	home := Coordinate{row: king.Color.backRank(), col: 4}
	if king.HasMoved || king.Coord != home {
		return nil
	}
	enemy := king.Color.Opposite()
	if b.isSquareAttacked(home, enemy) {
		return nil
	}

	var dests []Coordinate
	row := home.row
	if b.canCastle(king.Color, Coordinate{row: row, col: 7}, []int{5, 6}, []int{5, 6}) {
		dests = append(dests, Coordinate{row: row, col: 6})
	}
	if b.canCastle(king.Color, Coordinate{row: row, col: 0}, []int{1, 2, 3}, []int{2, 3}) {
		dests = append(dests, Coordinate{row: row, col: 2})
	}
	return dests
}

func (b *Board) canCastle(color PieceColor, rookAt Coordinate, empty, safe []int) bool {
	rook := b.squares[rookAt.Index()]
	if rook == nil || rook.Type != Rook || rook.Color != color || rook.HasMoved {
		return false
	}
	for _, col := range empty {
		if b.squares[Coordinate{row: rookAt.row, col: col}.Index()] != nil {
			return false
		}
	}
	for _, col := range safe {
		if b.isSquareAttacked(Coordinate{row: rookAt.row, col: col}, color.Opposite()) {
			return false
		}
	}
	return true
}

// isSquareAttacked reports whether any piece of attacker could capture on sq.
func (b *Board) isSquareAttacked(sq Coordinate, attacker PieceColor) bool {
	if b.attackedAlong(sq, attacker, rookDirs, Rook) || b.attackedAlong(sq, attacker, bishopDirs, Bishop) {
		return true
	}
	if b.attackedFrom(sq, attacker, knightDirs, Knight) || b.attackedFrom(sq, attacker, kingDirs, King) {
		return true
	}
	// An attacking pawn stands one row behind sq from its own point of view.
	pawnOffsets := [][2]int{{-attacker.forward(), -1}, {-attacker.forward(), 1}}
	return b.attackedFrom(sq, attacker, pawnOffsets, Pawn)
}

// attackedAlong looks for a slider of type t, or a queen, on the first
// occupied square in each direction.
func (b *Board) attackedAlong(sq Coordinate, attacker PieceColor, dirs [][2]int, t PieceType) bool {
	for _, dir := range dirs {
		target, ok := sq.offset(dir[0], dir[1])
		for ok {
			if p := b.squares[target.Index()]; p != nil {
				if p.Color == attacker && (p.Type == t || p.Type == Queen) {
					return true
				}
				break
			}
			target, ok = target.offset(dir[0], dir[1])
		}
	}
	return false
}

func (b *Board) attackedFrom(sq Coordinate, attacker PieceColor, offsets [][2]int, t PieceType) bool {
	for _, off := range offsets {
		target, ok := sq.offset(off[0], off[1])
		if !ok {
			continue
		}
		if p := b.squares[target.Index()]; p != nil && p.Color == attacker && p.Type == t {
			return true
		}
	}
	return false
}
