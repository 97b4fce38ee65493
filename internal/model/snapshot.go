package model

// TileSnapshot is the render view of one square.
type TileSnapshot struct {
	Index int            `json:"index"`
	Coord Coordinate     `json:"coord"`
	Piece *PieceSnapshot `json:"piece"`
	State TileState      `json:"state"`
}

type PieceSnapshot struct {
	Type  PieceType  `json:"type"`
	Color PieceColor `json:"color"`
}

// BoardSnapshot is a read-only copy of the board for rendering.
type BoardSnapshot struct {
	Tiles            []TileSnapshot `json:"tiles"`
	ToMove           PieceColor     `json:"toMove"`
	Selected         *Coordinate    `json:"selected"`
	EnPassantTarget  *Coordinate    `json:"enPassantTarget"`
	PendingPromotion *Coordinate    `json:"pendingPromotion"`
	Check            bool           `json:"check"`
}

// Snapshot copies the board state; it never mutates the board.
func (b *Board) Snapshot() BoardSnapshot {
	snap := BoardSnapshot{
		Tiles:            make([]TileSnapshot, 0, len(b.squares)),
		ToMove:           b.toMove,
		Selected:         copyCoord(b.selected),
		EnPassantTarget:  copyCoord(b.enPassantTarget),
		PendingPromotion: copyCoord(b.pendingPromotion),
		Check:            b.InCheck(b.toMove),
	}
	for i, p := range b.squares {
		tile := TileSnapshot{
			Index: i,
			Coord: coordFromIndex(i),
			State: b.tiles[i],
		}
		if p != nil {
			tile.Piece = &PieceSnapshot{Type: p.Type, Color: p.Color}
		}
		snap.Tiles = append(snap.Tiles, tile)
	}
	return snap
}
