package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sq(s string) Coordinate { return MustSquare(s) }

var coordOpt = cmp.AllowUnexported(Coordinate{})

// mustMove plays from-to and requires a fully resolved result.
func mustMove(t *testing.T, b *Board, from, to string) MoveResult {
	t.Helper()
	outcome, err := b.MovePiece(sq(from), sq(to))
	require.NoError(t, err, "%s%s", from, to)
	res, ok := outcome.(MoveResult)
	require.True(t, ok, "expected a resolved move, got %T", outcome)
	return res
}

func destinations(b *Board, from string) []string {
	var out []string
	for _, c := range b.LegalDestinations(sq(from)) {
		out = append(out, c.String())
	}
	return out
}

func TestNewBoardLayout(t *testing.T) {
	b := NewBoard()

	assert.Len(t, b.Pieces(White), 16)
	assert.Len(t, b.Pieces(Black), 16)
	assert.Equal(t, White, b.ToMove())

	king, ok := b.GetPiece(sq("e1"))
	require.True(t, ok)
	assert.Equal(t, King, king.Type)
	assert.Equal(t, White, king.Color)
	assert.False(t, king.HasMoved)

	queen, ok := b.GetPiece(sq("d8"))
	require.True(t, ok)
	assert.Equal(t, Queen, queen.Type)
	assert.Equal(t, Black, queen.Color)

	for _, file := range "abcdefgh" {
		p, ok := b.GetPiece(sq(string(file) + "2"))
		require.True(t, ok)
		assert.Equal(t, Pawn, p.Type)
		_, ok = b.GetPiece(sq(string(file) + "4"))
		assert.False(t, ok)
	}
}

func TestStartingMoveCount(t *testing.T) {
	b := NewBoard()
	assert.Len(t, b.LegalMoves(White), 20)
	assert.Len(t, b.LegalMoves(Black), 20)

	assert.ElementsMatch(t, []string{"a3", "c3"}, destinations(b, "b1"))
	assert.ElementsMatch(t, []string{"e3", "e4"}, destinations(b, "e2"))
	assert.Empty(t, destinations(b, "a1"))
	assert.NotNil(t, b.LegalDestinations(sq("a1")))
	assert.Nil(t, b.LegalDestinations(sq("e4")))
}

func TestMovePieceBasics(t *testing.T) {
	b := NewBoard()
	res := mustMove(t, b, "e2", "e4")

	assert.Equal(t, Pawn, res.PieceType)
	assert.Equal(t, White, res.Color)
	assert.False(t, res.IsCapture)
	assert.Equal(t, Black, b.ToMove())

	ep, ok := b.EnPassantTarget()
	require.True(t, ok)
	assert.Equal(t, sq("e3"), ep)

	_, ok = b.GetPiece(sq("e2"))
	assert.False(t, ok)
	p, ok := b.GetPiece(sq("e4"))
	require.True(t, ok)
	assert.True(t, p.HasMoved)
	assert.Equal(t, sq("e4"), p.Coord)

	mustMove(t, b, "g8", "f6")
	_, ok = b.EnPassantTarget()
	assert.False(t, ok)
}

func TestMovePieceErrorsLeaveBoardUntouched(t *testing.T) {
	b := NewBoard()
	before := b.Snapshot()

	_, err := b.MovePiece(sq("e4"), sq("e5"))
	assert.ErrorIs(t, err, ErrEmptySource)

	_, err = b.MovePiece(sq("e2"), sq("e5"))
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = b.MovePiece(sq("a1"), sq("a3"))
	assert.ErrorIs(t, err, ErrIllegalMove)

	if diff := cmp.Diff(before, b.Snapshot(), coordOpt); diff != "" {
		t.Errorf("board changed after rejected moves (-want +got):\n%s", diff)
	}
}

func TestPinnedPieceCannotLeaveLine(t *testing.T) {
	b := NewEmptyBoard()
	b.Place(King, White, sq("e1"))
	b.Place(Rook, White, sq("e2"))
	b.Place(Rook, Black, sq("e8"))
	b.Place(King, Black, sq("a8"))

	assert.ElementsMatch(t, []string{"e3", "e4", "e5", "e6", "e7", "e8"}, destinations(b, "e2"))

	_, err := b.MovePiece(sq("e2"), sq("d2"))
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestKingCannotStepIntoCheck(t *testing.T) {
	b := NewEmptyBoard()
	b.Place(King, White, sq("e1"))
	b.Place(Rook, Black, sq("d8"))
	b.Place(King, Black, sq("h8"))

	dests := destinations(b, "e1")
	assert.NotContains(t, dests, "d1")
	assert.NotContains(t, dests, "d2")
	assert.Contains(t, dests, "f2")
}

func TestCapture(t *testing.T) {
	b := NewBoard()
	mustMove(t, b, "e2", "e4")
	mustMove(t, b, "d7", "d5")
	res := mustMove(t, b, "e4", "d5")

	assert.True(t, res.IsCapture)
	require.NotNil(t, res.CapturedPiece)
	assert.Equal(t, Pawn, res.CapturedPiece.Type)
	assert.Equal(t, Black, res.CapturedPiece.Color)
	assert.Len(t, b.Pieces(Black), 15)
}

func TestEnPassant(t *testing.T) {
	b := NewBoard()
	mustMove(t, b, "e2", "e4")
	mustMove(t, b, "a7", "a6")
	mustMove(t, b, "e4", "e5")
	mustMove(t, b, "d7", "d5")

	assert.Contains(t, destinations(b, "e5"), "d6")
	res := mustMove(t, b, "e5", "d6")

	assert.True(t, res.IsEnPassant)
	assert.True(t, res.IsCapture)
	require.NotNil(t, res.CapturedPiece)
	assert.Equal(t, sq("d5"), res.CapturedPiece.Coord)
	_, ok := b.GetPiece(sq("d5"))
	assert.False(t, ok)

	notation, err := MoveResultToString(res)
	require.NoError(t, err)
	assert.Equal(t, "e5xd6", notation)
}

func TestEnPassantExpires(t *testing.T) {
	b := NewBoard()
	mustMove(t, b, "e2", "e4")
	mustMove(t, b, "a7", "a6")
	mustMove(t, b, "e4", "e5")
	mustMove(t, b, "d7", "d5")
	mustMove(t, b, "h2", "h3")
	mustMove(t, b, "a6", "a5")

	assert.NotContains(t, destinations(b, "e5"), "d6")
	_, err := b.MovePiece(sq("e5"), sq("d6"))
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func castlingBoard() *Board {
	b := NewEmptyBoard()
	b.Place(King, White, sq("e1"))
	b.Place(Rook, White, sq("a1"))
	b.Place(Rook, White, sq("h1"))
	b.Place(King, Black, sq("e8"))
	return b
}

func TestCastling(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		b := castlingBoard()
		assert.Subset(t, destinations(b, "e1"), []string{"g1", "c1"})

		res := mustMove(t, b, "e1", "g1")
		assert.True(t, res.IsShortCastle)
		rook, ok := b.GetPiece(sq("f1"))
		require.True(t, ok)
		assert.Equal(t, Rook, rook.Type)
		assert.True(t, rook.HasMoved)
		_, ok = b.GetPiece(sq("h1"))
		assert.False(t, ok)

		notation, err := MoveResultToString(res)
		require.NoError(t, err)
		assert.Equal(t, "0-0", notation)
	})

	t.Run("long", func(t *testing.T) {
		b := castlingBoard()
		res := mustMove(t, b, "e1", "c1")
		assert.True(t, res.IsLongCastle)
		rook, ok := b.GetPiece(sq("d1"))
		require.True(t, ok)
		assert.Equal(t, Rook, rook.Type)
		_, ok = b.GetPiece(sq("a1"))
		assert.False(t, ok)
	})

	t.Run("not through an attacked square", func(t *testing.T) {
		b := castlingBoard()
		b.Place(Rook, Black, sq("f8"))
		dests := destinations(b, "e1")
		assert.NotContains(t, dests, "g1")
		assert.Contains(t, dests, "c1")
	})

	t.Run("not out of check", func(t *testing.T) {
		b := castlingBoard()
		b.ClearTile(sq("e8"))
		b.Place(King, Black, sq("a8"))
		b.Place(Rook, Black, sq("e7"))
		dests := destinations(b, "e1")
		assert.NotContains(t, dests, "g1")
		assert.NotContains(t, dests, "c1")
	})

	t.Run("not with a blocked path", func(t *testing.T) {
		b := castlingBoard()
		b.Place(Knight, White, sq("b1"))
		dests := destinations(b, "e1")
		assert.NotContains(t, dests, "c1")
		assert.Contains(t, dests, "g1")
	})

	t.Run("not after the rook moved", func(t *testing.T) {
		b := castlingBoard()
		mustMove(t, b, "h1", "h2")
		mustMove(t, b, "h2", "h1")
		dests := destinations(b, "e1")
		assert.NotContains(t, dests, "g1")
		assert.Contains(t, dests, "c1")
	})
}

func promotionBoard() *Board {
	b := NewEmptyBoard()
	b.Place(King, White, sq("e1"))
	b.Place(Pawn, White, sq("a7"))
	b.Place(King, Black, sq("h8"))
	return b
}

func TestPromotionIsTwoPhase(t *testing.T) {
	b := promotionBoard()

	outcome, err := b.MovePiece(sq("a7"), sq("a8"))
	require.NoError(t, err)
	pending, ok := outcome.(PendingPromotion)
	require.True(t, ok, "expected PendingPromotion, got %T", outcome)
	assert.Equal(t, sq("a8"), pending.Coord())
	assert.Equal(t, White, pending.Color())

	coord, ok := b.PendingPromotionCoord()
	require.True(t, ok)
	assert.Equal(t, sq("a8"), coord)

	_, err = MoveResultToString(pending.Result())
	assert.ErrorIs(t, err, ErrUnresolvedPromotion)

	_, err = b.MovePiece(sq("h8"), sq("g8"))
	assert.ErrorIs(t, err, ErrPromotionPending)
	assert.Empty(t, b.LegalDestinations(sq("h8")))
	assert.Empty(t, b.LegalMoves(Black))

	_, mated := b.IsCheckmate()
	assert.False(t, mated)
	assert.Equal(t, OutcomeOngoing, b.Result().Outcome)

	_, err = b.CompletePromotion(pending, King)
	assert.ErrorIs(t, err, ErrInvalidPromotion)
	_, err = b.CompletePromotion(pending, Pawn)
	assert.ErrorIs(t, err, ErrInvalidPromotion)

	res, err := b.CompletePromotion(pending, Queen)
	require.NoError(t, err)
	assert.Equal(t, Queen, res.PromotionType)
	assert.True(t, res.ResultsInCheck)
	assert.False(t, res.ResultsInCheckmate)

	queen, ok := b.GetPiece(sq("a8"))
	require.True(t, ok)
	assert.Equal(t, Queen, queen.Type)
	assert.True(t, queen.HasMoved)
	_, ok = b.PendingPromotionCoord()
	assert.False(t, ok)

	notation, err := MoveResultToString(res)
	require.NoError(t, err)
	assert.Equal(t, "a7a8=Q+", notation)

	_, err = b.CompletePromotion(pending, Rook)
	assert.ErrorIs(t, err, ErrInvalidPromotion)
}

func TestUnderpromotionRecomputesCheck(t *testing.T) {
	b := promotionBoard()
	outcome, err := b.MovePiece(sq("a7"), sq("a8"))
	require.NoError(t, err)

	res, err := b.CompletePromotion(outcome.(PendingPromotion), Knight)
	require.NoError(t, err)
	assert.False(t, res.ResultsInCheck)

	notation, err := MoveResultToString(res)
	require.NoError(t, err)
	assert.Equal(t, "a7a8=N", notation)
}

func TestFoolsMate(t *testing.T) {
	b := NewBoard()
	mustMove(t, b, "f2", "f3")
	mustMove(t, b, "e7", "e5")
	mustMove(t, b, "g2", "g4")
	res := mustMove(t, b, "d8", "h4")

	assert.True(t, res.ResultsInCheck)
	assert.True(t, res.ResultsInCheckmate)

	loser, mated := b.IsCheckmate()
	require.True(t, mated)
	assert.Equal(t, White, loser)
	assert.Equal(t, GameResult{Outcome: OutcomeCheckmate, Loser: White}, b.Result())
	assert.Empty(t, b.LegalMoves(White))

	notation, err := MoveResultToString(res)
	require.NoError(t, err)
	assert.Equal(t, "Qd8h4#", notation)
}

func TestStalemate(t *testing.T) {
	b := NewEmptyBoard()
	b.Place(King, Black, sq("a8"))
	b.Place(Queen, White, sq("b6"))
	b.Place(King, White, sq("c7"))
	b.SetToMove(Black)

	assert.False(t, b.InCheck(Black))
	_, mated := b.IsCheckmate()
	assert.False(t, mated)
	assert.Equal(t, GameResult{Outcome: OutcomeStalemate}, b.Result())
	_, hasWinner := b.Result().Winner()
	assert.False(t, hasWinner)
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard()
	c := b.Clone()
	mustMove(t, c, "e2", "e4")

	_, ok := b.GetPiece(sq("e2"))
	assert.True(t, ok)
	assert.Equal(t, White, b.ToMove())
	_, ok = b.EnPassantTarget()
	assert.False(t, ok)
}

func TestTileSelection(t *testing.T) {
	b := NewBoard()

	assert.False(t, b.SelectTile(sq("e4")))
	require.True(t, b.SelectTile(sq("e2")))

	selected, ok := b.SelectedCoord()
	require.True(t, ok)
	assert.Equal(t, sq("e2"), selected)
	assert.Equal(t, TileActive, b.TileState(sq("e2")))
	assert.Equal(t, TileHighlight, b.TileState(sq("e3")))
	assert.Equal(t, TileHighlight, b.TileState(sq("e4")))
	assert.Equal(t, TileInactive, b.TileState(sq("e5")))

	b.ClearActiveTiles()
	_, ok = b.SelectedCoord()
	assert.False(t, ok)
	assert.Equal(t, TileInactive, b.TileState(sq("e2")))
	assert.Equal(t, TileHighlight, b.TileState(sq("e3")))

	b.ClearHighlights()
	assert.Equal(t, TileInactive, b.TileState(sq("e3")))

	b.SelectTile(sq("g1"))
	mustMove(t, b, "g1", "f3")
	for i := 0; i < 64; i++ {
		assert.Equal(t, TileInactive, b.TileState(coordFromIndex(i)))
	}
}

// mirror flips the board top to bottom and swaps colors.
func mirror(b *Board) *Board {
	m := NewEmptyBoard()
	for _, color := range []PieceColor{White, Black} {
		for _, p := range b.Pieces(color) {
			m.Place(p.Type, color.Opposite(), Coordinate{row: boardSize - 1 - p.Coord.row, col: p.Coord.col})
		}
	}
	m.SetToMove(b.ToMove().Opposite())
	return m
}

func TestMoveGenerationIsColorSymmetric(t *testing.T) {
	b := NewBoard()
	mustMove(t, b, "e2", "e4")
	mustMove(t, b, "c7", "c5")
	mustMove(t, b, "g1", "f3")
	mustMove(t, b, "d7", "d6")
	mustMove(t, b, "f1", "b5")

	m := mirror(b)
	flip := func(c Coordinate) Coordinate { return Coordinate{row: boardSize - 1 - c.row, col: c.col} }

	for _, color := range []PieceColor{White, Black} {
		var want []SimpleMove
		for _, mv := range b.LegalMoves(color) {
			// Pieces placed by mirror count as unmoved, which only matters for castling.
			if p, _ := b.GetPiece(mv.From); p.Type == King && abs(mv.To.col-mv.From.col) == 2 {
				continue
			}
			want = append(want, SimpleMove{From: flip(mv.From), To: flip(mv.To)})
		}
		var got []SimpleMove
		for _, mv := range m.LegalMoves(color.Opposite()) {
			if p, _ := m.GetPiece(mv.From); p.Type == King && abs(mv.To.col-mv.From.col) == 2 {
				continue
			}
			got = append(got, mv)
		}
		assert.ElementsMatch(t, want, got, color)
	}
}

// assertDestinationsMatchMoves tries every from/to pair on a clone and
// requires MovePiece to succeed exactly for the listed destinations.
func assertDestinationsMatchMoves(t *testing.T, b *Board) {
	t.Helper()
	for from := 0; from < 64; from++ {
		fromSq := Coordinate{row: from / 8, col: from % 8}
		legal := b.LegalDestinations(fromSq)
		for to := 0; to < 64; to++ {
			toSq := Coordinate{row: to / 8, col: to % 8}
			_, err := b.Clone().MovePiece(fromSq, toSq)
			if containsCoord(legal, toSq) {
				assert.NoError(t, err, "%s%s is listed but rejected", fromSq, toSq)
			} else {
				assert.Error(t, err, "%s%s is accepted but not listed", fromSq, toSq)
			}
		}
	}
}

func TestLegalDestinationsMatchMovePiece(t *testing.T) {
	enPassant := NewBoard()
	for _, m := range [][2]string{{"e2", "e4"}, {"a7", "a6"}, {"e4", "e5"}, {"d7", "d5"}} {
		mustMove(t, enPassant, m[0], m[1])
	}

	check := NewBoard()
	for _, m := range [][2]string{{"e2", "e4"}, {"f7", "f6"}, {"d1", "h5"}} {
		mustMove(t, check, m[0], m[1])
	}

	pending := promotionBoard()
	_, err := pending.MovePiece(sq("a7"), sq("a8"))
	require.NoError(t, err)

	stalemate := NewEmptyBoard()
	stalemate.Place(King, Black, sq("a8"))
	stalemate.Place(Queen, White, sq("b6"))
	stalemate.Place(King, White, sq("c7"))
	stalemate.SetToMove(Black)

	boards := map[string]*Board{
		"start":             NewBoard(),
		"castling":          castlingBoard(),
		"en passant":        enPassant,
		"in check":          check,
		"promotion":         promotionBoard(),
		"pending promotion": pending,
		"stalemate":         stalemate,
	}
	for name, b := range boards {
		t.Run(name, func(t *testing.T) {
			assertDestinationsMatchMoves(t, b)
		})
	}
}
