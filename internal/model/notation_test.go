package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveResultToString(t *testing.T) {
	tests := []struct {
		name string
		move MoveResult
		want string
	}{
		{
			name: "pawn push",
			move: MoveResult{From: sq("e2"), To: sq("e4"), Color: White, PieceType: Pawn},
			want: "e2e4",
		},
		{
			name: "knight capture with check",
			move: MoveResult{From: sq("g1"), To: sq("f3"), Color: White, PieceType: Knight, IsCapture: true, ResultsInCheck: true},
			want: "Ng1xf3+",
		},
		{
			name: "mate wins over check",
			move: MoveResult{From: sq("d8"), To: sq("h4"), Color: Black, PieceType: Queen, ResultsInCheck: true, ResultsInCheckmate: true},
			want: "Qd8h4#",
		},
		{
			name: "promotion",
			move: MoveResult{From: sq("e7"), To: sq("e8"), Color: White, PieceType: Pawn, IsPromotion: true, PromotionType: Rook},
			want: "e7e8=R",
		},
		{
			name: "long castle",
			move: MoveResult{From: sq("e8"), To: sq("c8"), Color: Black, PieceType: King, IsLongCastle: true, ResultsInCheck: true},
			want: "0-0-0+",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveResultToString(tt.move)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringToMoveResult(t *testing.T) {
	res, err := StringToMoveResult("Ng1xf3+", White)
	require.NoError(t, err)
	assert.Equal(t, Knight, res.PieceType)
	assert.Equal(t, sq("g1"), res.From)
	assert.Equal(t, sq("f3"), res.To)
	assert.True(t, res.IsCapture)
	assert.True(t, res.ResultsInCheck)
	assert.False(t, res.ResultsInCheckmate)
	assert.Nil(t, res.CapturedPiece)

	res, err = StringToMoveResult("a2a1=N#", Black)
	require.NoError(t, err)
	assert.Equal(t, Pawn, res.PieceType)
	assert.True(t, res.IsPromotion)
	assert.Equal(t, Knight, res.PromotionType)
	assert.True(t, res.ResultsInCheckmate)
}

func TestStringToMoveResultCastles(t *testing.T) {
	for _, notation := range []string{"0-0", "O-O"} {
		res, err := StringToMoveResult(notation, Black)
		require.NoError(t, err)
		assert.True(t, res.IsShortCastle)
		assert.Equal(t, sq("e8"), res.From)
		assert.Equal(t, sq("g8"), res.To)
	}

	res, err := StringToMoveResult("0-0-0", White)
	require.NoError(t, err)
	assert.True(t, res.IsLongCastle)
	assert.Equal(t, sq("e1"), res.From)
	assert.Equal(t, sq("c1"), res.To)
}

func TestStringToMoveResultRejects(t *testing.T) {
	tests := []struct {
		notation string
		color    PieceColor
	}{
		{"", White},
		{"e4", White},
		{"e2-e4", White},
		{"Pe2e4", White},
		{"e2e9", White},
		{"e2e4++", White},
		{"Ng1f3=Q", White},
		{"e6e7=Q", White},
		{"e7e8", White},
		{"e2e1", Black},
		{"e2e4", PieceColor("green")},
	}
	for _, tt := range tests {
		_, err := StringToMoveResult(tt.notation, tt.color)
		assert.ErrorIs(t, err, ErrMalformedNotation, "%q as %s", tt.notation, tt.color)
	}
}

func TestNotationRoundTripOnPlayedMoves(t *testing.T) {
	b := NewBoard()
	for _, mv := range [][2]string{{"e2", "e4"}, {"d7", "d5"}, {"e4", "d5"}, {"d8", "d5"}, {"b1", "c3"}} {
		res := mustMove(t, b, mv[0], mv[1])
		notation, err := MoveResultToString(res)
		require.NoError(t, err)

		parsed, err := StringToMoveResult(notation, res.Color)
		require.NoError(t, err)
		assert.Equal(t, res.From, parsed.From)
		assert.Equal(t, res.To, parsed.To)
		assert.Equal(t, res.PieceType, parsed.PieceType)
		assert.Equal(t, res.IsCapture, parsed.IsCapture)
		assert.Equal(t, res.ResultsInCheck, parsed.ResultsInCheck)
	}
}
