package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	g := NewGame()
	assert.Equal(t, White, g.PlayerTurn())
	assert.Equal(t, GameInProgress, g.State())
	assert.Equal(t, OutcomeOngoing, g.Result().Outcome)
	assert.Empty(t, g.Moves())
	assert.Equal(t, 0, g.MovesLen())
	_, ok := g.Winner()
	assert.False(t, ok)
}

func TestAddMoveAlternatesTurns(t *testing.T) {
	g := NewGame()
	require.NoError(t, g.AddMove("e2e4", White))
	assert.Equal(t, Black, g.PlayerTurn())
	require.NoError(t, g.AddMove("e7e5", Black))
	assert.Equal(t, White, g.PlayerTurn())

	err := g.AddMove("d7d5", Black)
	assert.ErrorIs(t, err, ErrOutOfTurn)
	assert.Equal(t, []string{"e2e4", "e7e5"}, g.Moves())
}

func TestMovesReturnsCopy(t *testing.T) {
	g := NewGame()
	require.NoError(t, g.AddMove("e2e4", White))
	moves := g.Moves()
	moves[0] = "tampered"
	assert.Equal(t, []string{"e2e4"}, g.Moves())
}

func TestRecordMoveRejectsUnresolvedPromotion(t *testing.T) {
	g := NewGame()
	_, err := g.RecordMove(MoveResult{From: sq("a7"), To: sq("a8"), Color: White, PieceType: Pawn, IsPromotion: true})
	assert.ErrorIs(t, err, ErrUnresolvedPromotion)
	assert.Equal(t, 0, g.MovesLen())
}

func TestSetWinnerFirstWriteWins(t *testing.T) {
	g := NewGame()
	assert.True(t, g.SetWinner(Black))
	assert.False(t, g.SetWinner(White))

	winner, ok := g.Winner()
	require.True(t, ok)
	assert.Equal(t, Black, winner)
	assert.Equal(t, GameEnded, g.State())
	assert.Equal(t, GameResult{Outcome: OutcomeDecided, Loser: White}, g.Result())

	assert.ErrorIs(t, g.AddMove("e2e4", White), ErrGameEnded)
}

func TestFinish(t *testing.T) {
	t.Run("ongoing is a no-op", func(t *testing.T) {
		g := NewGame()
		require.NoError(t, g.Finish(GameResult{Outcome: OutcomeOngoing}))
		assert.Equal(t, GameInProgress, g.State())
	})

	t.Run("checkmate sets the winner", func(t *testing.T) {
		g := NewGame()
		require.NoError(t, g.Finish(GameResult{Outcome: OutcomeCheckmate, Loser: White}))
		assert.Equal(t, GameEnded, g.State())
		winner, ok := g.Winner()
		require.True(t, ok)
		assert.Equal(t, Black, winner)
		assert.Equal(t, OutcomeCheckmate, g.Result().Outcome)
	})

	t.Run("stalemate is a draw", func(t *testing.T) {
		g := NewGame()
		require.NoError(t, g.Finish(GameResult{Outcome: OutcomeStalemate}))
		assert.Equal(t, GameEnded, g.State())
		_, ok := g.Winner()
		assert.False(t, ok)
		assert.False(t, g.SetWinner(White))
		_, ok = g.Winner()
		assert.False(t, ok)
	})

	t.Run("cannot finish twice", func(t *testing.T) {
		g := NewGame()
		require.NoError(t, g.Finish(GameResult{Outcome: OutcomeStalemate}))
		assert.ErrorIs(t, g.Finish(GameResult{Outcome: OutcomeCheckmate, Loser: Black}), ErrGameEnded)
	})
}

func TestFoolsMateThroughGame(t *testing.T) {
	b := NewBoard()
	g := NewGame()
	for _, mv := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}} {
		res := mustMove(t, b, mv[0], mv[1])
		_, err := g.RecordMove(res)
		require.NoError(t, err)
		require.NoError(t, g.Finish(b.Result()))
	}

	assert.Equal(t, GameEnded, g.State())
	winner, ok := g.Winner()
	require.True(t, ok)
	assert.Equal(t, Black, winner)
	assert.Equal(t, []string{"f2f3", "e7e5", "g2g4", "Qd8h4#"}, g.Moves())
}

func TestOnlineFlags(t *testing.T) {
	g := NewGame()
	assert.False(t, g.Online())
	_, ok := g.PlayerColor()
	assert.False(t, ok)

	g.SetOnline(true)
	g.SetPlayerColor(Black)
	assert.True(t, g.Online())
	color, ok := g.PlayerColor()
	require.True(t, ok)
	assert.Equal(t, Black, color)
}
