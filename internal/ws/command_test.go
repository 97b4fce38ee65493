package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chesslib-backend/internal/model"
)

func TestParseMoveCommand(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"GameMove:e2e4", "e2e4"},
		{"GameMove: Ng1xf3+", "Ng1xf3+"},
		{"  GameMove:0-0-0\n", "0-0-0"},
		{"/game-move e7e8=Q#", "e7e8=Q#"},
		{"/game-move   O-O", "O-O"},
	}
	for _, tt := range tests {
		got, err := ParseMoveCommand(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseMoveCommandRejects(t *testing.T) {
	_, err := ParseMoveCommand("hello there")
	assert.ErrorIs(t, err, ErrNotMoveCommand)
	_, err = ParseMoveCommand("/game-moves e2e4")
	assert.ErrorIs(t, err, ErrNotMoveCommand)

	for _, line := range []string{"GameMove:", "GameMove:e2-e4", "/game-move", "/game-move banana"} {
		_, err := ParseMoveCommand(line)
		assert.ErrorIs(t, err, model.ErrMalformedNotation, line)
	}
}

func TestIsMoveCommand(t *testing.T) {
	assert.True(t, IsMoveCommand("GameMove:junk"))
	assert.True(t, IsMoveCommand("/game-move"))
	assert.False(t, IsMoveCommand(`{"type":"move"}`))
}

func TestFormatMoveCommandRoundTrip(t *testing.T) {
	line := FormatMoveCommand("Qd8h4#")
	assert.Equal(t, "GameMove:Qd8h4#", line)
	got, err := ParseMoveCommand(line)
	require.NoError(t, err)
	assert.Equal(t, "Qd8h4#", got)
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(MessageTypeGameMove, GameMovePayload{Notation: "e2e4"})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeGameMove, msg.Type)
	assert.JSONEq(t, `{"notation":"e2e4"}`, string(msg.Payload))

	var p GameMovePayload
	require.NoError(t, msg.Decode(&p))
	assert.Equal(t, "e2e4", p.Notation)
}
