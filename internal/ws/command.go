package ws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/chesslib-backend/internal/model"
)

// Plain text move commands. Peers exchange "GameMove:<notation>"; players can
// also type "/game-move <notation>".
const (
	GameMovePrefix    = "GameMove:"
	SlashCommandMove  = "/game-move"
	slashCommandSpace = SlashCommandMove + " "
)

var ErrNotMoveCommand = errors.New("not a move command")

// IsMoveCommand reports whether line looks like a move command, valid or not.
func IsMoveCommand(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, GameMovePrefix) || line == SlashCommandMove || strings.HasPrefix(line, slashCommandSpace)
}

// ParseMoveCommand extracts and validates the notation from a move command.
func ParseMoveCommand(line string) (string, error) {
	line = strings.TrimSpace(line)

	var notation string
	switch {
	case strings.HasPrefix(line, GameMovePrefix):
		notation = strings.TrimPrefix(line, GameMovePrefix)
	case line == SlashCommandMove:
		notation = ""
	case strings.HasPrefix(line, slashCommandSpace):
		notation = strings.TrimPrefix(line, slashCommandSpace)
	default:
		return "", ErrNotMoveCommand
	}

	notation = strings.TrimSpace(notation)
	if !model.ValidNotation(notation) {
		return "", fmt.Errorf("%w: %q", model.ErrMalformedNotation, notation)
	}
	return notation, nil
}

// FormatMoveCommand is the peer form of a move.
func FormatMoveCommand(notation string) string {
	return GameMovePrefix + notation
}
