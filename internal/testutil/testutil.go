package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chesslib-backend/internal/db"
	"github.com/benbeisheim/chesslib-backend/internal/logger"
)

// NewTestDB opens an in-memory sqlite database with all migrations applied
// and closes it when the test ends.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	ctx := logger.NewContext(context.Background(), QuietLogger())
	database, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { MustClose(t, database) })
	return database
}

// QuietLogger discards everything.
func QuietLogger() *logger.Logger {
	return logger.New(logger.WithOutput(io.Discard), logger.WithLevel(logger.ERROR))
}

func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
