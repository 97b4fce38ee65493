package repository

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

// GameRecord is the persisted form of a match: the move history string plus
// enough to reseat the players.
type GameRecord struct {
	ID        string
	History   string
	State     string
	Winner    string
	WhiteID   string
	BlackID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type GameFilter struct {
	State string
	Limit int
}

// HistoryRepository stores match histories.
type HistoryRepository interface {
	// Save inserts or replaces the record with the same ID.
	Save(ctx context.Context, rec GameRecord) error
	Get(ctx context.Context, id string) (*GameRecord, error)
	List(ctx context.Context, filter GameFilter) ([]GameRecord, error)
	Delete(ctx context.Context, id string) error
}
