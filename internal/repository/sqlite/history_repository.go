package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/benbeisheim/chesslib-backend/internal/logger"
	"github.com/benbeisheim/chesslib-backend/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var historyColumns = []string{"id", "history", "state", "winner", "white_id", "black_id", "created_at", "updated_at"}

type historyRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Save(ctx context.Context, rec repository.GameRecord) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")

	query, args, err := sqlBuilder.Insert("game_histories").
		Columns("id", "history", "state", "winner", "white_id", "black_id").
		Values(rec.ID, rec.History, rec.State, rec.Winner, rec.WhiteID, rec.BlackID).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			history = excluded.history,
			state = excluded.state,
			winner = excluded.winner,
			white_id = excluded.white_id,
			black_id = excluded.black_id,
			updated_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save game %s: %v", rec.ID, err)
		return err
	}
	log.Debug("saved game %s: state=%s", rec.ID, rec.State)
	return nil
}

func (r *historyRepository) Get(ctx context.Context, id string) (*repository.GameRecord, error) {
	query, args, err := sqlBuilder.Select(historyColumns...).
		From("game_histories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("history_repo").Error("failed to get game %s: %v", id, err)
		return nil, err
	}
	return rec, nil
}

func (r *historyRepository) List(ctx context.Context, filter repository.GameFilter) ([]repository.GameRecord, error) {
	q := sqlBuilder.Select(historyColumns...).
		From("game_histories").
		OrderBy("updated_at DESC", "id")
	if filter.State != "" {
		q = q.Where(squirrel.Eq{"state": filter.State})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.GameRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *historyRepository) Delete(ctx context.Context, id string) error {
	query, args, err := sqlBuilder.Delete("game_histories").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("game %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*repository.GameRecord, error) {
	var rec repository.GameRecord
	if err := s.Scan(&rec.ID, &rec.History, &rec.State, &rec.Winner, &rec.WhiteID, &rec.BlackID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
