package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benbeisheim/chesslib-backend/internal/logger"
	"github.com/benbeisheim/chesslib-backend/internal/model"
	"github.com/benbeisheim/chesslib-backend/internal/repository"
)

// Assignment tells a queued player which match and color they got.
type Assignment struct {
	GameID string           `json:"gameId"`
	Color  model.PieceColor `json:"color"`
}

type ManagerOptions struct {
	ClockTime           time.Duration
	CommandQueueSize    int
	MatchmakingInterval time.Duration
}

// GameManager keeps the live matches and pairs queued players.
type GameManager struct {
	matches     map[string]*Match
	queue       *model.Queue
	assignments map[string]Assignment
	mu          sync.RWMutex

	store repository.HistoryRepository
	opts  ManagerOptions
	log   *logger.Logger
	newID func() string
}

func NewGameManager(store repository.HistoryRepository, opts ManagerOptions, log *logger.Logger) *GameManager {
	if opts.CommandQueueSize < 1 {
		opts.CommandQueueSize = 1
	}
	if opts.MatchmakingInterval <= 0 {
		opts.MatchmakingInterval = time.Second
	}
	return &GameManager{
		matches:     make(map[string]*Match),
		queue:       model.NewQueue(),
		assignments: make(map[string]Assignment),
		store:       store,
		opts:        opts,
		log:         log.WithPrefix("game_manager"),
		newID:       func() string { return uuid.New().String() },
	}
}

// Run pairs queued players every MatchmakingInterval until ctx is done.
func (gm *GameManager) Run(ctx context.Context) {
	ticker := time.NewTicker(gm.opts.MatchmakingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.processMatchmaking(ctx)
		}
	}
}

// processMatchmaking pairs everyone it can. The longer waiting player of each
// pair gets white.
func (gm *GameManager) processMatchmaking(ctx context.Context) int {
	paired := 0
	for {
		first, second, ok := gm.queue.NextPair()
		if !ok {
			return paired
		}
		match := gm.register(gm.newID(), model.NewBoard(), model.NewGame(), first.PlayerID, second.PlayerID)
		if err := match.persistNow(ctx); err != nil {
			gm.log.Error("failed to store match %s: %v", match.ID(), err)
		}

		gm.mu.Lock()
		gm.assignments[first.PlayerID] = Assignment{GameID: match.ID(), Color: model.White}
		gm.assignments[second.PlayerID] = Assignment{GameID: match.ID(), Color: model.Black}
		gm.mu.Unlock()

		gm.log.Info("paired %s (white) with %s (black) in %s", first.PlayerID, second.PlayerID, match.ID())
		paired++
	}
}

// register adds a match under id, or returns the one already there.
func (gm *GameManager) register(id string, board *model.Board, game *model.Game, white, black string) *Match {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if existing, ok := gm.matches[id]; ok {
		return existing
	}
	match := newMatch(id, board, game, matchOptions{
		white:     white,
		black:     black,
		clockTime: gm.opts.ClockTime,
		queueSize: gm.opts.CommandQueueSize,
		store:     gm.store,
		log:       gm.log,
	})
	gm.matches[id] = match
	return match
}

// CreateMatch starts an empty match and stores it.
func (gm *GameManager) CreateMatch(ctx context.Context) (*Match, error) {
	match := gm.register(gm.newID(), model.NewBoard(), model.NewGame(), "", "")
	if err := match.persistNow(ctx); err != nil {
		gm.remove(match.ID())
		return nil, err
	}
	gm.log.Info("created match %s", match.ID())
	return match, nil
}

// GetMatch returns a live match, restoring it from storage if needed.
func (gm *GameManager) GetMatch(ctx context.Context, id string) (*Match, error) {
	gm.mu.RLock()
	match, ok := gm.matches[id]
	gm.mu.RUnlock()
	if ok {
		return match, nil
	}
	if gm.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}

	rec, err := gm.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return gm.restore(*rec)
}

// Restore replays every unfinished match in storage. Records that no longer
// replay are skipped and logged.
func (gm *GameManager) Restore(ctx context.Context) (int, error) {
	if gm.store == nil {
		return 0, nil
	}
	recs, err := gm.store.List(ctx, repository.GameFilter{State: string(model.GameInProgress)})
	if err != nil {
		return 0, fmt.Errorf("list unfinished games: %w", err)
	}
	restored := 0
	for _, rec := range recs {
		if _, err := gm.restore(rec); err != nil {
			gm.log.Warn("skipping game %s: %v", rec.ID, err)
			continue
		}
		restored++
	}
	gm.log.Info("restored %d of %d unfinished games", restored, len(recs))
	return restored, nil
}

func (gm *GameManager) restore(rec repository.GameRecord) (*Match, error) {
	board, game, err := model.Replay(rec.History)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", rec.ID, err)
	}
	// Resignations are not part of the move history.
	if rec.State == string(model.GameEnded) && game.State() != model.GameEnded {
		if w := model.PieceColor(rec.Winner); w.Valid() {
			game.SetWinner(w)
		}
	}

	gm.log.Debug("restored %s after %d moves", rec.ID, game.MovesLen())
	return gm.register(rec.ID, board, game, rec.WhiteID, rec.BlackID), nil
}

// DeleteMatch removes the stored history, then stops the match. The record
// goes first so nothing woken by Close can restore it.
func (gm *GameManager) DeleteMatch(ctx context.Context, id string) error {
	match, err := gm.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	if gm.store != nil {
		if err := gm.store.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	gm.remove(id)
	match.Close()
	gm.log.Info("deleted match %s", id)
	return nil
}

// LiveMatch returns a match only if it is running in memory.
func (gm *GameManager) LiveMatch(id string) (*Match, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	match, ok := gm.matches[id]
	return match, ok
}

func (gm *GameManager) remove(id string) {
	gm.mu.Lock()
	delete(gm.matches, id)
	gm.mu.Unlock()
}

// ListGames returns stored games, newest first.
func (gm *GameManager) ListGames(ctx context.Context, filter repository.GameFilter) ([]repository.GameRecord, error) {
	if gm.store == nil {
		return []repository.GameRecord{}, nil
	}
	return gm.store.List(ctx, filter)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.assignments, playerID)
	gm.mu.Unlock()

	if err := gm.queue.AddPlayer(playerID); err != nil {
		gm.log.Debug("player %s not queued: %v", playerID, err)
		return err
	}
	gm.log.Info("player %s joined matchmaking", playerID)
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

// MatchmakingStatus returns the player's assignment once paired.
func (gm *GameManager) MatchmakingStatus(playerID string) (Assignment, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	a, ok := gm.assignments[playerID]
	return a, ok
}

func (gm *GameManager) Queued(playerID string) bool {
	return gm.queue.Contains(playerID)
}

func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}

// Shutdown stops every match loop.
func (gm *GameManager) Shutdown() {
	gm.mu.Lock()
	matches := make([]*Match, 0, len(gm.matches))
	for id, m := range gm.matches {
		matches = append(matches, m)
		delete(gm.matches, id)
	}
	gm.mu.Unlock()

	for _, m := range matches {
		m.Close()
	}
	gm.log.Info("stopped %d matches", len(matches))
}
