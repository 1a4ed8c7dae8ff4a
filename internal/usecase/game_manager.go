package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

const saveTimeout = 2 * time.Second

var ErrSessionNotFound = errors.New("session not found")

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (int, error)
}

// GameManager runs one game per session and keeps its latest state in the repository.
type GameManager struct {
	logger *slog.Logger

	gameRepo gameRepo
	bot      botService
	opts     []tictactoe.Option

	mu       sync.Mutex
	sessions map[string]*tictactoe.GameController
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, bot botService, opts ...tictactoe.Option) *GameManager {
	return &GameManager{
		logger:   logger,
		gameRepo: gameRepo,
		bot:      bot,
		opts:     opts,
		sessions: make(map[string]*tictactoe.GameController),
	}
}

// Connect resumes the session's saved game, or starts a new one, and publishes it to presenter.
// A previous connection of the same session is stopped.
func (that *GameManager) Connect(ctx context.Context, sessionID string, presenter tictactoe.Presenter) *tictactoe.GameController {
	log := that.logger.With("method", "Connect", "sessionID", sessionID)

	game := that.loadGame(ctx, sessionID)

	opts := append([]tictactoe.Option{tictactoe.WithOnChange(that.saveGame)}, that.opts...)
	controller := tictactoe.NewGameController(that.logger, game, that.bot, presenter, opts...)

	that.mu.Lock()
	previous, ok := that.sessions[sessionID]
	that.sessions[sessionID] = controller
	that.mu.Unlock()

	if ok {
		previous.Stop()
		log.Info("previous connection replaced")
	}

	controller.Start()

	log.Info("session connected", "status", game.StatusText())

	return controller
}

// Move plays cell for the session's human player.
func (that *GameManager) Move(sessionID string, cell int) error {
	controller, err := that.getController(sessionID)
	if err != nil {
		return err
	}

	if err = controller.OnHumanMove(cell); err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	return nil
}

func (that *GameManager) Restart(sessionID string) error {
	controller, err := that.getController(sessionID)
	if err != nil {
		return err
	}

	controller.Restart()

	return nil
}

// Disconnect stops controller if it still serves the session. A finished game is deleted,
// an unfinished one stays in the repository until it expires.
func (that *GameManager) Disconnect(ctx context.Context, sessionID string, controller *tictactoe.GameController) {
	log := that.logger.With("method", "Disconnect", "sessionID", sessionID)

	that.mu.Lock()
	current := that.sessions[sessionID] == controller
	if current {
		delete(that.sessions, sessionID)
	}
	that.mu.Unlock()

	controller.Stop()

	if snapshot := controller.Snapshot(); current && snapshot.IsFinished() {
		if err := that.gameRepo.DeleteByID(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
			log.Error("failed to delete game", "error", err)
		}
	}

	log.Info("session disconnected")
}

func (that *GameManager) getController(sessionID string) (*tictactoe.GameController, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	controller, ok := that.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return controller, nil
}

// loadGame never fails: storage problems start a fresh game.
func (that *GameManager) loadGame(ctx context.Context, sessionID string) *entity.Game {
	log := that.logger.With("method", "loadGame", "sessionID", sessionID)

	game, err := that.gameRepo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return entity.NewGame(sessionID)
	}

	if err != nil {
		log.Error("failed to load game, starting a new one", "error", err)
		return entity.NewGame(sessionID)
	}

	if game.ID != sessionID {
		log.Warn("stored game belongs to another session, starting a new one", "gameID", game.ID)
		return entity.NewGame(sessionID)
	}

	// status and turn are derived from the board, never trusted from storage
	if err = game.Normalize(); err != nil {
		log.Warn("stored game is malformed, starting a new one", "error", err)
		return entity.NewGame(sessionID)
	}

	return game
}

func (that *GameManager) saveGame(game entity.Game) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := that.gameRepo.CreateOrUpdate(ctx, &game); err != nil {
		that.logger.Error("failed to save game", "gameID", game.ID, "error", err)
	}
}
