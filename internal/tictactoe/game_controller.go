package tictactoe

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

type State string

const (
	AwaitingHumanMove    State = "awaiting_human_move"
	AwaitingComputerMove State = "awaiting_computer_move"
	Terminal             State = "terminal"
)

// Presenter renders the game. It is called after every applied move and after a restart.
type Presenter interface {
	OnBoardChanged(board entity.Board)
	OnStatusChanged(status string)
}

// Scheduler runs task once after delay and returns a func that cancels it.
type Scheduler func(delay time.Duration, task func()) (cancel func())

type bot interface {
	MakeTurn(game *entity.Game) (int, error)
}

type Option func(controller *GameController)

// WithScheduler replaces the time.AfterFunc based scheduler.
func WithScheduler(scheduler Scheduler) Option {
	return func(controller *GameController) {
		controller.schedule = scheduler
	}
}

// WithBotDelay sets the pause before the computer move is shown.
func WithBotDelay(delay time.Duration) Option {
	return func(controller *GameController) {
		controller.botDelay = delay
	}
}

// WithOnChange registers a hook receiving a copy of the game after every move and restart.
func WithOnChange(onChange func(game entity.Game)) Option {
	return func(controller *GameController) {
		controller.onChange = onChange
	}
}

// GameController sequences human and computer turns for one game.
type GameController struct {
	logger *slog.Logger

	mu         sync.Mutex
	game       *entity.Game
	state      State
	generation uint64
	cancel     func()

	bot       bot
	presenter Presenter
	schedule  Scheduler
	botDelay  time.Duration
	onChange  func(game entity.Game)
}

func NewGameController(logger *slog.Logger, game *entity.Game, bot bot, presenter Presenter, opts ...Option) *GameController {
	controller := &GameController{
		logger:    logger.With("component", "game_controller", "gameID", game.ID),
		game:      game,
		bot:       bot,
		presenter: presenter,
		schedule:  afterFunc,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// Start publishes the current game and, if the bot is to move, schedules its turn.
func (that *GameController) Start() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.publish()
	that.advance()
}

// OnHumanMove plays cell for the human. Rejected moves leave the game untouched.
func (that *GameController) OnHumanMove(cell int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch that.state {
	case Terminal:
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	case AwaitingComputerMove:
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	if err := that.game.MakeTurn(that.game.HumanMark, cell); err != nil {
		return fmt.Errorf("human turn: %w", err)
	}

	that.publish()
	that.advance()

	return nil
}

// Restart cancels a pending computer move and starts over with an empty board.
func (that *GameController) Restart() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelPending()
	that.game.Reset()

	that.publish()
	that.advance()
}

// Stop cancels a pending computer move. The controller must not be used afterwards.
func (that *GameController) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelPending()
}

func (that *GameController) State() State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state
}

// Snapshot returns a copy of the game.
func (that *GameController) Snapshot() entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return *that.game
}

// advance moves the state machine after the game changed. Callers hold mu.
func (that *GameController) advance() {
	switch {
	case that.game.IsFinished():
		that.state = Terminal
	case that.game.IsBotTurn():
		that.state = AwaitingComputerMove
		that.scheduleComputerMove()
	default:
		that.state = AwaitingHumanMove
	}
}

func (that *GameController) scheduleComputerMove() {
	that.generation++
	generation := that.generation

	that.cancel = that.schedule(that.botDelay, func() {
		that.computerMove(generation)
	})
}

func (that *GameController) computerMove(generation uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	// restarted or stopped since the move was scheduled
	if generation != that.generation || that.state != AwaitingComputerMove {
		return
	}

	that.cancel = nil

	cell, err := that.bot.MakeTurn(that.game)
	if err != nil {
		that.logger.Error("bot failed to make turn", "error", err)
		return
	}

	that.logger.Debug("bot made a turn", "cell", cell)

	that.publish()
	that.advance()
}

func (that *GameController) cancelPending() {
	that.generation++

	if that.cancel != nil {
		that.cancel()
		that.cancel = nil
	}
}

func (that *GameController) publish() {
	that.presenter.OnBoardChanged(that.game.Board)
	that.presenter.OnStatusChanged(that.game.StatusText())

	if that.onChange != nil {
		that.onChange(*that.game)
	}
}

func afterFunc(delay time.Duration, task func()) func() {
	timer := time.AfterFunc(delay, task)

	return func() {
		timer.Stop()
	}
}
