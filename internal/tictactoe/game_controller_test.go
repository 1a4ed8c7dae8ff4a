package tictactoe

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/service"
	mockedTicTacToe "github.com/rocketscienceinc/tictactoe-bot/mocks/tictactoe"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

type scheduledTask struct {
	delay     time.Duration
	run       func()
	cancelled bool
}

// manualScheduler queues tasks until runPending is called.
type manualScheduler struct {
	pending []*scheduledTask
}

func (that *manualScheduler) schedule(delay time.Duration, run func()) func() {
	task := &scheduledTask{delay: delay, run: run}
	that.pending = append(that.pending, task)

	return func() {
		task.cancelled = true
	}
}

func (that *manualScheduler) runPending() {
	pending := that.pending
	that.pending = nil

	for _, task := range pending {
		if !task.cancelled {
			task.run()
		}
	}
}

// recorder keeps everything the controller published.
type recorder struct {
	boards   []entity.Board
	statuses []string
}

func (that *recorder) OnBoardChanged(board entity.Board) {
	that.boards = append(that.boards, board)
}

func (that *recorder) OnStatusChanged(status string) {
	that.statuses = append(that.statuses, status)
}

func (that *recorder) lastBoard() entity.Board {
	return that.boards[len(that.boards)-1]
}

func (that *recorder) lastStatus() string {
	return that.statuses[len(that.statuses)-1]
}

func newTestController(t *testing.T, presenter Presenter, opts ...Option) (*GameController, *manualScheduler) {
	t.Helper()

	scheduler := &manualScheduler{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	opts = append([]Option{WithScheduler(scheduler.schedule), WithBotDelay(500 * time.Millisecond)}, opts...)
	controller := NewGameController(logger, entity.NewGame("123"), service.NewBotService(o), presenter, opts...)

	return controller, scheduler
}

func TestGameController_Start(t *testing.T) {
	// Given: a presenter expecting the empty board and X's turn
	presenter := mockedTicTacToe.NewMockPresenter(t)
	presenter.EXPECT().OnBoardChanged(entity.Board{}).Return().Once()
	presenter.EXPECT().OnStatusChanged("X's turn").Return().Once()

	controller, scheduler := newTestController(t, presenter)

	// When: the game starts
	controller.Start()

	// Then: the human is to move and nothing is scheduled
	require.Equal(t, AwaitingHumanMove, controller.State())
	require.Empty(t, scheduler.pending)
}

func TestGameController_OnHumanMove(t *testing.T) {
	t.Run("Valid move schedules the computer move", func(t *testing.T) {
		// Given: a started game
		presenter := &recorder{}
		controller, scheduler := newTestController(t, presenter)
		controller.Start()

		// When: the human plays the center
		err := controller.OnHumanMove(4)

		// Then: the move is published and the bot move is deferred
		require.NoError(t, err)
		assert.Equal(t, entity.Board{e, e, e, e, x, e, e, e, e}, presenter.lastBoard())
		assert.Equal(t, "O's turn", presenter.lastStatus())
		assert.Equal(t, AwaitingComputerMove, controller.State())
		require.Len(t, scheduler.pending, 1)
		assert.Equal(t, 500*time.Millisecond, scheduler.pending[0].delay)

		// When: the delay elapses
		scheduler.runPending()

		// Then: the bot answered in a corner and it is X's turn again
		assert.Equal(t, entity.Board{o, e, e, e, x, e, e, e, e}, presenter.lastBoard())
		assert.Equal(t, "X's turn", presenter.lastStatus())
		assert.Equal(t, AwaitingHumanMove, controller.State())
	})

	t.Run("Occupied cell is ignored", func(t *testing.T) {
		// Given: the human played 4 and the bot answered 0
		presenter := mockedTicTacToe.NewMockPresenter(t)
		presenter.EXPECT().OnBoardChanged(mock.Anything).Return().Times(3)
		presenter.EXPECT().OnStatusChanged(mock.Anything).Return().Times(3)

		controller, scheduler := newTestController(t, presenter)
		controller.Start()
		require.NoError(t, controller.OnHumanMove(4))
		scheduler.runPending()

		// When: the human clicks the bot's cell
		err := controller.OnHumanMove(0)

		// Then: the move is rejected without any callback
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, AwaitingHumanMove, controller.State())
	})

	t.Run("Moves while the bot is thinking are ignored", func(t *testing.T) {
		// Given: the bot move is pending
		presenter := &recorder{}
		controller, _ := newTestController(t, presenter)
		controller.Start()
		require.NoError(t, controller.OnHumanMove(4))
		published := len(presenter.boards)

		// When: the human clicks again
		err := controller.OnHumanMove(0)

		// Then: nothing changes
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Len(t, presenter.boards, published)
		assert.Equal(t, e, controller.Snapshot().Board[0])
	})

	t.Run("Out of range cell is ignored", func(t *testing.T) {
		presenter := &recorder{}
		controller, scheduler := newTestController(t, presenter)
		controller.Start()

		err := controller.OnHumanMove(9)

		require.ErrorIs(t, err, entity.ErrInvalidCell)
		assert.Len(t, presenter.boards, 1)
		assert.Empty(t, scheduler.pending)
	})
}

func TestGameController_FullGame(t *testing.T) {
	// Given: a human who always takes the first empty cell
	presenter := &recorder{}
	controller, scheduler := newTestController(t, presenter)
	controller.Start()

	// When: the game is played out
	for controller.State() != Terminal {
		require.Equal(t, AwaitingHumanMove, controller.State())
		require.NoError(t, controller.OnHumanMove(entity.EmptyIndices(controller.Snapshot().Board)[0]))
		scheduler.runPending()
	}

	// Then: the bot completed the 2-4-6 diagonal
	assert.Equal(t, entity.Board{x, x, o, x, o, e, o, e, e}, presenter.lastBoard())
	assert.Equal(t, "O wins!", presenter.lastStatus())
	assert.Equal(t, entity.Won(o), controller.Snapshot().Status)

	// Then: further moves are ignored
	err := controller.OnHumanMove(5)
	require.ErrorIs(t, err, apperror.ErrGameFinished)
	assert.Equal(t, "O wins!", presenter.lastStatus())
}

func TestGameController_Restart(t *testing.T) {
	t.Run("Restart after a win", func(t *testing.T) {
		// Given: a game the bot has won
		presenter := &recorder{}
		controller, scheduler := newTestController(t, presenter)
		controller.Start()
		for _, cell := range []int{0, 1, 3} {
			require.NoError(t, controller.OnHumanMove(cell))
			scheduler.runPending()
		}
		require.Equal(t, Terminal, controller.State())

		// When: the game is restarted
		controller.Restart()

		// Then: all cells are empty and X moves first
		assert.Equal(t, entity.Board{}, presenter.lastBoard())
		assert.Equal(t, "X's turn", presenter.lastStatus())
		assert.Equal(t, AwaitingHumanMove, controller.State())

		snapshot := controller.Snapshot()
		assert.Equal(t, x, snapshot.Turn)
		assert.True(t, snapshot.IsOngoing())
	})

	t.Run("Restart cancels the pending bot move", func(t *testing.T) {
		// Given: the bot move is pending
		presenter := &recorder{}
		controller, scheduler := newTestController(t, presenter)
		controller.Start()
		require.NoError(t, controller.OnHumanMove(4))

		// When: the game is restarted before the delay elapses
		controller.Restart()
		scheduler.runPending()

		// Then: the stale bot move never lands
		assert.Equal(t, entity.Board{}, presenter.lastBoard())
		assert.Equal(t, AwaitingHumanMove, controller.State())
	})
}

func TestGameController_OnChange(t *testing.T) {
	// Given: a hook collecting snapshots
	var snapshots []entity.Game
	presenter := &recorder{}
	controller, scheduler := newTestController(t, presenter, WithOnChange(func(game entity.Game) {
		snapshots = append(snapshots, game)
	}))

	// When: one full round is played
	controller.Start()
	require.NoError(t, controller.OnHumanMove(4))
	scheduler.runPending()

	// Then: the hook saw the start, the human move and the bot move
	require.Len(t, snapshots, 3)
	assert.Equal(t, entity.Board{o, e, e, e, x, e, e, e, e}, snapshots[2].Board)
	assert.Equal(t, "123", snapshots[2].ID)
}

func TestGameController_StartOnBotTurn(t *testing.T) {
	// Given: a restored game interrupted while the bot was to move
	game := entity.NewGame("123")
	require.NoError(t, game.MakeTurn(x, 4))

	presenter := &recorder{}
	scheduler := &manualScheduler{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	controller := NewGameController(logger, game, service.NewBotService(o), presenter, WithScheduler(scheduler.schedule))

	// When: the controller starts
	controller.Start()
	require.Equal(t, AwaitingComputerMove, controller.State())
	scheduler.runPending()

	// Then: the bot finishes its turn
	assert.Equal(t, entity.Board{o, e, e, e, x, e, e, e, e}, presenter.lastBoard())
	assert.Equal(t, AwaitingHumanMove, controller.State())
}

func TestGameController_Stop(t *testing.T) {
	presenter := &recorder{}
	controller, scheduler := newTestController(t, presenter)
	controller.Start()
	require.NoError(t, controller.OnHumanMove(4))

	controller.Stop()
	scheduler.runPending()

	assert.Equal(t, entity.Board{e, e, e, e, x, e, e, e, e}, presenter.lastBoard())
}

// firstCellBot plays the first empty cell and counts its turns.
type firstCellBot struct {
	turns int
	err   error
}

func (that *firstCellBot) MakeTurn(game *entity.Game) (int, error) {
	that.turns++
	if that.err != nil {
		return 0, that.err
	}

	cell := entity.EmptyIndices(game.Board)[0]

	return cell, game.MakeTurn(game.BotMark, cell)
}

func TestGameController_ComputerMove(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("Bot service plays the computer turn", func(t *testing.T) {
		// Given: a controller backed by a bot that takes the first empty cell
		presenter := &recorder{}
		scheduler := &manualScheduler{}
		bot := &firstCellBot{}
		controller := NewGameController(logger, entity.NewGame("123"), bot, presenter, WithScheduler(scheduler.schedule))
		controller.Start()

		// When: the human plays 0 and the delay elapses
		require.NoError(t, controller.OnHumanMove(0))
		scheduler.runPending()

		// Then: the bot's move is the one applied
		assert.Equal(t, 1, bot.turns)
		assert.Equal(t, entity.Board{x, o, e, e, e, e, e, e, e}, presenter.lastBoard())
		assert.Equal(t, AwaitingHumanMove, controller.State())
	})

	t.Run("Bot failure leaves the board unpublished", func(t *testing.T) {
		presenter := &recorder{}
		scheduler := &manualScheduler{}
		bot := &firstCellBot{err: service.ErrNoAvailableMoves}
		controller := NewGameController(logger, entity.NewGame("123"), bot, presenter, WithScheduler(scheduler.schedule))
		controller.Start()
		require.NoError(t, controller.OnHumanMove(0))
		published := len(presenter.boards)

		scheduler.runPending()

		assert.Equal(t, 1, bot.turns)
		assert.Len(t, presenter.boards, published)
	})
}
