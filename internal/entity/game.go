package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

var ErrMalformedGame = errors.New("malformed game")

// Game is one human-versus-bot session. The human always plays X and moves first.
type Game struct {
	ID        string     `json:"id"`
	Board     Board      `json:"board"`
	Status    GameStatus `json:"status"`
	Turn      string     `json:"player_turn"`
	HumanMark string     `json:"human_mark"`
	BotMark   string     `json:"bot_mark"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:        id,
		Board:     Board{},
		Status:    InProgress(),
		Turn:      PlayerX,
		HumanMark: PlayerX,
		BotMark:   PlayerO,
		UpdatedAt: time.Now().UTC(),
	}
}

// MakeTurn places playerMark on cell and advances the turn, or returns an error wrapping apperror.ErrInvalidMove.
func (that *Game) MakeTurn(playerMark string, cell int) error {
	if that.IsFinished() {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	if that.Turn != playerMark {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	board, err := ApplyMove(that.Board, cell, playerMark)
	if err != nil {
		return err
	}

	that.Board = board
	that.UpdateGameState()

	return nil
}

func (that *Game) UpdateGameState() {
	that.Status = Evaluate(that.Board)
	that.UpdatedAt = time.Now().UTC()

	if that.Status.IsTerminal() {
		that.Turn = ""
		return
	}

	// marks alternate, so the count decides whose turn it is
	that.Turn = PlayerX
	if countMarks(that.Board, PlayerX) > countMarks(that.Board, PlayerO) {
		that.Turn = PlayerO
	}
}

// Normalize checks that the board can come from a real game and recomputes status and turn from it.
// The human is X and the bot is O.
func (that *Game) Normalize() error {
	for cell, mark := range that.Board {
		if mark != PlayerX && mark != PlayerO && mark != EmptyCell {
			return fmt.Errorf("%w: %w: %q at cell %d", ErrMalformedGame, ErrInvalidMark, mark, cell)
		}
	}

	lead := countMarks(that.Board, PlayerX) - countMarks(that.Board, PlayerO)
	if lead != 0 && lead != 1 {
		return fmt.Errorf("%w: X leads O by %d marks", ErrMalformedGame, lead)
	}

	if HasLine(that.Board, PlayerX) && HasLine(that.Board, PlayerO) {
		return fmt.Errorf("%w: both players have a line", ErrMalformedGame)
	}

	that.HumanMark = PlayerX
	that.BotMark = PlayerO
	that.UpdateGameState()

	return nil
}

// Reset clears the board for a rematch, keeping the session id.
func (that *Game) Reset() {
	that.Board = Board{}
	that.Status = InProgress()
	that.Turn = PlayerX
	that.UpdatedAt = time.Now().UTC()
}

func (that *Game) IsFinished() bool {
	return that.Status.IsTerminal()
}

func (that *Game) IsOngoing() bool {
	return that.Status.State == StatusInProgress
}

func (that *Game) IsBotTurn() bool {
	return that.IsOngoing() && that.Turn == that.BotMark
}

func (that *Game) StatusText() string {
	return StatusText(that.Status, that.Turn)
}

func countMarks(board Board, mark string) int {
	count := 0
	for _, cell := range board {
		if cell == mark {
			count++
		}
	}

	return count
}
