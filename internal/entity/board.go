package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9
)

var (
	ErrInvalidCell = errors.New("invalid cell index")
	ErrInvalidMark = errors.New("invalid mark")

	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board is the 3x3 grid in row-major order.
type Board [BoardSize]string

// ApplyMove returns a copy of board with cell set to mark. The original board is not modified.
func ApplyMove(board Board, cell int, mark string) (Board, error) {
	if cell < 0 || cell >= BoardSize {
		return board, fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, ErrInvalidCell, cell)
	}

	if mark != PlayerX && mark != PlayerO {
		return board, fmt.Errorf("%w: %w: %q", apperror.ErrInvalidMove, ErrInvalidMark, mark)
	}

	if Evaluate(board).IsTerminal() {
		return board, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	if board[cell] != EmptyCell {
		return board, fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, apperror.ErrCellOccupied, cell)
	}

	board[cell] = mark

	return board, nil
}

// Evaluate reports whether someone completed a line, the board is full, or play continues.
func Evaluate(board Board) GameStatus {
	for _, mark := range [2]string{PlayerX, PlayerO} {
		if HasLine(board, mark) {
			return Won(mark)
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range board {
		if cell == EmptyCell {
			return InProgress()
		}
	}

	return Drawn()
}

// HasLine reports whether mark occupies all three cells of any win combo.
func HasLine(board Board, mark string) bool {
	for _, combo := range WinCombos {
		if board[combo[0]] == mark && board[combo[1]] == mark && board[combo[2]] == mark {
			return true
		}
	}

	return false
}

// EmptyIndices returns the free cells in ascending order.
func EmptyIndices(board Board) []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range board {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func ToggleMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
