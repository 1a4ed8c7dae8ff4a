package apperror

import "errors"

var (
	// ErrInvalidMove is wrapped by every rejected move, whatever the cause.
	ErrInvalidMove = errors.New("invalid move")

	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
)
