package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const winScore = 10

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	BestMove(board entity.Board) int
	MakeTurn(game *entity.Game) (int, error)
}

// botService plays botMark with a full-depth minimax search.
type botService struct {
	botMark   string
	humanMark string
}

func NewBotService(botMark string) BotService {
	return &botService{
		botMark:   botMark,
		humanMark: entity.ToggleMark(botMark),
	}
}

// MakeTurn picks the best cell for the bot and plays it on game.
func (that *botService) MakeTurn(game *entity.Game) (int, error) {
	if game.IsFinished() {
		return 0, apperror.ErrGameFinished
	}

	if len(entity.EmptyIndices(game.Board)) == 0 {
		return 0, ErrNoAvailableMoves
	}

	cell := that.BestMove(game.Board)

	if err := game.MakeTurn(that.botMark, cell); err != nil {
		return 0, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return cell, nil
}

// BestMove returns the first empty cell with the strictly greatest minimax score.
// The board must be in progress with at least one empty cell.
func (that *botService) BestMove(board entity.Board) int {
	// board is an array, so the search mutates a private copy
	bestScore := math.MinInt
	bestMove := -1

	for i := range board {
		if board[i] != entity.EmptyCell {
			continue
		}

		board[i] = that.botMark
		score := that.score(&board, 0, false)
		board[i] = entity.EmptyCell

		if score > bestScore {
			bestScore = score
			bestMove = i
		}
	}

	return bestMove
}

// score rates board from the bot's point of view; faster wins and slower losses score higher.
func (that *botService) score(board *entity.Board, depth int, maximizing bool) int {
	switch status := entity.Evaluate(*board); {
	case status.IsWonBy(that.humanMark):
		return -winScore + depth
	case status.IsWonBy(that.botMark):
		return winScore - depth
	case status.State == entity.StatusDrawn:
		return 0
	}

	mark, best := that.humanMark, math.MaxInt
	if maximizing {
		mark, best = that.botMark, math.MinInt
	}

	for i := range board {
		if board[i] != entity.EmptyCell {
			continue
		}

		board[i] = mark
		score := that.score(board, depth+1, !maximizing)
		board[i] = entity.EmptyCell

		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}
