package entity

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDrawn      = "drawn"
)

// GameStatus is InProgress, Won(Winner) or Drawn. Winner is set only for StatusWon.
type GameStatus struct {
	State  string `json:"state"`
	Winner string `json:"winner,omitempty"`
}

func InProgress() GameStatus {
	return GameStatus{State: StatusInProgress}
}

func Won(mark string) GameStatus {
	return GameStatus{State: StatusWon, Winner: mark}
}

func Drawn() GameStatus {
	return GameStatus{State: StatusDrawn}
}

func (that GameStatus) IsTerminal() bool {
	return that.State == StatusWon || that.State == StatusDrawn
}

func (that GameStatus) IsWonBy(mark string) bool {
	return that.State == StatusWon && that.Winner == mark
}

// StatusText renders the line shown under the board.
func StatusText(status GameStatus, turn string) string {
	switch status.State {
	case StatusWon:
		return status.Winner + " wins!"
	case StatusDrawn:
		return "Draw!"
	default:
		return turn + "'s turn"
	}
}
