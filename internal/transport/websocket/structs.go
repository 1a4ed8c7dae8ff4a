package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const (
	actionGameTurn    = "game:turn"
	actionGameRestart = "game:restart"

	actionGameBoard  = "game:board"
	actionGameStatus = "game:status"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TurnPayload struct {
	Cell *int `json:"cell"`
}

type BoardPayload struct {
	Board entity.Board `json:"board"`
}

type StatusPayload struct {
	Status string `json:"status"`
}
