package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrCellRequired = errors.New("cell is required")

func (that *Server) handleGameTurn(sessionID string, msg *Message) error {
	var payloadReq TurnPayload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Cell == nil {
		return ErrCellRequired
	}

	if err := that.gameUseCase.Move(sessionID, *payloadReq.Cell); err != nil {
		return fmt.Errorf("turn ignored: %w", err)
	}

	return nil
}

func (that *Server) handleGameRestart(sessionID string, _ *Message) error {
	if err := that.gameUseCase.Restart(sessionID); err != nil {
		return fmt.Errorf("restart ignored: %w", err)
	}

	return nil
}
