package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const (
	sendBufferSize = 32
	writeTimeout   = 5 * time.Second
)

// connection renders one game to one websocket client. Messages are queued and written by writePump.
type connection struct {
	logger *slog.Logger

	conn   *websocket.Conn
	send   chan []byte
	cancel context.CancelFunc
}

func newConnection(logger *slog.Logger, conn *websocket.Conn, cancel context.CancelFunc) *connection {
	return &connection{
		logger: logger,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		cancel: cancel,
	}
}

func (that *connection) OnBoardChanged(board entity.Board) {
	that.enqueue(actionGameBoard, BoardPayload{Board: board})
}

func (that *connection) OnStatusChanged(status string) {
	that.enqueue(actionGameStatus, StatusPayload{Status: status})
}

func (that *connection) enqueue(action string, payload any) {
	message, err := encodeMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "action", action, "error", err)
		return
	}

	select {
	case that.send <- message:
	default:
		// a client this far behind will never catch up
		that.logger.Warn("send buffer is full, closing connection", "action", action)
		that.cancel()
	}
}

// writePump writes queued messages until ctx is done.
func (that *connection) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-that.send:
			if err := that.write(ctx, message); err != nil {
				that.logger.Error("failed to write message", "error", err)
				that.cancel()
				return
			}
		}
	}
}

func (that *connection) write(ctx context.Context, message []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := that.conn.Write(ctx, websocket.MessageText, message); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}

func encodeMessage(action string, payload any) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	message, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return message, nil
}
