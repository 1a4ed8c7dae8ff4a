package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

const (
	sessionCookieName = "user_session"
	sessionCookieTTL  = 24 * time.Hour

	readLimit       = 4096
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	Connect(ctx context.Context, sessionID string, presenter tictactoe.Presenter) *tictactoe.GameController
	Move(sessionID string, cell int) error
	Restart(sessionID string) error
	Disconnect(ctx context.Context, sessionID string, controller *tictactoe.GameController)
}

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase

	originPatterns []string

	handlers map[string]func(sessionID string, msg *Message) error
}

func New(logger *slog.Logger, gameUseCase gameUseCase, originPatterns []string) *Server {
	server := &Server{
		logger:         logger.With("component", "websocket"),
		gameUseCase:    gameUseCase,
		originPatterns: originPatterns,

		handlers: make(map[string]func(string, *Message) error),
	}

	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameRestart] = server.handleGameRestart

	return server
}

// Router serves the game socket on /ws and a health check on /ping.
func (that *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Get("/ping", pingHandler)
	router.Get("/ws", that.serveWS)

	return router
}

// Start serves HTTP on port until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	sessionID := that.setSessionCookie(writer, req)
	log := that.logger.With("method", "serveWS", "sessionID", sessionID)

	conn, err := websocket.Accept(writer, req, &websocket.AcceptOptions{
		OriginPatterns: that.originPatterns,
	})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}

	defer conn.Close(websocket.StatusInternalError, "connection closed")

	conn.SetReadLimit(readLimit)

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	client := newConnection(log, conn, cancel)
	go client.writePump(ctx)

	controller := that.gameUseCase.Connect(ctx, sessionID, client)
	defer that.gameUseCase.Disconnect(context.WithoutCancel(ctx), sessionID, controller)

	log.Info("WebSocket connection established")

	err = that.handleMessages(ctx, conn, sessionID)

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		log.Info("WebSocket connection closed")
	default:
		if ctx.Err() == nil {
			log.Error("error handling messages", "error", err)
		}
	}
}

// handleMessages processes client messages until the connection fails. Bad messages are skipped.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, sessionID string) error {
	log := that.logger.With("method", "handleMessages", "sessionID", sessionID)

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		if msgType != websocket.MessageText {
			log.Debug("skipping non-text message")
			continue
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			continue
		}

		if err = handler(sessionID, &message); err != nil {
			log.Debug("message ignored", "action", message.Action, "error", err)
		}
	}
}

// setSessionCookie returns the session id from the cookie, issuing a new one when missing or malformed.
func (that *Server) setSessionCookie(writer http.ResponseWriter, req *http.Request) string {
	if cookie, err := req.Cookie(sessionCookieName); err == nil {
		if _, err = uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    uuid.NewString(),
		Expires:  time.Now().Add(sessionCookieTTL),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(writer, cookie)

	that.logger.Info("session cookie not found, new one created", "sessionID", cookie.Value)

	return cookie.Value
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
