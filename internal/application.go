package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-bot/internal/config"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-bot/internal/service"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-bot/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-bot/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.SessionTTL)
	botService := service.NewBotService(entity.PlayerO)
	gameManager := usecase.NewGameManager(logger, gameRepo, botService, tictactoe.WithBotDelay(conf.BotDelay))

	log.Info("Starting WebSocket server", "port", conf.HTTPPort, "botDelay", conf.BotDelay)

	wsServer := websocket.New(logger, gameManager, conf.AllowedOrigins)
	if err = wsServer.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("WebSocket server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
