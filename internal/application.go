package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/caro-backend/internal/config"
	"github.com/rocketscienceinc/caro-backend/internal/relay"
	"github.com/rocketscienceinc/caro-backend/internal/repository"
	"github.com/rocketscienceinc/caro-backend/internal/repository/storage"
	"github.com/rocketscienceinc/caro-backend/transport/rest"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrSecretNotFound = errors.New("shared secret is empty")
)

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

	if conf.SharedSecret == "" {
		return ErrSecretNotFound
	}

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

	matchRepo := repository.NewMatchRepository(redisStorage.Connection)
	relayServer := relay.New(logger, conf.SharedSecret, matchRepo, nil)

	// run game relay server
	relayErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting game server", "port", conf.GamePort)
		if relayErr := relayServer.Start(ctx, conf.GamePort); relayErr != nil {
			log.Error("game server error", "error", relayErr)
			relayErrCh <- relayErr
		}
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort, relayServer); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-relayErrCh:
		return fmt.Errorf("game server error: %w", err)
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
