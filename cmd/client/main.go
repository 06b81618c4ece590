package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"card-game-client/client"
	"card-game-client/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var configPath = flag.String("config", "config.yaml", "path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store := client.NewFileSessionStore(cfg.Session.File)
	uid := client.ResolveIdentity(cfg.Player.UID, store)

	c := client.New(client.Options{
		URL:           cfg.Server.URL,
		PlayerUID:     uid,
		DeckID:        cfg.Player.DeckID,
		ChatMaxLength: cfg.Chat.MaxLength,
		LobbyRefresh:  cfg.Lobby.RefreshInterval,
	}, store, client.NewTextView(os.Stdout), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if !c.Submit(scanner.Text()) {
				return
			}
		}
		// stdin closed
		stop()
	}()

	fmt.Printf("Connecting to %s as %s (type help for commands)\n", cfg.Server.URL, uid)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("client stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("client stopped")
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Keep stdout for the board.
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
