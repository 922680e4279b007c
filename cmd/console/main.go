package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/antigravity-labs/ultra-console/internal/api"
	"github.com/antigravity-labs/ultra-console/internal/infrastructure/config"
	"github.com/antigravity-labs/ultra-console/internal/infrastructure/logging"
	"github.com/antigravity-labs/ultra-console/internal/session"
	"github.com/antigravity-labs/ultra-console/internal/transport"
	"github.com/antigravity-labs/ultra-console/internal/tui"
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "ultra-console", "config.yaml")
}

func main() {
	// Parse flags
	cfgPath := flag.String("config", defaultConfigPath(), "YAML config file")
	serverURL := flag.String("server", "", "Backend base URL (overrides config)")
	model := flag.String("model", "", "Model to chat with (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	flag.Parse()

	cfg, err := config.LoadFile(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *model != "" {
		cfg.Chat.DefaultModel = *model
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{logging.DefaultLogPath()},
	}
	if cfg.Logging.File != "" {
		logCfg.OutputPaths = []string{cfg.Logging.File}
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	wsURL, err := transport.WebsocketURL(cfg.Server.URL, cfg.Server.WSPath)
	if err != nil {
		log.Fatalf("Invalid server URL %q: %v", cfg.Server.URL, err)
	}

	apiClient := api.New(cfg.Server.URL)
	ts := transport.NewSession(wsURL, transport.NewWebsocketDialer(), cfg.Reconnect.Delay, logger)
	surface := tui.NewSurface()

	controller := session.NewController(session.Options{
		Transport:  ts,
		Surface:    surface,
		Sidebar:    surface,
		StatusView: surface,
		ReadAPI:    apiClient,
		Log:        logger,
	})
	ts.SetListener(controller)

	program := tea.NewProgram(
		tui.NewModel(controller, cfg.Chat.DefaultModel, cfg.Chat.UseAgent),
		tea.WithAltScreen(),
	)
	surface.Attach(program)

	// Dial in the background; the session keeps retrying on its own.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := ts.Connect(ctx); err != nil {
			logger.Warn("initial connect failed, reconnect scheduled", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		logger.Error("console exited with error", zap.Error(err))
	}

	if err := ts.Close(); err != nil {
		logger.Warn("transport close", zap.Error(err))
	}
}
