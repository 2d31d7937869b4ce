package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/omochice/roomtalk/internal/client"
	"github.com/omochice/roomtalk/internal/config"
	"github.com/omochice/roomtalk/internal/console"
	"github.com/omochice/roomtalk/internal/identity"
	"github.com/omochice/roomtalk/internal/logging"
	"github.com/omochice/roomtalk/internal/storage/sqlite"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.ParseClient(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(2)
	}
	// the terminal belongs to the chat screen, so logs only go to a file
	logger := zap.NewNop()
	if cfg.LogFile != "" {
		l, closeLog, err := logging.NewFile(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
			os.Exit(2)
		}
		defer closeLog()
		logger = l
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openPrefs(cfg.PrefsPath, logger)
	defer closeStore()
	loader := identity.Loader{Store: store, Logger: logger}
	id := loader.Load(ctx)
	prefs := loader.LoadPreferences(ctx)

	sink := console.NewSink()
	c, err := client.New(client.Config{
		URL:           cfg.ServerURL,
		Room:          cfg.Room,
		Identity:      id,
		Sink:          sink,
		Notifier:      sink,
		TypingTimeout: cfg.TypingTimeout,
		Milestones:    cfg.Milestones,
		ReconnectMin:  cfg.ReconnectMin,
		ReconnectMax:  cfg.ReconnectMax,
		QueueSize:     cfg.QueueSize,
		Logger:        logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create client: %v\n", err)
		os.Exit(1)
	}

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = c.Run(ctx)
	}()

	model := console.NewModel(console.Options{
		Context:      ctx,
		Actions:      c,
		Prefs:        loader,
		Sink:         sink,
		Identity:     id,
		Room:         cfg.Room,
		Theme:        prefs.Theme,
		SoundEnabled: prefs.SoundEnabled,
		Bell:         os.Stdout,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("console stopped", zap.Error(err))
	}

	sink.Close()
	stop()
	<-runDone
}

// openPrefs opens the SQLite preference store, falling back to memory so
// the client still runs with an ephemeral identity.
func openPrefs(path string, logger *zap.Logger) (identity.Store, func()) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			logger.Debug("no user config dir, using in-memory preferences", zap.Error(err))
			return identity.NewMemoryStore(), func() {}
		}
		path = filepath.Join(dir, "roomtalk", "prefs.db")
	}
	store, err := sqlite.Open(path)
	if err != nil {
		logger.Debug("preferences unavailable, using in-memory store", zap.String("path", path), zap.Error(err))
		return identity.NewMemoryStore(), func() {}
	}
	return store, func() { _ = store.Close() }
}
