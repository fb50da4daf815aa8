package commands

import (
	"fmt"
	"path/filepath"

	"privateai/internal/chat"
	"privateai/internal/config"
	"privateai/internal/gemini"
	"privateai/internal/logger"
	"privateai/internal/pdf"
	"privateai/internal/store"
	"privateai/internal/transcribe"
)

// app bundles the wired collaborators a command runs against.
type app struct {
	cfg      config.Config
	orc      *chat.Orchestrator
	saver    *store.Saver
	closeLog func() error
}

// newApp loads configuration and assembles the orchestrator with its
// production collaborators. Sessions are loaded before returning.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		// Corrupt config falls back to defaults; keep going.
		fmt.Println("Warning:", err)
	}
	if modelFlag != "" {
		cfg.ModelID = modelFlag
	}
	if verboseFlag {
		cfg.Verbose = true
	}

	dir, err := config.EnsureConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare config directory: %w", err)
	}

	logCfg := logger.Config{
		Level: "info",
		File:  filepath.Join(dir, "privateai.log"),
	}
	if cfg.Verbose {
		logCfg.Level = "debug"
		logCfg.Console = true
		logCfg.Pretty = true
	}
	closeLog, err := logger.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	st, err := store.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	saver := store.NewSaver(st, store.DefaultDebounce)

	client, err := gemini.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	engine := transcribe.NewWhisperEngine(cfg.EffectiveOpenAIKey())

	orc := chat.New(chat.Deps{
		Store:       st,
		Saver:       saver,
		LLM:         client,
		Transcriber: transcribe.NewService(engine, cfg.Locale()),
		Extractor:   pdf.NewExtractor(),
		Settings:    cfg,
	})
	orc.LoadSessions()

	return &app{
		cfg:      cfg,
		orc:      orc,
		saver:    saver,
		closeLog: closeLog,
	}, nil
}

// close waits for detached work and flushes pending saves.
func (a *app) close() {
	a.orc.Wait()
	a.saver.Close()
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}
