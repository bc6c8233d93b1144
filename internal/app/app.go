// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/saveplan and cmd/saveplan-server.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bobmcallan/saveplan/internal/clients/chat"
	"github.com/bobmcallan/saveplan/internal/clients/gemini"
	"github.com/bobmcallan/saveplan/internal/clients/optimizer"
	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/interfaces"
	"github.com/bobmcallan/saveplan/internal/services/explain"
	"github.com/bobmcallan/saveplan/internal/services/feedback"
	"github.com/bobmcallan/saveplan/internal/services/form"
	"github.com/bobmcallan/saveplan/internal/services/gateway"
	"github.com/bobmcallan/saveplan/internal/storage"
)

// Explanation providers.
const (
	ProviderChat   = "chat"
	ProviderGemini = "gemini"
)

// App holds all initialized services and clients.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Clock           clockwork.Clock
	Store           interfaces.KeyValueStore
	Cache           interfaces.ExplanationCache
	OptimizerClient interfaces.OptimizerClient
	Streamer        interfaces.CompletionStreamer
	PlanService     interfaces.PlanService
	ExplainService  interfaces.ExplainService
	FeedbackService interfaces.FeedbackService
	Drafts          *form.DraftStore
	Autosaver       *form.Autosaver
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and initializes everything.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Config path: argument, SAVEPLAN_CONFIG, binary dir, then dev fallback
	if configPath == "" {
		configPath = os.Getenv("SAVEPLAN_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "saveplan.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/saveplan.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ResolvePaths(binDir)

	return New(config, common.NewLoggerFromConfig(config.Logging))
}

// New initializes the App from an already loaded config.
func New(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()
	ctx := context.Background()

	store, err := storage.NewKeyValueStore(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	optimizerClient := optimizer.NewClient(
		optimizer.WithBaseURL(config.Clients.Optimizer.BaseURL),
		optimizer.WithLogger(logger),
		optimizer.WithRateLimit(config.Clients.Optimizer.RateLimit),
		optimizer.WithTimeout(config.Clients.Optimizer.GetTimeout()),
	)

	streamer, err := newStreamer(ctx, config, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize explanation provider")
	}
	if streamer == nil {
		logger.Warn().Msg("No AI provider key configured - explanations will be unavailable")
	}

	cache := storage.NewExplanationCache(logger, config.Explain.RedisAddr)
	clock := clockwork.NewRealClock()

	a := &App{
		Config:          config,
		Logger:          logger,
		Clock:           clock,
		Store:           store,
		Cache:           cache,
		OptimizerClient: optimizerClient,
		Streamer:        streamer,
		PlanService:     gateway.NewService(optimizerClient, logger),
		FeedbackService: feedback.NewService(optimizerClient, logger),
		Drafts:          form.NewDraftStore(store, clock, logger),
		StartupTime:     startupStart,
	}
	a.Autosaver = form.NewAutosaver(a.Drafts, clock)
	a.ExplainService = explain.NewService(streamer, cache, config.Explain.GetCacheTTL(), logger)

	logger.Info().
		Str("backend", config.Clients.Optimizer.BaseURL).
		Str("storage", config.Storage.Backend).
		Bool("explain", a.Streamer != nil).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// newStreamer builds the configured text-generation client, or returns nil
// when its key is missing.
func newStreamer(ctx context.Context, config *common.Config, logger *common.Logger) (interfaces.CompletionStreamer, error) {
	if !config.ExplainEnabled() {
		return nil, nil
	}
	switch config.Explain.Provider {
	case ProviderGemini:
		c, err := gemini.NewClient(ctx, config.Clients.Gemini.APIKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return chat.NewClient(config.Clients.Chat.APIKey,
			chat.WithBaseURL(config.Clients.Chat.BaseURL),
			chat.WithModel(config.Clients.Chat.Model),
			chat.WithMaxTokens(config.Clients.Chat.MaxTokens),
			chat.WithTimeout(config.Clients.Chat.GetTimeout()),
			chat.WithLogger(logger),
		), nil
	}
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if c, ok := a.Cache.(io.Closer); ok {
		c.Close()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Store = nil
	}
}
