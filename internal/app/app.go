package app

import (
	"fmt"

	"github.com/bobmcallan/mcpforge/internal/common"
	"github.com/bobmcallan/mcpforge/internal/config"
	"github.com/bobmcallan/mcpforge/internal/handlers"
	"github.com/bobmcallan/mcpforge/internal/mcp"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	// HTTP handlers
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
	GeneratorHandler *handlers.GeneratorHandler
	MCPHandler       *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := a.initHandlers(); err != nil {
		return nil, err
	}

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() error {
	target, err := a.Config.Target()
	if err != nil {
		return err
	}

	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.GeneratorHandler = handlers.NewGeneratorHandler(a.Logger, target)

	a.MCPHandler, err = mcp.NewHandler(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP handler: %w", err)
	}

	a.Logger.Debug().Str("target", target.Name()).Msg("HTTP handlers initialized")
	return nil
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
