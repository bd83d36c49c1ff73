// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/runoshun/hnthread/internal/domain"
	"github.com/runoshun/hnthread/internal/infra/config"
	"github.com/runoshun/hnthread/internal/infra/hnapi"
	"github.com/runoshun/hnthread/internal/infra/hnweb"
	"github.com/runoshun/hnthread/internal/infra/itemcache"
	"github.com/runoshun/hnthread/internal/infra/logging"
	"github.com/runoshun/hnthread/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	WorkDir string // Directory holding .hnthread/ and .env
	LogDir  string // Log directory; empty disables file logging
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Items         domain.ItemSource
	Records       domain.FlatRecordSource
	Feeds         domain.FeedSource
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Log           domain.Logger

	// Pointer fields
	AppConfig *domain.Config
	logger    *logging.Logger

	// Configuration
	Config Config
}

// New creates a new Container for the given working directory.
func New(dir string) (*Container, error) {
	configLoader := config.NewLoader(dir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	cfg := Config{
		WorkDir: dir,
		LogDir:  appConfig.Log.Dir,
	}

	logger := logging.New(cfg.LogDir, logging.ParseLevel(appConfig.Log.Level))
	for _, w := range appConfig.Warnings {
		logger.Warn(0, "config", w)
	}

	api := hnapi.New(appConfig.API.BaseURL, appConfig.API.Timeout)

	var items domain.ItemSource = api
	switch appConfig.Cache.Backend {
	case domain.CacheBackendMemory:
		items = itemcache.NewSource(api, itemcache.NewMemory(appConfig.Cache.Size, appConfig.Cache.TTL), logger)
	case domain.CacheBackendMemcache:
		mc := itemcache.NewMemcache(appConfig.Cache.TTL, logger, appConfig.Cache.MemcacheAddr)
		if err := mc.Ping(); err != nil {
			// Unreachable at startup: use the in-process cache instead
			logger.Warn(0, "cache", fmt.Sprintf("memcache %s unreachable, using memory cache: %v", appConfig.Cache.MemcacheAddr, err))
			items = itemcache.NewSource(api, itemcache.NewMemory(appConfig.Cache.Size, appConfig.Cache.TTL), logger)
			break
		}
		items = itemcache.NewSource(api, mc, logger)
	}

	return &Container{
		Items:         items,
		Records:       hnweb.New(appConfig.API.WebURL, appConfig.API.Timeout, appConfig.Tree.IndentStep),
		Feeds:         api,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(dir),
		Log:           logger,
		AppConfig:     appConfig,
		logger:        logger,
		Config:        cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, appConfig *domain.Config, items domain.ItemSource, records domain.FlatRecordSource, feeds domain.FeedSource, log domain.Logger) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	return &Container{
		Items:     items,
		Records:   records,
		Feeds:     feeds,
		Log:       log,
		AppConfig: appConfig,
		Config:    cfg,
	}
}

// EnableVerbose mirrors log lines at or above level to w.
func (c *Container) EnableVerbose(w io.Writer, level slog.Level) {
	if c.logger == nil {
		return
	}
	c.logger.SetMirror(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Close releases open log files.
func (c *Container) Close() error {
	if c.logger == nil {
		return nil
	}
	return c.logger.Close()
}

// UseCase factory methods

// threadOptions returns the fetch and tree settings from the app config.
func (c *Container) threadOptions() usecase.ThreadOptions {
	return usecase.NewThreadOptions(c.AppConfig)
}

// AssembleThreadUseCase returns a new AssembleThread use case.
func (c *Container) AssembleThreadUseCase() *usecase.AssembleThread {
	return usecase.NewAssembleThread(c.Items, c.Records, c.Log, c.threadOptions())
}

// StreamCommentsUseCase returns a new StreamComments use case.
func (c *Container) StreamCommentsUseCase() *usecase.StreamComments {
	return usecase.NewStreamComments(c.Items, c.Log, c.threadOptions())
}

// ListStoriesUseCase returns a new ListStories use case.
func (c *Container) ListStoriesUseCase() *usecase.ListStories {
	return usecase.NewListStories(c.Feeds, c.Items, c.Log, c.threadOptions())
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	return usecase.NewShowLogs(c.Config.LogDir)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigLoader, c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate(c.ConfigManager)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
