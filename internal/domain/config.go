package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string    `toml:"-"`
	API      APIConfig   `toml:"api"`
	Cache    CacheConfig `toml:"cache"`
	Log      LogConfig   `toml:"log"`
	Fetch    FetchConfig `toml:"fetch"`
	Tree     TreeConfig  `toml:"tree"`
	TUI      TUIConfig   `toml:"tui"`
}

// APIConfig holds the remote endpoints from [api] section.
type APIConfig struct {
	BaseURL string        `toml:"base_url,omitempty"` // Item API root, e.g. https://hacker-news.firebaseio.com/v0
	WebURL  string        `toml:"web_url,omitempty"`  // Rendered site root, e.g. https://news.ycombinator.com
	Timeout time.Duration `toml:"timeout,omitempty"`  // Per-request timeout
}

// FetchConfig holds orchestration limits from [fetch] section.
type FetchConfig struct {
	MaxInFlight int `toml:"max_in_flight,omitempty"` // 0 = no cap
	MaxAttempts int `toml:"max_attempts,omitempty"`  // 0 = retry forever
}

// TreeConfig holds tree building settings from [tree] section.
type TreeConfig struct {
	Strategy   Strategy `toml:"strategy,omitempty"`    // "links" (default) or "indent"
	IndentStep int      `toml:"indent_step,omitempty"` // Pixel width of one nesting level
	MaxDepth   int      `toml:"max_depth,omitempty"`   // 0 = unbounded
}

// CacheConfig holds item cache settings from [cache] section.
type CacheConfig struct {
	Backend      string        `toml:"backend,omitempty"`       // "memory" (default), "memcache" or "none"
	MemcacheAddr string        `toml:"memcache_addr,omitempty"` // host:port for the memcache backend
	Size         int           `toml:"size,omitempty"`          // Entries kept by the memory backend
	TTL          time.Duration `toml:"ttl,omitempty"`           // Expiration for shared cache entries
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
	Dir   string `toml:"dir,omitempty"`   // Log directory; empty disables file logging
}

// TUIConfig holds TUI settings from [tui] section.
type TUIConfig struct {
	Feed          Feed `toml:"feed,omitempty"`           // Feed shown on startup
	StoryLimit    int  `toml:"story_limit,omitempty"`    // Stories listed per feed
	CollapseDepth int  `toml:"collapse_depth,omitempty"` // Replies deeper than this start collapsed; 0 = never
}

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultBaseURL       = "https://hacker-news.firebaseio.com/v0"
	DefaultWebURL        = "https://news.ycombinator.com"
	DefaultTimeout       = 10 * time.Second
	DefaultIndentStep    = 40
	DefaultCacheBackend  = "memory"
	DefaultCacheSize     = 4096
	DefaultCacheTTL      = 5 * time.Minute
	DefaultStoryLimit    = 30
	DefaultMaxAttempts   = 0
	DefaultMaxInFlight   = 32
	DefaultCollapseDepth = 0
)

// Cache backends.
const (
	CacheBackendMemory   = "memory"
	CacheBackendMemcache = "memcache"
	CacheBackendNone     = "none"
)

// Directory and file names.
const (
	AppDirName      = "hnthread"    // Directory name under the config home
	LocalDirName    = ".hnthread"   // Directory name in the working directory
	ConfigFileName  = "config.toml" // Config file name
	EnvPrefix       = "HNTHREAD_"   // Prefix of environment overrides
	DotEnvFileName  = ".env"        // Env file loaded before overrides
	GlobalLogName   = "hnthread.log"
	ThreadLogPrefix = "thread-"
)

// GlobalAppDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalAppDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalAppDir(configHome), ConfigFileName)
}

// LocalConfigPath returns the config path inside a working directory.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, LocalDirName, ConfigFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			WebURL:  DefaultWebURL,
			Timeout: DefaultTimeout,
		},
		Fetch: FetchConfig{
			MaxInFlight: DefaultMaxInFlight,
			MaxAttempts: DefaultMaxAttempts,
		},
		Tree: TreeConfig{
			Strategy:   StrategyLinks,
			IndentStep: DefaultIndentStep,
		},
		Cache: CacheConfig{
			Backend: DefaultCacheBackend,
			Size:    DefaultCacheSize,
			TTL:     DefaultCacheTTL,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		TUI: TUIConfig{
			Feed:          FeedTop,
			StoryLimit:    DefaultStoryLimit,
			CollapseDepth: DefaultCollapseDepth,
		},
	}
}

// RetryPolicy returns the fetch retry policy described by the config.
func (c *Config) RetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: c.Fetch.MaxAttempts}
}

// templateData holds all data for rendering the config template.
type templateData struct {
	BaseURL      string
	WebURL       string
	Timeout      string
	Strategy     Strategy
	CacheBackend string
	LogLevel     string
	MaxInFlight  int
	MaxAttempts  int
	IndentStep   int
	CacheSize    int
	StoryLimit   int
}

// RenderConfigTemplate renders the commented config template for cfg.
func RenderConfigTemplate(cfg *Config) string {
	data := templateData{
		BaseURL:      cfg.API.BaseURL,
		WebURL:       cfg.API.WebURL,
		Timeout:      cfg.API.Timeout.String(),
		MaxInFlight:  cfg.Fetch.MaxInFlight,
		MaxAttempts:  cfg.Fetch.MaxAttempts,
		Strategy:     cfg.Tree.Strategy,
		IndentStep:   cfg.Tree.IndentStep,
		CacheBackend: cfg.Cache.Backend,
		CacheSize:    cfg.Cache.Size,
		LogLevel:     cfg.Log.Level,
		StoryLimit:   cfg.TUI.StoryLimit,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
