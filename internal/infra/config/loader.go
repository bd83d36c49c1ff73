// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/hnthread/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files and the environment.
//
// Precedence, lowest first: defaults, global config, local config,
// variables from the local .env file, process environment.
type Loader struct {
	lookupEnv     func(string) (string, bool)
	workDir       string // Directory holding .hnthread/ and .env
	globalConfDir string // Path to global config directory (e.g., ~/.config/hnthread)
}

// NewLoader creates a new Loader rooted at workDir.
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir:       workDir,
		globalConfDir: DefaultGlobalConfigDir(),
		lookupEnv:     os.LookupEnv,
	}
}

// NewLoaderWithDirs creates a Loader with a custom global config directory
// and environment lookup. This is useful for testing.
func NewLoaderWithDirs(workDir, globalConfDir string, lookupEnv func(string) (string, bool)) *Loader {
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}
	return &Loader{
		workDir:       workDir,
		globalConfDir: globalConfDir,
		lookupEnv:     lookupEnv,
	}
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalAppDir(configHome)
}

// Load returns the merged configuration.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		if err := applyFile(cfg, filepath.Join(l.globalConfDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}
	if err := applyFile(cfg, domain.LocalConfigPath(l.workDir)); err != nil {
		return nil, err
	}
	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadGlobal returns defaults overlaid with the global configuration only.
// It returns an error wrapping os.ErrNotExist if there is no global file.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	path := filepath.Join(l.globalConfDir, domain.ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	cfg := domain.NewDefaultConfig()
	if err := applyFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays the TOML file at path onto cfg. A missing file is skipped.
func applyFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	warnings, err := applyRaw(cfg, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range warnings {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: %s", path, w))
	}
	return nil
}

// applyRaw overlays a decoded TOML document onto cfg and returns warnings
// for unknown sections and keys.
func applyRaw(cfg *domain.Config, raw map[string]any) ([]string, error) {
	var warnings []string

	for section, value := range raw {
		keys, known := fields[section]
		if !known {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("[%s] is not a table", section))
			continue
		}
		for k, v := range m {
			set, ok := keys[k]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
				continue
			}
			if err := set(cfg, v); err != nil {
				return nil, fmt.Errorf("[%s] %s: %w", section, k, err)
			}
		}
	}

	sort.Strings(warnings)
	return warnings, nil
}

// applyEnv overlays HNTHREAD_<SECTION>_<KEY> variables onto cfg.
// Variables from the local .env file apply unless the process sets them too.
func (l *Loader) applyEnv(cfg *domain.Config) error {
	dotenv, err := godotenv.Read(filepath.Join(l.workDir, domain.DotEnvFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", domain.DotEnvFileName, err)
	}

	sections := make([]string, 0, len(fields))
	for section := range fields {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	for _, section := range sections {
		for key, set := range fields[section] {
			name := EnvName(section, key)
			value, ok := l.lookupEnv(name)
			if !ok {
				value, ok = dotenv[name]
			}
			if !ok {
				continue
			}
			if err := set(cfg, value); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

// EnvName returns the environment variable overriding a config key,
// e.g. HNTHREAD_FETCH_MAX_ATTEMPTS.
func EnvName(section, key string) string {
	return domain.EnvPrefix + strings.ToUpper(section+"_"+key)
}

// setter assigns a raw TOML or environment value to a config field.
type setter func(cfg *domain.Config, v any) error

// fields lists every known key per section.
var fields = map[string]map[string]setter{
	"api": {
		"base_url": stringField(func(c *domain.Config) *string { return &c.API.BaseURL }),
		"web_url":  stringField(func(c *domain.Config) *string { return &c.API.WebURL }),
		"timeout":  durationField(func(c *domain.Config) *time.Duration { return &c.API.Timeout }),
	},
	"fetch": {
		"max_in_flight": intField(func(c *domain.Config) *int { return &c.Fetch.MaxInFlight }),
		"max_attempts":  intField(func(c *domain.Config) *int { return &c.Fetch.MaxAttempts }),
	},
	"tree": {
		"strategy": func(c *domain.Config, v any) error {
			s, err := asString(v)
			if err != nil {
				return err
			}
			st, err := domain.ParseStrategy(s)
			if err != nil {
				return fmt.Errorf("%w: %q", err, s)
			}
			c.Tree.Strategy = st
			return nil
		},
		"indent_step": intField(func(c *domain.Config) *int { return &c.Tree.IndentStep }),
		"max_depth":   intField(func(c *domain.Config) *int { return &c.Tree.MaxDepth }),
	},
	"cache": {
		"backend": func(c *domain.Config, v any) error {
			s, err := asString(v)
			if err != nil {
				return err
			}
			switch s {
			case domain.CacheBackendMemory, domain.CacheBackendMemcache, domain.CacheBackendNone:
				c.Cache.Backend = s
				return nil
			}
			return fmt.Errorf("unknown cache backend %q", s)
		},
		"memcache_addr": stringField(func(c *domain.Config) *string { return &c.Cache.MemcacheAddr }),
		"size":          intField(func(c *domain.Config) *int { return &c.Cache.Size }),
		"ttl":           durationField(func(c *domain.Config) *time.Duration { return &c.Cache.TTL }),
	},
	"log": {
		"level": stringField(func(c *domain.Config) *string { return &c.Log.Level }),
		"dir":   stringField(func(c *domain.Config) *string { return &c.Log.Dir }),
	},
	"tui": {
		"feed": func(c *domain.Config, v any) error {
			s, err := asString(v)
			if err != nil {
				return err
			}
			feed := domain.Feed(s)
			if !feed.IsValid() {
				return fmt.Errorf("%w: %q", domain.ErrInvalidFeed, s)
			}
			c.TUI.Feed = feed
			return nil
		},
		"story_limit":    intField(func(c *domain.Config) *int { return &c.TUI.StoryLimit }),
		"collapse_depth": intField(func(c *domain.Config) *int { return &c.TUI.CollapseDepth }),
	},
}

func stringField(ptr func(*domain.Config) *string) setter {
	return func(c *domain.Config, v any) error {
		s, err := asString(v)
		if err != nil {
			return err
		}
		*ptr(c) = s
		return nil
	}
}

func intField(ptr func(*domain.Config) *int) setter {
	return func(c *domain.Config, v any) error {
		var n int
		switch x := v.(type) {
		case int64:
			n = int(x)
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return fmt.Errorf("want integer, got %q", x)
			}
			n = parsed
		default:
			return fmt.Errorf("want integer, got %T", v)
		}
		if n < 0 {
			return fmt.Errorf("must not be negative, got %d", n)
		}
		*ptr(c) = n
		return nil
	}
}

func durationField(ptr func(*domain.Config) *time.Duration) setter {
	return func(c *domain.Config, v any) error {
		switch x := v.(type) {
		case int64:
			*ptr(c) = time.Duration(x) * time.Second
			return nil
		case string:
			d, err := time.ParseDuration(strings.TrimSpace(x))
			if err != nil {
				return fmt.Errorf("want duration, got %q", x)
			}
			*ptr(c) = d
			return nil
		}
		return fmt.Errorf("want duration, got %T", v)
	}
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("want string, got %T", v)
	}
	return s, nil
}
