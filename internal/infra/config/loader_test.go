package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/hnthread/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := NewLoaderWithDirs(t.TempDir(), t.TempDir(), nil)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_LocalConfigOnly(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, domain.LocalConfigPath(workDir), `
[api]
base_url = "http://localhost:8080/v0"
timeout = "3s"

[fetch]
max_in_flight = 4
max_attempts = 5

[tree]
strategy = "indent"
indent_step = 20
max_depth = 64

[cache]
backend = "memcache"
memcache_addr = "cache:11211"
ttl = 30

[log]
level = "debug"
dir = "/tmp/hn-logs"

[tui]
feed = "ask"
story_limit = 10
collapse_depth = 3
`)

	cfg, err := NewLoaderWithDirs(workDir, t.TempDir(), nil).Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/v0", cfg.API.BaseURL)
	assert.Equal(t, domain.DefaultWebURL, cfg.API.WebURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 4, cfg.Fetch.MaxInFlight)
	assert.Equal(t, 5, cfg.Fetch.MaxAttempts)
	assert.Equal(t, domain.StrategyIndent, cfg.Tree.Strategy)
	assert.Equal(t, 20, cfg.Tree.IndentStep)
	assert.Equal(t, 64, cfg.Tree.MaxDepth)
	assert.Equal(t, domain.CacheBackendMemcache, cfg.Cache.Backend)
	assert.Equal(t, "cache:11211", cfg.Cache.MemcacheAddr)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, domain.DefaultCacheSize, cfg.Cache.Size)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/hn-logs", cfg.Log.Dir)
	assert.Equal(t, domain.FeedAsk, cfg.TUI.Feed)
	assert.Equal(t, 10, cfg.TUI.StoryLimit)
	assert.Equal(t, 3, cfg.TUI.CollapseDepth)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_LocalOverridesGlobal(t *testing.T) {
	workDir := t.TempDir()
	globalDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), `
[fetch]
max_in_flight = 8
max_attempts = 3

[log]
level = "warn"
`)
	writeFile(t, domain.LocalConfigPath(workDir), `
[fetch]
max_attempts = 0
`)

	cfg, err := NewLoaderWithDirs(workDir, globalDir, nil).Load()

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Fetch.MaxInFlight)
	assert.Equal(t, 0, cfg.Fetch.MaxAttempts, "explicit zero overrides global")
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_Load_EnvOverrides(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, domain.LocalConfigPath(workDir), `
[fetch]
max_in_flight = 8
`)
	writeFile(t, filepath.Join(workDir, domain.DotEnvFileName), `
HNTHREAD_FETCH_MAX_IN_FLIGHT=2
HNTHREAD_LOG_LEVEL=error
`)
	env := envMap(map[string]string{
		"HNTHREAD_LOG_LEVEL":   "debug",
		"HNTHREAD_API_TIMEOUT": "250ms",
	})

	cfg, err := NewLoaderWithDirs(workDir, t.TempDir(), env).Load()

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Fetch.MaxInFlight, ".env overrides files")
	assert.Equal(t, "debug", cfg.Log.Level, "process env overrides .env")
	assert.Equal(t, 250*time.Millisecond, cfg.API.Timeout)
}

func TestLoader_Load_UnknownKeysWarn(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, domain.LocalConfigPath(workDir), `
[fetch]
max_in_flight = 4
parallel = true

[workers]
default = "x"
`)

	cfg, err := NewLoaderWithDirs(workDir, t.TempDir(), nil).Load()

	require.NoError(t, err)
	require.Len(t, cfg.Warnings, 2)
	assert.Contains(t, cfg.Warnings[0], "unknown key in [fetch]: parallel")
	assert.Contains(t, cfg.Warnings[1], "unknown section: workers")
}

func TestLoader_Load_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr error
	}{
		{name: "strategy", content: "[tree]\nstrategy = \"spiral\"\n", wantErr: domain.ErrInvalidStrategy},
		{name: "feed", content: "[tui]\nfeed = \"hot\"\n", wantErr: domain.ErrInvalidFeed},
		{name: "backend", content: "[cache]\nbackend = \"redis\"\n"},
		{name: "negative", content: "[fetch]\nmax_in_flight = -1\n"},
		{name: "type", content: "[fetch]\nmax_attempts = \"many\"\n"},
		{name: "duration", content: "[api]\ntimeout = \"soon\"\n"},
		{name: "syntax", content: "[fetch\n"},
		{name: "env", env: map[string]string{"HNTHREAD_FETCH_MAX_ATTEMPTS": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workDir := t.TempDir()
			if tt.content != "" {
				writeFile(t, domain.LocalConfigPath(workDir), tt.content)
			}

			_, err := NewLoaderWithDirs(workDir, t.TempDir(), envMap(tt.env)).Load()

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoader_LoadGlobal(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoaderWithDirs(t.TempDir(), t.TempDir(), nil).LoadGlobal()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("ignores local config", func(t *testing.T) {
		workDir := t.TempDir()
		globalDir := t.TempDir()
		writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), "[tui]\nstory_limit = 5\n")
		writeFile(t, domain.LocalConfigPath(workDir), "[tui]\nstory_limit = 50\n")

		cfg, err := NewLoaderWithDirs(workDir, globalDir, nil).LoadGlobal()

		require.NoError(t, err)
		assert.Equal(t, 5, cfg.TUI.StoryLimit)
	})
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "HNTHREAD_FETCH_MAX_ATTEMPTS", EnvName("fetch", "max_attempts"))
	assert.Equal(t, "HNTHREAD_API_BASE_URL", EnvName("api", "base_url"))
}
