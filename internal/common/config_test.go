package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultBackendURL(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Clients.Optimizer.BaseURL != "http://localhost:5001" {
		t.Errorf("Optimizer.BaseURL default = %q, want %q", cfg.Clients.Optimizer.BaseURL, "http://localhost:5001")
	}
}

func TestConfig_APIURLEnvOverride(t *testing.T) {
	t.Setenv("API_URL", "https://optimise.example.com")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "https://optimise.example.com", cfg.Clients.Optimizer.BaseURL)
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("SAVEPLAN_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_PortEnvOverride_Invalid(t *testing.T) {
	t.Setenv("SAVEPLAN_PORT", "not-a-port")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestConfig_ExplainEnabled(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.False(t, cfg.ExplainEnabled(), "no key configured")

	cfg.Clients.Chat.APIKey = "sk-test"
	assert.True(t, cfg.ExplainEnabled())

	cfg.Explain.Provider = "gemini"
	assert.False(t, cfg.ExplainEnabled(), "gemini provider needs its own key")

	cfg.Clients.Gemini.APIKey = "g-test"
	assert.True(t, cfg.ExplainEnabled())
}

func TestConfig_ChatKeyEnvOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-openai")
	t.Setenv("SAVEPLAN_CHAT_API_KEY", "from-saveplan")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	// The product-specific variable wins
	assert.Equal(t, "from-saveplan", cfg.Clients.Chat.APIKey)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saveplan.toml")
	content := `
environment = "staging"

[server]
port = 7000

[storage]
backend = "badger"

[clients.optimizer]
base_url = "http://from-file:5001"
timeout = "5s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("SAVEPLAN_PORT", "7100")

	cfg, err := LoadConfig(path, filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 7100, cfg.Server.Port)
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, "http://from-file:5001", cfg.Clients.Optimizer.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Clients.Optimizer.GetTimeout())
	// Untouched defaults survive the merge
	assert.Equal(t, "gpt-4o-mini", cfg.Clients.Chat.Model)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport ="), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_GetTimeoutFallbacks(t *testing.T) {
	o := OptimizerConfig{Timeout: "garbage"}
	assert.Equal(t, 30*time.Second, o.GetTimeout())

	c := ChatConfig{}
	assert.Equal(t, 2*time.Minute, c.GetTimeout())

	e := ExplainConfig{CacheTTL: "1h"}
	assert.Equal(t, time.Hour, e.GetCacheTTL())
}

func TestConfig_ResolvePaths(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.ResolvePaths("/opt/saveplan")
	assert.Equal(t, filepath.Join("/opt/saveplan", "data"), cfg.Storage.Path)

	cfg.Storage.Path = "/var/lib/saveplan"
	cfg.ResolvePaths("/opt/saveplan")
	assert.Equal(t, "/var/lib/saveplan", cfg.Storage.Path)
}

func TestIsFresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, IsFresh(now.Add(-23*time.Hour), now, DraftMaxAge))
	assert.False(t, IsFresh(now.Add(-25*time.Hour), now, DraftMaxAge))
	assert.False(t, IsFresh(time.Time{}, now, DraftMaxAge))
	assert.True(t, IsFresh(now, now, DraftMaxAge))
	// Clock skew: a future timestamp would otherwise stay fresh forever
	assert.False(t, IsFresh(now.Add(time.Minute), now, DraftMaxAge))
	assert.False(t, IsFresh(now.Add(48*time.Hour), now, DraftMaxAge))
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, SessionFromContext(ctx))

	s := &Session{SessionID: NewSessionID(), BatchID: NewSessionID()}
	ctx = WithSession(ctx, s)
	assert.Same(t, s, SessionFromContext(ctx))
	assert.NotEqual(t, s.SessionID, s.BatchID)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "£0.00"},
		{9.5, "£9.50"},
		{999, "£999.00"},
		{1000, "£1,000.00"},
		{817.6, "£817.60"},
		{1234567.891, "£1,234,567.89"},
		{-2500, "-£2,500.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatPct(4.75); got != "4.75%" {
		t.Errorf("FormatPct = %q", got)
	}
}
