package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./content/substances", cfg.Content.SubstancesDir)

	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ttl)
}

func TestLoadFromFiles_Layering(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	require.NoError(t, os.WriteFile(base, []byte(`
[server]
port = 9000

[search]
cache_ttl = "5s"
`), 0644))

	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(override, []byte(`
[server]
port = 9001
`), 0644))

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	// Later file wins for port; earlier file's ttl survives; untouched
	// values keep their defaults
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "5s", cfg.Search.CacheTTL)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("TRUTHLIGHT_SERVER_PORT", "7777")
	t.Setenv("TRUTHLIGHT_SUBSTANCES_DIR", "/srv/substances")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "/srv/substances", cfg.Content.SubstancesDir)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Search.CacheTTL = "not-a-duration"
	assert.Error(t, cfg.Validate())
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 9999, "0.0.0.0")
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Zero values leave the config untouched
	ApplyFlagOverrides(cfg, 0, "")
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestCacheTTL_EmptyMeansDefault(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Search.CacheTTL = ""
	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), ttl)
}
