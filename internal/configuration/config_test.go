package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE_PATH", "")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, config.App.Port)
	assert.Equal(t, "info", config.App.LogLevel)
	assert.Equal(t, []string{"*"}, config.App.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, config.App.Revalidate())
	assert.Equal(t, 30, config.App.FormRateLimit)
	assert.Equal(t, 60, config.App.CountersRateLimit)
	assert.Equal(t, DefaultBackendBaseURL, config.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, config.Backend.Timeout())
	assert.Equal(t, CacheMemory, config.Cache.Type)
	assert.False(t, config.Tracing.Enabled)
	assert.Equal(t, AppName, config.Profiling.ApplicationName)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.yaml")
	content := []byte(`
app:
  port: 9000
  revalidate_seconds: 60
  trusted_proxies: [10.0.0.0/8]
backend:
  base_url: http://pools.internal:3333
cache:
  type: redis
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	t.Setenv("CONFIG_FILE_PATH", path)
	t.Setenv("APP__PORT", "9090")
	t.Setenv("APP__ALLOWED_ORIGINS", "https://bolao.example,https://www.bolao.example")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, config.App.Port, "environment must win over the file")
	assert.Equal(t, time.Minute, config.App.Revalidate())
	assert.Equal(t, []string{"10.0.0.0/8"}, config.App.TrustedProxies)
	assert.Equal(t, []string{"https://bolao.example", "https://www.bolao.example"}, config.App.AllowedOrigins)
	assert.Equal(t, "http://pools.internal:3333", config.Backend.BaseURL)
	require.NotNil(t, config.Cache.Redis)
	assert.Equal(t, []string{"localhost:6379"}, config.Cache.Redis.Hosts)
}

func TestLoad_InvalidConfiguration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE_PATH", "")

	t.Run("unknown cache type", func(t *testing.T) {
		t.Setenv("CACHE__TYPE", "memcached")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("backend url is not a url", func(t *testing.T) {
		t.Setenv("BACKEND__BASE_URL", "localhost")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("tracing enabled without endpoint", func(t *testing.T) {
		t.Setenv("TRACING__ENABLED", "true")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
