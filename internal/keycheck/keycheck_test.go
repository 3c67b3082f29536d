package keycheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jenian/keycheck/internal/config"
	"github.com/jenian/keycheck/internal/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.EnvFile = filepath.Join(t.TempDir(), ".env")
	if content != "" {
		require.NoError(t, os.WriteFile(cfg.EnvFile, []byte(content), 0644))
	}
	return cfg
}

func TestCheck_FoundInFile(t *testing.T) {
	cfg := testConfig(t, config.DefaultKey+"=sk-test-123\n")

	result, err := Check(cfg, environment.New(), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.NoError(t, result.Err())
	assert.Equal(t, config.DefaultKey, result.Key)
	assert.Equal(t, cfg.EnvFile, result.Source)
	assert.Equal(t, "sk-t*******", result.Masked)
}

func TestCheck_NotFound(t *testing.T) {
	cfg := testConfig(t, "")

	result, err := Check(cfg, environment.New(), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, result.Found)
	assert.ErrorIs(t, result.Err(), ErrKeyNotFound)
	assert.Empty(t, result.Masked)
	assert.Empty(t, result.Source)
}

func TestCheck_EmptyValueIsAbsent(t *testing.T) {
	cfg := testConfig(t, config.DefaultKey+"=\n")

	result, err := Check(cfg, environment.New(), nil)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestCheck_AmbientEnvironment(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Key = "OPENWEATHER_API_KEY"
	snapshot := environment.FromEnviron([]string{"OPENWEATHER_API_KEY=abcdef123"})

	result, err := Check(cfg, snapshot, nil)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, environment.SourceProcess, result.Source)
}

func TestCheck_Override(t *testing.T) {
	cfg := testConfig(t, "API_KEY=file-value\n")
	cfg.Key = "API_KEY"
	cfg.MaskPrefix = 0

	result, err := Check(cfg, environment.FromEnviron([]string{"API_KEY=env"}), nil)
	require.NoError(t, err)
	assert.Equal(t, environment.SourceProcess, result.Source)

	cfg.Override = true
	result, err = Check(cfg, environment.FromEnviron([]string{"API_KEY=env"}), nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.EnvFile, result.Source)
	assert.Equal(t, "**********", result.Masked)
}

func TestCheck_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Key = ""

	_, err := Check(cfg, environment.New(), nil)
	assert.Error(t, err)
}
