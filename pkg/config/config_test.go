package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults to development", func(t *testing.T) {
		t.Setenv(environmentENV, "")
		cfg, err := New()
		require.NoError(t, err)
		assert.True(t, cfg.DatabaseDebug)
		assert.Equal(t, "127.0.0.1", cfg.ServerHost)
		assert.NotEmpty(t, cfg.DatabaseFilePath)
	})

	t.Run("test environment uses an in-memory database", func(t *testing.T) {
		t.Setenv(environmentENV, "test")
		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
		assert.Equal(t, 0, cfg.ServerPort)
	})

	t.Run("production respects PORT and DATABASE_FILE_PATH", func(t *testing.T) {
		t.Setenv(environmentENV, "production")
		t.Setenv("PORT", "8080")
		t.Setenv("DATABASE_FILE_PATH", "/data/custom.sqlite")
		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.ServerPort)
		assert.Equal(t, "/data/custom.sqlite", cfg.DatabaseFilePath)
	})
}
