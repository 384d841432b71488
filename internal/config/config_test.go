package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Engine.APIKey)
	assert.Equal(t, "flash", cfg.Engine.Preference)
	assert.Equal(t, 60*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, "English", cfg.Engine.Language)
	assert.Equal(t, int64(10*1024*1024), cfg.App.MaxUploadSize)
	assert.Equal(t, []string{".jpg", ".jpeg", ".png"}, cfg.App.AllowedFormats)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("ENGINE_MODEL", "gemini-2.0-flash")
	t.Setenv("ENGINE_TIMEOUT", "15s")
	t.Setenv("APP_ALLOWED_FORMATS", "jpg,PNG")
	t.Setenv("ARCHIVE_ENABLED", "true")
	t.Setenv("S3_BUCKET_NAME", "bootcheck")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Engine.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Engine.Model)
	assert.Equal(t, 15*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, []string{".jpg", ".png"}, cfg.App.AllowedFormats)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "bootcheck", cfg.Archive.BucketName)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("ENGINE_TIMEOUT", "0s")
		_, err := load(viper.New())
		assert.Error(t, err)
	})

	t.Run("upload size", func(t *testing.T) {
		t.Setenv("APP_MAX_UPLOAD_SIZE", "-1")
		_, err := load(viper.New())
		assert.Error(t, err)
	})

	t.Run("non-numeric timeout", func(t *testing.T) {
		t.Setenv("ENGINE_TIMEOUT", "soon")
		_, err := load(viper.New())
		assert.Error(t, err)
	})
}

func TestIsAllowedFormat(t *testing.T) {
	app := AppConfig{AllowedFormats: []string{".jpg", ".png"}}
	assert.True(t, app.IsAllowedFormat(".JPG"))
	assert.False(t, app.IsAllowedFormat(".gif"))
}
