package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Engine  EngineConfig
	App     AppConfig
	Archive ArchiveConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host          string
	Port          string
	TemplatesGlob string
}

type EngineConfig struct {
	APIKey string
	// Model, when set, is used as-is and no model listing happens.
	Model      string
	Preference string
	Timeout    time.Duration
	Language   string
}

type AppConfig struct {
	MaxUploadSize  int64
	AllowedFormats []string
}

// ArchiveConfig controls the optional upload of rendered reports to S3.
type ArchiveConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TEMPLATES_GLOB", "web/templates/*")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("ENGINE_MODEL", "")
	v.SetDefault("ENGINE_MODEL_PREFERENCE", "flash")
	v.SetDefault("ENGINE_TIMEOUT", "60s")
	v.SetDefault("ENGINE_LANGUAGE", "English")
	v.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	v.SetDefault("APP_ALLOWED_FORMATS", []string{".jpg", ".jpeg", ".png"})
	v.SetDefault("ARCHIVE_ENABLED", false)
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET_NAME", "reports")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:          v.GetString("SERVER_HOST"),
			Port:          v.GetString("SERVER_PORT"),
			TemplatesGlob: v.GetString("SERVER_TEMPLATES_GLOB"),
		},
		Engine: EngineConfig{
			APIKey:     v.GetString("GEMINI_API_KEY"),
			Model:      v.GetString("ENGINE_MODEL"),
			Preference: v.GetString("ENGINE_MODEL_PREFERENCE"),
			Timeout:    v.GetDuration("ENGINE_TIMEOUT"),
			Language:   v.GetString("ENGINE_LANGUAGE"),
		},
		App: AppConfig{
			MaxUploadSize:  v.GetInt64("APP_MAX_UPLOAD_SIZE"),
			AllowedFormats: normalizeFormats(v.GetStringSlice("APP_ALLOWED_FORMATS")),
		},
		Archive: ArchiveConfig{
			Enabled:         v.GetBool("ARCHIVE_ENABLED"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("S3_BUCKET_NAME"),
			Region:          v.GetString("S3_REGION"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("ENGINE_TIMEOUT must be positive, got %s", c.Engine.Timeout)
	}
	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf("APP_MAX_UPLOAD_SIZE must be positive, got %d", c.App.MaxUploadSize)
	}
	if len(c.App.AllowedFormats) == 0 {
		return fmt.Errorf("APP_ALLOWED_FORMATS must not be empty")
	}
	if c.Archive.Enabled && c.Archive.BucketName == "" {
		return fmt.Errorf("S3_BUCKET_NAME is required when ARCHIVE_ENABLED is set")
	}
	return nil
}

// IsAllowedFormat reports whether ext (with leading dot) is an accepted upload extension.
func (a AppConfig) IsAllowedFormat(ext string) bool {
	ext = strings.ToLower(ext)
	for _, f := range a.AllowedFormats {
		if f == ext {
			return true
		}
	}
	return false
}

// Env values arrive space separated; accept commas too and add the leading dot.
func normalizeFormats(in []string) []string {
	var out []string
	for _, item := range in {
		for _, f := range strings.Split(item, ",") {
			f = strings.ToLower(strings.TrimSpace(f))
			if f == "" {
				continue
			}
			if !strings.HasPrefix(f, ".") {
				f = "." + f
			}
			out = append(out, f)
		}
	}
	return out
}
