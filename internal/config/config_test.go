package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "/tmp/screensnap.db"},
		Capture: CaptureConfig{
			DefaultInterval: 60,
			DefaultSaveDir:  "/tmp/shots",
			PromptTimeout:   10 * time.Second,
			ResumeDelay:     time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejectsMissingDatabasePath(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Capture.DefaultInterval = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingSaveDir(t *testing.T) {
	cfg := validConfig()
	cfg.Capture.DefaultSaveDir = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositivePromptTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Capture.PromptTimeout = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeResumeDelay(t *testing.T) {
	cfg := validConfig()
	cfg.Capture.ResumeDelay = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestLoadUsesDefaults(t *testing.T) {
	// Run from a directory without a config file so defaults apply
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Capture.DefaultInterval)
	assert.NotEmpty(t, cfg.Database.Path)
	assert.NotEmpty(t, cfg.Capture.DefaultSaveDir)
	assert.Equal(t, 10*time.Second, cfg.Capture.PromptTimeout)
	assert.Equal(t, time.Second, cfg.Capture.ResumeDelay)
	assert.True(t, cfg.Capture.Autostart)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSONFormat)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SCREENSNAP_CAPTURE_DEFAULT_INTERVAL", "300")
	t.Setenv("SCREENSNAP_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Capture.DefaultInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
