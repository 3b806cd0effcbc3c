package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CLASSIFIER_ENABLED", "")
	t.Setenv("NOTIFY_ENABLED", "")
	t.Setenv("NOTIFY_TIMEOUT_MS", "")
	t.Setenv("APP_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.Classifier.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Classifier.Timeout())
	assert.False(t, cfg.Notification.Enabled)
	assert.Equal(t, "complaint-classification", cfg.Notification.Channel)
	assert.Equal(t, 500*time.Millisecond, cfg.Notification.Timeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CLASSIFIER_ENABLED", "false")
	t.Setenv("CLASSIFIER_URL", "http://classifier.local/classify")
	t.Setenv("CLASSIFIER_TIMEOUT_SECONDS", "0")
	t.Setenv("NOTIFY_ENABLED", "true")
	t.Setenv("NOTIFY_CHANNEL", "complaints")
	t.Setenv("NOTIFY_TIMEOUT_MS", "150")
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.Classifier.Enabled)
	assert.Equal(t, "http://classifier.local/classify", cfg.Classifier.URL)
	assert.Zero(t, cfg.Classifier.Timeout())
	assert.True(t, cfg.Notification.Enabled)
	assert.Equal(t, "complaints", cfg.Notification.Channel)
	assert.Equal(t, 150*time.Millisecond, cfg.Notification.Timeout())
	assert.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := config.Load()
	assert.Error(t, err)
}
