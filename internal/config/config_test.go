package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SERVER_PORT", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "07-10:07-19", cfg.SpecialPeriod)
	assert.Equal(t, 3, cfg.StoreRetryAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.StoreRetryBase)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("VIEW_CACHE_TTL_SECONDS", "5")
	t.Setenv("NOTIFY_TO", "a@x.com, b@x.com,")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SMTP_HOST", "smtp.x.com")
	t.Setenv("SMTP_USER", "shop@x.com")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("ADMIN_USER", "dono")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.ViewCacheTTL)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.NotifyTo)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.True(t, cfg.SMTPEnabled())
	assert.False(t, cfg.S3Enabled())
	assert.False(t, cfg.AdminEnabled())
}
