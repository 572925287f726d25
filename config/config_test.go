package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mfgledger/logger"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "1414", cfg.Port)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, "mfgportal", cfg.MongoDB)
	assert.Equal(t, "123456", cfg.AdminPin)
	assert.Equal(t, 5*time.Second, cfg.LoginRemoteTimeout)
	assert.Equal(t, 9, cfg.ReportPageSize)
	assert.True(t, cfg.SeedSampleAgent)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MFG_TEST_UNUSED=1\n"), 0o600))

	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOGIN_REMOTE_TIMEOUT", "250ms")
	t.Setenv("REPORT_PAGE_SIZE", "12")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("REPORT_EMAIL_TO", "owner@example.com")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.LoginRemoteTimeout)
	assert.Equal(t, 12, cfg.ReportPageSize)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
	assert.Equal(t, "1", os.Getenv("MFG_TEST_UNUSED"))
	os.Unsetenv("MFG_TEST_UNUSED")
}

func TestLocationFallsBackToUTC(t *testing.T) {
	hook := logtest.NewLocal(logger.Log())
	t.Cleanup(hook.Reset)

	cfg := &Configuration{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Contains(t, last.Message, "Not/AZone")
}
