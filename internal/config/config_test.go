package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfield/perm-engine/internal/domain/permcase"
)

func mustDate(t *testing.T, s string) permcase.Date {
	t.Helper()
	d, err := permcase.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "perm_engine", cfg.Metrics.Namespace)
	assert.Equal(t, 1, cfg.Engine.PWDValidityYears)
	assert.Equal(t, 30, cfg.Engine.JobOrderDays)
	assert.Equal(t, 10, cfg.Engine.NoticeOfFilingBusinessDays)
	assert.Equal(t, 180, cfg.Engine.RecruitmentWindowDays)
	assert.Equal(t, []int{90, 30, 7, 1}, cfg.Reminders.OffsetsDays)
	assert.Equal(t, 365, cfg.Enforcement.StaleFilingDays)
}

func TestValidate_RejectsBadThresholds(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Engine.QuietPeriodDays = 200 // longer than the recruitment window

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quiet_period_days")
}

func TestValidate_RejectsMalformedHoliday(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Engine.ExtraHolidays = []string{"July 4th"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extra_holidays")
}

func TestRules_Conversion(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Engine.FederalHolidays = true
	cfg.Engine.ExtraHolidays = []string{"2025-03-17"}

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, 30, rules.QuietPeriodDays)
	assert.Equal(t, 1, rules.PWDValidityYears)
	assert.False(t, rules.Calendar.IsBusinessDay(mustDate(t, "2025-03-17")))
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
engine:
  job_order_days: 45
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 45, cfg.Engine.JobOrderDays)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30, cfg.Engine.QuietPeriodDays)
	assert.True(t, cfg.Engine.FederalHolidays)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PERMENGINE_ENGINE_RFI_RESPONSE_DAYS", "45")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Engine.RFIResponseDays)
}
