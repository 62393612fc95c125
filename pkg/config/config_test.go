package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInit_LoadsFileFromEnvPath(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  mode: debug
report:
  daily_budget_hours: 7
  edit_window_days: 5
`)
	t.Setenv("CONFIG_PATH", path)

	require.NoError(t, Init())
	require.NotNil(t, GlobalConfig)

	assert.Equal(t, 9090, GlobalConfig.Server.Port)
	assert.Equal(t, "debug", GlobalConfig.Server.Mode)
	assert.Equal(t, 7.0, GlobalConfig.Report.DailyBudgetHours)
	assert.Equal(t, 5, GlobalConfig.Report.EditWindowDays)
}

func TestInit_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, Init())
}

func TestInit_MalformedYaml(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, "server: [not a mapping"))
	assert.Error(t, Init())
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 8.0, cfg.Report.DailyBudgetHours)
	assert.Equal(t, 12, cfg.Report.OvertimeCapHours)
	assert.Equal(t, 2, cfg.Report.EditWindowDays)
	assert.Contains(t, cfg.Report.PrivilegedRoles, "Admin")
	assert.Contains(t, cfg.Report.LeaveKeywords, "ลางาน")
	assert.Equal(t, []string{"ลางาน"}, cfg.Report.FutureLeaveOnly)
	assert.Equal(t, 30, cfg.Report.CommitLockSeconds)
	assert.Equal(t, 10, cfg.Queue.Concurrency)
	assert.Equal(t, 5, cfg.Queue.MaxRetry)
	assert.Equal(t, 300, cfg.Cache.SubtaskTTL)
	assert.Equal(t, 600, cfg.Cache.ProjectTTL)
	assert.Equal(t, 600, cfg.Cache.EmployeeTTL)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Report: Report{DailyBudgetHours: 6, OvertimeCapHours: 4},
		Queue:  Queue{SweepInterval: 120},
	}
	cfg.applyDefaults()

	assert.Equal(t, 6.0, cfg.Report.DailyBudgetHours)
	assert.Equal(t, 4, cfg.Report.OvertimeCapHours)
	assert.Equal(t, 120, cfg.Queue.SweepInterval)
	// zero sweep interval stays zero, it means disabled
	cfg2 := Config{}
	cfg2.applyDefaults()
	assert.Zero(t, cfg2.Queue.SweepInterval)
}
