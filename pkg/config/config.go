package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server Server `yaml:"server"`
	MySQL  MySQL  `yaml:"mysql"`
	Redis  Redis  `yaml:"redis"`
	Queue  Queue  `yaml:"queue"`
	Report Report `yaml:"report"`
	Cache  Cache  `yaml:"cache"`
	Logger Logger `yaml:"logger"`
}

// Server server configuration
type Server struct {
	Port   int    `yaml:"port"`
	Mode   string `yaml:"mode"`    // debug, release
	APIKey string `yaml:"api_key"` // bearer token for admin endpoints (optional, empty disables auth)
}

// MySQL MySQL configuration
type MySQL struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Redis Redis configuration
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Queue aggregation queue configuration
type Queue struct {
	Concurrency   int `yaml:"concurrency"`    // trigger handler concurrency
	MaxRetry      int `yaml:"max_retry"`      // maximum retry count per trigger
	SweepInterval int `yaml:"sweep_interval"` // reaggregation sweep interval (seconds), 0 disables
}

// Report timesheet policy knobs
type Report struct {
	DailyBudgetHours  float64  `yaml:"daily_budget_hours"`  // normal working-hour budget per day
	OvertimeCapHours  int      `yaml:"overtime_cap_hours"`  // cap on OT hour selection
	EditWindowDays    int      `yaml:"edit_window_days"`    // days back a date stays editable
	PrivilegedRoles   []string `yaml:"privileged_roles"`    // roles that bypass the edit window
	LeaveKeywords     []string `yaml:"leave_keywords"`      // non-work classification keywords
	FutureLeaveOnly   []string `yaml:"future_leave_only"`   // strict subset allowed on future dates
	CommitLockSeconds int      `yaml:"commit_lock_seconds"` // per-employee commit mutex TTL
}

// Cache reference-data cache TTLs (seconds)
type Cache struct {
	SubtaskTTL  int `yaml:"subtask_ttl"`
	ProjectTTL  int `yaml:"project_ttl"`
	EmployeeTTL int `yaml:"employee_ttl"`
}

// Logger logger configuration
type Logger struct {
	Level  string     `yaml:"level"`  // debug, info, warn, error
	Output string     `yaml:"output"` // console, file, both
	File   LoggerFile `yaml:"file"`
}

// LoggerFile logger file configuration
type LoggerFile struct {
	Path string `yaml:"path"`
}

// Init initializes configuration
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	cfg.applyDefaults()
	GlobalConfig = &cfg
	return nil
}

func (c *Config) applyDefaults() {
	if c.Report.DailyBudgetHours <= 0 {
		c.Report.DailyBudgetHours = 8
	}
	if c.Report.OvertimeCapHours <= 0 {
		c.Report.OvertimeCapHours = 12
	}
	if c.Report.EditWindowDays <= 0 {
		c.Report.EditWindowDays = 2
	}
	if len(c.Report.PrivilegedRoles) == 0 {
		c.Report.PrivilegedRoles = []string{"Admin", "BIM Manager", "Project Manager"}
	}
	if len(c.Report.LeaveKeywords) == 0 {
		c.Report.LeaveKeywords = []string{"ลางาน", "ประชุม", "meeting"}
	}
	if len(c.Report.FutureLeaveOnly) == 0 {
		c.Report.FutureLeaveOnly = []string{"ลางาน"}
	}
	if c.Report.CommitLockSeconds <= 0 {
		c.Report.CommitLockSeconds = 30
	}
	if c.Queue.Concurrency <= 0 {
		c.Queue.Concurrency = 10
	}
	if c.Queue.MaxRetry <= 0 {
		c.Queue.MaxRetry = 5
	}
	if c.Cache.SubtaskTTL <= 0 {
		c.Cache.SubtaskTTL = 300
	}
	if c.Cache.ProjectTTL <= 0 {
		c.Cache.ProjectTTL = 600
	}
	if c.Cache.EmployeeTTL <= 0 {
		c.Cache.EmployeeTTL = 600
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
}
