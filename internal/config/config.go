package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mkomon/pruner/internal/prune"
)

type Config struct {
	Policy  PolicyConfig  `yaml:"policy"`
	Scan    ScanConfig    `yaml:"scan"`
	Daemon  DaemonConfig  `yaml:"daemon"`
	Logging LoggingConfig `yaml:"logging"`
}

// PolicyConfig is the generational retention policy. Window order matters:
// an entry eligible under several windows is claimed by the first one
// listed.
type PolicyConfig struct {
	Windows     []WindowConfig `yaml:"windows"`
	AllowFuture bool           `yaml:"allowFuture"`
}

type WindowConfig struct {
	Period string `yaml:"period"` // "daily", "weekly", "monthly", "yearly"
	Count  int    `yaml:"count"`
}

type ScanConfig struct {
	Path      string `yaml:"path"`
	Extension string `yaml:"extension"` // e.g. "gz.gpg"
	MinSize   int64  `yaml:"minSize"`   // advisory warning threshold, bytes
}

type DaemonConfig struct {
	Watch    WatchConfig `yaml:"watch"`
	Schedule string      `yaml:"schedule"` // cron spec, empty disables
	Apply    bool        `yaml:"apply"`    // actually delete, no prompt
}

type WatchConfig struct {
	Mode            string   `yaml:"mode"`           // "auto", "poll", "fsnotify"
	PollInterval    Duration `yaml:"pollInterval"`   // e.g. 30s
	DebounceWindow  Duration `yaml:"debounceWindow"` // e.g. 2s
	StabilityWindow Duration `yaml:"stabilityWindow"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}

// Default returns the policy and scan settings of the original tool:
// 7 daily, 12 weekly, 6 monthly and 5 yearly generations over *.gz.gpg
// files, warning below 512 kB.
func Default() *Config {
	return &Config{
		Policy: PolicyConfig{
			Windows: []WindowConfig{
				{Period: string(prune.Daily), Count: 7},
				{Period: string(prune.Weekly), Count: 12},
				{Period: string(prune.Monthly), Count: 6},
				{Period: string(prune.Yearly), Count: 5},
			},
		},
		Scan: ScanConfig{
			Path:      ".",
			Extension: "gz.gpg",
			MinSize:   512_000,
		},
		Daemon: DaemonConfig{
			Watch: WatchConfig{
				Mode:            "auto",
				PollInterval:    Duration(30 * time.Second),
				DebounceWindow:  Duration(2 * time.Second),
				StabilityWindow: Duration(1 * time.Second),
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// EngineWindows converts the configured policy into engine windows. The
// conversion revalidates, so a config bypassing Validate still cannot reach
// the engine with a bad window.
func (p PolicyConfig) EngineWindows() ([]prune.Window, error) {
	windows := make([]prune.Window, 0, len(p.Windows))
	for _, w := range p.Windows {
		windows = append(windows, prune.Window{Period: prune.Period(w.Period), Count: w.Count})
	}
	if err := prune.ValidateWindows(windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// Validate rejects bad retention windows, watch modes and cron specs before
// anything runs.
func (c *Config) Validate() error {
	if _, err := c.Policy.EngineWindows(); err != nil {
		return err
	}

	switch c.Daemon.Watch.Mode {
	case "", "auto", "poll", "fsnotify":
	default:
		return fmt.Errorf("unknown watch mode %q", c.Daemon.Watch.Mode)
	}

	if c.Daemon.Schedule != "" {
		if _, err := cron.ParseStandard(c.Daemon.Schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", c.Daemon.Schedule, err)
		}
	}

	return nil
}
