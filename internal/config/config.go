// Package config loads slurmtrack configuration from defaults, an
// optional config file, and SLURMTRACK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "SLURMTRACK"

// Config is the resolved configuration for one slurmtrack invocation.
type Config struct {
	// DatabasePath locates the shared job database. Default:
	// ~/slurm_jobs.db (multi-tenant single file across owner dirs).
	DatabasePath string `mapstructure:"database_path"`

	// GlobalLogPath locates the process-wide log sink. Default:
	// ~/.global_slurm.log. The owner-directory sink is always
	// <owner>/.slurm.log and is not configurable here.
	GlobalLogPath string `mapstructure:"global_log_path"`

	// SubmitCommand, QueryCommand, and CancelCommand name the scheduler
	// binaries. Overridable for test harnesses and site wrappers.
	SubmitCommand string `mapstructure:"submit_command"`
	QueryCommand  string `mapstructure:"query_command"`
	CancelCommand string `mapstructure:"cancel_command"`

	// SubmitScript is the script submitted from the working directory.
	SubmitScript string `mapstructure:"submit_script"`

	// SchedulerTimeout bounds each scheduler invocation.
	SchedulerTimeout time.Duration `mapstructure:"scheduler_timeout"`

	Serve ServeConfig `mapstructure:"serve"`
}

// ServeConfig configures the optional HTTP surface.
type ServeConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Load resolves configuration. An absent config file is not an error;
// a malformed one is.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v := viper.New()
	v.SetDefault("database_path", filepath.Join(home, "slurm_jobs.db"))
	v.SetDefault("global_log_path", filepath.Join(home, ".global_slurm.log"))
	v.SetDefault("submit_command", "sbatch")
	v.SetDefault("query_command", "scontrol")
	v.SetDefault("cancel_command", "scancel")
	v.SetDefault("submit_script", "submit.sh")
	v.SetDefault("scheduler_timeout", "30s")
	v.SetDefault("serve.host", "127.0.0.1")
	v.SetDefault("serve.port", 8080)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("slurmtrack")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".config", "slurmtrack"))
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.SchedulerTimeout <= 0 {
		return nil, fmt.Errorf("scheduler_timeout must be positive, got %s", cfg.SchedulerTimeout)
	}
	return &cfg, nil
}
