package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all engine settings.
const envPrefix = "PERMENGINE"

// newViper builds a pre-configured Viper instance: YAML file type,
// PERMENGINE_ env prefix, automatic env binding, and a key replacer that
// maps "." to "_" so "engine.job_order_days" resolves from
// PERMENGINE_ENGINE_JOB_ORDER_DAYS.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Registering defaults here (not only in ApplyDefaults) makes every key
	// visible to viper, which is what lets a bare PERMENGINE_* variable
	// override it without a config file.
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.namespace", "perm_engine")
	v.SetDefault("engine.federal_holidays", true)
	v.SetDefault("engine.pwd_validity_years", 1)
	v.SetDefault("engine.job_order_days", 30)
	v.SetDefault("engine.notice_of_filing_business_days", 10)
	v.SetDefault("engine.quiet_period_days", 30)
	v.SetDefault("engine.recruitment_window_days", 180)
	v.SetDefault("engine.certification_validity_days", 180)
	v.SetDefault("engine.rfi_response_days", 30)
	v.SetDefault("engine.rfe_response_days", 30)
	v.SetDefault("engine.audit_response_days", 30)
	v.SetDefault("engine.min_additional_methods", 3)
	v.SetDefault("reminders.offsets_days", []int{90, 30, 7, 1})
	v.SetDefault("enforcement.stale_filing_days", 365)
	return v
}

// Load reads the YAML file at configPath, merges PERMENGINE_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from environment variables and defaults
// alone, with no config file.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the re-parsed Config
// whenever the file changes on disk.  A change that fails to parse or
// validate is dropped so a bad edit cannot break a running process.  Watch
// is non-blocking; viper manages the background goroutine.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers are expected to have called Load already.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad panics on any load error.  For use in main, where a config
// failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
