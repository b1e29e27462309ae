package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "ALIVEMON"

	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type SMTPConfig struct {
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"` // bounds one delivery
}

type OpsConfig struct {
	Addr      string   `mapstructure:"addr"`       // empty disables the ops server
	AdminKeys []string `mapstructure:"admin_keys"` // required to trigger cycles
	RPM       int      `mapstructure:"rpm"`
	Burst     int      `mapstructure:"burst"`
}

// Config holds process-level settings. It is read once at startup; the
// monitored-site document is loaded separately on every cycle.
type Config struct {
	SitesFile             string        `mapstructure:"sites_file"`
	LogDir                string        `mapstructure:"log_dir"`
	LogLevel              string        `mapstructure:"log_level"`
	CheckIntervalMinutes  int           `mapstructure:"check_interval_minutes"`
	HeartbeatCron         string        `mapstructure:"heartbeat_cron"` // empty disables the regular notice
	MaxAttempts           int           `mapstructure:"max_attempts"`
	RetryBackoff          time.Duration `mapstructure:"retry_backoff"`
	RequestTimeout        time.Duration `mapstructure:"request_timeout"`
	MaxConcurrentChecks   int           `mapstructure:"max_concurrent_checks"` // 0 = one goroutine per URL
	SkipOverlappingCycles bool          `mapstructure:"skip_overlapping_cycles"`
	SlackWebhook          string        `mapstructure:"slack_webhook"`
	SMTP                  SMTPConfig    `mapstructure:"smtp"`
	Ops                   OpsConfig     `mapstructure:"ops"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sites_file", "./alive_mon.json")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_level", LogLevelInfo)
	v.SetDefault("check_interval_minutes", 10)
	v.SetDefault("heartbeat_cron", "0 9 1 * *")
	v.SetDefault("max_attempts", 3)
	v.SetDefault("retry_backoff", "1s")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("max_concurrent_checks", 0)
	v.SetDefault("skip_overlapping_cycles", false)
	v.SetDefault("slack_webhook", "")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.timeout", "30s")
	v.SetDefault("ops.addr", "")
	v.SetDefault("ops.admin_keys", []string{})
	v.SetDefault("ops.rpm", 30)
	v.SetDefault("ops.burst", 5)
}

// Load reads alivemon.yaml (optional; from ./config or .) or the file given
// explicitly, then applies ALIVEMON_* environment overrides.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("alivemon")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	// Comma-separated env values arrive as a single element.
	cfg.Ops.AdminKeys = splitList(cfg.Ops.AdminKeys)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SitesFile, validation.Required),
		validation.Field(&c.LogDir, validation.Required),
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
		validation.Field(&c.CheckIntervalMinutes, validation.Required, validation.Min(1), validation.Max(60)),
		validation.Field(&c.HeartbeatCron, validation.By(validateCronSpec)),
		validation.Field(&c.MaxAttempts, validation.Required, validation.Min(1)),
		validation.Field(&c.RetryBackoff, validation.Min(time.Duration(0))),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxConcurrentChecks, validation.Min(0)),
		validation.Field(&c.SMTP, validation.By(func(value interface{}) error {
			sc, ok := value.(SMTPConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be an SMTPConfig")
			}
			return validation.ValidateStruct(&sc,
				validation.Field(&sc.Host, validation.Required),
				validation.Field(&sc.Port, validation.Required, validation.Min(1), validation.Max(65535)),
				validation.Field(&sc.Timeout, validation.Required, validation.Min(time.Second)),
			)
		})),
		validation.Field(&c.Ops, validation.By(func(value interface{}) error {
			oc, ok := value.(OpsConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be an OpsConfig")
			}
			return validation.ValidateStruct(&oc,
				validation.Field(&oc.RPM, validation.Min(0)),
				validation.Field(&oc.Burst, validation.When(oc.RPM > 0, validation.Required, validation.Min(1))),
			)
		})),
	)
}

func validateCronSpec(value interface{}) error {
	spec, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return validation.NewError("validation_invalid_cron", "must be a 5-field cron expression")
	}
	return nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
