// Package config resolves the serve settings from defaults, an optional
// config file, a .env file, JSONFORM_* environment variables and flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment key.
const EnvPrefix = "JSONFORM"

// Config holds the resolved settings.
type Config struct {
	Addr      string        `mapstructure:"addr"`
	Schema    string        `mapstructure:"schema"`
	Dashboard string        `mapstructure:"dashboard"`
	Timeout   time.Duration `mapstructure:"timeout"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
	Templates string        `mapstructure:"templates"`
	AllowHTTP bool          `mapstructure:"allow_http"`
}

// flagKeys maps flag names onto config keys.
var flagKeys = map[string]string{
	"addr":       "addr",
	"schema":     "schema",
	"dashboard":  "dashboard",
	"timeout":    "timeout",
	"log-level":  "log_level",
	"log-format": "log_format",
	"templates":  "templates",
	"allow-http": "allow_http",
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Addr:      ":8080",
		Timeout:   10 * time.Second,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// RegisterFlags adds the serve flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.String("config", "", "optional config file (yaml, json or toml)")
	flags.String("addr", d.Addr, "listen address")
	flags.String("schema", d.Schema, "form schema source (path or URL)")
	flags.String("dashboard", d.Dashboard, "dashboard data source (path or URL)")
	flags.Duration("timeout", d.Timeout, "remote fetch timeout")
	flags.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", d.LogFormat, "log format (console or json)")
	flags.String("templates", d.Templates, "directory overriding the embedded templates")
	flags.Bool("allow-http", d.AllowHTTP, "allow schema and dashboard sources over HTTP")
}

// Options tunes Load.
type Options struct {
	// EnvFiles are loaded with godotenv before reading the environment.
	// Missing files are ignored. Defaults to ".env".
	EnvFiles []string
}

// Load resolves the configuration. flags may be nil.
func Load(flags *pflag.FlagSet, opts Options) (Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	if err := loadEnvFiles(envFiles); err != nil {
		return Config{}, err
	}

	v := viper.New()
	d := Defaults()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("schema", d.Schema)
	v.SetDefault("dashboard", d.Dashboard)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("templates", d.Templates)
	v.SetDefault("allow_http", d.AllowHTTP)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if file := flags.Lookup("config"); file != nil && file.Value.String() != "" {
			v.SetConfigFile(file.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("config: read %q: %w", file.Value.String(), err)
			}
		}
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("config: bind flag %q: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings serve needs.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Schema) == "" {
		errs = append(errs, errors.New("schema source is required"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func loadEnvFiles(files []string) error {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: stat %q: %w", file, err)
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("config: load %q: %w", file, err)
		}
	}
	return nil
}
