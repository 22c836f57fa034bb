// Package config loads the server's configuration surface — host, port,
// and worker pool size for the command server; host and port for the
// debug/stats surface — from a properties/YAML file, environment
// variables, and command-line flags, in ascending precedence (spf13/viper
// + pflag). See DESIGN.md for why this shape was chosen.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/respkv/respkv/pkg/hostutil"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully resolved, validated configuration surface.
type Config struct {
	ServerHost string `mapstructure:"server.host" validate:"required"`
	ServerPort int    `mapstructure:"server.port" validate:"required,min=1,max=65535"`
	PoolSize   int    `mapstructure:"thread.pool.size" validate:"required,min=1"`

	DebugHost    string `mapstructure:"debug.host" validate:"required"`
	DebugPort    int    `mapstructure:"debug.port" validate:"required,min=1,max=65535"`
	DebugEnabled bool   `mapstructure:"debug.enabled"`
}

// Addr returns the "host:port" the command server should listen on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// DebugAddr returns the "host:port" the debug/stats surface should listen
// on.
func (c Config) DebugAddr() string {
	return fmt.Sprintf("%s:%d", c.DebugHost, c.DebugPort)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 6379)
	v.SetDefault("thread.pool.size", 4)
	v.SetDefault("debug.host", "127.0.0.1")
	v.SetDefault("debug.port", 6380)
	v.SetDefault("debug.enabled", true)
}

// Flags registers the command-line flags this package reads, so callers can
// add them to a shared flag set before calling Parse.
func Flags(fs *pflag.FlagSet) {
	fs.String("server.host", "", "address the command server binds to")
	fs.Int("server.port", 0, "port the command server binds to")
	fs.Int("thread.pool.size", 0, "maximum concurrently-serviced connections")
	fs.String("debug.host", "", "address the debug/stats HTTP surface binds to")
	fs.Int("debug.port", 0, "port the debug/stats HTTP surface binds to")
	fs.Bool("debug.enabled", true, "whether to start the debug/stats HTTP surface")
}

// Load resolves configuration from (in ascending precedence) the built-in
// defaults above, configPath (if non-empty), environment variables prefixed
// RESPKV_, and flags already parsed into fs, then validates the result.
func Load(configPath string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESPKV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", configPath, err)
		}
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := Config{
		ServerHost:   v.GetString("server.host"),
		ServerPort:   v.GetInt("server.port"),
		PoolSize:     v.GetInt("thread.pool.size"),
		DebugHost:    v.GetString("debug.host"),
		DebugPort:    v.GetInt("debug.port"),
		DebugEnabled: v.GetBool("debug.enabled"),
	}

	if err := hostutil.ValidateHost(cfg.ServerHost); err != nil {
		return Config{}, fmt.Errorf("server.host: %w", err)
	}
	if err := hostutil.ValidateHost(cfg.DebugHost); err != nil {
		return Config{}, fmt.Errorf("debug.host: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
