// Package config loads handler defaults and server settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SQLGENERIC_PROBE_TIMEOUT
const EnvPrefix = "SQLGENERIC"

// DefaultFileName is looked up in the working directory when no file is given
const DefaultFileName = "sqlgeneric"

type Config struct {
	// Info holds default info values; an invocation's own values win key by key
	Info map[string]string `mapstructure:"info"`

	Probe struct {
		Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	} `mapstructure:"probe"`

	Lookup struct {
		Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	} `mapstructure:"lookup"`

	Server struct {
		Host            string        `mapstructure:"host"`
		Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
		CORSOrigins     []string      `mapstructure:"cors_origins"`
	} `mapstructure:"server"`

	Log struct {
		Level int    `mapstructure:"level" validate:"min=1,max=4"`
		Tags  string `mapstructure:"tags"`
		File  bool   `mapstructure:"file"`
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("probe.timeout", 5*time.Second)
	v.SetDefault("lookup.timeout", 30*time.Second)
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", 3)
	v.SetDefault("log.tags", "")
	v.SetDefault("log.file", false)
}

// Load reads the config file at path, or sqlgeneric.yaml in the working
// directory when path is empty, and applies SQLGENERIC_ environment
// overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Info == nil {
		cfg.Info = map[string]string{}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Address is the listen address of the serve adapter
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
