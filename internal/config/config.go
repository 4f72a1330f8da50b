package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	CRM     CRMConfig     `mapstructure:"crm"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Logging LoggingConfig `mapstructure:"logging"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CRMConfig holds the remote store connection settings. BaseURL, Username,
// and Password have no usable defaults and must be provided.
type CRMConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ScoringConfig struct {
	// Delay is the wait applied to every deferred update task.
	Delay time.Duration `mapstructure:"delay"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults. The required CRM keys default to empty strings so that
	// environment-only deployments are still picked up by AutomaticEnv.
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("crm.base_url", "")
	v.SetDefault("crm.username", "")
	v.SetDefault("crm.password", "")
	v.SetDefault("crm.timeout", "10s")
	v.SetDefault("scoring.delay", "10s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("cors.allowed_origins", []string{"*"})

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/scorehook")
	}

	// Environment variables override
	v.SetEnvPrefix("SCOREHOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate reports every missing required key at once so a misconfigured
// deployment fails with the full picture instead of one key per restart.
func (c *Config) validate() error {
	var missing []string
	if c.CRM.BaseURL == "" {
		missing = append(missing, "crm.base_url")
	}
	if c.CRM.Username == "" {
		missing = append(missing, "crm.username")
	}
	if c.CRM.Password == "" {
		missing = append(missing, "crm.password")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s (set in the config file or via SCOREHOOK_* environment variables)",
			strings.Join(missing, ", "))
	}
	return nil
}
