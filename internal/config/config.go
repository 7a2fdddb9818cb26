package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the simulator.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Rosters    RostersConfig    `mapstructure:"rosters"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SimulationConfig controls how many matches are played and how.
type SimulationConfig struct {
	Trials  int   `mapstructure:"trials"`
	Seed    int64 `mapstructure:"seed"` // 0 = derive from the clock
	Workers int   `mapstructure:"workers"`
}

// CatalogConfig selects where minion templates come from. DatabaseURL wins
// over Path; with neither set the bundled catalog is used.
type CatalogConfig struct {
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// RostersConfig lists both sides as "Species@position" entries.
type RostersConfig struct {
	A []string `mapstructure:"a"`
	B []string `mapstructure:"b"`
}

// DefaultRoster is the mirror roster used when none is configured.
var DefaultRoster = []string{
	"Mad Mim@4",
	"Rainbow Unicorn@0",
	"Black Cat@1",
	"Happy Little Tree@3",
}

// Load reads configuration from path (if non-empty and present) and from
// SBBSIM_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SBBSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("simulation.trials", 1000)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.workers", 8)

	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.database_url", "")

	v.SetDefault("rosters.a", DefaultRoster)
	v.SetDefault("rosters.b", DefaultRoster)
}

// Validate checks the values that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.Simulation.Trials <= 0 {
		return fmt.Errorf("simulation.trials must be positive, got %d", c.Simulation.Trials)
	}
	if c.Simulation.Workers <= 0 {
		return fmt.Errorf("simulation.workers must be positive, got %d", c.Simulation.Workers)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
