package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	Replay   ReplayConfig   `mapstructure:"replay"`
	Log      LogConfig      `mapstructure:"log"`
	Simulate SimulateConfig `mapstructure:"simulate"`
}

// GameConfig holds game mechanics configuration
type GameConfig struct {
	Players    int              `mapstructure:"players"`
	Map        MapConfig        `mapstructure:"map"`
	Production ProductionConfig `mapstructure:"production"`
}

// MapConfig holds map generation settings. A zero width or height means
// the dimension is drawn from [min, max).
type MapConfig struct {
	Width                int     `mapstructure:"width"`
	Height               int     `mapstructure:"height"`
	MinWidth             int     `mapstructure:"min_width"`
	MaxWidth             int     `mapstructure:"max_width"`
	MinHeight            int     `mapstructure:"min_height"`
	MaxHeight            int     `mapstructure:"max_height"`
	CityMode             string  `mapstructure:"city_mode"`
	CityDensity          float64 `mapstructure:"city_density"`
	MountainMode         string  `mapstructure:"mountain_mode"`
	MountainDensity      float64 `mapstructure:"mountain_density"`
	SwampCount           int     `mapstructure:"swamp_count"`
	DesertCount          int     `mapstructure:"desert_count"`
	MinCityArmy          int     `mapstructure:"min_city_army"`
	MaxCityArmy          int     `mapstructure:"max_city_army"`
	MinGeneralSpacing    int     `mapstructure:"min_general_spacing"`
	MaxPlacementAttempts int     `mapstructure:"max_placement_attempts"`
}

// ProductionConfig holds growth and decay settings
type ProductionConfig struct {
	GeneralCityInterval int `mapstructure:"general_city_interval"`
	LandInterval        int `mapstructure:"land_interval"`
	SwampDecay          int `mapstructure:"swamp_decay"`
}

// ReplayConfig selects where replays are stored
type ReplayConfig struct {
	Store      string        `mapstructure:"store"`
	Dir        string        `mapstructure:"dir"`
	RedisURL   string        `mapstructure:"redis_url"`
	RedisTTL   time.Duration `mapstructure:"redis_ttl"`
	SQLitePath string        `mapstructure:"sqlite_path"`
}

// LogConfig controls the zerolog level and output format
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SimulateConfig drives the random-play simulator
type SimulateConfig struct {
	Turns  int   `mapstructure:"turns"`
	Seed   int64 `mapstructure:"seed"`
	Record bool  `mapstructure:"record"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

func setViperDefaults(v *viper.Viper) {
	v.SetDefault("game.players", 2)

	v.SetDefault("game.map.width", 0)
	v.SetDefault("game.map.height", 0)
	v.SetDefault("game.map.min_width", 15)
	v.SetDefault("game.map.max_width", 23)
	v.SetDefault("game.map.min_height", 15)
	v.SetDefault("game.map.max_height", 23)
	v.SetDefault("game.map.city_mode", "balanced")
	v.SetDefault("game.map.city_density", 0.05)
	v.SetDefault("game.map.mountain_mode", "balanced")
	v.SetDefault("game.map.mountain_density", 0.2)
	v.SetDefault("game.map.swamp_count", 3)
	v.SetDefault("game.map.desert_count", 0)
	v.SetDefault("game.map.min_city_army", 40)
	v.SetDefault("game.map.max_city_army", 50)
	v.SetDefault("game.map.min_general_spacing", 0)
	v.SetDefault("game.map.max_placement_attempts", 100)

	v.SetDefault("game.production.general_city_interval", 2)
	v.SetDefault("game.production.land_interval", 50)
	v.SetDefault("game.production.swamp_decay", 1)

	v.SetDefault("replay.store", "file")
	v.SetDefault("replay.dir", "replays")
	v.SetDefault("replay.redis_url", "redis://localhost:6379/0")
	v.SetDefault("replay.redis_ttl", "0s")
	v.SetDefault("replay.sqlite_path", "replays.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("simulate.turns", 500)
	v.SetDefault("simulate.seed", 0)
	v.SetDefault("simulate.record", true)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/genghis")
	}

	v.SetEnvPrefix("GENGHIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults; for the search
		// path only ConfigFileNotFoundError is tolerated.
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// Set allows runtime config updates
func Set(key string, value interface{}) error {
	if v == nil {
		return errors.New("config not initialized - call Init() first")
	}
	v.Set(key, value)
	return v.Unmarshal(cfg)
}

// GetString returns a raw string value from the loaded config
func GetString(key string) string { return v.GetString(key) }
// GetInt returns a raw int value from the loaded config
func GetInt(key string) int       { return v.GetInt(key) }

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. Reloaded values
// that fail validation are discarded and the previous config is kept.
func WatchConfig(onChange func(*Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err == nil {
			cfg = next
		} else {
			err = fmt.Errorf("reload %s: %w", e.Name, err)
		}
		if onChange != nil {
			onChange(cfg, err)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	m := c.Game.Map
	if c.Game.Players < 1 {
		return fmt.Errorf("game.players must be at least 1")
	}
	if m.Width < 0 || m.Height < 0 {
		return fmt.Errorf("game.map width and height must be non-negative")
	}
	if m.Width == 0 && (m.MinWidth <= 0 || m.MaxWidth <= m.MinWidth) {
		return fmt.Errorf("game.map.min_width must be positive and below max_width when width is unset")
	}
	if m.Height == 0 && (m.MinHeight <= 0 || m.MaxHeight <= m.MinHeight) {
		return fmt.Errorf("game.map.min_height must be positive and below max_height when height is unset")
	}
	if err := validateMode("game.map.city_mode", m.CityMode); err != nil {
		return err
	}
	if err := validateMode("game.map.mountain_mode", m.MountainMode); err != nil {
		return err
	}
	if m.CityDensity < 0 || m.CityDensity > 1 {
		return fmt.Errorf("game.map.city_density must be between 0 and 1")
	}
	if m.MountainDensity < 0 || m.MountainDensity > 1 {
		return fmt.Errorf("game.map.mountain_density must be between 0 and 1")
	}
	if m.SwampCount < 0 || m.DesertCount < 0 {
		return fmt.Errorf("game.map swamp_count and desert_count must be non-negative")
	}
	if m.MinCityArmy < 0 || m.MaxCityArmy < m.MinCityArmy {
		return fmt.Errorf("game.map.min_city_army must be non-negative and not above max_city_army")
	}
	if m.MinGeneralSpacing < 0 {
		return fmt.Errorf("game.map.min_general_spacing must be non-negative")
	}
	if m.MaxPlacementAttempts < 1 {
		return fmt.Errorf("game.map.max_placement_attempts must be at least 1")
	}

	p := c.Game.Production
	if p.GeneralCityInterval <= 0 || p.LandInterval <= 0 {
		return fmt.Errorf("game.production intervals must be positive")
	}
	if p.SwampDecay < 0 {
		return fmt.Errorf("game.production.swamp_decay must be non-negative")
	}

	switch c.Replay.Store {
	case "file", "redis", "sqlite":
	default:
		return fmt.Errorf("replay.store must be one of file, redis, sqlite")
	}
	if c.Replay.RedisTTL < 0 {
		return fmt.Errorf("replay.redis_ttl must be non-negative")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json")
	}

	if c.Simulate.Turns < 0 {
		return fmt.Errorf("simulate.turns must be non-negative")
	}
	return nil
}

func validateMode(key, mode string) error {
	switch mode {
	case "uniform", "balanced":
		return nil
	}
	return fmt.Errorf("%s must be uniform or balanced", key)
}
