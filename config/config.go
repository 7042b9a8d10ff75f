package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddress       string        `mapstructure:"http_address"`
	RPCAddress        string        `mapstructure:"rpc_address"`
	MetricsAddress    string        `mapstructure:"metrics_address"`
	AllowedOrigin     string        `mapstructure:"allowed_origin"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	SendBuffer        int           `mapstructure:"send_buffer"`
}

type GameConfig struct {
	PlayersPerSession int `mapstructure:"players_per_session"`
	// Seed fixes every room's random source when non-zero.
	Seed int64 `mapstructure:"seed"`
}

type LimitsConfig struct {
	ActionsPerSecond float64 `mapstructure:"actions_per_second"`
	Burst            int     `mapstructure:"burst"`
}

type DatabaseConfig struct {
	// Driver is "memory", "gorm" or "postgres".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_address", ":5000")
	v.SetDefault("server.rpc_address", ":5001")
	v.SetDefault("server.metrics_address", ":9100")
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("server.heartbeat_interval", 15*time.Second)
	v.SetDefault("server.send_buffer", 32)
	v.SetDefault("game.players_per_session", 2)
	v.SetDefault("game.seed", 0)
	v.SetDefault("limits.actions_per_second", 5.0)
	v.SetDefault("limits.burst", 10)
	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.dbname", "galaxy")
	v.SetDefault("log.level", "info")
}

// LoadConfig reads config.yaml from path when present, applies GALAXY_*
// environment overrides (server.http_address -> GALAXY_SERVER_HTTP_ADDRESS)
// and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("galaxy")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
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

func (c *Config) Validate() error {
	if c.Game.PlayersPerSession < 2 || c.Game.PlayersPerSession > 6 {
		return fmt.Errorf("game.players_per_session must be between 2 and 6, got %d", c.Game.PlayersPerSession)
	}
	switch c.Database.Driver {
	case "memory", "gorm", "postgres":
	default:
		return fmt.Errorf("database.driver %q is not one of memory, gorm, postgres", c.Database.Driver)
	}
	if c.Server.SendBuffer <= 0 {
		return fmt.Errorf("server.send_buffer must be positive, got %d", c.Server.SendBuffer)
	}
	if c.Server.HeartbeatInterval <= 0 {
		return fmt.Errorf("server.heartbeat_interval must be positive, got %s", c.Server.HeartbeatInterval)
	}
	return nil
}
