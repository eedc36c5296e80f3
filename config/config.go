package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	ListenAddress  string `mapstructure:"listen_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	AdminAddress   string `mapstructure:"admin_address"`
	LocalesDir     string `mapstructure:"locales_dir"`
}

type DatabaseConfig struct {
	// Driver selects the Store implementation: "gorm", "sql", or
	// "memory" for development.
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

type GameConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.listen_address", ":8000")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("server.admin_address", ":8001")
	viper.SetDefault("server.locales_dir", "locales")
	viper.SetDefault("database.driver", "gorm")
	viper.SetDefault("game.tick_interval", 50*time.Millisecond)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
