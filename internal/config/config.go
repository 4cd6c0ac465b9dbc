package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Binance  Binance  `mapstructure:"binance"`
	Trading  Trading  `mapstructure:"trading"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Binance holds the configuration for the Binance API.
type Binance struct {
	ApiKey         string  `mapstructure:"apiKey"`
	SecretKey      string  `mapstructure:"secretKey"`
	Testnet        bool    `mapstructure:"testnet"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Server holds the configuration for the dashboard web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Trading holds the configuration for the ladder strategy.
type Trading struct {
	// Pairs is the ordered list of supported trading pairs; engine passes
	// always walk it in this order.
	Pairs []string `mapstructure:"pairs"`

	// PriceOffsetPercent is the ladder offset: buys are placed this percentage
	// below the current price, sells this percentage above.
	PriceOffsetPercent float64 `mapstructure:"price_offset_percent"`

	// DefaultQuantities maps an asset prefix (e.g. "BTC", "ADA") to the
	// quantity used for a pair's very first order. Symbols are matched by
	// prefix; DefaultQuantity is the fallback.
	DefaultQuantities map[string]float64 `mapstructure:"default_quantities"`
	DefaultQuantity   float64            `mapstructure:"default_quantity"`

	// TickInterval is the number of seconds between scheduled engine passes.
	TickInterval int `mapstructure:"tick_interval"`

	// Simulation selects the in-memory simulated venue instead of the live
	// REST client. Decided once at startup, never toggled at runtime.
	Simulation bool `mapstructure:"simulation"`

	// ApiPort is the port of the engine's control/status server.
	ApiPort int `mapstructure:"api_port"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("binance.rate_limit", 20)      // requests per second
	viper.SetDefault("binance.rate_limit_burst", 5) // burst size
	viper.SetDefault("trading.price_offset_percent", 10)
	viper.SetDefault("trading.default_quantity", 0.001)
	viper.SetDefault("trading.tick_interval", 60)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
