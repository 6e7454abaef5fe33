package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	ServerAddr  string `mapstructure:"SERVER_ADDR"`
	LogMode     string `mapstructure:"LOG_MODE"`

	// Matching policy. The exact numbers are tunable; the ordering
	// (embedding weight >= network weight, first-degree boost >
	// second-degree boost > 0) is not, and is validated on load.
	EmbeddingWeight   float64 `mapstructure:"MATCH_EMBEDDING_WEIGHT"`
	NetworkWeight     float64 `mapstructure:"MATCH_NETWORK_WEIGHT"`
	FirstDegreeBoost  float64 `mapstructure:"MATCH_FIRST_DEGREE_BOOST"`
	SecondDegreeBoost float64 `mapstructure:"MATCH_SECOND_DEGREE_BOOST"`
	MatchTopK         int     `mapstructure:"MATCH_TOP_K"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("LOG_MODE", "dev")
	viper.SetDefault("MATCH_EMBEDDING_WEIGHT", 0.8)
	viper.SetDefault("MATCH_NETWORK_WEIGHT", 0.2)
	viper.SetDefault("MATCH_FIRST_DEGREE_BOOST", 0.5)
	viper.SetDefault("MATCH_SECOND_DEGREE_BOOST", 0.25)
	viper.SetDefault("MATCH_TOP_K", 5)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	if err := AppConfig.validateMatching(); err != nil {
		log.Fatalf("Invalid matching configuration: %v", err)
	}
}

func (c *Config) validateMatching() error {
	if c.EmbeddingWeight < c.NetworkWeight {
		return fmt.Errorf("embedding weight %.2f must be >= network weight %.2f",
			c.EmbeddingWeight, c.NetworkWeight)
	}
	if c.FirstDegreeBoost > 1 || c.FirstDegreeBoost <= c.SecondDegreeBoost || c.SecondDegreeBoost <= 0 {
		return fmt.Errorf("degree boosts must satisfy 1 >= first (%.2f) > second (%.2f) > 0",
			c.FirstDegreeBoost, c.SecondDegreeBoost)
	}
	if c.MatchTopK <= 0 {
		return fmt.Errorf("match top-k must be positive, got %d", c.MatchTopK)
	}
	return nil
}
