package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// End-user tokens.
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Internal service-to-service tokens.
	ServiceTokenSecret string
	ServiceTokenIssuer string

	// Mutation engine retry cap on transient database conflicts.
	MutationMaxRetries int

	// Requests per minute per IP on the public auth routes.
	AuthRateLimitPerMinute int
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist.
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "account-ledger-app")
	viper.SetDefault("SERVICE_TOKEN_SECRET", "an-independent-secret-for-internal-services")
	viper.SetDefault("SERVICE_TOKEN_ISSUER", "account-ledger-internal")
	viper.SetDefault("MUTATION_MAX_RETRIES", 3)
	viper.SetDefault("AUTH_RATE_LIMIT_PER_MINUTE", 10)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            viper.GetString("PGSQL_URL"),
		Port:                   viper.GetString("PORT"),
		IsProduction:           viper.GetBool("IS_PRODUCTION"),
		JWTSecret:              viper.GetString("JWT_SECRET"),
		JWTIssuer:              viper.GetString("JWT_ISSUER"),
		ServiceTokenSecret:     viper.GetString("SERVICE_TOKEN_SECRET"),
		ServiceTokenIssuer:     viper.GetString("SERVICE_TOKEN_ISSUER"),
		MutationMaxRetries:     viper.GetInt("MUTATION_MAX_RETRIES"),
		AuthRateLimitPerMinute: viper.GetInt("AUTH_RATE_LIMIT_PER_MINUTE"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET is the insecure default. Set it before deploying.")
	}

	return cfg, nil
}
