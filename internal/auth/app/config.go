package app

import (
	"errors"
	"time"

	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/shopgate/internal/platform/config"
)

type Config struct {
	config.Base

	Port            int    `env:"PORT" envDefault:"5001"`
	SecretKey       string `env:"AUTH_SECRET_KEY" envDefault:"change-me-in-prod"`
	TokenExpMinutes int    `env:"AUTH_TOKEN_EXP_MINUTES" envDefault:"30"`
	Issuer          string `env:"AUTH_ISSUER" envDefault:"shopgate-auth"`
	UserServiceURL  string `env:"USER_SERVICE_URL" envDefault:"http://127.0.0.1:5002"`
}

// TokenTTL is the configured token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpMinutes) * time.Minute
}

// LoadConfig reads the environment, an optional .env file and args.
func LoadConfig(args []string) (Config, error) {
	var cfg Config
	err := config.Load(&cfg, "auth", args, func(fs *pflag.FlagSet) {
		cfg.RegisterFlags(fs)
		fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
		fs.StringVar(&cfg.Issuer, "issuer", cfg.Issuer, "Token issuer claim")
		fs.IntVar(&cfg.TokenExpMinutes, "token-exp-minutes", cfg.TokenExpMinutes, "Access token lifetime in minutes")
		fs.StringVar(&cfg.UserServiceURL, "users-url", cfg.UserServiceURL, "Credential store base URL")
	})
	if err != nil {
		return Config{}, err
	}

	if cfg.SecretKey == "" {
		return Config{}, errors.New("AUTH_SECRET_KEY must not be empty")
	}
	if cfg.TokenExpMinutes <= 0 {
		return Config{}, errors.New("AUTH_TOKEN_EXP_MINUTES must be positive")
	}
	return cfg, nil
}
