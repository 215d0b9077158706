package app

import (
	"errors"
	"time"

	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/shopgate/internal/platform/config"
)

type Config struct {
	config.Base

	Port int `env:"PORT" envDefault:"5000"`

	// ResourceServiceURL receives POST /register-token for every new token.
	// Empty disables registration.
	ResourceServiceURL      string        `env:"RESOURCE_SERVICE_URL" envDefault:"http://127.0.0.1:7000"`
	ResourceRegisterTimeout time.Duration `env:"RESOURCE_REGISTER_TIMEOUT" envDefault:"2s"`
}

// LoadConfig reads the environment, an optional .env file and args.
func LoadConfig(args []string) (Config, error) {
	var cfg Config
	err := config.Load(&cfg, "pkce-authz", args, func(fs *pflag.FlagSet) {
		cfg.RegisterFlags(fs)
		fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
		fs.StringVar(&cfg.ResourceServiceURL, "resource-url", cfg.ResourceServiceURL, "Resource role base URL")
		fs.DurationVar(&cfg.ResourceRegisterTimeout, "register-timeout", cfg.ResourceRegisterTimeout, "Timeout for token registration")
	})
	if err != nil {
		return Config{}, err
	}

	if cfg.ResourceRegisterTimeout <= 0 {
		return Config{}, errors.New("RESOURCE_REGISTER_TIMEOUT must be positive")
	}
	return cfg, nil
}
