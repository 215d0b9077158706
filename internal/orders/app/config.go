package app

import (
	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/shopgate/internal/platform/config"
)

type Config struct {
	config.Base

	Port           int    `env:"PORT" envDefault:"5003"`
	AuthServiceURL string `env:"AUTH_SERVICE_URL" envDefault:"http://127.0.0.1:5001"`
	DatabaseFile   string `env:"ORDERS_DATABASE_FILE" envDefault:"orders.db"`
}

// LoadConfig reads the environment, an optional .env file and args.
func LoadConfig(args []string) (Config, error) {
	var cfg Config
	err := config.Load(&cfg, "orders", args, func(fs *pflag.FlagSet) {
		cfg.RegisterFlags(fs)
		fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
		fs.StringVar(&cfg.AuthServiceURL, "auth-url", cfg.AuthServiceURL, "Token issuer base URL")
		fs.StringVar(&cfg.DatabaseFile, "db-file", cfg.DatabaseFile, "SQLite database file")
	})
	return cfg, err
}
