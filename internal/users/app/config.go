package app

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/shopgate/internal/platform/config"
)

type Config struct {
	config.Base

	Port           int    `env:"PORT" envDefault:"5002"`
	DatabaseDriver string `env:"USERS_DATABASE_DRIVER" envDefault:"sqlite"` // sqlite or postgres
	DatabaseFile   string `env:"USERS_DATABASE_FILE" envDefault:"users.db"`
	DatabaseURL    string `env:"USERS_DATABASE_URL"` // required for postgres
	SeedDemo       bool   `env:"USERS_SEED_DEMO" envDefault:"true"`
	PepperFile     string `env:"AUTH_PEPPER_FILE"` // empty disables the pepper
}

// LoadConfig reads the environment, an optional .env file and args.
func LoadConfig(args []string) (Config, error) {
	var cfg Config
	err := config.Load(&cfg, "users", args, func(fs *pflag.FlagSet) {
		cfg.RegisterFlags(fs)
		fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
		fs.StringVar(&cfg.DatabaseDriver, "db-driver", cfg.DatabaseDriver, "Database driver (sqlite, postgres)")
		fs.StringVar(&cfg.DatabaseFile, "db-file", cfg.DatabaseFile, "SQLite database file")
		fs.StringVar(&cfg.DatabaseURL, "db-url", cfg.DatabaseURL, "Postgres connection URL")
		fs.BoolVar(&cfg.SeedDemo, "seed-demo", cfg.SeedDemo, "Insert demo users into an empty store")
	})
	if err != nil {
		return Config{}, err
	}

	switch cfg.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("USERS_DATABASE_URL is required for the postgres driver")
		}
	default:
		return Config{}, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
	return cfg, nil
}
