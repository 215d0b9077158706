package app

import (
	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/domain"
	"github.com/aussiebroadwan/shopgate/internal/platform/config"
)

type Config struct {
	config.Base

	Port         int    `env:"PORT" envDefault:"7000"`
	DatabaseFile string `env:"PKCE_RESOURCE_DATABASE_FILE" envDefault:"resource.db"`
	SeedProducts bool   `env:"PKCE_RESOURCE_SEED_PRODUCTS" envDefault:"true"`

	// AMQPURL enables publishing security events to RabbitMQ.
	AMQPURL string `env:"PKCE_RESOURCE_AMQP_URL"`

	Profile ProfileConfig `envPrefix:"PKCE_RESOURCE_PROFILE_"`
}

type ProfileConfig struct {
	Username string `env:"USERNAME" envDefault:"victor"`
	Email    string `env:"EMAIL" envDefault:"victor@example.com"`
	Role     string `env:"ROLE" envDefault:"student"`
	Status   string `env:"STATUS" envDefault:"Authenticated with PKCE demo"`
}

func (p ProfileConfig) Domain() domain.Profile {
	return domain.Profile{Username: p.Username, Email: p.Email, Role: p.Role, Status: p.Status}
}

// LoadConfig reads the environment, an optional .env file and args.
func LoadConfig(args []string) (Config, error) {
	var cfg Config
	err := config.Load(&cfg, "pkce-resource", args, func(fs *pflag.FlagSet) {
		cfg.RegisterFlags(fs)
		fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
		fs.StringVar(&cfg.DatabaseFile, "db-file", cfg.DatabaseFile, "SQLite database file")
		fs.BoolVar(&cfg.SeedProducts, "seed-products", cfg.SeedProducts, "Seed the demo catalog when empty")
		fs.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "RabbitMQ URL for security events")
	})
	return cfg, err
}
