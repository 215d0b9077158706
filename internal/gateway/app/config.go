package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/shopgate/internal/platform/config"
)

type Config struct {
	config.Base

	Port             int    `env:"PORT" envDefault:"8080"`
	AuthServiceURL   string `env:"AUTH_SERVICE_URL" envDefault:"http://127.0.0.1:5001"`
	UserServiceURL   string `env:"USER_SERVICE_URL" envDefault:"http://127.0.0.1:5002"`
	OrdersServiceURL string `env:"ORDERS_SERVICE_URL" envDefault:"http://127.0.0.1:5003"`

	SessionStore  string        `env:"GATEWAY_SESSION_STORE" envDefault:"memory"` // memory or redis
	SessionMaxAge time.Duration `env:"GATEWAY_SESSION_MAX_AGE" envDefault:"12h"`
	CookieSecure  bool          `env:"GATEWAY_COOKIE_SECURE" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`
}

// LoadConfig reads the environment, an optional .env file and args.
func LoadConfig(args []string) (Config, error) {
	var cfg Config
	err := config.Load(&cfg, "gateway", args, func(fs *pflag.FlagSet) {
		cfg.RegisterFlags(fs)
		fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
		fs.StringVar(&cfg.AuthServiceURL, "auth-url", cfg.AuthServiceURL, "Token issuer base URL")
		fs.StringVar(&cfg.UserServiceURL, "users-url", cfg.UserServiceURL, "Credential store base URL")
		fs.StringVar(&cfg.OrdersServiceURL, "orders-url", cfg.OrdersServiceURL, "Orders service base URL")
		fs.StringVar(&cfg.SessionStore, "session-store", cfg.SessionStore, "Session store (memory, redis)")
		fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address")
	})
	if err != nil {
		return Config{}, err
	}

	var missing []error
	for name, v := range map[string]string{
		"AUTH_SERVICE_URL":   cfg.AuthServiceURL,
		"USER_SERVICE_URL":   cfg.UserServiceURL,
		"ORDERS_SERVICE_URL": cfg.OrdersServiceURL,
	} {
		if v == "" {
			missing = append(missing, fmt.Errorf("%s is required", name))
		}
	}
	if cfg.SessionStore != "memory" && cfg.SessionStore != "redis" {
		missing = append(missing, fmt.Errorf("unknown session store %q", cfg.SessionStore))
	}
	return cfg, errors.Join(missing...)
}
