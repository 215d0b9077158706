// Package config loads service configuration. Values are layered, lowest
// precedence first: envDefault struct tags, a .env file in the working
// directory, the process environment, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Base holds the settings every service shares. Embed it in a service's
// config struct; the service declares its own PORT with its default.
type Base struct {
	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	UpstreamTimeout     time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`
}

// RegisterFlags adds the shared flags to fs, defaulting to the current values.
func (b *Base) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&b.Env, "env", b.Env, "Environment (dev, prod)")
	fs.StringVar(&b.LogLevel, "log-level", b.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVar(&b.LogFormat, "log-format", b.LogFormat, "Log format (json, text)")
	fs.DurationVar(&b.ShutdownGracePeriod, "shutdown-grace", b.ShutdownGracePeriod, "Graceful shutdown timeout")
	fs.DurationVar(&b.UpstreamTimeout, "upstream-timeout", b.UpstreamTimeout, "Timeout for calls to other services")
}

// Loader reads configuration for one binary.
type Loader struct {
	// Name is the flag set name, normally the binary name.
	Name string

	// DotEnvPath defaults to ".env". A missing file is not an error.
	DotEnvPath string

	// Environ defaults to os.Environ.
	Environ func() []string
}

// Load is Loader{Name: name}.Load.
func Load(target any, name string, args []string, bind func(*pflag.FlagSet)) error {
	return Loader{Name: name}.Load(target, args, bind)
}

// Load fills target, which must be a pointer to a struct with env tags, and
// then parses args with the flags bind registers. bind may be nil.
func (l Loader) Load(target any, args []string, bind func(*pflag.FlagSet)) error {
	vars, err := l.environment()
	if err != nil {
		return err
	}

	if err := env.ParseWithOptions(target, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	fs := pflag.NewFlagSet(l.Name, pflag.ContinueOnError)
	if bind != nil {
		bind(fs)
	}
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

// environment merges the .env file under the process environment.
func (l Loader) environment() (map[string]string, error) {
	path := l.DotEnvPath
	if path == "" {
		path = ".env"
	}

	vars, err := godotenv.Read(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		vars = map[string]string{}
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}
	return vars, nil
}
