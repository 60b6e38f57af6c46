// Package config holds the runtime settings of the file server.
package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
)

const (
	// DefaultHost binds the server to all IPv4 interfaces.
	DefaultHost = "0.0.0.0"

	// DefaultPort is the port the portfolio is served on.
	DefaultPort = 5000

	// DefaultRoot is the served directory, relative to the working directory.
	DefaultRoot = "."

	DefaultLogLevel = "info"
)

var (
	// ErrInvalidConfig is returned when the flags or the resulting
	// configuration don't pass validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnexpectedArgs is returned when positional arguments are given.
	ErrUnexpectedArgs = errors.New("unexpected arguments")
)

// Config is the complete configuration of the server.
// A zero MetricsPort disables the metrics listener.
type Config struct {
	Host        string `validate:"required,ip"`
	Port        int    `validate:"gte=0,lte=65535"`
	Root        string `validate:"required,dir"`
	MetricsPort int    `validate:"omitempty,gte=1,lte=65535,nefield=Port"`
	LogLevel    string `validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Root:     DefaultRoot,
		LogLevel: DefaultLogLevel,
	}
}

// Parse reads the command line arguments on top of Default and validates
// the result. The served root is made absolute.
// flag.ErrHelp is returned as is so that the caller can exit cleanly.
func Parse(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("folioserv", flag.ContinueOnError)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "IP address to bind to")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "TCP port to serve on")
	fs.StringVar(&cfg.Root, "dir", cfg.Root, "Directory to serve")
	fs.IntVar(&cfg.MetricsPort, "metrics-port", cfg.MetricsPort, "Port for the Prometheus /metrics endpoint, 0 disables it")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("%w: %w: %v", ErrInvalidConfig, ErrUnexpectedArgs, fs.Args())
	}

	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return Config{}, fmt.Errorf("%w: resolve %q: %w", ErrInvalidConfig, cfg.Root, err)
	}
	cfg.Root = abs

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags of the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level maps LogLevel onto the logger levels. Unknown values fall back to info.
func (c Config) Level() log.Level {
	switch c.LogLevel {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
