// Package config loads the service configuration from defaults, an optional
// YAML file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"doiproxy/src/internal/crossref"
	"doiproxy/src/internal/sanitize"
	"doiproxy/src/internal/stringsx"
)

const (
	// DefaultPort is the listen port when nothing overrides it.
	DefaultPort = 3000

	// DefaultContact is the registered contact sent to CrossRef as pid.
	DefaultContact = "fx.coudert@chimie-paristech.fr"

	// DefaultFile is read when no --config path is given; it may be absent.
	DefaultFile = "doiproxy.yml"
)

// Environment variables consulted by Load.
const (
	EnvPort      = "PORT"
	EnvContact   = "DOIPROXY_CONTACT"
	EnvEndpoint  = "DOIPROXY_ENDPOINT"
	EnvUserAgent = "DOIPROXY_USER_AGENT"
	EnvLogLevel  = "LOG_LEVEL"
)

// Config is the service configuration.
type Config struct {
	Port      int    `yaml:"port"`
	Contact   string `yaml:"contact"`
	Endpoint  string `yaml:"endpoint"`
	UserAgent string `yaml:"user_agent,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:     DefaultPort,
		Contact:  DefaultContact,
		Endpoint: crossref.DefaultEndpoint,
		LogLevel: "INFO",
	}
}

// LoadDotEnv loads variables from .env files into the process environment
// without overriding variables that are already set. Missing files are
// ignored; with no arguments ".env" is tried.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty or the file does not exist) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if p := strings.TrimSpace(os.Getenv(EnvPort)); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, p, err)
		}
		cfg.Port = n
	}
	cfg.Contact = stringsx.FirstNonEmpty(os.Getenv(EnvContact), cfg.Contact)
	cfg.Endpoint = stringsx.FirstNonEmpty(os.Getenv(EnvEndpoint), cfg.Endpoint)
	cfg.UserAgent = stringsx.FirstNonEmpty(os.Getenv(EnvUserAgent), cfg.UserAgent)
	cfg.LogLevel = stringsx.FirstNonEmpty(os.Getenv(EnvLogLevel), cfg.LogLevel)
	return nil
}

// Validate checks that the configuration can serve requests.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if strings.TrimSpace(c.Contact) == "" {
		return errors.New("contact must not be empty")
	}
	if sanitize.CleanURL(c.Endpoint) == "" {
		return fmt.Errorf("endpoint %q is not an http(s) URL", c.Endpoint)
	}
	return nil
}

// Addr is the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
