// Package config assembles runtime configuration from defaults, an optional
// YAML file and ACTAI_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/actai/internal/llm"
	"github.com/alexanderramin/actai/internal/planner"
	"gopkg.in/yaml.v3"
)

// EnvPath names the variable that points at the config file.
const EnvPath = "ACTAI_CONFIG"

type Config struct {
	LLM     llm.Config     `yaml:"llm"`
	Planner planner.Config `yaml:"planner"`
	DB      DBConfig       `yaml:"db"`
	Server  ServerConfig   `yaml:"server"`
	Auth    AuthConfig     `yaml:"auth"`
	Log     LogConfig      `yaml:"log"`
}

type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// GenerateTimeoutSec bounds one full plan generation request.
	GenerateTimeoutSec int `yaml:"generate_timeout_sec"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM:     llm.DefaultConfig(),
		Planner: planner.DefaultConfig(),
		DB: DBConfig{
			Driver: "sqlite",
			DSN:    defaultDBPath(),
		},
		Server: ServerConfig{
			Addr:               ":8080",
			AllowedOrigins:     []string{"*"},
			GenerateTimeoutSec: 300,
		},
		Auth: AuthConfig{TokenTTL: 30 * 24 * time.Hour},
		Log:  LogConfig{Level: "info", Format: "json"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "actai.db"
	}
	return home + "/.actai/actai.db"
}

// Load builds a Config. An empty path falls back to $ACTAI_CONFIG; a missing
// file at the fallback path is not an error, a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	llm.ApplyEnv(&cfg.LLM)

	if v := os.Getenv("ACTAI_DB_DRIVER"); v != "" {
		cfg.DB.Driver = v
	}
	if v := os.Getenv("ACTAI_DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("ACTAI_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ACTAI_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("ACTAI_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("ACTAI_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Auth.TokenTTL = d
		}
	}
	if v := os.Getenv("ACTAI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ACTAI_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ACTAI_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Planner.MaxConcurrency = n
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("db.driver must be sqlite or postgres, got %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("db.dsn is required")
	}
	if c.Planner.Temperature < 0 || c.Planner.Temperature > 2 {
		return fmt.Errorf("planner.temperature must be in [0, 2], got %g", c.Planner.Temperature)
	}
	if c.Planner.MaxConcurrency < 0 {
		return fmt.Errorf("planner.max_concurrency must not be negative, got %d", c.Planner.MaxConcurrency)
	}
	return nil
}

// GenerateTimeout is the deadline applied to one full generation request.
func (s ServerConfig) GenerateTimeout() time.Duration {
	return time.Duration(s.GenerateTimeoutSec) * time.Second
}
