// Package config resolves the repository, credentials and runtime settings for
// a comment export from environment variables and an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cli/go-gh/v2/pkg/auth"
)

var (
	ErrMissingToken       = errors.New("GITHUB_TOKEN environment variable not set")
	ErrMissingRepository  = errors.New("GITHUB_REPOSITORY environment variable not set")
	ErrInvalidRepository  = errors.New("invalid repository format, use 'owner/repo'")
	ErrInvalidWorkerCount = errors.New("workers must be at least 1")
)

// ghTokenForHost reads credentials stored by the gh CLI. Tests replace it.
var ghTokenForHost = auth.TokenForHost

const githubHost = "github.com"

// Config holds everything needed to run one export.
type Config struct {
	Token string `toml:"-"`
	Owner string `toml:"-"`
	Repo  string `toml:"-"`

	OutputDir         string  `toml:"output_dir"`
	Workers           int     `toml:"workers"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	CacheEnabled      bool    `toml:"cache_enabled"`
	CacheDir          string  `toml:"cache_dir"`
	LogLevel          string  `toml:"log_level"`
}

// Repository returns "owner/repo".
func (c *Config) Repository() string {
	return c.Owner + "/" + c.Repo
}

// Overrides are command-line values; nil fields leave the loaded value alone.
type Overrides struct {
	ConfigPath string
	Repository string
	OutputDir  *string
	Workers    *int
	Cache      *bool
	LogLevel   *string
}

// Load builds a Config from defaults, then the TOML file, then PR_COMMENTS_*
// environment variables, then overrides. The token and repository are
// required; no network access happens here.
func Load(o Overrides) (*Config, error) {
	cfg := &Config{
		OutputDir: ".",
		Workers:   1,
		LogLevel:  "info",
	}

	configPath := o.ConfigPath
	if configPath == "" {
		configPath = os.Getenv("PR_COMMENTS_CONFIG")
	}
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyOverrides(cfg, o)

	if cfg.Workers < 1 {
		return nil, ErrInvalidWorkerCount
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	token, err := resolveToken()
	if err != nil {
		return nil, err
	}
	cfg.Token = token

	repository := o.Repository
	if repository == "" {
		repository = os.Getenv("GITHUB_REPOSITORY")
	}
	if repository == "" {
		return nil, ErrMissingRepository
	}
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}
	cfg.Owner, cfg.Repo = owner, repo

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("PR_COMMENTS_OUTPUT_DIR"); ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := os.LookupEnv("PR_COMMENTS_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PR_COMMENTS_WORKERS has invalid value %q: %w", v, err)
		}
		cfg.Workers = n
	}
	if v, ok := os.LookupEnv("PR_COMMENTS_CACHE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PR_COMMENTS_CACHE has invalid value %q: %w", v, err)
		}
		cfg.CacheEnabled = b
	}
	if v, ok := os.LookupEnv("PR_COMMENTS_LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.OutputDir != nil {
		cfg.OutputDir = *o.OutputDir
	}
	if o.Workers != nil {
		cfg.Workers = *o.Workers
	}
	if o.Cache != nil {
		cfg.CacheEnabled = *o.Cache
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
}

// resolveToken prefers GITHUB_TOKEN and falls back to the gh CLI's stored login.
func resolveToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if token, source := ghTokenForHost(githubHost); token != "" {
		slog.Debug("using gh CLI credentials", "source", source)
		return token, nil
	}
	return "", ErrMissingToken
}

// SplitRepository splits "owner/repo" into its two non-empty parts.
func SplitRepository(s string) (owner, repo string, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepository, s)
	}
	return parts[0], parts[1], nil
}

// ParseLevel maps a config log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
