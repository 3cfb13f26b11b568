package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings
type Config struct {
	// Deployment environment: "dev" or "prod"
	Env string `yaml:"env" mapstructure:"env"`

	// FrontendURL is where the OAuth callback redirects after login
	FrontendURL string `yaml:"frontend_url" mapstructure:"frontend_url"`

	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	GitHub   GitHubConfig   `yaml:"github" mapstructure:"github"`
	Session  SessionConfig  `yaml:"session" mapstructure:"session"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
}

type ServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// Addr returns the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type GitHubConfig struct {
	// OAuth application credentials
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`

	// BaseURL overrides the API endpoint (tests, GitHub Enterprise)
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// RateLimit is requests per second against the GitHub API
	RateLimit int `yaml:"rate_limit" mapstructure:"rate_limit"`

	// PageSize is items per page for list endpoints (max 100)
	PageSize int `yaml:"page_size" mapstructure:"page_size"`

	// EnrichBatchSize caps concurrent commit-detail requests
	EnrichBatchSize int `yaml:"enrich_batch_size" mapstructure:"enrich_batch_size"`

	// EnrichDelay is the pause between enrichment batches
	EnrichDelay time.Duration `yaml:"enrich_delay" mapstructure:"enrich_delay"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// Store selects the backing store: "memory" or "bolt"
	Store string `yaml:"store" mapstructure:"store"`

	// BoltPath is the database file for the bolt store
	BoltPath string `yaml:"bolt_path" mapstructure:"bolt_path"`
}

type AnalysisConfig struct {
	// MaxDetailedCommits caps commit-detail enrichment per request
	MaxDetailedCommits int `yaml:"max_detailed_commits" mapstructure:"max_detailed_commits"`

	// MaxStreamCommits caps total commits in capped streaming mode
	MaxStreamCommits int `yaml:"max_stream_commits" mapstructure:"max_stream_commits"`

	// StreamChunkSize is commits per streamed chunk
	StreamChunkSize int `yaml:"stream_chunk_size" mapstructure:"stream_chunk_size"`

	// PRLookbackDays bounds PR fetching when no window start is given
	PRLookbackDays int `yaml:"pr_lookback_days" mapstructure:"pr_lookback_days"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Env:         "dev",
		FrontendURL: "http://localhost:3000",
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0, // streaming responses are long-lived
			IdleTimeout:  60 * time.Second,
		},
		GitHub: GitHubConfig{
			RateLimit:       10,
			PageSize:        100,
			EnrichBatchSize: 5,
			EnrichDelay:     100 * time.Millisecond,
		},
		Session: SessionConfig{
			TTL:      time.Hour,
			Store:    "memory",
			BoltPath: filepath.Join(homeDir, ".gitpeek", "sessions.db"),
		},
		Analysis: AnalysisConfig{
			MaxDetailedCommits: 200,
			MaxStreamCommits:   500,
			StreamChunkSize:    100,
			PRLookbackDays:     550, // 18 months
		},
	}
}

// Load loads configuration from file, environment and keychain
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("env", cfg.Env)
	v.SetDefault("frontend_url", cfg.FrontendURL)
	v.SetDefault("server", cfg.Server)
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("session", cfg.Session)
	v.SetDefault("analysis", cfg.Analysis)

	v.SetEnvPrefix("GITPEEK")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".gitpeek")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".gitpeek"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)
	applyKeyringFallback(cfg)

	return cfg, nil
}

// Dump renders the resolved configuration as YAML with the client
// secret masked.
func (c *Config) Dump() (string, error) {
	masked := *c
	if masked.GitHub.ClientSecret != "" {
		masked.GitHub.ClientSecret = "********"
	}
	out, err := yaml.Marshal(&masked)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(out), nil
}

// Validate checks that the settings required to serve are present.
func (c *Config) Validate() error {
	if c.GitHub.ClientID == "" || c.GitHub.ClientSecret == "" {
		return fmt.Errorf("github oauth credentials not configured (set GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.GitHub.PageSize <= 0 || c.GitHub.PageSize > 100 {
		return fmt.Errorf("github page_size must be in 1..100, got %d", c.GitHub.PageSize)
	}
	if c.Session.Store != "memory" && c.Session.Store != "bolt" {
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	return nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".gitpeek", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies well-known environment variables that take
// precedence over file configuration.
func applyEnvOverrides(cfg *Config) {
	if id := os.Getenv("GITHUB_CLIENT_ID"); id != "" {
		cfg.GitHub.ClientID = id
	}
	if secret := os.Getenv("GITHUB_CLIENT_SECRET"); secret != "" {
		cfg.GitHub.ClientSecret = secret
	}
	if base := os.Getenv("GITHUB_API_BASE_URL"); base != "" {
		cfg.GitHub.BaseURL = base
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rl
		}
	}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		cfg.FrontendURL = frontend
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
}

// applyKeyringFallback fills the OAuth client secret from the OS
// keychain when nothing else provided it.
func applyKeyringFallback(cfg *Config) {
	if cfg.GitHub.ClientSecret != "" {
		return
	}
	km := NewKeyringManager()
	if secret, err := km.GetClientSecret(); err == nil && secret != "" {
		cfg.GitHub.ClientSecret = secret
	}
}
