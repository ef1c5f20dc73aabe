package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    Server    `yaml:"server" envconfig:"SERVER"`
	Security  Security  `yaml:"security" envconfig:"SECURITY"`
	Logging   Logging   `yaml:"logging" envconfig:"LOGGING"`
	Paths     Paths     `yaml:"paths" envconfig:"PATHS"`
	Dashboard Dashboard `yaml:"dashboard" envconfig:"DASHBOARD"`
}

// Server contains HTTP server configuration
type Server struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// Security contains security-related configuration
type Security struct {
	AllowedOrigins []string  `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool      `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimit `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimit contains rate limiting configuration
type RateLimit struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// Logging contains logging configuration
type Logging struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// Paths contains file system paths configuration
type Paths struct {
	CatalogFile string `yaml:"catalog_file" envconfig:"CATALOG_FILE" default:"data/imdb-indonesian.csv"`
	ReportsDir  string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	WebDir      string `yaml:"web_dir" envconfig:"WEB_DIR" default:"web"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Dashboard contains the dashboard query defaults
type Dashboard struct {
	TopGenres        int `yaml:"top_genres" envconfig:"TOP_GENRES" default:"10"`
	RuntimeBins      int `yaml:"runtime_bins" envconfig:"RUNTIME_BINS" default:"20"`
	LongFilmMinutes  int `yaml:"long_film_minutes" envconfig:"LONG_FILM_MINUTES" default:"150"`
	SearchResultCap  int `yaml:"search_result_cap" envconfig:"SEARCH_RESULT_CAP" default:"20"`
}

// Load loads configuration from environment variables and config file.
// Environment variables (prefix FILM) take precedence over the YAML file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("FILM", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := findConfigFile()
	if configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// merge fills zero-valued env fields from the file config (env wins)
func merge(fileCfg, envCfg Config) Config {
	if envCfg.Server.Port == 0 {
		envCfg.Server.Port = fileCfg.Server.Port
	}
	if envCfg.Server.ReadTimeout == 0 {
		envCfg.Server.ReadTimeout = fileCfg.Server.ReadTimeout
	}
	if envCfg.Paths.CatalogFile == "" {
		envCfg.Paths.CatalogFile = fileCfg.Paths.CatalogFile
	}
	if envCfg.Dashboard.TopGenres == 0 {
		envCfg.Dashboard.TopGenres = fileCfg.Dashboard.TopGenres
	}
	if envCfg.Dashboard.RuntimeBins == 0 {
		envCfg.Dashboard.RuntimeBins = fileCfg.Dashboard.RuntimeBins
	}
	return envCfg
}

// EnsureDirectories creates the writable directories the server expects.
// The catalog file itself is validated at load time, not here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ReportsDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CatalogPath returns the resolved catalog file path.
func (c *Config) CatalogPath() string {
	if filepath.IsAbs(c.Paths.CatalogFile) {
		return c.Paths.CatalogFile
	}
	return filepath.Clean(c.Paths.CatalogFile)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Paths.CatalogFile == "" {
		return fmt.Errorf("catalog file path must be set")
	}

	if c.Dashboard.TopGenres <= 0 {
		return fmt.Errorf("dashboard top_genres must be positive")
	}

	if c.Dashboard.RuntimeBins <= 0 {
		return fmt.Errorf("dashboard runtime_bins must be positive")
	}

	// Always JSON logs, dual output; console-only is for tests
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// findConfigFile returns the path to the config file
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: Server{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: Security{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimit{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: Logging{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Paths: Paths{
			CatalogFile: "data/imdb-indonesian.csv",
			ReportsDir:  "reports",
			WebDir:      "web",
			LogsDir:     "logs",
		},
		Dashboard: Dashboard{
			TopGenres:       10,
			RuntimeBins:     20,
			LongFilmMinutes: 150,
			SearchResultCap: 20,
		},
	}
}
