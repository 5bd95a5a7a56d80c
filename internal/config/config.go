package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the vault API configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Auth        AuthConfig        `yaml:"auth"`
	CORS        CORSConfig        `yaml:"cors"`
	Precision   PrecisionConfig   `yaml:"precision"`
	Insight     InsightConfig     `yaml:"insight"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
// An empty key list disables authentication (the default — the API is
// consumed directly by the browser frontend).
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// MeilisearchConfig holds the search backend connection settings.
type MeilisearchConfig struct {
	URL        string `yaml:"url"`
	MasterKey  string `yaml:"master_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// OpenAIConfig holds the language-model provider settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // empty = api.openai.com
}

// CORSConfig holds the browser origin allowlist.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// PrecisionConfig holds precision (keyword) search settings.
// The index name must match the Meilisearch instance exactly.
type PrecisionConfig struct {
	Index string `yaml:"index"`
	Limit int64  `yaml:"limit"`
}

// InsightConfig holds insight (hybrid search + generation) settings.
//
// The prompt template, source dedup, and disclaimer knobs capture the
// differences between successive upstream revisions as policy data.
type InsightConfig struct {
	Index         string  `yaml:"index"`
	Limit         int64   `yaml:"limit"`
	Embedder      string  `yaml:"embedder"`
	SemanticRatio float64 `yaml:"semantic_ratio"`

	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	Template     string `yaml:"template"`      // built-in template name
	TemplateText string `yaml:"template_text"` // overrides Template when set

	AllowDuplicateSources bool   `yaml:"allow_duplicate_sources"`
	Disclaimer            string `yaml:"disclaimer"` // appended to every answer when set
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Generation can take a while; give the write side room.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Meilisearch.TimeoutSec <= 0 {
		c.Meilisearch.TimeoutSec = 15
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{
			"https://cayce-vault-frontend.vercel.app",
			"http://localhost:3000",
		}
	}
	if c.Precision.Index == "" {
		c.Precision.Index = "cayce_vault"
	}
	if c.Precision.Limit <= 0 {
		c.Precision.Limit = 10
	}
	if c.Insight.Index == "" {
		c.Insight.Index = "cayce_chunks"
	}
	if c.Insight.Limit <= 0 {
		c.Insight.Limit = 8
	}
	if c.Insight.Embedder == "" {
		c.Insight.Embedder = "OpenAI_Embedder"
	}
	if c.Insight.Model == "" {
		c.Insight.Model = "gpt-4o"
	}
	if c.Insight.Temperature <= 0 {
		c.Insight.Temperature = 0.75
	}
	if c.Insight.MaxTokens <= 0 {
		c.Insight.MaxTokens = 1400
	}
	if c.Insight.Template == "" {
		c.Insight.Template = "guide"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Meilisearch.URL == "" {
		return fmt.Errorf("meilisearch.url is required")
	}
	if c.Insight.Limit > 50 {
		return fmt.Errorf("insight.limit must be at most 50, got %d", c.Insight.Limit)
	}
	if c.Insight.Temperature > 2 {
		return fmt.Errorf("insight.temperature must be at most 2, got %g", c.Insight.Temperature)
	}
	if c.Insight.SemanticRatio < 0 || c.Insight.SemanticRatio > 1 {
		return fmt.Errorf("insight.semantic_ratio must be between 0 and 1, got %g", c.Insight.SemanticRatio)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
