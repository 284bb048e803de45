package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the jobreco API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Recommend RecommendConfig `yaml:"recommend"`
	Cache     CacheConfig     `yaml:"cache"`
	LLM       LLMConfig       `yaml:"llm"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig lists the browser origins allowed to call the API. Empty disables CORS headers.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port               int `yaml:"port"`
	ReadTimeoutSec     int `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int `yaml:"write_timeout_sec"`
	ShutdownSec        int `yaml:"shutdown_timeout_sec"`
	RateLimitPerMinute int `yaml:"rate_limit_per_min"` // 0 = unlimited
}

// ArtifactsConfig locates the corpus files.
type ArtifactsConfig struct {
	Dir         string   `yaml:"dir"`          // highest-priority directory (JOB_ARTIFACTS_DIR)
	CodeDir     string   `yaml:"code_dir"`     // default: executable directory
	ProjectRoot string   `yaml:"project_root"` // default: parent of code_dir
	Vectorizer  string   `yaml:"vectorizer"`
	Matrix      string   `yaml:"matrix"`
	Table       string   `yaml:"table"`
	Preload     bool     `yaml:"preload"` // load at startup instead of on first request
	S3          S3Config `yaml:"s3"`
}

// S3Config holds the optional remote artifact source. Empty bucket disables it.
type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style"`
	LocalDir     string `yaml:"local_dir"` // download target, default: <dir> or ./artifacts
}

// RecommendConfig holds ranking and presentation settings.
type RecommendConfig struct {
	DefaultTopN   int    `yaml:"default_top_n"`
	MaxTopN       int    `yaml:"max_top_n"`
	CountryMarker string `yaml:"country_marker"`
	RemoteMarker  string `yaml:"remote_marker"`
}

// CacheConfig holds the optional Redis/Valkey result cache. Empty addrs disables it.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a cache server is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// LLMConfig holds the job details completion provider.
type LLMConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	TimeoutSec  int           `yaml:"timeout_sec"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the LLM client.
type BreakerConfig struct {
	FailureThreshold uint32 `yaml:"failure_threshold"`
	MaxRequests      uint32 `yaml:"max_requests"` // requests allowed while half-open
	IntervalSec      int    `yaml:"interval_sec"` // closed-state counter reset, 0 = never
	OpenTimeoutSec   int    `yaml:"open_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded into the environment first.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands environment variables in data and decodes, defaults and validates it.
func Parse(data []byte) (Config, error) {
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Artifacts.Vectorizer == "" {
		c.Artifacts.Vectorizer = "vectorizer.json"
	}
	if c.Artifacts.Matrix == "" {
		c.Artifacts.Matrix = "job_matrix.json"
	}
	if c.Artifacts.Table == "" {
		c.Artifacts.Table = "jobs_processed.csv"
	}
	if c.Recommend.DefaultTopN <= 0 {
		c.Recommend.DefaultTopN = 5
	}
	if c.Recommend.MaxTopN <= 0 {
		c.Recommend.MaxTopN = 20
	}
	if c.Recommend.CountryMarker == "" {
		c.Recommend.CountryMarker = "India"
	}
	if c.Recommend.RemoteMarker == "" {
		c.Recommend.RemoteMarker = "Remote"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "jobreco:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 30
	}
	if c.LLM.Breaker.FailureThreshold == 0 {
		c.LLM.Breaker.FailureThreshold = 5
	}
	if c.LLM.Breaker.MaxRequests == 0 {
		c.LLM.Breaker.MaxRequests = 1
	}
	if c.LLM.Breaker.OpenTimeoutSec <= 0 {
		c.LLM.Breaker.OpenTimeoutSec = 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitPerMinute < 0 {
		return fmt.Errorf("http.rate_limit_per_min must not be negative, got %d", c.HTTP.RateLimitPerMinute)
	}
	if c.Recommend.MaxTopN > 20 {
		return fmt.Errorf("recommend.max_top_n must be at most 20, got %d", c.Recommend.MaxTopN)
	}
	if c.Recommend.DefaultTopN > c.Recommend.MaxTopN {
		return fmt.Errorf("recommend.default_top_n (%d) exceeds recommend.max_top_n (%d)",
			c.Recommend.DefaultTopN, c.Recommend.MaxTopN)
	}
	names := map[string]string{
		"vectorizer": c.Artifacts.Vectorizer,
		"matrix":     c.Artifacts.Matrix,
		"table":      c.Artifacts.Table,
	}
	for key, name := range names {
		if filepath.Base(name) != name {
			return fmt.Errorf("artifacts.%s must be a bare file name, got %q", key, name)
		}
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature)
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
