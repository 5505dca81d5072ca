package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default configuration values.
const (
	defaultServiceName = "gobrain"
	defaultPort        = 8080

	defaultAITimeout     = 60 * time.Second
	defaultAIModel       = "llama-3.3-70b-versatile"
	defaultAIMaxTokens   = 4000
	defaultAITemperature = 0.7
	defaultAIRate        = 2.0
	defaultAIBurst       = 4

	defaultFetchTimeout     = 10 * time.Second
	defaultMaxContentLength = 50_000
	defaultMaxRedirects     = 5
	defaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	defaultMediaDir = "uploads/media"
	defaultNotesDir = "digital-brain-notes"

	defaultLogLevel = "info"
)

// Config holds the full service configuration.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	AI         AIConfig         `yaml:"ai"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
	Auth       AuthConfig       `yaml:"auth"`
}

// ServiceConfig holds service identity and HTTP settings.
type ServiceConfig struct {
	Name  string `yaml:"name" env:"SERVICE_NAME"`
	Port  int    `yaml:"port" env:"PORT"`
	Debug bool   `yaml:"debug" env:"DEBUG"`
}

// AIConfig holds settings for the remote classification model.
// APIKey empty means remote classification is disabled and the
// heuristic classifier is used for everything.
type AIConfig struct {
	APIKey            string   `yaml:"api_key" env:"AI_API_KEY"`
	APIURL            string   `yaml:"api_url" env:"AI_API_URL"`
	Model             string   `yaml:"model" env:"AI_MODEL"`
	Timeout           Duration `yaml:"timeout" env:"AI_TIMEOUT"`
	MaxTokens         int      `yaml:"max_tokens" env:"AI_MAX_TOKENS"`
	Temperature       float64  `yaml:"temperature" env:"AI_TEMPERATURE"`
	RequestsPerSecond float64  `yaml:"requests_per_second" env:"AI_REQUESTS_PER_SECOND"`
	Burst             int      `yaml:"burst" env:"AI_BURST"`
}

// ExtractionConfig holds settings for URL content extraction.
type ExtractionConfig struct {
	FetchTimeout     Duration `yaml:"fetch_timeout" env:"EXTRACTION_FETCH_TIMEOUT"`
	MaxContentLength int      `yaml:"max_content_length" env:"EXTRACTION_MAX_CONTENT_LENGTH"`
	MaxRedirects     int      `yaml:"max_redirects" env:"EXTRACTION_MAX_REDIRECTS"`
	UserAgent        string   `yaml:"user_agent" env:"EXTRACTION_USER_AGENT"`
}

// StorageConfig holds filesystem locations for media and notes.
type StorageConfig struct {
	MediaDir string `yaml:"media_dir" env:"STORAGE_MEDIA_DIR"`
	NotesDir string `yaml:"notes_dir" env:"STORAGE_NOTES_DIR"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// AuthConfig holds the optional bearer token protecting the API.
// Empty token leaves the API open.
type AuthConfig struct {
	APIToken string `yaml:"api_token" env:"API_TOKEN"`
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setAIDefaults(&cfg.AI)
	setExtractionDefaults(&cfg.Extraction)
	setStorageDefaults(&cfg.Storage)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(c *ServiceConfig) {
	if c.Name == "" {
		c.Name = defaultServiceName
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
}

func setAIDefaults(c *AIConfig) {
	if c.Model == "" {
		c.Model = defaultAIModel
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(defaultAITimeout)
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultAIMaxTokens
	}
	if c.Temperature == 0 {
		c.Temperature = defaultAITemperature
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = defaultAIRate
	}
	if c.Burst == 0 {
		c.Burst = defaultAIBurst
	}
}

func setExtractionDefaults(c *ExtractionConfig) {
	if c.FetchTimeout == 0 {
		c.FetchTimeout = Duration(defaultFetchTimeout)
	}
	if c.MaxContentLength == 0 {
		c.MaxContentLength = defaultMaxContentLength
	}
	if c.MaxRedirects == 0 {
		c.MaxRedirects = defaultMaxRedirects
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
}

func setStorageDefaults(c *StorageConfig) {
	if c.MediaDir == "" {
		c.MediaDir = defaultMediaDir
	}
	if c.NotesDir == "" {
		c.NotesDir = defaultNotesDir
	}
}

func setLoggingDefaults(c *LoggingConfig) {
	if c.Level == "" {
		c.Level = defaultLogLevel
	}
}

// Validate checks the configuration for fatal misconfiguration.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}
	if c.AI.APIKey != "" && c.AI.APIURL == "" {
		return fmt.Errorf("ai.api_url is required when ai.api_key is set")
	}
	return nil
}
