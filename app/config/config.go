package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gsheetagent/internal/domain/entity"
)

type Config struct {
	Server    HTTPServerConfig `yaml:"server"`
	LLM       LLMConfig        `yaml:"llm"`
	Script    ScriptConfig     `yaml:"script"`
	Templates TemplatesConfig  `yaml:"templates"`
	Mongo     MongoConfig      `yaml:"mongo"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Log       LogConfig        `yaml:"log"`
	Build     BuildConfig      `yaml:"build"`
}

type HTTPServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

type LLMConfig struct {
	Provider   string        `yaml:"provider"` // openai, gemini
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url"`
	Model      string        `yaml:"model"`
	MaxTokens  int           `yaml:"max_tokens"`
	Timeout    time.Duration `yaml:"timeout"`
	PromptPath string        `yaml:"prompt_path"`
}

type ScriptConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	Scopes          []string      `yaml:"scopes"`
	DefaultTimezone string        `yaml:"default_timezone"`
	ProjectTitle    string        `yaml:"project_title"`
	Timeout         time.Duration `yaml:"timeout"`
}

type TemplatesConfig struct {
	Dir           string               `yaml:"dir"`
	UnknownPolicy entity.UnknownPolicy `yaml:"unknown_policy"`
	SetupScript   string               `yaml:"setup_script"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type BuildConfig struct {
	LatestBuild string `yaml:"latest_build"`
}

var defaultScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/script.projects",
}

func Default() *Config {
	return &Config{
		Server: HTTPServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 3 * time.Minute,
			CORSOrigins:  []string{"*"},
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			MaxTokens: 4000,
			Timeout:   2 * time.Minute,
		},
		Script: ScriptConfig{
			Scopes:          append([]string(nil), defaultScopes...),
			DefaultTimezone: "America/New_York",
			ProjectTitle:    "gSheetAgent Script",
			Timeout:         30 * time.Second,
		},
		Templates: TemplatesConfig{
			Dir:           "./assets/gas",
			UnknownPolicy: entity.UnknownTag,
			SetupScript:   "./assets/setup.js",
		},
		Mongo: MongoConfig{
			Database: "gsheetagent",
		},
		Metrics: MetricsConfig{
			Addr: ":2112",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, a .env file and the process environment, in that order. It
// does not call Validate; commands that talk to the model do.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error

	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsInt("SERVER_PORT", c.Server.Port, &errs)
	c.Server.CORSOrigins = getEnvAsList("CORS_ORIGIN", c.Server.CORSOrigins)

	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", c.LLM.MaxTokens, &errs)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout, &errs)
	c.LLM.PromptPath = getEnv("LLM_PROMPT_PATH", c.LLM.PromptPath)
	c.LLM.APIKey = getEnv("LLM_API_KEY", c.LLM.APIKey)
	switch c.LLM.Provider {
	case "openai":
		c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	case "gemini":
		c.LLM.APIKey = getEnv("GEMINI_API_KEY", c.LLM.APIKey)
	}

	c.Script.Endpoint = getEnv("SCRIPT_API_ENDPOINT", c.Script.Endpoint)
	c.Script.Scopes = getEnvAsList("SCRIPT_SCOPES", c.Script.Scopes)
	c.Script.DefaultTimezone = getEnv("DEFAULT_TIMEZONE", c.Script.DefaultTimezone)
	c.Script.ProjectTitle = getEnv("SCRIPT_PROJECT_TITLE", c.Script.ProjectTitle)
	c.Script.Timeout = getEnvAsDuration("SCRIPT_TIMEOUT", c.Script.Timeout, &errs)

	c.Templates.Dir = getEnv("GAS_DYNAMIC_DIRECTORY", c.Templates.Dir)
	c.Templates.UnknownPolicy = entity.UnknownPolicy(getEnv("GAS_UNKNOWN_POLICY", string(c.Templates.UnknownPolicy)))
	c.Templates.SetupScript = getEnv("SETUP_SCRIPT_PATH", c.Templates.SetupScript)

	c.Mongo.URI = getEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGO_DB", c.Mongo.Database)

	c.Metrics.Addr = getEnv("METRICS_ADDR", c.Metrics.Addr)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Build.LatestBuild = getEnv("LATEST_BUILD", c.Build.LatestBuild)

	return errors.Join(errs...)
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("an API key is required for provider %s (LLM_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY)", c.LLM.Provider)
	}
	return c.ValidateScript()
}

// ValidateScript covers the settings used to build and upload a manifest. The
// upload and create commands need only these.
func (c *Config) ValidateScript() error {
	if !c.Templates.UnknownPolicy.Valid() {
		return fmt.Errorf("unknown GAS_UNKNOWN_POLICY %q, must be tag or skip", c.Templates.UnknownPolicy)
	}
	if c.Script.DefaultTimezone == "" {
		return errors.New("DEFAULT_TIMEZONE must not be empty")
	}
	return nil
}

// SlogLevel maps the configured level name onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LatestBuild is nil when no build id is configured.
func (c *Config) LatestBuild() *string {
	if c.Build.LatestBuild == "" {
		return nil
	}
	b := c.Build.LatestBuild
	return &b
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getEnvAsDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
