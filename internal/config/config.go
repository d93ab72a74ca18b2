package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backends understood by the AI section.
const (
	BackendGenAI   = "genai"
	BackendREST    = "rest"
	BackendOffline = "offline"
)

// Config holds runtime configuration values.
type Config struct {
	Port      string          `mapstructure:"port"`
	Env       string          `mapstructure:"env"`
	LogLevel  string          `mapstructure:"log_level"`
	StaticDir string          `mapstructure:"static_dir"`
	AI        AIConfig        `mapstructure:"ai"`
	Media     MediaConfig     `mapstructure:"media"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// AIConfig describes how the generative provider is reached.
type AIConfig struct {
	Backend            string        `mapstructure:"backend"`
	APIKey             string        `mapstructure:"api_key"`
	DesignModel        string        `mapstructure:"design_model"`
	ImageModel         string        `mapstructure:"image_model"`
	Temperature        float32       `mapstructure:"temperature"`
	Timeout            time.Duration `mapstructure:"timeout"`
	ServiceAccount     string        `mapstructure:"service_account"`
	ServiceAccountJSON string        `mapstructure:"service_account_json"`
	Vertex             VertexConfig  `mapstructure:"vertex"`
}

// VertexConfig switches image rendering to Vertex AI Imagen when a project is set.
type VertexConfig struct {
	ProjectID string `mapstructure:"project_id"`
	Location  string `mapstructure:"location"`
	Model     string `mapstructure:"model"`
}

// MediaConfig describes where exported renders are published.
type MediaConfig struct {
	Bucket          string        `mapstructure:"bucket"`
	Region          string        `mapstructure:"region"`
	Endpoint        string        `mapstructure:"endpoint"`
	PublicURL       string        `mapstructure:"public_url"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	ForcePathStyle  bool          `mapstructure:"force_path_style"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	PresignTTL      time.Duration `mapstructure:"presign_ttl"`
	LocalDir        string        `mapstructure:"local_dir"`
}

// RateLimitConfig bounds how often a generation attempt may be started.
type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute"`
	Burst     int `mapstructure:"burst"`
}

var defaults = map[string]any{
	"port":                    "8080",
	"env":                     "development",
	"log_level":               "info",
	"static_dir":              "web",
	"ai.backend":              BackendGenAI,
	"ai.api_key":              "",
	"ai.design_model":         "gemini-2.5-flash",
	"ai.image_model":          "imagen-3.0-generate-002",
	"ai.temperature":          0.7,
	"ai.timeout":              "120s",
	"ai.service_account":      "",
	"ai.service_account_json": "",
	"ai.vertex.project_id":    "",
	"ai.vertex.location":      "us-central1",
	"ai.vertex.model":         "imagen-3.0-generate-002",
	"media.bucket":            "",
	"media.region":            "",
	"media.endpoint":          "",
	"media.public_url":        "",
	"media.key_prefix":        "",
	"media.force_path_style":  false,
	"media.access_key_id":     "",
	"media.secret_access_key": "",
	"media.presign_ttl":       "0s",
	"media.local_dir":         "",
	"rate_limit.per_minute":   6,
	"rate_limit.burst":        2,
}

// Load reads an optional config file (JSON or YAML) and overlays environment variables.
// A .env file in the working directory is loaded first when present.
func Load(path string) (Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides is Load with explicit values (for example CLI flags) that win over
// every other source. Keys use the dotted form, e.g. "ai.backend".
func LoadWithOverrides(path string, overrides map[string]any) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ai.api_key", "AI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return Config{}, fmt.Errorf("config: bind api key: %w", err)
	}
	if err := v.BindEnv("port", "PORT", "APP_PORT"); err != nil {
		return Config{}, fmt.Errorf("config: bind port: %w", err)
	}

	if path = strings.TrimSpace(path); path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.AI.Backend = strings.ToLower(strings.TrimSpace(c.AI.Backend))
	c.AI.APIKey = strings.TrimSpace(c.AI.APIKey)
	c.Media.KeyPrefix = strings.Trim(c.Media.KeyPrefix, "/")
}

// Validate reports configuration that cannot produce a working process.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: port cannot be empty")
	}
	switch c.AI.Backend {
	case BackendOffline:
	case BackendGenAI:
		if c.AI.APIKey == "" && c.AI.Vertex.ProjectID == "" {
			return errors.New("config: ai.api_key is required for the genai backend (or set ai.backend=offline)")
		}
	case BackendREST:
		if c.AI.APIKey == "" && c.AI.ServiceAccount == "" && c.AI.ServiceAccountJSON == "" {
			return errors.New("config: ai.api_key or a service account is required for the rest backend")
		}
	default:
		return fmt.Errorf("config: unknown ai.backend %q", c.AI.Backend)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("config: ai.temperature %.2f out of range", c.AI.Temperature)
	}
	return nil
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
