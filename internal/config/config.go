package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Model     ModelConfig
	Cache     CacheConfig
	Screening ScreeningConfig
	Storage   StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type ModelConfig struct {
	Provider     string
	OllamaHost   string
	Name         string
	GeminiAPIKey string
	NumCtx       int
	Timeout      time.Duration
	Concurrency  int
	RateLimit    float64
	Warmup       bool
}

type CacheConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	TTL         time.Duration
	KeyPrefix   string
	DialTimeout time.Duration
}

type ScreeningConfig struct {
	MaxResumeChars int
	// RawJobDescriptionKey keeps the job description byte-exact when building
	// cache keys, matching entries written by older deployments.
	RawJobDescriptionKey bool
}

// multipartOverhead leaves room in the request body for multipart framing
// and the job description on top of a maximum-size resume.
const multipartOverhead = 1 << 20

type StorageConfig struct {
	MaxFileSize int64
	// MaxBodySize caps the whole request body. Zero means MaxFileSize plus
	// multipartOverhead.
	MaxBodySize int64
}

// BodyLimit is the request body limit handed to the HTTP server.
func (s StorageConfig) BodyLimit() int {
	if s.MaxBodySize > 0 {
		return int(s.MaxBodySize)
	}
	return int(s.MaxFileSize + multipartOverhead)
}

// Load reads .env (if any) into the process environment and builds the
// configuration from environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")

	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("MODEL_PROVIDER", ProviderOllama)
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("MODEL_NAME", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("MODEL_NUM_CTX", 4096)
	v.SetDefault("MODEL_TIMEOUT", "120s")
	v.SetDefault("MODEL_CONCURRENCY", 4)
	v.SetDefault("MODEL_RATE_LIMIT", 0)
	v.SetDefault("MODEL_WARMUP", true)

	v.SetDefault("VALKEY_HOST", "localhost")
	v.SetDefault("VALKEY_PORT", "6379")
	v.SetDefault("VALKEY_PASSWORD", "")
	v.SetDefault("VALKEY_DB", 0)
	v.SetDefault("CACHE_TTL", 86400)
	v.SetDefault("CACHE_KEY_PREFIX", "resume:")
	v.SetDefault("CACHE_DIAL_TIMEOUT", "3s")

	v.SetDefault("RESUME_MAX_CHARS", 4000)
	v.SetDefault("JOB_DESCRIPTION_RAW_KEY", false)

	v.SetDefault("MAX_FILE_SIZE", 10485760)
	v.SetDefault("MAX_BODY_SIZE", 0)

	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	provider := strings.ToLower(strings.TrimSpace(v.GetString("MODEL_PROVIDER")))

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Log: LogConfig{
			JSON:  v.GetBool("LOG_JSON"),
			Debug: strings.EqualFold(v.GetString("LOG_LEVEL"), "debug"),
		},
		Model: ModelConfig{
			Provider:     provider,
			OllamaHost:   v.GetString("OLLAMA_HOST"),
			Name:         modelName(provider, v.GetString("MODEL_NAME")),
			GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
			NumCtx:       v.GetInt("MODEL_NUM_CTX"),
			Timeout:      getDuration(v, "MODEL_TIMEOUT", 120*time.Second),
			Concurrency:  v.GetInt("MODEL_CONCURRENCY"),
			RateLimit:    v.GetFloat64("MODEL_RATE_LIMIT"),
			Warmup:       v.GetBool("MODEL_WARMUP"),
		},
		Cache: CacheConfig{
			Host:        v.GetString("VALKEY_HOST"),
			Port:        v.GetString("VALKEY_PORT"),
			Password:    v.GetString("VALKEY_PASSWORD"),
			DB:          v.GetInt("VALKEY_DB"),
			TTL:         time.Duration(v.GetInt64("CACHE_TTL")) * time.Second,
			KeyPrefix:   v.GetString("CACHE_KEY_PREFIX"),
			DialTimeout: getDuration(v, "CACHE_DIAL_TIMEOUT", 3*time.Second),
		},
		Screening: ScreeningConfig{
			MaxResumeChars:       v.GetInt("RESUME_MAX_CHARS"),
			RawJobDescriptionKey: v.GetBool("JOB_DESCRIPTION_RAW_KEY"),
		},
		Storage: StorageConfig{
			MaxFileSize: v.GetInt64("MAX_FILE_SIZE"),
			MaxBodySize: v.GetInt64("MAX_BODY_SIZE"),
		},
	}
}

// Validate reports the first setting that would make the service misbehave.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderOllama:
		if c.Model.OllamaHost == "" {
			return fmt.Errorf("OLLAMA_HOST is required for the ollama provider")
		}
	case ProviderGemini:
		if c.Model.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("unknown MODEL_PROVIDER %q", c.Model.Provider)
	}

	if c.Screening.MaxResumeChars <= 0 {
		return fmt.Errorf("RESUME_MAX_CHARS must be positive, got %d", c.Screening.MaxResumeChars)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	if c.Model.Concurrency <= 0 {
		return fmt.Errorf("MODEL_CONCURRENCY must be positive, got %d", c.Model.Concurrency)
	}
	if c.Model.RateLimit < 0 {
		return fmt.Errorf("MODEL_RATE_LIMIT must not be negative, got %v", c.Model.RateLimit)
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.Storage.MaxFileSize)
	}
	if c.Storage.MaxBodySize < 0 || (c.Storage.MaxBodySize > 0 && c.Storage.MaxBodySize <= c.Storage.MaxFileSize) {
		return fmt.Errorf("MAX_BODY_SIZE must exceed MAX_FILE_SIZE (%d), got %d", c.Storage.MaxFileSize, c.Storage.MaxBodySize)
	}

	return nil
}

func (c *Config) CacheAddr() string {
	return fmt.Sprintf("%s:%s", c.Cache.Host, c.Cache.Port)
}

func modelName(provider, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if provider == ProviderGemini {
		return "gemini-2.5-flash"
	}
	return "llama3.2:3b"
}

func getDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(v.GetString(key)); err == nil {
		return duration
	}
	return defaultValue
}
