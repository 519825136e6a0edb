package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration for the translation client.
type Config struct {
	// Remote translation endpoint configuration.
	TranslateAPIKey  string `envconfig:"TRANSLATE_API_KEY" required:"true"`
	TranslateBaseURL string `envconfig:"TRANSLATE_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	TranslateModel   string `envconfig:"TRANSLATE_MODEL" default:"gemini-2.0-flash"`
	TranslateTimeout int    `envconfig:"TRANSLATE_TIMEOUT_SECONDS" default:"60"`

	// Fixed language pair. Auto-detection is deliberately unsupported.
	SourceLanguage string `envconfig:"SOURCE_LANGUAGE" default:"Bengali"`
	TargetLanguage string `envconfig:"TARGET_LANGUAGE" default:"English"`

	// Retry behavior for rate-limited translation calls.
	RetryMaxAttempts    int `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	RetryInitialBackoff int `envconfig:"RETRY_INITIAL_BACKOFF_MS" default:"1000"`

	// Microphone capture configuration.
	RecorderCommand string `envconfig:"B2E_FFMPEG_COMMAND" default:"ffmpeg"`
	InputFormat     string `envconfig:"B2E_AUDIO_INPUT_FORMAT" default:"pulse"`
	InputDevice     string `envconfig:"B2E_AUDIO_INPUT_DEVICE" default:"default"`
	SampleRate      int    `envconfig:"B2E_SAMPLE_RATE" default:"16000"`
	Channels        int    `envconfig:"B2E_CHANNELS" default:"1"`

	// Volume meter sampling cadence (one sample per display refresh).
	MeterInterval time.Duration `envconfig:"B2E_METER_INTERVAL" default:"16ms"`

	// Optional glossary file applied to translated text.
	GlossaryFile           string `envconfig:"B2E_GLOSSARY_FILE" default:""`
	GlossaryIterationLimit int    `envconfig:"B2E_GLOSSARY_ITERATION_LIMIT" default:"30"`

	// Observability configuration.
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty   bool   `envconfig:"LOG_PRETTY" default:"true"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""` // e.g. 127.0.0.1:9090; empty disables
}

// Load reads configuration from a .env file (if present) and the environment.
// The translation credential is mandatory; its absence fails here, before any
// remote call can be attempted.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if strings.TrimSpace(cfg.TranslateAPIKey) == "" {
		return nil, fmt.Errorf("TRANSLATE_API_KEY is required")
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.RetryMaxAttempts <= 0 {
		cfg.RetryMaxAttempts = 3
	}
	if cfg.RetryInitialBackoff <= 0 {
		cfg.RetryInitialBackoff = 1000
	}
	if cfg.MeterInterval <= 0 {
		cfg.MeterInterval = 16 * time.Millisecond
	}
	if cfg.GlossaryIterationLimit <= 0 {
		cfg.GlossaryIterationLimit = 30
	}

	return &cfg, nil
}
