package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TRANSLATE_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.TranslateAPIKey != "test-key" {
		t.Fatalf("unexpected api key: %q", cfg.TranslateAPIKey)
	}
	if cfg.SourceLanguage != "Bengali" || cfg.TargetLanguage != "English" {
		t.Fatalf("unexpected language pair: %q -> %q", cfg.SourceLanguage, cfg.TargetLanguage)
	}
	if cfg.RetryMaxAttempts != 3 || cfg.RetryInitialBackoff != 1000 {
		t.Fatalf("unexpected retry defaults: %d attempts, %dms", cfg.RetryMaxAttempts, cfg.RetryInitialBackoff)
	}
	if cfg.SampleRate != 16000 || cfg.Channels != 1 {
		t.Fatalf("unexpected audio defaults: %d/%d", cfg.SampleRate, cfg.Channels)
	}
	if cfg.MeterInterval != 16*time.Millisecond {
		t.Fatalf("unexpected meter interval: %v", cfg.MeterInterval)
	}
	if cfg.MetricsAddr != "" {
		t.Fatalf("metrics must default to disabled, got %q", cfg.MetricsAddr)
	}
}

func TestLoadFailsWithoutCredential(t *testing.T) {
	t.Setenv("TRANSLATE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when credential is absent")
	}
}

func TestLoadRespectsOverrides(t *testing.T) {
	t.Setenv("TRANSLATE_API_KEY", "test-key")
	t.Setenv("TRANSLATE_BASE_URL", "https://example.com/v1")
	t.Setenv("TRANSLATE_MODEL", "test-model")
	t.Setenv("SOURCE_LANGUAGE", "Sylheti")
	t.Setenv("TARGET_LANGUAGE", "German")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_INITIAL_BACKOFF_MS", "250")
	t.Setenv("B2E_FFMPEG_COMMAND", "my-ffmpeg")
	t.Setenv("B2E_AUDIO_INPUT_FORMAT", "alsa")
	t.Setenv("B2E_AUDIO_INPUT_DEVICE", "mic0")
	t.Setenv("B2E_SAMPLE_RATE", "22050")
	t.Setenv("B2E_CHANNELS", "2")
	t.Setenv("B2E_METER_INTERVAL", "33ms")
	t.Setenv("METRICS_ADDR", "127.0.0.1:9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.TranslateBaseURL != "https://example.com/v1" || cfg.TranslateModel != "test-model" {
		t.Fatalf("unexpected endpoint config: %+v", cfg)
	}
	if cfg.SourceLanguage != "Sylheti" || cfg.TargetLanguage != "German" {
		t.Fatalf("unexpected language pair: %q -> %q", cfg.SourceLanguage, cfg.TargetLanguage)
	}
	if cfg.RetryMaxAttempts != 5 || cfg.RetryInitialBackoff != 250 {
		t.Fatalf("unexpected retry config: %+v", cfg)
	}
	if cfg.RecorderCommand != "my-ffmpeg" || cfg.InputFormat != "alsa" || cfg.InputDevice != "mic0" {
		t.Fatalf("unexpected capture config: %+v", cfg)
	}
	if cfg.SampleRate != 22050 || cfg.Channels != 2 {
		t.Fatalf("unexpected sample config: %d/%d", cfg.SampleRate, cfg.Channels)
	}
	if cfg.MeterInterval != 33*time.Millisecond {
		t.Fatalf("unexpected meter interval: %v", cfg.MeterInterval)
	}
	if cfg.MetricsAddr != "127.0.0.1:9090" {
		t.Fatalf("unexpected metrics addr: %q", cfg.MetricsAddr)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	t.Setenv("TRANSLATE_API_KEY", "test-key")
	t.Setenv("B2E_SAMPLE_RATE", "-1")
	t.Setenv("B2E_CHANNELS", "0")
	t.Setenv("RETRY_MAX_ATTEMPTS", "0")
	t.Setenv("RETRY_INITIAL_BACKOFF_MS", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.SampleRate != 16000 || cfg.Channels != 1 {
		t.Fatalf("expected audio clamps, got %d/%d", cfg.SampleRate, cfg.Channels)
	}
	if cfg.RetryMaxAttempts != 3 || cfg.RetryInitialBackoff != 1000 {
		t.Fatalf("expected retry clamps, got %+v", cfg)
	}
}
