package bootstrap

import (
	"time"

	"github.com/raihanetx/banglatoenglish/internal/audio"
	"github.com/raihanetx/banglatoenglish/internal/config"
	"github.com/raihanetx/banglatoenglish/internal/glossary"
	"github.com/raihanetx/banglatoenglish/internal/observability"
	"github.com/raihanetx/banglatoenglish/internal/ports"
	"github.com/raihanetx/banglatoenglish/internal/resilience"
	"github.com/raihanetx/banglatoenglish/internal/translate"
	"github.com/raihanetx/banglatoenglish/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.SessionController
	Config     *config.Config
}

// Build wires all backend dependencies for the current runtime.
func Build(eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	// Configure logging before any component grabs a logger.
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)

	terms, err := glossary.Load(cfg.GlossaryFile, cfg.GlossaryIterationLimit)
	if err != nil {
		return Services{}, err
	}

	translator := translate.NewClient(translate.Config{
		APIKey:         cfg.TranslateAPIKey,
		BaseURL:        cfg.TranslateBaseURL,
		Model:          cfg.TranslateModel,
		SourceLanguage: cfg.SourceLanguage,
		TargetLanguage: cfg.TargetLanguage,
		Timeout:        time.Duration(cfg.TranslateTimeout) * time.Second,
		Retry: resilience.Policy{
			MaxAttempts:  cfg.RetryMaxAttempts,
			InitialDelay: time.Duration(cfg.RetryInitialBackoff) * time.Millisecond,
			Multiplier:   2.0,
		},
	})

	controller := usecase.NewSessionController(
		audio.NewFFMPEGCapture(cfg.RecorderCommand),
		translator,
		terms,
		eventSink,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.SampleRate,
				Channels:    cfg.Channels,
				InputFormat: cfg.InputFormat,
				InputDevice: cfg.InputDevice,
			},
			MeterInterval: cfg.MeterInterval,
		},
	)

	return Services{Controller: controller, Config: cfg}, nil
}
