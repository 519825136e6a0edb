package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/raihanetx/banglatoenglish/internal/domain"
	"github.com/raihanetx/banglatoenglish/internal/observability"
	"github.com/raihanetx/banglatoenglish/internal/ports"
)

var (
	// ErrRecorderBusy rejects a mic toggle that arrives while a recording
	// cycle is still capturing or processing.
	ErrRecorderBusy = errors.New("recorder is busy")
	// ErrNotRecording rejects a stop with no active capture.
	ErrNotRecording = errors.New("no active recording")
	// ErrEmptyText rejects blank text submissions.
	ErrEmptyText = errors.New("nothing to translate")
)

// Config controls recording and metering behavior.
type Config struct {
	Audio         ports.AudioConfig
	MeterInterval time.Duration
}

// SessionController is the core state machine of the client. It owns the
// transcript log and the recorder state, and serializes recording cycles:
// at most one capture and one processing step exist at a time, while text
// submissions run independently and concurrently.
type SessionController struct {
	audio      ports.AudioCapture
	translator ports.Translator
	glossary   ports.Glossary
	events     ports.EventSink
	log        *TranscriptLog
	cfg        Config
	logger     zerolog.Logger

	mu    sync.Mutex
	state domain.RecorderState
	cycle *recordingCycle
}

// recordingCycle bundles the resources owned by one Recording→Processing
// pass. release is guaranteed to run exactly once per cycle.
type recordingCycle struct {
	rec         ports.Recording
	meter       *volumeMeter
	releaseOnce sync.Once
}

func (cy *recordingCycle) release() {
	cy.releaseOnce.Do(func() {
		cy.meter.stop()
		_ = cy.rec.Discard()
	})
}

func NewSessionController(
	audio ports.AudioCapture,
	translator ports.Translator,
	glossary ports.Glossary,
	events ports.EventSink,
	cfg Config,
) *SessionController {
	return &SessionController{
		audio:      audio,
		translator: translator,
		glossary:   glossary,
		events:     events,
		log:        NewTranscriptLog(),
		cfg:        cfg,
		logger:     observability.ComponentLogger("session"),
		state:      domain.RecorderStateIdle,
	}
}

// StartRecording begins a capture cycle. Legal from Idle and from a latched
// Error (user retry); rejected while Recording or Processing. A capture
// setup failure latches the Error state and touches no transcript item.
func (c *SessionController) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.state == domain.RecorderStateRecording || c.state == domain.RecorderStateProcessing {
		c.mu.Unlock()
		return ErrRecorderBusy
	}
	// Reserve the cycle before the (possibly slow) device acquisition so a
	// second toggle cannot start a competing capture.
	c.state = domain.RecorderStateRecording
	c.mu.Unlock()

	rec, err := c.audio.Begin(ctx, c.cfg.Audio)
	if err != nil {
		c.logger.Error().Err(err).Msg("capture setup failed")
		c.setState(domain.RecorderStateError, domain.ReasonCaptureFailed)
		c.events.SessionError(domain.ErrorCodeMicrophone, err.Error())
		observability.ObserveRecordingCycle("capture_failed")
		return err
	}

	cycle := &recordingCycle{
		rec:   rec,
		meter: newVolumeMeter(rec, c.events, c.cfg.MeterInterval),
	}

	c.mu.Lock()
	c.cycle = cycle
	c.mu.Unlock()

	cycle.meter.start()
	c.events.RecorderStateChanged(domain.RecorderStateRecording, domain.ReasonRecordingStarted)
	c.logger.Debug().Msg("recording started")
	return nil
}

// StopRecording ends the active capture. The transition to Processing is
// synchronous so the UI reflects it before any encoding or network work;
// the translate step then runs asynchronously.
func (c *SessionController) StopRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.state != domain.RecorderStateRecording || c.cycle == nil {
		c.mu.Unlock()
		return ErrNotRecording
	}
	cycle := c.cycle
	c.cycle = nil
	c.state = domain.RecorderStateProcessing
	c.mu.Unlock()

	c.events.RecorderStateChanged(domain.RecorderStateProcessing, domain.ReasonTranslating)

	go c.processRecording(ctx, cycle)
	return nil
}

// processRecording finishes the capture, runs the translate step against a
// placeholder transcript item, and returns the recorder to Idle. Resource
// release happens exactly once on every path.
func (c *SessionController) processRecording(ctx context.Context, cycle *recordingCycle) {
	defer cycle.release()

	clip, err := cycle.rec.Finish()
	// The device is free as soon as Finish returns; release before the
	// network round trip so a failure there cannot leak the microphone.
	cycle.release()

	if err != nil {
		c.logger.Warn().Err(err).Msg("capture produced no usable audio")
		code := domain.ErrorCodeMicrophone
		outcome := "empty_capture"
		if !errors.Is(err, domain.ErrEmptyCapture) {
			code = domain.ErrorCodeEncoding
			outcome = "encode_failed"
		}
		c.events.SessionError(code, err.Error())
		observability.ObserveRecordingCycle(outcome)
		c.finishProcessing(domain.ReasonEmptyCapture)
		return
	}

	placeholder := c.log.AppendPlaceholder()
	c.events.TranscriptAppended(placeholder)

	if resolveErr := c.resolvePlaceholder(ctx, placeholder.ID, ports.TranslationRequest{Clip: &clip}); resolveErr != nil {
		observability.ObserveRecordingCycle("translate_failed")
	} else {
		observability.ObserveRecordingCycle("success")
	}

	c.finishProcessing(domain.ReasonCycleComplete)
}

// finishProcessing moves Processing back to Idle. A fatal condition latched
// meanwhile keeps the Error state.
func (c *SessionController) finishProcessing(reason domain.StateReason) {
	c.mu.Lock()
	if c.state != domain.RecorderStateProcessing {
		c.mu.Unlock()
		return
	}
	c.state = domain.RecorderStateIdle
	c.mu.Unlock()

	c.events.RecorderStateChanged(domain.RecorderStateIdle, reason)
}

// SubmitText translates typed text. It never touches the recorder state and
// never blocks on other submissions; each call owns its own placeholder and
// out-of-order settlement is matched by id.
func (c *SessionController) SubmitText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	source, placeholder := c.log.AppendExchange(text)
	c.events.TranscriptAppended(source)
	c.events.TranscriptAppended(placeholder)

	go func() {
		_ = c.resolvePlaceholder(ctx, placeholder.ID, ports.TranslationRequest{Text: text})
	}()
	return nil
}

// resolvePlaceholder settles one placeholder to either translated text or a
// user-facing error string. Translation failures never escape the session:
// they are folded into the transcript.
func (c *SessionController) resolvePlaceholder(ctx context.Context, id string, req ports.TranslationRequest) error {
	text, err := c.translator.Translate(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Msg("translation failed")
		c.events.SessionError(domain.ErrorCodeTranslation, err.Error())

		message := domain.TranslationErrorText
		if errors.Is(err, domain.ErrRateLimited) {
			message = domain.RateLimitedText
		}
		c.resolve(id, message)
		return err
	}

	if c.glossary != nil {
		if adjusted, gErr := c.glossary.Apply(text); gErr != nil {
			c.logger.Warn().Err(gErr).Msg("glossary pass failed, keeping raw translation")
		} else {
			text = adjusted
		}
	}

	c.resolve(id, text)
	return nil
}

func (c *SessionController) resolve(id string, text string) {
	if c.log.Resolve(id, text) {
		c.events.TranscriptResolved(id, text)
	}
}

// ClearTranscript empties the conversation. Clearing an already-empty
// transcript is a no-op.
func (c *SessionController) ClearTranscript() {
	if c.log.Clear() {
		c.events.TranscriptCleared()
	}
}

// Transcript returns the conversation in display order.
func (c *SessionController) Transcript() []domain.TranscriptItem {
	return c.log.Items()
}

// Status reports the current recorder state.
func (c *SessionController) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	active := c.state == domain.RecorderStateRecording || c.state == domain.RecorderStateProcessing
	return domain.Status{State: c.state, Active: active}
}

// Shutdown releases any in-flight capture on application teardown.
func (c *SessionController) Shutdown() {
	c.mu.Lock()
	cycle := c.cycle
	c.cycle = nil
	wasRecording := c.state == domain.RecorderStateRecording
	if wasRecording {
		c.state = domain.RecorderStateIdle
	}
	c.mu.Unlock()

	if cycle != nil {
		cycle.release()
	}
	if wasRecording {
		c.events.RecorderStateChanged(domain.RecorderStateIdle, domain.ReasonShutdown)
	}
}

func (c *SessionController) setState(state domain.RecorderState, reason domain.StateReason) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	c.events.RecorderStateChanged(state, reason)
}
