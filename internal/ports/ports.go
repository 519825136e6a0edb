package ports

import (
	"context"

	"github.com/raihanetx/banglatoenglish/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// Recording is a live microphone capture session. It holds the device
// exclusively until Finish or Discard is called; both release it, and
// release is idempotent.
type Recording interface {
	// Level reports the instantaneous input amplitude in [0,255].
	Level() uint8
	// Finish stops capture and returns the encoded clip.
	// Fails with domain.ErrEmptyCapture when no audio arrived.
	Finish() (domain.AudioClip, error)
	// Discard stops capture and drops any buffered audio.
	Discard() error
}

// AudioCapture creates microphone recording sessions.
type AudioCapture interface {
	Begin(ctx context.Context, cfg AudioConfig) (Recording, error)
}

// TranslationRequest carries either typed text or an encoded audio clip,
// never both.
type TranslationRequest struct {
	Text string
	Clip *domain.AudioClip
}

// Translator sends an utterance to the remote translation service.
type Translator interface {
	Translate(ctx context.Context, req TranslationRequest) (string, error)
}

// Glossary post-processes translated text deterministically.
type Glossary interface {
	Apply(text string) (string, error)
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	RecorderStateChanged(state domain.RecorderState, reason domain.StateReason)
	TranscriptAppended(item domain.TranscriptItem)
	TranscriptResolved(id string, text string)
	TranscriptCleared()
	VolumeLevel(level uint8)
	SessionError(code domain.ErrorCode, detail string)
}
