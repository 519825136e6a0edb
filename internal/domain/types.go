package domain

import (
	"errors"
	"time"
)

// RecorderState models the record/translate lifecycle.
type RecorderState string

const (
	RecorderStateIdle       RecorderState = "idle"
	RecorderStateRecording  RecorderState = "recording"
	RecorderStateProcessing RecorderState = "processing"
	RecorderStateError      RecorderState = "error"
)

// StateReason provides a structured reason for state transitions.
type StateReason string

const (
	ReasonReady             StateReason = "ready"
	ReasonRecordingStarted  StateReason = "recording_started"
	ReasonTranslating       StateReason = "translating"
	ReasonCycleComplete     StateReason = "cycle_complete"
	ReasonCaptureFailed     StateReason = "capture_failed"
	ReasonEmptyCapture      StateReason = "empty_capture"
	ReasonShutdown          StateReason = "shutdown"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup     ErrorCode = "startup"
	ErrorCodeMicrophone  ErrorCode = "microphone"
	ErrorCodeEncoding    ErrorCode = "encoding"
	ErrorCodeTranslation ErrorCode = "translation"
)

// Origin identifies which side of the conversation a transcript item belongs to.
type Origin string

const (
	OriginSource      Origin = "source"
	OriginTranslation Origin = "translation"
)

// TranscriptItem is a single conversation entry. Items are append-only;
// a translation item is born as a placeholder and its Text is mutated
// exactly once when the translation settles.
type TranscriptItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"createdAt"`
}

// AudioClip is an encoded microphone capture ready for upload.
type AudioClip struct {
	MIMEType string
	Data     []byte
}

// Status summarizes the current recorder status for the UI.
type Status struct {
	State   RecorderState `json:"state"`
	Active  bool          `json:"active"`
	Message string        `json:"message,omitempty"`
}

// Failure taxonomy shared by the capture and translation layers.
// Callers classify with errors.Is.
var (
	ErrPermissionDenied  = errors.New("microphone permission denied")
	ErrDeviceUnavailable = errors.New("microphone device unavailable")
	ErrEmptyCapture      = errors.New("no audio captured")
	ErrRateLimited       = errors.New("translation service rate limited")
	ErrServiceError      = errors.New("translation service error")
	ErrInvalidResponse   = errors.New("invalid translation response")
	ErrMissingCredential = errors.New("translation API key is not configured")
)

// User-facing transcript strings. The fallback is used when the remote call
// succeeds but carries no text; the other two resolve failed placeholders.
const (
	FallbackTranslationText = "Could not translate."
	RateLimitedText         = "Service busy, try again."
	TranslationErrorText    = "Error during translation."
)
