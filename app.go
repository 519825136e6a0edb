package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/raihanetx/banglatoenglish/internal/bootstrap"
	"github.com/raihanetx/banglatoenglish/internal/config"
	"github.com/raihanetx/banglatoenglish/internal/domain"
	"github.com/raihanetx/banglatoenglish/internal/observability"
	"github.com/raihanetx/banglatoenglish/internal/usecase"
)

const (
	eventState      = "b2e:state"
	eventTranscript = "b2e:transcript"
	eventResolved   = "b2e:resolved"
	eventCleared    = "b2e:cleared"
	eventVolume     = "b2e:volume"
	eventError      = "b2e:error"
)

// App is the Wails application root. It binds the session controller to the
// frontend and forwards backend events as runtime events.
type App struct {
	ctx context.Context

	controller *usecase.SessionController
	cfg        *config.Config
	bootErr    error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		observability.InitLogger("info", true)
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.controller = services.Controller

	observability.StartMetricsServer(a.cfg.MetricsAddr)

	a.RecorderStateChanged(domain.RecorderStateIdle, domain.ReasonReady)
}

func (a *App) shutdown(_ context.Context) {
	if a.controller != nil {
		a.controller.Shutdown()
	}
}

// StartRecording begins a microphone capture cycle. A toggle that arrives
// while a cycle is already capturing or processing is ignored.
func (a *App) StartRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.controller.StartRecording(a.ctx); err != nil {
		if errors.Is(err, usecase.ErrRecorderBusy) {
			return a.controller.Status(), nil
		}
		return a.controller.Status(), err
	}
	return a.controller.Status(), nil
}

// StopRecording ends the active capture and hands it to translation.
func (a *App) StopRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.controller.StopRecording(a.ctx); err != nil {
		if errors.Is(err, usecase.ErrNotRecording) {
			return a.controller.Status(), nil
		}
		return a.controller.Status(), err
	}
	return a.controller.Status(), nil
}

// SendText translates typed text, independent of the recorder state.
func (a *App) SendText(text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.controller.SubmitText(a.ctx, text); err != nil {
		if errors.Is(err, usecase.ErrEmptyText) {
			return nil
		}
		return err
	}
	return nil
}

// ClearHistory empties the conversation.
func (a *App) ClearHistory() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.controller.ClearTranscript()
	return nil
}

// GetTranscript returns the conversation so a reloaded frontend can resync.
func (a *App) GetTranscript() []domain.TranscriptItem {
	if a.controller == nil {
		return nil
	}
	return a.controller.Transcript()
}

// GetStatus returns the current recorder status.
func (a *App) GetStatus() domain.Status {
	if a.controller == nil {
		if a.bootErr != nil {
			return domain.Status{State: domain.RecorderStateError, Active: false, Message: a.bootErr.Error()}
		}
		return domain.Status{State: domain.RecorderStateIdle, Active: false}
	}
	return a.controller.Status()
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	if a.cfg == nil {
		return map[string]string{}
	}

	return map[string]string{
		"model":          a.cfg.TranslateModel,
		"sourceLanguage": a.cfg.SourceLanguage,
		"targetLanguage": a.cfg.TargetLanguage,
		"audioInput":     a.cfg.InputDevice,
		"audioFormat":    a.cfg.InputFormat,
		"glossaryFile":   a.cfg.GlossaryFile,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// RecorderStateChanged emits recorder lifecycle updates to the frontend.
func (a *App) RecorderStateChanged(state domain.RecorderState, reason domain.StateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventState, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": stateMessage(reason),
	})
}

// TranscriptAppended emits a new conversation entry.
func (a *App) TranscriptAppended(item domain.TranscriptItem) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventTranscript, item)
}

// TranscriptResolved emits a placeholder settlement.
func (a *App) TranscriptResolved(id string, text string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventResolved, map[string]string{
		"id":   id,
		"text": text,
	})
}

// TranscriptCleared notifies the frontend that the conversation was emptied.
func (a *App) TranscriptCleared() {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCleared, nil)
}

// VolumeLevel emits the live input amplitude for the visualizer.
func (a *App) VolumeLevel(level uint8) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventVolume, level)
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func stateMessage(reason domain.StateReason) string {
	switch reason {
	case domain.ReasonReady:
		return "Ready"
	case domain.ReasonRecordingStarted:
		return "Listening..."
	case domain.ReasonTranslating:
		return "Recording stopped. Translating..."
	case domain.ReasonCycleComplete:
		return "Translation ready"
	case domain.ReasonCaptureFailed:
		return "Could not access the microphone"
	case domain.ReasonEmptyCapture:
		return "No speech captured"
	case domain.ReasonShutdown:
		return "Shutting down"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeMicrophone:
		return "Microphone error"
	case domain.ErrorCodeEncoding:
		return "Audio encoding failed"
	case domain.ErrorCodeTranslation:
		return "Translation error"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
