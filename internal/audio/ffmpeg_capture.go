package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raihanetx/banglatoenglish/internal/domain"
	"github.com/raihanetx/banglatoenglish/internal/ports"
)

// FFMPEGCapture records microphone PCM audio using an ffmpeg child process.
// Each Begin call owns the device exclusively until the returned recording
// is finished or discarded.
type FFMPEGCapture struct {
	command string
	encoder *ClipEncoder
}

func NewFFMPEGCapture(command string) *FFMPEGCapture {
	if command == "" {
		command = "ffmpeg"
	}
	return &FFMPEGCapture{command: command, encoder: NewClipEncoder(command)}
}

func (c *FFMPEGCapture) Begin(ctx context.Context, cfg ports.AudioConfig) (ports.Recording, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "s16le",
		"-",
	}

	cmd := exec.CommandContext(ctx, c.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create capture stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: failed to start %s: %v", domain.ErrDeviceUnavailable, c.command, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	// Give the process a moment to fail on bad devices or denied access
	// before declaring the capture live.
	select {
	case <-waitErr:
		return nil, classifyBeginFailure(stderr.String())
	case <-time.After(250 * time.Millisecond):
	}

	rec := &recording{
		stdout:     stdout,
		stderr:     &stderr,
		process:    cmd.Process,
		waitErr:    waitErr,
		encoder:    c.encoder,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		drainDone:  make(chan struct{}),
	}
	go rec.drain()

	return rec, nil
}

// classifyBeginFailure maps an early ffmpeg exit onto the capture failure
// taxonomy using the process stderr.
func classifyBeginFailure(stderrText string) error {
	detail := strings.TrimSpace(stderrText)
	lowered := strings.ToLower(detail)

	switch {
	case strings.Contains(lowered, "permission denied"),
		strings.Contains(lowered, "access denied"),
		strings.Contains(lowered, "operation not permitted"):
		if detail != "" {
			return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, detail)
		}
		return domain.ErrPermissionDenied
	default:
		if detail != "" {
			return fmt.Errorf("%w: %s", domain.ErrDeviceUnavailable, detail)
		}
		return domain.ErrDeviceUnavailable
	}
}

type recording struct {
	stdout io.ReadCloser
	stderr *bytes.Buffer

	process *os.Process
	waitErr <-chan error

	encoder    *ClipEncoder
	sampleRate int
	channels   int

	mu  sync.Mutex
	pcm bytes.Buffer

	level     atomic.Uint32
	drainDone chan struct{}

	stopOnce sync.Once
	stopErr  error
}

// drain accumulates PCM from the capture process and tracks the amplitude
// of the most recent chunk for the volume meter.
func (r *recording) drain() {
	defer close(r.drainDone)
	defer r.level.Store(0)

	buf := make([]byte, 4096)
	for {
		n, err := r.stdout.Read(buf)
		if n > 0 {
			r.mu.Lock()
			r.pcm.Write(buf[:n])
			r.mu.Unlock()
			r.level.Store(uint32(ChunkLevel(buf[:n])))
		}
		if err != nil {
			return
		}
	}
}

func (r *recording) Level() uint8 {
	return uint8(r.level.Load())
}

// Finish stops capture and encodes whatever PCM arrived.
func (r *recording) Finish() (domain.AudioClip, error) {
	if err := r.stop(); err != nil {
		return domain.AudioClip{}, err
	}

	r.mu.Lock()
	pcm := append([]byte(nil), r.pcm.Bytes()...)
	r.mu.Unlock()

	if len(pcm) == 0 {
		if detail := strings.TrimSpace(r.stderr.String()); detail != "" {
			return domain.AudioClip{}, fmt.Errorf("%w: %s", domain.ErrEmptyCapture, detail)
		}
		return domain.AudioClip{}, domain.ErrEmptyCapture
	}

	return r.encoder.Encode(pcm, r.sampleRate, r.channels)
}

// Discard stops capture and drops any buffered audio.
func (r *recording) Discard() error {
	return r.stop()
}

func (r *recording) stop() error {
	r.stopOnce.Do(func() {
		if r.process != nil {
			_ = r.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-r.waitErr:
			if ok {
				r.stopErr = normalizeStopErr(err)
			}
		case <-time.After(1200 * time.Millisecond):
			if r.process != nil {
				_ = r.process.Kill()
			}
			err, ok := <-r.waitErr
			if ok {
				r.stopErr = normalizeStopErr(err)
			}
		}

		if closeErr := r.stdout.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			if r.stopErr == nil {
				r.stopErr = closeErr
			}
		}
		<-r.drainDone
	})

	return r.stopErr
}

// ffmpeg exits non-zero when interrupted; that is the expected way to end a
// capture, not a failure.
func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
