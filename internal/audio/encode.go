package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/raihanetx/banglatoenglish/internal/domain"
	"github.com/raihanetx/banglatoenglish/internal/observability"
)

// Encoder turns raw s16le PCM into a containerized audio clip.
type Encoder interface {
	MIMEType() string
	Encode(pcm []byte, sampleRate int, channels int) ([]byte, error)
}

// ClipEncoder tries a fixed priority list of encoders and falls back to the
// built-in WAV encoder when none of the preferred ones work in this runtime.
type ClipEncoder struct {
	preferred []Encoder
	fallback  Encoder
}

// NewClipEncoder builds the default preference order: webm/opus, then
// ogg/opus (both via a second ffmpeg pass), then in-process WAV.
func NewClipEncoder(ffmpegCommand string) *ClipEncoder {
	if ffmpegCommand == "" {
		ffmpegCommand = "ffmpeg"
	}
	return &ClipEncoder{
		preferred: []Encoder{
			&ffmpegEncoder{command: ffmpegCommand, format: "webm", codec: "libopus", mime: "audio/webm"},
			&ffmpegEncoder{command: ffmpegCommand, format: "ogg", codec: "libopus", mime: "audio/ogg"},
		},
		fallback: wavEncoder{},
	}
}

// Encode produces a clip using the first encoder that succeeds.
func (c *ClipEncoder) Encode(pcm []byte, sampleRate int, channels int) (domain.AudioClip, error) {
	if len(pcm) == 0 {
		return domain.AudioClip{}, domain.ErrEmptyCapture
	}

	logger := observability.ComponentLogger("audio")
	for _, enc := range c.preferred {
		data, err := enc.Encode(pcm, sampleRate, channels)
		if err != nil {
			logger.Debug().Err(err).Str("mime", enc.MIMEType()).Msg("preferred encoder unavailable, trying next")
			continue
		}
		return domain.AudioClip{MIMEType: enc.MIMEType(), Data: data}, nil
	}

	data, err := c.fallback.Encode(pcm, sampleRate, channels)
	if err != nil {
		return domain.AudioClip{}, fmt.Errorf("baseline encoder failed: %w", err)
	}
	return domain.AudioClip{MIMEType: c.fallback.MIMEType(), Data: data}, nil
}

type ffmpegEncoder struct {
	command string
	format  string
	codec   string
	mime    string
}

func (e *ffmpegEncoder) MIMEType() string { return e.mime }

func (e *ffmpegEncoder) Encode(pcm []byte, sampleRate int, channels int) ([]byte, error) {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-i", "pipe:0",
		"-c:a", e.codec,
		"-f", e.format,
		"pipe:1",
	}

	cmd := exec.Command(e.command, args...)
	cmd.Stdin = bytes.NewReader(pcm)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := string(bytes.TrimSpace(stderr.Bytes()))
		if detail != "" {
			return nil, fmt.Errorf("%s encode failed: %w: %s", e.format, err, detail)
		}
		return nil, fmt.Errorf("%s encode failed: %w", e.format, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s encode produced no output", e.format)
	}
	return stdout.Bytes(), nil
}

// wavEncoder is the baseline container: a plain RIFF/WAVE header around the
// PCM, always available without external tooling.
type wavEncoder struct{}

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func (wavEncoder) MIMEType() string { return "audio/wav" }

func (wavEncoder) Encode(pcm []byte, sampleRate int, channels int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if channels <= 0 {
		channels = 1
	}

	const bitsPerSample = 16
	dataSize := uint32(len(pcm))
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(channels) * bitsPerSample / 8,
		BlockAlign:    uint16(channels) * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := buf.Write(pcm); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}
	return buf.Bytes(), nil
}
