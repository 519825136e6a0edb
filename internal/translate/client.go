package translate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/raihanetx/banglatoenglish/internal/domain"
	"github.com/raihanetx/banglatoenglish/internal/observability"
	"github.com/raihanetx/banglatoenglish/internal/ports"
	"github.com/raihanetx/banglatoenglish/internal/resilience"
)

// Config controls the remote translation endpoint.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	SourceLanguage string
	TargetLanguage string
	Timeout        time.Duration
	Retry          resilience.Policy
}

// Client implements ports.Translator against a generateContent-style JSON
// endpoint. Rate-limited attempts are retried with bounded exponential
// backoff; all other failures propagate after a single attempt.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleep      resilience.Sleeper
	logger     zerolog.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.SourceLanguage == "" {
		cfg.SourceLanguage = "Bengali"
	}
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = "English"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = resilience.DefaultPolicy()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		sleep:      resilience.SleepContext,
		logger:     observability.ComponentLogger("translate"),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Translate sends one utterance and returns the translated text. A successful
// response that carries no text resolves to the literal fallback string
// rather than an error.
func (c *Client) Translate(ctx context.Context, req ports.TranslationRequest) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", domain.ErrMissingCredential
	}
	if req.Clip == nil && strings.TrimSpace(req.Text) == "" {
		return "", fmt.Errorf("nothing to translate")
	}

	kind := "text"
	if req.Clip != nil {
		kind = "audio"
	}

	body, err := json.Marshal(c.buildPayload(req))
	if err != nil {
		return "", fmt.Errorf("failed to marshal translation request: %w", err)
	}

	started := time.Now()
	var text string
	err = c.cfg.Retry.Do(ctx,
		func() error {
			var attemptErr error
			text, attemptErr = c.attempt(ctx, body)
			return attemptErr
		},
		func(err error) bool {
			retry := domainIsRateLimited(err)
			if retry {
				observability.ObserveTranslateRetry()
				c.logger.Warn().Str("kind", kind).Msg("rate limited, backing off before retry")
			}
			return retry
		},
		c.sleep,
	)
	elapsed := time.Since(started)

	if err != nil {
		observability.ObserveTranslateRequest(kind, "error", elapsed)
		return "", err
	}

	observability.ObserveTranslateRequest(kind, "success", elapsed)
	c.logger.Debug().Str("kind", kind).Dur("elapsed", elapsed).Msg("translation complete")

	if strings.TrimSpace(text) == "" {
		return domain.FallbackTranslationText, nil
	}
	return strings.TrimSpace(text), nil
}

// buildPayload shapes the request: a fixed instruction preamble directing
// verbatim translation, followed by either the typed text or the inline
// base64 audio clip.
func (c *Client) buildPayload(req ports.TranslationRequest) generateRequest {
	parts := []part{{Text: c.preamble()}}
	if req.Clip != nil {
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: req.Clip.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(req.Clip.Data),
		}})
	} else {
		parts = append(parts, part{Text: req.Text})
	}
	return generateRequest{Contents: []content{{Parts: parts}}}
}

func (c *Client) preamble() string {
	return fmt.Sprintf(
		"Translate the following %s into %s. Reply with the translation only, verbatim, with no explanations.",
		c.cfg.SourceLanguage, c.cfg.TargetLanguage,
	)
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
}

// attempt performs exactly one HTTP call and classifies the outcome against
// the failure taxonomy.
func (c *Client) attempt(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: status %d", domain.ErrRateLimited, resp.StatusCode)
	}

	var decoded generateResponse
	if resp.StatusCode != http.StatusOK {
		// Some deployments put the rate-limit marker in the error body
		// instead of the status code.
		if json.Unmarshal(payload, &decoded) == nil && decoded.Error != nil {
			if decoded.Error.Code == http.StatusTooManyRequests || decoded.Error.Status == "RESOURCE_EXHAUSTED" {
				return "", fmt.Errorf("%w: %s", domain.ErrRateLimited, decoded.Error.Message)
			}
			return "", fmt.Errorf("%w: status %d: %s", domain.ErrServiceError, resp.StatusCode, decoded.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", domain.ErrServiceError, resp.StatusCode)
	}

	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	for _, cand := range decoded.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", nil
}

func domainIsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}
