package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultGenerativeBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTTSBaseURL        = "https://texttospeech.googleapis.com/v1"

	transcribePrompt = "Transcribe the following audio:"
)

// Config configures the remote engine client.
type Config struct {
	APIKey string

	// Voice and encoding used for speech synthesis.
	LanguageCode  string
	VoiceGender   string
	AudioEncoding string

	// Timeout bounds each remote call. Zero means 30s.
	Timeout time.Duration

	// Endpoint overrides, used by tests. Empty means the public APIs.
	GenerativeBaseURL string
	TTSBaseURL        string
}

// Client implements port.TranslationEngine against the Gemini generateContent
// API (transcription and translation) and the Google Cloud text-to-speech
// API (synthesis). It holds no per-connection state; models arrive as call
// parameters.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.GenerativeBaseURL == "" {
		cfg.GenerativeBaseURL = defaultGenerativeBaseURL
	}
	if cfg.TTSBaseURL == "" {
		cfg.TTSBaseURL = defaultTTSBaseURL
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, model string) (string, error) {
	log.Debug().Str("model", model).Int("bytes", len(audio)).Msg("Transcribing audio chunk")
	return c.generate(ctx, model, []part{
		{Text: transcribePrompt},
		{InlineData: &inlineData{
			MimeType: "audio/wav",
			Data:     base64.StdEncoding.EncodeToString(audio),
		}},
	})
}

func (c *Client) Translate(ctx context.Context, text, targetLanguage, model string) (string, error) {
	log.Debug().Str("model", model).Str("target_language", targetLanguage).Msg("Translating text")
	prompt := fmt.Sprintf("Translate the following text to %s: %s", targetLanguage, text)
	return c.generate(ctx, model, []part{{Text: prompt}})
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SsmlGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	log.Debug().Int("chars", len(text)).Msg("Synthesizing speech")

	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = c.cfg.LanguageCode
	req.Voice.SsmlGender = c.cfg.VoiceGender
	req.AudioConfig.AudioEncoding = c.cfg.AudioEncoding

	url := fmt.Sprintf("%s/text:synthesize?key=%s", c.cfg.TTSBaseURL, c.cfg.APIKey)

	var resp synthesizeResponse
	if err := c.post(ctx, url, req, &resp); err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return data, nil
}

func (c *Client) generate(ctx context.Context, model string, parts []part) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.GenerativeBaseURL, model, c.cfg.APIKey)

	req := generateRequest{Contents: []content{{Parts: parts}}}

	var resp generateResponse
	if err := c.post(ctx, url, req, &resp); err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("generate content: no candidates in response")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
