package stub

import (
	"context"
	"time"
)

// Config configures the deterministic engine used in tests and whenever no
// API credential is configured.
type Config struct {
	// Transcription is returned for every chunk. Empty means every chunk
	// transcribes to nothing.
	Transcription string
	// Translations maps target language to source text to translated
	// text. Misses fall back to a "[lang] " prefix on the source text.
	Translations map[string]map[string]string
	// Audio is returned by Synthesize.
	Audio []byte
	// Delay simulates remote latency before each stage, honouring ctx.
	Delay time.Duration

	// Per-stage injected failures.
	TranscribeErr error
	TranslateErr  error
	SynthesizeErr error
}

// DefaultConfig returns a small dictionary useful for development sessions.
func DefaultConfig() *Config {
	return &Config{
		Transcription: "Hello world.",
		Translations: map[string]map[string]string{
			"es": {
				"Hello world.": "Hola mundo.",
				"hello":        "hola",
			},
			"fr": {
				"Hello world.": "Bonjour le monde.",
				"hello":        "bonjour",
			},
		},
		Audio: []byte{0x01, 0x02},
	}
}

// Engine is a deterministic port.TranslationEngine implementation.
type Engine struct {
	config *Config
}

func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{config: config}
}

func (e *Engine) Transcribe(ctx context.Context, audio []byte, model string) (string, error) {
	if err := e.wait(ctx); err != nil {
		return "", err
	}
	if e.config.TranscribeErr != nil {
		return "", e.config.TranscribeErr
	}
	return e.config.Transcription, nil
}

func (e *Engine) Translate(ctx context.Context, text, targetLanguage, model string) (string, error) {
	if err := e.wait(ctx); err != nil {
		return "", err
	}
	if e.config.TranslateErr != nil {
		return "", e.config.TranslateErr
	}
	if dict, ok := e.config.Translations[targetLanguage]; ok {
		if translated, ok := dict[text]; ok {
			return translated, nil
		}
	}
	return "[" + targetLanguage + "] " + text, nil
}

func (e *Engine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	if e.config.SynthesizeErr != nil {
		return nil, e.config.SynthesizeErr
	}
	return append([]byte(nil), e.config.Audio...), nil
}

func (e *Engine) wait(ctx context.Context) error {
	if e.config.Delay > 0 {
		select {
		case <-time.After(e.config.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ctx.Err()
}
