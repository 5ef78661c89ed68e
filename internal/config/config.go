package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	Addr string

	// Translation engine credential. When empty the server falls back to
	// the deterministic stub engine.
	GeminiAPIKey string

	// Default model identifiers; each connection may override its own.
	TranscriptionModel string
	TranslationModel   string

	// Speech synthesis voice and encoding.
	TTSLanguageCode  string
	TTSVoiceGender   string
	TTSAudioEncoding string

	// EngineTimeout bounds each remote engine call.
	EngineTimeout time.Duration

	// ChunkQueueDepth is the per-connection audio chunk backlog allowed
	// before new chunks are dropped.
	ChunkQueueDepth int
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{
		Addr:               ":" + getEnv("PORT", "8080"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		TranscriptionModel: getEnv("TRANSCRIPTION_MODEL", "gemini-pro"),
		TranslationModel:   getEnv("TRANSLATION_MODEL", "gemini-pro"),
		TTSLanguageCode:    getEnv("TTS_LANGUAGE_CODE", "en-US"),
		TTSVoiceGender:     getEnv("TTS_VOICE_GENDER", "NEUTRAL"),
		TTSAudioEncoding:   getEnv("TTS_AUDIO_ENCODING", "MP3"),
		EngineTimeout:      30 * time.Second,
		ChunkQueueDepth:    8,
	}

	if s := getEnv("ENGINE_TIMEOUT", ""); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid ENGINE_TIMEOUT: %w", err)
		}
		cfg.EngineTimeout = d
	}

	if s := getEnv("CHUNK_QUEUE_DEPTH", ""); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid CHUNK_QUEUE_DEPTH: %q", s)
		}
		cfg.ChunkQueueDepth = n
	}

	switch cfg.TTSVoiceGender {
	case "NEUTRAL", "MALE", "FEMALE":
	default:
		return nil, fmt.Errorf("invalid TTS_VOICE_GENDER: %q (must be NEUTRAL, MALE or FEMALE)", cfg.TTSVoiceGender)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
