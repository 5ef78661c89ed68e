package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/polyroom/polyroom/internal/adapter/driven/engine/gemini"
	"github.com/polyroom/polyroom/internal/adapter/driven/engine/stub"
	handler "github.com/polyroom/polyroom/internal/adapter/driving/http"
	"github.com/polyroom/polyroom/internal/config"
	"github.com/polyroom/polyroom/internal/core/port"
	"github.com/polyroom/polyroom/internal/core/service"
)

func main() {
	w := zerolog.ConsoleWriter{Out: os.Stdout}
	l := zerolog.New(w).With().Timestamp().Caller().Logger()
	zlog.Logger = l

	cfg, err := config.Load()
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to load config")
	}

	var engine port.TranslationEngine
	if cfg.GeminiAPIKey == "" {
		l.Warn().Msg("GEMINI_API_KEY not set, using stub translation engine")
		engine = stub.NewEngine(nil)
	} else {
		engine = gemini.NewClient(gemini.Config{
			APIKey:        cfg.GeminiAPIKey,
			LanguageCode:  cfg.TTSLanguageCode,
			VoiceGender:   cfg.TTSVoiceGender,
			AudioEncoding: cfg.TTSAudioEncoding,
			Timeout:       cfg.EngineTimeout,
		})
	}

	hub := service.NewHub()
	pipeline := service.NewPipeline(engine, hub)
	h := handler.NewHandler(hub, pipeline, engine, cfg)

	r := h.NewRouter()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		l.Info().Str("addr", cfg.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	l.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("Server forced to shutdown")
	}

	l.Info().Msg("Server exited")
}
