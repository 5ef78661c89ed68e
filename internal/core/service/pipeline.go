package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/polyroom/polyroom/internal/core/domain"
	"github.com/polyroom/polyroom/internal/core/port"
)

// ErrEmptyTranscription aborts a pipeline run whose audio produced no text.
var ErrEmptyTranscription = errors.New("empty transcription")

// Pipeline drives one audio chunk through transcribe, translate and
// synthesize, then fans the result out to the chunk's room. One translation
// is produced per utterance, in the speaker's chosen target language, and
// broadcast to the whole room.
type Pipeline struct {
	engine      port.TranslationEngine
	broadcaster port.RoomBroadcaster
}

func NewPipeline(engine port.TranslationEngine, broadcaster port.RoomBroadcaster) *Pipeline {
	return &Pipeline{
		engine:      engine,
		broadcaster: broadcaster,
	}
}

// Process runs the three engine stages for a single chunk using the
// speaker's session snapshot. A failure at any stage aborts the run: nothing
// is broadcast for that chunk and no retry is made, since resending stale
// audio is worse than skipping a beat.
func (p *Pipeline) Process(ctx context.Context, chunk domain.AudioChunk, session domain.SessionState) error {
	text, err := p.engine.Transcribe(ctx, chunk.Data, session.TranscriptionModel)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	if text == "" {
		return ErrEmptyTranscription
	}

	translated, err := p.engine.Translate(ctx, text, session.TargetLanguage, session.TranslationModel)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	audio, err := p.engine.Synthesize(ctx, translated)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	// The speaker may have disconnected while an engine call was in
	// flight; a cancelled run is discarded, not broadcast.
	if err := ctx.Err(); err != nil {
		return err
	}

	p.broadcaster.Broadcast(chunk.RoomID, domain.NewTranslatedAudioEvent(audio))
	p.broadcaster.Broadcast(chunk.RoomID, domain.NewSubtitleEvent(chunk.ConnID, translated))
	return nil
}
