package service

import (
	"context"

	"github.com/polyroom/polyroom/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// job pairs a chunk with the session snapshot taken when it arrived.
type job struct {
	chunk   domain.AudioChunk
	session domain.SessionState
}

// Worker serializes pipeline invocations for one speaking connection, so a
// speaker's subtitles reach the room in send order. The queue is bounded:
// when translation falls behind, excess chunks are dropped instead of piling
// up without limit.
type Worker struct {
	pipeline *Pipeline
	jobs     chan job
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewWorker starts the worker's run loop. queueDepth is the number of chunks
// allowed to wait while one is being processed.
func NewWorker(ctx context.Context, pipeline *Pipeline, queueDepth int) *Worker {
	ctx, cancel := context.WithCancel(ctx)
	w := &Worker{
		pipeline: pipeline,
		jobs:     make(chan job, queueDepth),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit queues one chunk together with the speaker's current session state.
// It never blocks the caller's read loop: a full queue drops the chunk and
// reports false.
func (w *Worker) Submit(chunk domain.AudioChunk, session domain.SessionState) bool {
	select {
	case w.jobs <- job{chunk: chunk, session: session}:
		return true
	default:
		log.Warn().
			Str("conn_id", chunk.ConnID.String()).
			Str("room_id", chunk.RoomID.String()).
			Msg("Chunk queue full, dropping chunk")
		return false
	}
}

// Stop cancels any in-flight engine call and waits for the run loop to exit.
// Queued chunks are discarded.
func (w *Worker) Stop() {
	w.cancel()
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case j := <-w.jobs:
			if err := w.pipeline.Process(w.ctx, j.chunk, j.session); err != nil {
				log.Error().
					Err(err).
					Str("conn_id", j.chunk.ConnID.String()).
					Str("room_id", j.chunk.RoomID.String()).
					Msg("Error processing audio chunk")
			}
		}
	}
}
