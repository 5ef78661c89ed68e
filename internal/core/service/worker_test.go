package service

import (
	"context"
	"testing"
	"time"

	"github.com/polyroom/polyroom/internal/adapter/driven/engine/stub"
	"github.com/polyroom/polyroom/internal/core/domain"
)

func TestWorkerProcessesSubmittedChunk(t *testing.T) {
	t.Parallel()

	broadcaster := &fakeBroadcaster{}
	pipeline := NewPipeline(stub.NewEngine(frStub()), broadcaster)
	worker := NewWorker(context.Background(), pipeline, 4)
	defer worker.Stop()

	chunk := domain.AudioChunk{ConnID: domain.NewConnID(), RoomID: "r1", Data: []byte("pcm")}
	if !worker.Submit(chunk, frSession()) {
		t.Fatal("submit rejected with empty queue")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(broadcaster.Events()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("worker never broadcast, got %d events", len(broadcaster.Events()))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWorkerDropsChunksBeyondQueueDepth(t *testing.T) {
	t.Parallel()

	cfg := frStub()
	cfg.Delay = 100 * time.Millisecond

	pipeline := NewPipeline(stub.NewEngine(cfg), &fakeBroadcaster{})
	worker := NewWorker(context.Background(), pipeline, 1)
	defer worker.Stop()

	chunk := domain.AudioChunk{ConnID: domain.NewConnID(), RoomID: "r1", Data: []byte("pcm")}
	session := frSession()

	ok1 := worker.Submit(chunk, session)
	ok2 := worker.Submit(chunk, session)
	ok3 := worker.Submit(chunk, session)

	if !ok1 {
		t.Fatal("first submit rejected")
	}
	// With a depth-one queue and a slow engine, three rapid submits cannot
	// all be accepted.
	if ok2 && ok3 {
		t.Fatal("queue accepted more chunks than its bound")
	}
}

func TestWorkerStopCancelsInflightRun(t *testing.T) {
	t.Parallel()

	cfg := frStub()
	cfg.Delay = 5 * time.Second

	broadcaster := &fakeBroadcaster{}
	pipeline := NewPipeline(stub.NewEngine(cfg), broadcaster)
	worker := NewWorker(context.Background(), pipeline, 1)

	chunk := domain.AudioChunk{ConnID: domain.NewConnID(), RoomID: "r1", Data: []byte("pcm")}
	worker.Submit(chunk, frSession())

	// Let the run loop pick the job up before stopping.
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	worker.Stop()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Stop blocked for %v on a cancelled engine call", elapsed)
	}
	if len(broadcaster.Events()) != 0 {
		t.Fatalf("cancelled run broadcast %d events", len(broadcaster.Events()))
	}
}

func TestWorkerKeepsPerSpeakerOrder(t *testing.T) {
	t.Parallel()

	cfg := &stub.Config{
		Transcription: "hello",
		Translations:  map[string]map[string]string{},
		Audio:         []byte{0x01},
		Delay:         10 * time.Millisecond,
	}

	broadcaster := &fakeBroadcaster{}
	pipeline := NewPipeline(stub.NewEngine(cfg), broadcaster)
	worker := NewWorker(context.Background(), pipeline, 8)
	defer worker.Stop()

	speaker := domain.NewConnID()
	langs := []string{"aa", "bb", "cc"}
	for _, lang := range langs {
		session := frSession()
		session.TargetLanguage = lang
		worker.Submit(domain.AudioChunk{ConnID: speaker, RoomID: "r1", Data: []byte("pcm")}, session)
	}

	deadline := time.Now().Add(5 * time.Second)
	for len(broadcaster.Events()) < 2*len(langs) {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d events, got %d", 2*len(langs), len(broadcaster.Events()))
		}
		time.Sleep(5 * time.Millisecond)
	}

	var texts []string
	for _, ev := range broadcaster.Events() {
		if subtitle, ok := ev.Data.(domain.SubtitlePayload); ok {
			texts = append(texts, subtitle.Text)
		}
	}
	for i, lang := range langs {
		want := "[" + lang + "] hello"
		if texts[i] != want {
			t.Fatalf("subtitle %d out of order: want %q, got %q (all: %v)", i, want, texts[i], texts)
		}
	}
}
