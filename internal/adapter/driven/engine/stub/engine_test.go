package stub

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestTranslateUsesDictionary(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	ctx := context.Background()

	got, err := engine.Translate(ctx, "Hello world.", "es", "gemini-pro")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Hola mundo." {
		t.Errorf("expected 'Hola mundo.', got %q", got)
	}
}

func TestTranslateUnknownFallsBackToPrefix(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)

	got, err := engine.Translate(context.Background(), "Unknown text.", "de", "gemini-pro")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "[de] Unknown text." {
		t.Errorf("expected '[de] Unknown text.', got %q", got)
	}
}

func TestInjectedFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("injected")
	engine := NewEngine(&Config{
		Transcription: "hi",
		TranscribeErr: boom,
		TranslateErr:  boom,
		SynthesizeErr: boom,
	})
	ctx := context.Background()

	if _, err := engine.Transcribe(ctx, nil, "m"); !errors.Is(err, boom) {
		t.Errorf("Transcribe: expected injected error, got %v", err)
	}
	if _, err := engine.Translate(ctx, "hi", "es", "m"); !errors.Is(err, boom) {
		t.Errorf("Translate: expected injected error, got %v", err)
	}
	if _, err := engine.Synthesize(ctx, "hi"); !errors.Is(err, boom) {
		t.Errorf("Synthesize: expected injected error, got %v", err)
	}
}

func TestSynthesizeReturnsCopy(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&Config{Audio: []byte{0x01, 0x02}})

	audio, err := engine.Synthesize(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	audio[0] = 0xFF

	again, _ := engine.Synthesize(context.Background(), "hi")
	if !bytes.Equal(again, []byte{0x01, 0x02}) {
		t.Fatal("Synthesize shares its backing array with callers")
	}
}

func TestDelayHonoursContext(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&Config{Transcription: "hi", Delay: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Transcribe(ctx, nil, "m"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
