package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/polyroom/polyroom/internal/adapter/driven/engine/stub"
	"github.com/polyroom/polyroom/internal/config"
	"github.com/polyroom/polyroom/internal/core/service"
)

func newTranslateHandler(engineCfg *stub.Config) *Handler {
	hub := service.NewHub()
	engine := stub.NewEngine(engineCfg)
	return NewHandler(hub, service.NewPipeline(engine, hub), engine, &config.Config{
		TranscriptionModel: "gemini-pro",
		TranslationModel:   "gemini-pro",
		ChunkQueueDepth:    4,
	})
}

func postTranslate(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/translate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Translate(rec, req)
	return rec
}

func TestTranslateMissingFields(t *testing.T) {
	t.Parallel()

	h := newTranslateHandler(nil)

	for _, body := range []string{`{}`, `{"text":"hi"}`, `{"targetLanguage":"fr"}`} {
		rec := postTranslate(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("body %s: invalid error body: %v", body, err)
		}
		if resp.Error == "" {
			t.Fatalf("body %s: missing error field", body)
		}
	}
}

func TestTranslateSuccess(t *testing.T) {
	t.Parallel()

	h := newTranslateHandler(&stub.Config{
		Translations: map[string]map[string]string{
			"fr": {"hello": "bonjour"},
		},
		Audio: []byte{0x01, 0x02},
	})

	// Through the router, so the route itself is covered too.
	srv := httptest.NewServer(h.NewRouter())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/translate", "application/json",
		strings.NewReader(`{"text":"hello","targetLanguage":"fr"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.TranslatedText != "bonjour" {
		t.Errorf("expected 'bonjour', got %q", body.TranslatedText)
	}
	if len(body.AudioData) != 2 || body.AudioData[0] != 0x01 || body.AudioData[1] != 0x02 {
		t.Errorf("unexpected audio data %v", body.AudioData)
	}
}

func TestTranslateEngineFailure(t *testing.T) {
	t.Parallel()

	h := newTranslateHandler(&stub.Config{TranslateErr: errors.New("engine down")})

	rec := postTranslate(t, h, `{"text":"hello","targetLanguage":"fr"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Error != "Internal server error" {
		t.Errorf("unexpected error body %q", resp.Error)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newTranslateHandler(nil)
	srv := httptest.NewServer(h.NewRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
