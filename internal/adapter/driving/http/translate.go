package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	AudioData      []byte `json:"audioData"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Translate is the stateless request/response translation endpoint. It
// shares the engine with the pipeline but touches no room or session state.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" || req.TargetLanguage == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "Missing required parameters: text and targetLanguage",
		})
		return
	}

	ctx := r.Context()

	translated, err := h.Engine.Translate(ctx, req.Text, req.TargetLanguage, h.Config.TranslationModel)
	if err != nil {
		log.Error().Err(err).Msg("Error in translation route")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	audio, err := h.Engine.Synthesize(ctx, translated)
	if err != nil {
		log.Error().Err(err).Msg("Error in translation route")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		TranslatedText: translated,
		AudioData:      audio,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error writing response")
	}
}
