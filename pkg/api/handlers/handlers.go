package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/wordlink/pkg/log"
)

// PromptGenerator seeds a starting prompt for the session.
type PromptGenerator interface {
	GeneratePrompt(ctx context.Context, apiKey string) (string, error)
}

type generatePromptRequest struct {
	APIKey string `json:"apiKey"`
}

type generatePromptResponse struct {
	Prompt string `json:"prompt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleGeneratePrompt seeds a starting prompt using the caller's API key
// and returns it.
func HandleGeneratePrompt(generator PromptGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &generatePromptRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		if req.APIKey == "" {
			writeJSONError(w, http.StatusBadRequest, "API key is required.")
			return
		}

		prompt, err := generator.GeneratePrompt(r.Context(), req.APIKey)
		if err != nil {
			log.Error("Failed to generate prompt: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to generate prompt.")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(&generatePromptResponse{Prompt: prompt}); err != nil {
			log.Error("Failed to encode prompt response: %v", err)
		}
	}
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(&errorResponse{Error: message}); err != nil {
		log.Error("Failed to encode error response: %v", err)
	}
}
