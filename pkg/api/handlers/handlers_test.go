package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePromptGenerator struct {
	prompt string
	err    error
}

func (g *fakePromptGenerator) GeneratePrompt(ctx context.Context, apiKey string) (string, error) {
	return g.prompt, g.err
}

func TestHandleGeneratePrompt(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		generator  *fakePromptGenerator
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "generates a prompt",
			body:       `{"apiKey": "sk-test"}`,
			generator:  &fakePromptGenerator{prompt: "ocean"},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"prompt": "ocean"},
		},
		{
			name:       "missing api key",
			body:       `{}`,
			generator:  &fakePromptGenerator{},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"error": "API key is required."},
		},
		{
			name:       "malformed body",
			body:       `not json`,
			generator:  &fakePromptGenerator{},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"error": "Invalid request body."},
		},
		{
			name:       "oracle failure",
			body:       `{"apiKey": "sk-test"}`,
			generator:  &fakePromptGenerator{err: assert.AnError},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"error": "Failed to generate prompt."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/generate-prompt", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			HandleGeneratePrompt(tt.generator)(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			got := map[string]string{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}
