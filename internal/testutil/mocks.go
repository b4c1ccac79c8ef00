package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MockTranslator mocks a translation provider
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error

	// Transform computes the translation of text not found in Translations.
	// When nil the text is returned with a " (translated)" suffix.
	Transform func(text string) string

	mu    sync.Mutex
	Calls []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	if m.Transform != nil {
		return m.Transform(text), nil
	}

	// Default mock translation
	return text + " (translated)", nil
}

// Name returns the provider name
func (m *MockTranslator) Name() string {
	return "mock"
}

// CallCount returns how many times Translate was called
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// NewMockChatServer starts an OpenAI-compatible chat completions endpoint
// that answers every request with reply(userMessage). The server is closed
// when the test ends.
func NewMockChatServer(t *testing.T, reply func(prompt string) (string, int)) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		prompt, err := lastUserMessage(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		content, status := reply(prompt)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"error":{"message":%s,"type":"mock_error"}}`, jsonString(content))
			return
		}

		fmt.Fprintf(w, `{"id":"chatcmpl-mock","object":"chat.completion","created":0,"model":"mock","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`, jsonString(content))
	})
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","data":[{"id":"gpt-4o-mini","object":"model"},{"id":"tts-1","object":"model"},{"id":"gpt-4o","object":"model"}]}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// NewMockGeminiServer starts a Gemini generateContent endpoint that answers
// with reply(model, userText). The server is closed when the test ends.
func NewMockGeminiServer(t *testing.T, reply func(model, prompt string) (string, int)) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, found := strings.CutSuffix(r.URL.Path, ":generateContent")
		if !found {
			http.NotFound(w, r)
			return
		}
		model := path[strings.LastIndex(path, "/")+1:]

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.SystemInstruction == nil || len(req.SystemInstruction.Parts) == 0 {
			http.Error(w, "missing system instruction", http.StatusBadRequest)
			return
		}

		var prompt string
		if n := len(req.Contents); n > 0 && len(req.Contents[n-1].Parts) > 0 {
			prompt = req.Contents[n-1].Parts[0].Text
		}

		content, status := reply(model, prompt)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"error":{"code":%d,"message":%s,"status":"UNAVAILABLE"}}`, status, jsonString(content))
			return
		}

		fmt.Fprintf(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":%s}]},"finishReason":"STOP","index":0}]}`, jsonString(content))
	}))
	t.Cleanup(server.Close)
	return server
}

type geminiContent struct {
	Role  string `json:"role"`
	Parts []struct {
		Text string `json:"text"`
	} `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction"`
}

type chatRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// lastUserMessage extracts the final user message of a chat request
func lastUserMessage(r *http.Request) (string, error) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content, nil
		}
	}
	return "", fmt.Errorf("no user message")
}

// jsonString quotes s as a JSON string literal
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
