package models

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"reflect"
	"testing"

	"codeberg.org/snonux/nbtranslate/internal/testutil"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "")

	err := lister.ListAvailableModels(context.Background(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .nbtranslate.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestListAvailableModels_MockServer(t *testing.T) {
	server := testutil.NewMockChatServer(t, func(string) (string, int) { return "", http.StatusOK })
	lister := NewLister("test-key", server.URL)

	models, err := lister.ChatModels(context.Background())
	if err != nil {
		t.Fatalf("ChatModels failed: %v", err)
	}
	if !reflect.DeepEqual(models, []string{"gpt-4o", "gpt-4o-mini"}) {
		t.Errorf("ChatModels() = %v", models)
	}

	var buf bytes.Buffer
	if err := lister.ListAvailableModels(context.Background(), &buf); err != nil {
		t.Fatalf("ListAvailableModels failed: %v", err)
	}
	want := "Chat models available for translation:\n  gpt-4o\n  gpt-4o-mini\n"
	if buf.String() != want {
		t.Errorf("Output = %q, want %q", buf.String(), want)
	}
}

func TestIsChatModel(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"gpt-4o-mini", true},
		{"o3-mini", true},
		{"gpt-4o-mini-tts", false},
		{"tts-1", false},
		{"dall-e-3", false},
		{"text-embedding-3-small", false},
		{"gpt-4o-realtime-preview", false},
		{"whisper-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := isChatModel(tt.id); got != tt.want {
				t.Errorf("isChatModel(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	lister := NewLister(apiKey, "")
	if err := lister.ListAvailableModels(context.Background(), os.Stdout); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}
