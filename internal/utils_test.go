package internal

import "testing"

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"truncated", "hello world, again", 10, "hello worl"},
		{"newlines collapsed", "a\nb\nc", 10, "a b c"},
		{"multibyte", "Привет, как дела?", 6, "Привет"},
		{"cjk", "你好世界你好世界你好世界", 10, "你好世界你好世界你好"},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.text, tt.n); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"zh", "zh"},
		{"pt-BR", "pt-BR"},
		{"zh/TW", "zh_TW"},
		{"../etc", "___etc"},
		{"日本語", "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
