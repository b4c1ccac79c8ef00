package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
		wantErr     bool
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "inputs only",
			fileContent: `intro.ipynb
chapter1/lesson.ipynb`,
			want: []Entry{
				{Input: "intro.ipynb"},
				{Input: "chapter1/lesson.ipynb"},
			},
		},
		{
			name: "mixed format",
			fileContent: `intro.ipynb = out/intro.de.ipynb
lesson.ipynb
  setup.ipynb   =   setup-de.ipynb  `,
			want: []Entry{
				{Input: "intro.ipynb", Output: "out/intro.de.ipynb"},
				{Input: "lesson.ipynb"},
				{Input: "setup.ipynb", Output: "setup-de.ipynb"},
			},
		},
		{
			name: "comments and blank lines",
			fileContent: `# course notebooks

intro.ipynb
   # indented comment
lesson.ipynb
`,
			want: []Entry{
				{Input: "intro.ipynb"},
				{Input: "lesson.ipynb"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "a.ipynb\r\nb.ipynb = c.ipynb\r\n",
			want: []Entry{
				{Input: "a.ipynb"},
				{Input: "b.ipynb", Output: "c.ipynb"},
			},
		},
		{
			name:        "empty output uses default",
			fileContent: "a.ipynb =",
			want: []Entry{
				{Input: "a.ipynb"},
			},
		},
		{
			name:        "missing input",
			fileContent: "= out.ipynb",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp file
			tmpFile := filepath.Join(t.TempDir(), "batch.txt")
			if err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadBatchFile(tmpFile)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadBatchFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	_, err := ReadBatchFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"unix line endings", "line1\nline2\nline3", []string{"line1", "line2", "line3"}},
		{"windows line endings", "line1\r\nline2\r\nline3", []string{"line1", "line2", "line3"}},
		{"empty string", "", nil},
		{"single line no ending", "single line", []string{"single line"}},
		{"trailing newline", "line1\nline2\n", []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines() = %v, want %v", got, tt.want)
			}
		})
	}
}
