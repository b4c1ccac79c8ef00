package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// NotebookJSON builds a minimal nbformat 4 notebook around the given cells.
// Each cell is a raw JSON object.
func NotebookJSON(cells ...string) []byte {
	var b bytes.Buffer
	b.WriteString(`{"cells":[`)
	b.WriteString(strings.Join(cells, ","))
	b.WriteString(`],"metadata":{"kernelspec":{"display_name":"Python 3","language":"python","name":"python3"}},"nbformat":4,"nbformat_minor":5}`)
	return b.Bytes()
}

// MarkdownCell returns a markdown cell whose source is the JSON value source
func MarkdownCell(source string) string {
	return `{"cell_type":"markdown","metadata":{},"source":` + source + `}`
}

// CodeCell returns a code cell whose source is the JSON value source
func CodeCell(source string) string {
	return `{"cell_type":"code","execution_count":1,"metadata":{"tags":["keep"]},"outputs":[{"name":"stdout","output_type":"stream","text":["ok\n"]}],"source":` + source + `}`
}

// RawCell returns a raw cell whose source is the JSON value source
func RawCell(source string) string {
	return `{"cell_type":"raw","metadata":{},"source":` + source + `}`
}

// CreateTestNotebook writes a notebook with the given cells into dir
func CreateTestNotebook(t *testing.T, dir, name string, cells ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	CreateTestFile(t, path, NotebookJSON(cells...))
	return path
}

// ReadNotebookCells decodes the cells of a notebook file
func ReadNotebookCells(t *testing.T, path string) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read notebook %s: %v", path, err)
	}

	var nb struct {
		Cells []map[string]any `json:"cells"`
	}
	if err := json.Unmarshal(data, &nb); err != nil {
		t.Fatalf("Failed to decode notebook %s: %v", path, err)
	}
	return nb.Cells
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContent checks if a file has expected content
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("File content mismatch in %s\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// CaptureOutput captures stdout/stderr during test execution
func CaptureOutput(t *testing.T, f func()) (stdout, stderr string) {
	t.Helper()

	// Save current stdout/stderr
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	// Drain both pipes while f runs so large output cannot block it
	outCh := make(chan string)
	errCh := make(chan string)
	go func() {
		b, _ := io.ReadAll(rOut)
		outCh <- string(b)
	}()
	go func() {
		b, _ := io.ReadAll(rErr)
		errCh <- string(b)
	}()

	defer func() {
		os.Stdout = oldStdout
		os.Stderr = oldStderr
	}()

	f()

	wOut.Close()
	wErr.Close()

	return <-outCh, <-errCh
}
