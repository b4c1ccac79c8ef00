package batch

import (
	"fmt"
	"os"
	"strings"
)

// Entry is one notebook to translate
type Entry struct {
	Input string
	// Output is empty when the default output path should be used
	Output string
}

// ReadBatchFile reads notebook paths from a file and returns Entry slice
// Supports formats:
// - Input only: "lesson.ipynb" (output path derived from the language)
// - With output: "lesson.ipynb = out/lesson.de.ipynb"
// Blank lines and lines starting with '#' are ignored.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []Entry

	for n, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		input, output, found := strings.Cut(line, "=")
		if !found {
			entries = append(entries, Entry{Input: line})
			continue
		}

		input = strings.TrimSpace(input)
		output = strings.TrimSpace(output)
		if input == "" {
			return nil, fmt.Errorf("batch file line %d: missing input notebook", n+1)
		}
		entries = append(entries, Entry{Input: input, Output: output})
	}

	return entries, nil
}

// splitLines splits a string by newlines, dropping carriage returns
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
