package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/nbtranslate/internal"
	"codeberg.org/snonux/nbtranslate/internal/archive"
	"codeberg.org/snonux/nbtranslate/internal/batch"
	"codeberg.org/snonux/nbtranslate/internal/cli"
	"codeberg.org/snonux/nbtranslate/internal/docstring"
	"codeberg.org/snonux/nbtranslate/internal/logger"
	"codeberg.org/snonux/nbtranslate/internal/notebook"
	"codeberg.org/snonux/nbtranslate/internal/translation"
)

// breakerCooldown is how long an open circuit waits before probing again
const breakerCooldown = 30 * time.Second

// Processor handles reading, translating and writing notebooks
type Processor struct {
	flags      *cli.Flags
	translator translation.Translator
	matcher    docstring.Matcher
	closers    []io.Closer
	out        io.Writer
}

// NewProcessor creates a processor with the provider chain described by flags
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	config := TranslationConfig(flags)

	base, err := translation.NewTranslator(config)
	if err != nil {
		return nil, err
	}

	p := NewProcessorWithTranslator(flags, base)
	p.translator = p.decorate(base, config)
	return p, nil
}

// NewProcessorWithTranslator creates a processor around an existing
// translator without adding cache, rate limiting or circuit breaking.
func NewProcessorWithTranslator(flags *cli.Flags, translator translation.Translator) *Processor {
	var matcher docstring.Matcher = docstring.TripleQuote
	if flags.Marker != "" && flags.Marker != docstring.TripleQuote.Marker() {
		matcher = docstring.NewMarkerMatcher(flags.Marker)
	}

	return &Processor{
		flags:      flags,
		translator: translator,
		matcher:    matcher,
		out:        os.Stdout,
	}
}

// TranslationConfig builds the provider configuration from flags
func TranslationConfig(flags *cli.Flags) *translation.Config {
	provider := flags.Provider
	if flags.DryRun {
		provider = "identity"
	}

	return &translation.Config{
		Provider:    provider,
		APIKey:      cli.GetAPIKey(provider),
		BaseURL:     flags.BaseURL,
		Model:       flags.Model,
		Language:    flags.Language,
		Temperature: float32(flags.Temperature),
		Timeout:     flags.Timeout,
		Prompt:      flags.Prompt,
	}
}

// decorate wraps the provider with breaker, rate limiter and cache, the
// cache outermost so that hits cost neither tokens nor rate budget.
func (p *Processor) decorate(base translation.Translator, config *translation.Config) translation.Translator {
	if p.flags.DryRun {
		return base
	}

	tr := base
	if p.flags.BreakerFailures > 0 {
		tr = translation.NewBreakerTranslator(tr, uint32(p.flags.BreakerFailures), breakerCooldown)
	}
	if p.flags.RPS > 0 {
		tr = translation.NewRateLimitedTranslator(tr, p.flags.RPS)
	}

	if p.flags.NoCache {
		return tr
	}

	var cache translation.Cache = translation.NewTranslationCache()
	if p.flags.CachePath != "" {
		sqliteCache, err := translation.OpenSQLiteCache(p.flags.CachePath)
		if err != nil {
			logger.Warn("persistent cache disabled: %v", err)
		} else {
			cache = sqliteCache
			p.closers = append(p.closers, sqliteCache)
			if n, err := sqliteCache.Len(); err == nil {
				logger.Debug("using translation cache %s (%d entries)", p.flags.CachePath, n)
			}
		}
	}

	namespace := strings.Join([]string{base.Name(), config.Language, config.SystemPrompt()}, "\x00")
	return translation.NewCachedTranslator(tr, cache, namespace)
}

// Close releases the translation cache
func (p *Processor) Close() error {
	var firstErr error
	for _, c := range p.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.closers = nil
	return firstErr
}

// DefaultOutputPath returns <dir>/<name>.<lang>.ipynb for input
func DefaultOutputPath(input, language string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".ipynb"
	}
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s.%s%s", stem, internal.SanitizeFilename(language), ext)
}

// ProcessNotebook translates input and writes the result to output. Nothing
// is written unless every cell was translated.
func (p *Processor) ProcessNotebook(ctx context.Context, input, output string) error {
	if output == "" {
		output = DefaultOutputPath(input, p.flags.Language)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read notebook: %w", err)
	}

	doc, err := notebook.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	logger.Info("translating %s (%d cells) to %s with %s", input, doc.Len(), p.flags.Language, p.translator.Name())

	dispatcher := notebook.NewDispatcher(p.translator, p.matcher)
	walker := notebook.NewWalker(dispatcher, func(progress notebook.Progress) {
		fmt.Fprintln(p.out, progress.String())
	})

	if err := walker.Run(ctx, doc); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	result, err := doc.Marshal(strings.Repeat(" ", max(p.flags.Indent, 0)))
	if err != nil {
		return err
	}

	if p.flags.Backup {
		archived, err := archive.BackupFile(output)
		if err != nil {
			return err
		}
		if archived != "" {
			fmt.Fprintf(p.out, "Previous output archived to: %s\n", archived)
		}
	}

	if err := writeFileAtomic(output, result); err != nil {
		return fmt.Errorf("failed to write notebook: %w", err)
	}

	fmt.Fprintf(p.out, "Translated notebook saved to: %s\n", output)
	return nil
}

// ProcessBatch translates every notebook listed in the batch file. Each
// notebook is all-or-nothing on its own; a failing notebook is reported and
// the batch moves on.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	// Relative paths in the batch file are relative to the file itself
	baseDir := filepath.Dir(p.flags.BatchFile)

	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		input := resolvePath(baseDir, entry.Input)
		output := ""
		if entry.Output != "" {
			output = resolvePath(baseDir, entry.Output)
		}

		fmt.Fprintf(p.out, "\nTranslating %d/%d: %s\n", i+1, len(entries), entry.Input)

		if err := p.ProcessNotebook(ctx, input, output); err != nil {
			fmt.Fprintf(os.Stderr, "Error translating '%s': %v\n", entry.Input, err)
			errorCount++
			if ctx.Err() != nil {
				break
			}
			// Continue with next notebook
		} else {
			processedCount++
		}
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Translation Summary ===\n")
	fmt.Fprintf(p.out, "Total notebooks: %d\n", len(entries))
	fmt.Fprintf(p.out, "Translated: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "=================================\n")

	if errorCount > 0 {
		return fmt.Errorf("%d of %d notebooks failed", errorCount, len(entries))
	}
	return nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
