// Package resume reads the candidate's resume and keeps its expensive
// analysis cached until the file content changes.
package resume

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jobhuntd/leads/internal/ai"
	"github.com/jobhuntd/leads/internal/cache"
)

// ReadFile returns the plain text of the resume. Plain-text formats only;
// binary document formats need to be exported to text first.
func ReadFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
	default:
		return "", fmt.Errorf("unsupported resume format %q (use .txt or .md)", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume %q: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("resume %q is empty", path)
	}

	return text, nil
}

// Analyze returns the structured profile for the resume at path, reusing the
// cached analysis while the file's size, mtime and content hash all still
// match. A changed or unverifiable file forces re-analysis.
func Analyze(ctx context.Context, path string, analyzer ai.Analyzer, store *cache.ResumeStore, logger *zap.Logger) (*ai.ResumeAnalysis, error) {
	entries := store.Load()

	if analysis, ok := store.Lookup(path, entries); ok {
		logger.Info("using cached resume analysis",
			zap.String("path", path),
			zap.Int("skills", len(analysis.Skills)),
		)
		return analysis, nil
	}

	text, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	logger.Info("analyzing resume",
		zap.String("path", path),
		zap.Int("length", len(text)),
	)

	analysis, err := analyzer.AnalyzeResume(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze resume: %w", err)
	}

	store.Put(path, analysis, entries)
	if err := store.Save(entries); err != nil {
		logger.Warn("saving resume analysis cache failed", zap.Error(err))
	}

	return analysis, nil
}
