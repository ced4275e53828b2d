// Package scanner walks a workspace, parses every supported source file
// and runs the analysis engines over each.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"

	"codeatlas/internal/graph"
	"codeatlas/internal/handler"
	"codeatlas/internal/parser"
)

// DefaultMaxFileBytes is the per-file size ceiling. Bounding traversal
// cost for pathological inputs is the scanner's job, not the engines'.
const DefaultMaxFileBytes = 1 << 20

// skipDirs are never descended into regardless of gitignore rules.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// FileResult is the analysis output for one source file.
type FileResult struct {
	Path    string
	RelPath string
	Graph   *graph.Graph
	Handler *handler.Descriptor // nil when the file declares no class
}

// Scanner discovers and analyzes source files under a root directory.
type Scanner struct {
	extractor    *graph.Extractor
	log          *slog.Logger
	maxFileBytes int64
}

// New creates a scanner. maxFileBytes <= 0 selects DefaultMaxFileBytes.
func New(extractor *graph.Extractor, logger *slog.Logger, maxFileBytes int64) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxFileBytes
	}
	return &Scanner{extractor: extractor, log: logger, maxFileBytes: maxFileBytes}
}

// Scan walks root and returns a result per analyzable file. Individual
// file failures are logged and skipped; only walk-level errors abort.
func (s *Scanner) Scan(ctx context.Context, root string) ([]FileResult, error) {
	ignore := loadGitignore(root)

	var results []FileResult
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if ignore != nil && rel != "." && ignore.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if ignore != nil && ignore.MatchesPath(rel) {
			return nil
		}

		p, ok := parser.ForFile(path)
		if !ok {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr == nil && info.Size() > s.maxFileBytes {
			s.log.Debug("skipping oversized file", "file", rel, "bytes", info.Size())
			return nil
		}

		result, fileErr := s.analyzeFile(p, path, rel)
		if fileErr != nil {
			s.log.Warn("failed to analyze file", "file", rel, "error", fileErr)
			return nil
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	s.log.Info("scan complete", "root", root, "files", len(results))
	return results, nil
}

// AnalyzeFile analyzes a single file outside a workspace walk.
func (s *Scanner) AnalyzeFile(path string) (FileResult, error) {
	p, ok := parser.ForFile(path)
	if !ok {
		return FileResult{}, fmt.Errorf("unsupported file type: %s", path)
	}
	return s.analyzeFile(p, path, filepath.Base(path))
}

func (s *Scanner) analyzeFile(p *parser.Parser, path, rel string) (FileResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, err
	}

	tree, err := p.Parse(source)
	if err != nil {
		return FileResult{}, err
	}

	return FileResult{
		Path:    path,
		RelPath: filepath.ToSlash(rel),
		Graph:   s.extractor.Analyze(tree),
		Handler: handler.Analyze(tree),
	}, nil
}

// loadGitignore compiles the root .gitignore if one exists.
func loadGitignore(root string) *gitignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	ig, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return ig
}
