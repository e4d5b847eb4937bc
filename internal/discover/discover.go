// Package discover walks a repository tree and collects candidate source files.
package discover

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeusData/repo-graph-ingest/internal/lang"
)

// DefaultIgnoreDirs are directory names skipped during discovery:
// version-control metadata, virtual environments, dependency and build caches.
var DefaultIgnoreDirs = map[string]bool{
	".git": true, "__pycache__": true, "venv": true, "env": true,
	".venv": true, "node_modules": true,
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to repo root, slash-separated
	Language lang.Language // detected language
}

// Options configures file discovery. Zero value means: default ignore set,
// extensions from the language registry.
type Options struct {
	IgnoreDirs map[string]bool
	Extensions map[string]bool
}

func (o *Options) ignoreDirs() map[string]bool {
	if o != nil && o.IgnoreDirs != nil {
		return o.IgnoreDirs
	}
	return DefaultIgnoreDirs
}

func (o *Options) includeExt(ext string) bool {
	if o != nil && o.Extensions != nil {
		return o.Extensions[ext]
	}
	_, ok := lang.LanguageForExtension(ext)
	return ok
}

// Discover walks a repository and returns all source files in traversal
// order. Hidden directories and those in the ignore set are pruned whole.
func Discover(ctx context.Context, repoPath string, opts *Options) ([]FileInfo, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ignore := opts.ignoreDirs()
	var files []FileInfo

	err = filepath.Walk(repoPath, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			return filepath.SkipDir
		}

		if info.IsDir() {
			name := info.Name()
			if path != repoPath && (strings.HasPrefix(name, ".") || ignore[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if !opts.includeExt(ext) {
			return nil
		}
		l, ok := lang.LanguageForExtension(ext)
		if !ok {
			return nil
		}

		rel, _ := filepath.Rel(repoPath, path)
		files = append(files, FileInfo{
			Path:     path,
			RelPath:  filepath.ToSlash(rel),
			Language: l,
		})
		return nil
	})

	return files, err
}
